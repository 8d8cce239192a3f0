package marketing

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RUN_LOCK_KEY_AUTOMATION = "marketing-automation"

// AcquireRunLock tries to take the automation run lease. It returns false when
// another run still holds a non-expired lease. A stale lease (slow or crashed
// run) is taken over once its expiry has passed.
func (dbService *MarketingDBService) AcquireRunLock(ttl time.Duration) (bool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now().Unix()
	filter := bson.M{
		"lockKey":   RUN_LOCK_KEY_AUTOMATION,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"acquiredAt": now,
			"expiresAt":  now + int64(ttl.Seconds()),
		},
		"$setOnInsert": bson.M{
			"lockKey": RUN_LOCK_KEY_AUTOMATION,
		},
	}

	opts := options.Update().SetUpsert(true)
	res, err := dbService.collectionRunLocks().UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// upsert raced against an active lease holder
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

func (dbService *MarketingDBService) ReleaseRunLock() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionRunLocks().DeleteOne(ctx, bson.M{"lockKey": RUN_LOCK_KEY_AUTOMATION})
	return err
}
