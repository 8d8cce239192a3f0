package storefront

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

func (dbService *StorefrontDBService) GetUserByID(userID string) (user types.User, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return user, err
	}
	err = dbService.collectionUsers().FindOne(ctx, bson.M{"_id": _id}).Decode(&user)
	return user, err
}

// FindAndExecuteOnUsers iterates over the full user collection with a cursor
// and calls fn for every user. Errors returned by fn are logged and the scan
// continues with the next user.
func (dbService *StorefrontDBService) FindAndExecuteOnUsers(
	ctx context.Context,
	fn func(user types.User) error,
) error {
	cursor, err := dbService.collectionUsers().Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user types.User
		if err = cursor.Decode(&user); err != nil {
			return err
		}
		if err = fn(user); err != nil {
			slog.Error("Error executing function on user", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
			continue
		}
	}
	return cursor.Err()
}

func (dbService *StorefrontDBService) MarkBookingReminderSent(userID string) error {
	return dbService.updateMarketingStatus(userID, bson.M{
		"$set": bson.M{"marketing.bookingReminderSent": true},
	})
}

func (dbService *StorefrontDBService) MarkCartReminderSent(userID string) error {
	return dbService.updateMarketingStatus(userID, bson.M{
		"$set": bson.M{"marketing.cartReminderSent": true},
	})
}

// UpdateLastRecurringSent uses $max so the timestamp can only move forward.
func (dbService *StorefrontDBService) UpdateLastRecurringSent(userID string, sentAt int64) error {
	return dbService.updateMarketingStatus(userID, bson.M{
		"$max": bson.M{"marketing.lastRecurringSent": sentAt},
	})
}

func (dbService *StorefrontDBService) updateMarketingStatus(userID string, update bson.M) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": _id}, update)
	return err
}
