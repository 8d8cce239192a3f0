package storefront

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixbroin/wecanfix-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_USERS = "users"
	COLLECTION_NAME_CARTS = "carts"
)

type StorefrontDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewStorefrontDBService(configs db.DBConfig) (*StorefrontDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	sfDBSc := &StorefrontDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := sfDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for storefront DB", slog.String("error", err.Error()))
		}
	}

	return sfDBSc, nil
}

func (dbService *StorefrontDBService) getDBName() string {
	return dbService.DBNamePrefix + "storefrontDB"
}

func (dbService *StorefrontDBService) collectionUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_USERS)
}

func (dbService *StorefrontDBService) collectionCarts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_CARTS)
}

func (dbService *StorefrontDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *StorefrontDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for storefront DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionUsers().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "createdAt", Value: 1},
				},
			},
		},
	)
	if err != nil {
		return err
	}

	_, err = dbService.collectionCarts().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	)
	return err
}
