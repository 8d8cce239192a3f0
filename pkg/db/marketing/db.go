package marketing

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
	COLLECTION_NAME_SETTINGS    = "settings"
	COLLECTION_NAME_SENT_EMAILS = "sent-emails"
	COLLECTION_NAME_RUN_LOCKS   = "run-locks"
)

type MarketingDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewMarketingDBService(configs db.DBConfig) (*MarketingDBService, error) {
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

	marketingDBSc := &MarketingDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := marketingDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for marketing DB", slog.String("error", err.Error()))
		}
	}

	return marketingDBSc, nil
}

func (dbService *MarketingDBService) getDBName() string {
	return dbService.DBNamePrefix + "marketingDB"
}

func (dbService *MarketingDBService) collectionSettings() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SETTINGS)
}

func (dbService *MarketingDBService) collectionSentEmails() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SENT_EMAILS)
}

func (dbService *MarketingDBService) collectionRunLocks() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_RUN_LOCKS)
}

func (dbService *MarketingDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *MarketingDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for marketing DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionSettings().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "docKey", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		return err
	}

	_, err = dbService.collectionSentEmails().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "campaign", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "sentAt", Value: 1},
				},
			},
		},
	)
	if err != nil {
		return err
	}

	_, err = dbService.collectionRunLocks().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "lockKey", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	)
	return err
}
