package catalog

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
	COLLECTION_NAME_SERVICES       = "services"
	COLLECTION_NAME_SUB_CATEGORIES = "subCategories"
	COLLECTION_NAME_CATEGORIES     = "categories"
)

type CatalogDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewCatalogDBService(configs db.DBConfig) (*CatalogDBService, error) {
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

	catalogDBSc := &CatalogDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		if err := catalogDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for catalog DB", slog.String("error", err.Error()))
		}
	}

	return catalogDBSc, nil
}

func (dbService *CatalogDBService) getDBName() string {
	return dbService.DBNamePrefix + "catalogDB"
}

func (dbService *CatalogDBService) collectionServices() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SERVICES)
}

func (dbService *CatalogDBService) collectionSubCategories() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SUB_CATEGORIES)
}

func (dbService *CatalogDBService) collectionCategories() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_CATEGORIES)
}

func (dbService *CatalogDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *CatalogDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for catalog DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionServices().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "isActive", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "subCategoryId", Value: 1},
				},
			},
		},
	)
	if err != nil {
		return err
	}

	_, err = dbService.collectionSubCategories().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "parentId", Value: 1},
			},
		},
	)
	if err != nil {
		return err
	}

	_, err = dbService.collectionCategories().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "order", Value: 1},
			},
		},
	)
	return err
}
