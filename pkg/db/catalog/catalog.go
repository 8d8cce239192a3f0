package catalog

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

func (dbService *CatalogDBService) GetActiveServices() ([]types.CatalogItem, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"isActive": true}

	cursor, err := dbService.collectionServices().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	services := []types.CatalogItem{}
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetCategories returns all categories sorted by their display order.
func (dbService *CatalogDBService) GetCategories() ([]types.Category, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.M{"order": 1})

	cursor, err := dbService.collectionCategories().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []types.Category{}
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (dbService *CatalogDBService) GetSubCategories() ([]types.SubCategory, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionSubCategories().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subCategories := []types.SubCategory{}
	if err = cursor.All(ctx, &subCategories); err != nil {
		return nil, err
	}
	return subCategories, nil
}
