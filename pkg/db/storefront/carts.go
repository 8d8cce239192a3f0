package storefront

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

// GetCartByUserID returns nil without error when the user has no cart.
func (dbService *StorefrontDBService) GetCartByUserID(userID string) (*types.Cart, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var cart types.Cart
	err := dbService.collectionCarts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}
