package marketing

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

func (dbService *MarketingDBService) AddToSentEmails(email types.SentEmail) (types.SentEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if email.SentAt <= 0 {
		email.SentAt = time.Now().Unix()
	}

	res, err := dbService.collectionSentEmails().InsertOne(ctx, email)
	if err != nil {
		return email, err
	}
	email.ID = res.InsertedID.(primitive.ObjectID)
	return email, nil
}
