package marketing

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

// settings document keys
const (
	SETTINGS_DOC_KEY_AUTOMATION = "automation"
	SETTINGS_DOC_KEY_TRANSPORT  = "transport"
)

type automationSettingsDoc struct {
	DocKey   string                   `bson:"docKey"`
	Settings types.AutomationSettings `bson:"settings"`
}

type transportSettingsDoc struct {
	DocKey   string                  `bson:"docKey"`
	Settings types.TransportSettings `bson:"settings"`
}

// GetAutomationSettings returns mongo.ErrNoDocuments when the singleton
// document has not been created yet.
func (dbService *MarketingDBService) GetAutomationSettings() (*types.AutomationSettings, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var doc automationSettingsDoc
	err := dbService.collectionSettings().FindOne(ctx, bson.M{"docKey": SETTINGS_DOC_KEY_AUTOMATION}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc.Settings, nil
}

func (dbService *MarketingDBService) GetTransportSettings() (*types.TransportSettings, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var doc transportSettingsDoc
	err := dbService.collectionSettings().FindOne(ctx, bson.M{"docKey": SETTINGS_DOC_KEY_TRANSPORT}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc.Settings, nil
}
