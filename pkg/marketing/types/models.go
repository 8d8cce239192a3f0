package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MarketingStatus is the per-user idempotency ledger for the automation
// engine. The engine only ever sets flags or advances the timestamp, it never
// resets them.
type MarketingStatus struct {
	BookingReminderSent bool  `bson:"bookingReminderSent" json:"bookingReminderSent"`
	CartReminderSent    bool  `bson:"cartReminderSent" json:"cartReminderSent"`
	LastRecurringSent   int64 `bson:"lastRecurringSent,omitempty" json:"lastRecurringSent,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	MobileNumber string             `bson:"mobileNumber,omitempty" json:"mobileNumber,omitempty"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"` // unix timestamp
	HasBooking   bool               `bson:"hasBooking" json:"hasBooking"`
	Marketing    MarketingStatus    `bson:"marketing" json:"marketing"`
}

type CartItem struct {
	ServiceID string `bson:"serviceId" json:"serviceId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Cart is keyed by user id; absence of a document means "no cart".
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt int64              `bson:"updatedAt" json:"updatedAt"`
}

type CatalogItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug          string             `bson:"slug" json:"slug"`
	Name          string             `bson:"name" json:"name"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	SubCategoryID string             `bson:"subCategoryId" json:"subCategoryId"`
}

type SubCategory struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	ParentID string             `bson:"parentId" json:"parentId"`
}

type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug  string             `bson:"slug" json:"slug"`
	Name  string             `bson:"name" json:"name"`
	Order int                `bson:"order" json:"order"`
}

// SentEmail is the audit record written after each successful dispatch.
type SentEmail struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   string             `bson:"userId" json:"userId"`
	To       string             `bson:"to" json:"to"`
	Campaign string             `bson:"campaign" json:"campaign"`
	Subject  string             `bson:"subject" json:"subject"`
	SentAt   int64              `bson:"sentAt" json:"sentAt"`
}
