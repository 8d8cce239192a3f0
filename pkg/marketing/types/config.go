package types

import "time"

// Delay expresses an eligibility window in days, hours and minutes. A zero
// value means the owning campaign never becomes eligible.
type Delay struct {
	Days    int `bson:"days,omitempty" json:"days,omitempty" yaml:"days"`
	Hours   int `bson:"hours,omitempty" json:"hours,omitempty" yaml:"hours"`
	Minutes int `bson:"minutes,omitempty" json:"minutes,omitempty" yaml:"minutes"`
}

func (d Delay) Duration() time.Duration {
	return time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute
}

func (d Delay) IsZero() bool {
	return d.Days == 0 && d.Hours == 0 && d.Minutes == 0
}

type CampaignSettings struct {
	Enabled bool `bson:"enabled" json:"enabled"`

	// Delay is used by the inactivity and abandoned cart campaigns,
	// RepeatInterval by the recurring engagement campaign.
	Delay          Delay `bson:"delay,omitempty" json:"delay,omitempty"`
	RepeatInterval Delay `bson:"repeatInterval,omitempty" json:"repeatInterval,omitempty"`

	Subject         string `bson:"subject" json:"subject"`
	MessageTemplate string `bson:"messageTemplate" json:"messageTemplate"`

	// CategoryOverride pins the {{category_services}} block to a fixed
	// category instead of deriving one from the user's cart.
	CategoryOverride string `bson:"categoryOverride,omitempty" json:"categoryOverride,omitempty"`
}

// AutomationSettings is a singleton document, edited by the admin UI and
// read-only for the engine.
type AutomationSettings struct {
	InactivityReminder  CampaignSettings `bson:"inactivityReminder" json:"inactivityReminder"`
	CartReminder        CampaignSettings `bson:"cartReminder" json:"cartReminder"`
	RecurringEngagement CampaignSettings `bson:"recurringEngagement" json:"recurringEngagement"`
}

type SMTPSettings struct {
	Host     string `bson:"host" json:"host"`
	Port     int    `bson:"port" json:"port"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"password"`
}

// TransportSettings is a singleton document with sender identity, site
// branding and SMTP credentials.
type TransportSettings struct {
	WebsiteName    string `bson:"websiteName" json:"websiteName"`
	WebsiteURL     string `bson:"websiteUrl" json:"websiteUrl"`
	SupportEmail   string `bson:"supportEmail" json:"supportEmail"`
	CompanyAddress string `bson:"companyAddress" json:"companyAddress"`

	FromName    string `bson:"fromName" json:"fromName"`
	FromAddress string `bson:"fromAddress" json:"fromAddress"`

	SMTP SMTPSettings `bson:"smtp" json:"smtp"`
}
