package marketing

import (
	"time"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

type Campaign string

const (
	CampaignInactivityReminder  Campaign = "inactivity-reminder"
	CampaignCartReminder        Campaign = "cart-reminder"
	CampaignRecurringEngagement Campaign = "recurring-engagement"
)

// Verdict is the per-user, per-campaign outcome of the eligibility check.
type Verdict int

const (
	VerdictIneligible Verdict = iota
	VerdictEligible
	VerdictAlreadySent
)

// InactivityReminderVerdict targets users that signed up but never booked.
// The reminder fires once the configured delay after signup has elapsed.
func InactivityReminderVerdict(user types.User, settings types.CampaignSettings, now time.Time) Verdict {
	if user.Marketing.BookingReminderSent {
		return VerdictAlreadySent
	}
	if user.CreatedAt <= 0 || user.HasBooking {
		return VerdictIneligible
	}
	delay := settings.Delay.Duration()
	if delay <= 0 {
		return VerdictIneligible
	}
	if now.Sub(time.Unix(user.CreatedAt, 0)) > delay {
		return VerdictEligible
	}
	return VerdictIneligible
}

// CartReminderVerdict targets users whose cart has been untouched for the
// configured delay. A missing or empty cart is never eligible.
func CartReminderVerdict(user types.User, cart *types.Cart, settings types.CampaignSettings, now time.Time) Verdict {
	if user.Marketing.CartReminderSent {
		return VerdictAlreadySent
	}
	if cart == nil || len(cart.Items) == 0 || cart.UpdatedAt <= 0 {
		return VerdictIneligible
	}
	delay := settings.Delay.Duration()
	if delay <= 0 {
		return VerdictIneligible
	}
	if now.Sub(time.Unix(cart.UpdatedAt, 0)) > delay {
		return VerdictEligible
	}
	return VerdictIneligible
}

// RecurringEngagementVerdict fires repeatedly, at most once per interval. An
// unset lastRecurringSent counts as epoch zero, so the first send only has to
// pass the signup-age gate.
func RecurringEngagementVerdict(user types.User, settings types.CampaignSettings, now time.Time) Verdict {
	interval := settings.RepeatInterval.Duration()
	if interval <= 0 || user.CreatedAt <= 0 {
		return VerdictIneligible
	}
	if now.Sub(time.Unix(user.CreatedAt, 0)) <= interval {
		return VerdictIneligible
	}
	if now.Sub(time.Unix(user.Marketing.LastRecurringSent, 0)) > interval {
		return VerdictEligible
	}
	return VerdictAlreadySent
}
