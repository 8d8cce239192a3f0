package marketing

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

type fakeSettingsStore struct {
	automation *types.AutomationSettings
	transport  *types.TransportSettings
}

func (s *fakeSettingsStore) GetAutomationSettings() (*types.AutomationSettings, error) {
	if s.automation == nil {
		return nil, mongo.ErrNoDocuments
	}
	return s.automation, nil
}

func (s *fakeSettingsStore) GetTransportSettings() (*types.TransportSettings, error) {
	if s.transport == nil {
		return nil, mongo.ErrNoDocuments
	}
	return s.transport, nil
}

type fakeUserStore struct {
	users []types.User
	carts map[string]*types.Cart
}

func (s *fakeUserStore) FindAndExecuteOnUsers(ctx context.Context, fn func(user types.User) error) error {
	for i := range s.users {
		if err := fn(s.users[i]); err != nil {
			continue
		}
	}
	return nil
}

func (s *fakeUserStore) GetCartByUserID(userID string) (*types.Cart, error) {
	return s.carts[userID], nil
}

func (s *fakeUserStore) userByID(userID string) *types.User {
	for i := range s.users {
		if s.users[i].ID.Hex() == userID {
			return &s.users[i]
		}
	}
	return nil
}

func (s *fakeUserStore) MarkBookingReminderSent(userID string) error {
	user := s.userByID(userID)
	if user == nil {
		return errors.New("user not found")
	}
	user.Marketing.BookingReminderSent = true
	return nil
}

func (s *fakeUserStore) MarkCartReminderSent(userID string) error {
	user := s.userByID(userID)
	if user == nil {
		return errors.New("user not found")
	}
	user.Marketing.CartReminderSent = true
	return nil
}

func (s *fakeUserStore) UpdateLastRecurringSent(userID string, sentAt int64) error {
	user := s.userByID(userID)
	if user == nil {
		return errors.New("user not found")
	}
	if sentAt > user.Marketing.LastRecurringSent {
		user.Marketing.LastRecurringSent = sentAt
	}
	return nil
}

type fakeCatalogStore struct {
	services      []types.CatalogItem
	categories    []types.Category
	subCategories []types.SubCategory
}

func (s *fakeCatalogStore) GetActiveServices() ([]types.CatalogItem, error) {
	return s.services, nil
}

func (s *fakeCatalogStore) GetCategories() ([]types.Category, error) {
	return s.categories, nil
}

func (s *fakeCatalogStore) GetSubCategories() ([]types.SubCategory, error) {
	return s.subCategories, nil
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent     []sentMessage
	failWith error
}

func (s *fakeSender) SendMail(ctx context.Context, transport types.TransportSettings, to string, subject string, htmlContent string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentMessage{to: to, subject: subject, body: htmlContent})
	return nil
}

type fakeRunLock struct {
	held     bool
	acquired int
	released int
}

func (l *fakeRunLock) AcquireRunLock(ttl time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeRunLock) ReleaseRunLock() error {
	l.held = false
	l.released++
	return nil
}

func testTransportSettings() *types.TransportSettings {
	return &types.TransportSettings{
		WebsiteName:    "WeCanFix",
		WebsiteURL:     "https://wecanfix.example",
		SupportEmail:   "support@wecanfix.example",
		CompanyAddress: "12 Service Lane",
		FromName:       "WeCanFix",
		FromAddress:    "no-reply@wecanfix.example",
	}
}

func testCatalogStore() *fakeCatalogStore {
	category := types.Category{ID: primitive.NewObjectID(), Slug: "cleaning", Name: "Cleaning", Order: 1}
	subCategory := types.SubCategory{ID: primitive.NewObjectID(), Name: "Home Cleaning", ParentID: category.ID.Hex()}
	service := types.CatalogItem{
		ID:            primitive.NewObjectID(),
		Slug:          "deep-cleaning",
		Name:          "Deep Cleaning",
		IsActive:      true,
		Rating:        4.8,
		ReviewCount:   120,
		SubCategoryID: subCategory.ID.Hex(),
	}
	return &fakeCatalogStore{
		services:      []types.CatalogItem{service},
		categories:    []types.Category{category},
		subCategories: []types.SubCategory{subCategory},
	}
}

func newTestEngine(
	automation *types.AutomationSettings,
	users *fakeUserStore,
	catalog *fakeCatalogStore,
	sender *fakeSender,
	now time.Time,
) *Engine {
	engine := NewEngine(EngineConfig{
		Settings: &fakeSettingsStore{automation: automation, transport: testTransportSettings()},
		Users:    users,
		Catalog:  catalog,
		Sender:   sender,
	})
	engine.now = func() time.Time { return now }
	return engine
}

func TestRunInactivityReminderScenario(t *testing.T) {
	now := time.Now()
	user := types.User{
		ID:        primitive.NewObjectID(),
		Email:     "jo@example.com",
		CreatedAt: now.Add(-48 * time.Hour).Unix(),
	}
	users := &fakeUserStore{users: []types.User{user}, carts: map[string]*types.Cart{}}
	sender := &fakeSender{}
	automation := &types.AutomationSettings{
		InactivityReminder: types.CampaignSettings{
			Enabled:         true,
			Delay:           types.Delay{Days: 1},
			Subject:         "We miss you, {{name}}",
			MessageTemplate: "Visit {{websiteUrl}}",
		},
	}
	engine := newTestEngine(automation, users, testCatalogStore(), sender, now)

	t.Run("first run sends exactly one email", func(t *testing.T) {
		report, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sent != 1 {
			t.Errorf("expected 1 sent, got %d", report.Sent)
		}
		if len(sender.sent) != 1 {
			t.Fatalf("expected 1 dispatched email, got %d", len(sender.sent))
		}
		if sender.sent[0].to != "jo@example.com" {
			t.Errorf("unexpected recipient: %s", sender.sent[0].to)
		}
		if !users.users[0].Marketing.BookingReminderSent {
			t.Error("bookingReminderSent was not committed")
		}
	})

	t.Run("second run sends nothing", func(t *testing.T) {
		report, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sent != 0 {
			t.Errorf("expected 0 sent on rerun, got %d", report.Sent)
		}
		if len(sender.sent) != 1 {
			t.Errorf("expected no additional dispatches, got %d total", len(sender.sent))
		}
	})
}

func TestRunCartReminderScenario(t *testing.T) {
	now := time.Now()
	catalog := testCatalogStore()
	service := catalog.services[0]

	user := types.User{
		ID:        primitive.NewObjectID(),
		Email:     "sam@example.com",
		CreatedAt: now.Add(-30 * 24 * time.Hour).Unix(),
	}
	cart := &types.Cart{
		UserID:    user.ID.Hex(),
		Items:     []types.CartItem{{ServiceID: service.ID.Hex(), Quantity: 2}},
		UpdatedAt: now.Add(-2 * time.Hour).Unix(),
	}
	users := &fakeUserStore{users: []types.User{user}, carts: map[string]*types.Cart{user.ID.Hex(): cart}}
	sender := &fakeSender{}
	automation := &types.AutomationSettings{
		CartReminder: types.CampaignSettings{
			Enabled:         true,
			Delay:           types.Delay{Hours: 1},
			Subject:         "{{cart_item_name}}",
			MessageTemplate: "Still thinking about it?\n{{cart_items}}\n{{cart_link}}",
		},
	}
	engine := newTestEngine(automation, users, catalog, sender, now)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Sent != 1 {
		t.Fatalf("expected 1 sent, got %d", report.Sent)
	}
	if sender.sent[0].subject != "Deep Cleaning" {
		t.Errorf("expected cart item name as subject, got %q", sender.sent[0].subject)
	}
	if !users.users[0].Marketing.CartReminderSent {
		t.Error("cartReminderSent was not committed")
	}
}

func TestRunRecurringEngagementScenario(t *testing.T) {
	start := time.Now()
	user := types.User{
		ID:        primitive.NewObjectID(),
		Email:     "ria@example.com",
		CreatedAt: start.Add(-10 * 24 * time.Hour).Unix(),
	}
	users := &fakeUserStore{users: []types.User{user}, carts: map[string]*types.Cart{}}
	sender := &fakeSender{}
	automation := &types.AutomationSettings{
		RecurringEngagement: types.CampaignSettings{
			Enabled:         true,
			RepeatInterval:  types.Delay{Days: 7},
			Subject:         "New on {{websiteName}}",
			MessageTemplate: "{{popular_services}}",
		},
	}
	engine := newTestEngine(automation, users, testCatalogStore(), sender, start)

	runAt := func(t *testing.T, at time.Time, wantSent int) {
		t.Helper()
		engine.now = func() time.Time { return at }
		report, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sent != wantSent {
			t.Errorf("expected %d sent, got %d", wantSent, report.Sent)
		}
	}

	t.Run("first send after interval elapsed since signup", func(t *testing.T) {
		runAt(t, start, 1)
		if users.users[0].Marketing.LastRecurringSent != start.Unix() {
			t.Errorf("lastRecurringSent not set to run time")
		}
	})

	t.Run("no resend 3 days later", func(t *testing.T) {
		runAt(t, start.Add(3*24*time.Hour), 0)
	})

	t.Run("resend 8 days later", func(t *testing.T) {
		runAt(t, start.Add(8*24*time.Hour), 1)
	})
}

func TestRunMissingSettingsAbortsRun(t *testing.T) {
	users := &fakeUserStore{users: []types.User{{ID: primitive.NewObjectID(), Email: "a@b.c", CreatedAt: 1}}}
	sender := &fakeSender{}

	engine := NewEngine(EngineConfig{
		Settings: &fakeSettingsStore{},
		Users:    users,
		Catalog:  testCatalogStore(),
		Sender:   sender,
	})

	_, err := engine.Run(context.Background())
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("expected ErrSettingsNotFound, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("no emails must go out without settings, got %d", len(sender.sent))
	}
}

func TestRunLockPreventsOverlap(t *testing.T) {
	lock := &fakeRunLock{held: true}
	engine := NewEngine(EngineConfig{
		Settings: &fakeSettingsStore{automation: &types.AutomationSettings{}, transport: testTransportSettings()},
		Users:    &fakeUserStore{},
		Catalog:  testCatalogStore(),
		Sender:   &fakeSender{},
		RunLock:  lock,
	})

	_, err := engine.Run(context.Background())
	if !errors.Is(err, ErrRunAlreadyActive) {
		t.Errorf("expected ErrRunAlreadyActive, got %v", err)
	}

	lock.held = false
	if _, err := engine.Run(context.Background()); err != nil {
		t.Errorf("unexpected error after lock release: %v", err)
	}
	if lock.acquired != 1 || lock.released != 1 {
		t.Errorf("unexpected lock usage: acquired %d released %d", lock.acquired, lock.released)
	}
}

func TestRunSkipsUsersWithoutEmail(t *testing.T) {
	now := time.Now()
	automation := &types.AutomationSettings{
		InactivityReminder: types.CampaignSettings{
			Enabled:         true,
			Delay:           types.Delay{Hours: 1},
			Subject:         "s",
			MessageTemplate: "b",
		},
	}
	users := &fakeUserStore{
		users: []types.User{
			{ID: primitive.NewObjectID(), CreatedAt: now.Add(-48 * time.Hour).Unix()},
		},
		carts: map[string]*types.Cart{},
	}
	sender := &fakeSender{}
	engine := newTestEngine(automation, users, testCatalogStore(), sender, now)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed != 1 || report.Sent != 0 {
		t.Errorf("expected processed=1 sent=0, got processed=%d sent=%d", report.Processed, report.Sent)
	}
}

func TestRunSendFailureIsIsolated(t *testing.T) {
	now := time.Now()
	automation := &types.AutomationSettings{
		InactivityReminder: types.CampaignSettings{
			Enabled:         true,
			Delay:           types.Delay{Hours: 1},
			Subject:         "s",
			MessageTemplate: "b",
		},
	}
	users := &fakeUserStore{
		users: []types.User{
			{ID: primitive.NewObjectID(), Email: "x@y.z", CreatedAt: now.Add(-48 * time.Hour).Unix()},
			{ID: primitive.NewObjectID(), Email: "y@y.z", CreatedAt: now.Add(-48 * time.Hour).Unix()},
		},
		carts: map[string]*types.Cart{},
	}
	sender := &fakeSender{failWith: errors.New("smtp down")}
	engine := newTestEngine(automation, users, testCatalogStore(), sender, now)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run must not abort on transport failure: %v", err)
	}
	if report.Failed != 2 || report.Sent != 0 {
		t.Errorf("expected failed=2 sent=0, got failed=%d sent=%d", report.Failed, report.Sent)
	}
	if users.users[0].Marketing.BookingReminderSent {
		t.Error("marker must not be committed after a failed send")
	}
}
