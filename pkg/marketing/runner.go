package marketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

var (
	// ErrSettingsNotFound aborts the whole run before any user is processed.
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrRunAlreadyActive signals an overlapping trigger while another run
	// still holds the lease.
	ErrRunAlreadyActive = errors.New("automation run already active")
)

const (
	DEFAULT_DISPATCH_TIMEOUT = 30 * time.Second
	DEFAULT_RUN_LOCK_TTL     = 15 * time.Minute
)

type SettingsStore interface {
	GetAutomationSettings() (*types.AutomationSettings, error)
	GetTransportSettings() (*types.TransportSettings, error)
}

type UserStore interface {
	FindAndExecuteOnUsers(ctx context.Context, fn func(user types.User) error) error
	GetCartByUserID(userID string) (*types.Cart, error)
	MarkBookingReminderSent(userID string) error
	MarkCartReminderSent(userID string) error
	UpdateLastRecurringSent(userID string, sentAt int64) error
}

type CatalogStore interface {
	GetActiveServices() ([]types.CatalogItem, error)
	GetCategories() ([]types.Category, error)
	GetSubCategories() ([]types.SubCategory, error)
}

type RunLockStore interface {
	AcquireRunLock(ttl time.Duration) (bool, error)
	ReleaseRunLock() error
}

type SentLogStore interface {
	AddToSentEmails(email types.SentEmail) (types.SentEmail, error)
}

type EmailSender interface {
	SendMail(ctx context.Context, transport types.TransportSettings, to string, subject string, htmlContent string) error
}

type RunReport struct {
	Processed       int              `json:"processed"`
	Sent            int              `json:"sent"`
	Failed          int              `json:"failed"`
	SentPerCampaign map[Campaign]int `json:"sentPerCampaign"`
}

type EngineConfig struct {
	Settings SettingsStore
	Users    UserStore
	Catalog  CatalogStore
	Sender   EmailSender

	// optional
	RunLock RunLockStore
	SentLog SentLogStore

	DispatchTimeout time.Duration
	RunLockTTL      time.Duration
}

// Engine executes one marketing automation run: load settings and catalog
// once, then scan all users and dispatch whatever campaigns they are eligible
// for, committing the idempotency marker after each successful send.
type Engine struct {
	settings SettingsStore
	users    UserStore
	catalog  CatalogStore
	sender   EmailSender
	runLock  RunLockStore
	sentLog  SentLogStore

	dispatchTimeout time.Duration
	runLockTTL      time.Duration
	now             func() time.Time
}

func NewEngine(config EngineConfig) *Engine {
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = DEFAULT_DISPATCH_TIMEOUT
	}
	if config.RunLockTTL <= 0 {
		config.RunLockTTL = DEFAULT_RUN_LOCK_TTL
	}
	return &Engine{
		settings:        config.Settings,
		users:           config.Users,
		catalog:         config.Catalog,
		sender:          config.Sender,
		runLock:         config.RunLock,
		sentLog:         config.SentLog,
		dispatchTimeout: config.DispatchTimeout,
		runLockTTL:      config.RunLockTTL,
		now:             time.Now,
	}
}

func (e *Engine) Run(ctx context.Context) (RunReport, error) {
	start := time.Now()
	report := RunReport{SentPerCampaign: map[Campaign]int{}}

	if e.runLock != nil {
		acquired, err := e.runLock.AcquireRunLock(e.runLockTTL)
		if err != nil {
			runsTotal.WithLabelValues("error").Inc()
			return report, fmt.Errorf("failed to acquire run lock: %w", err)
		}
		if !acquired {
			runsTotal.WithLabelValues("busy").Inc()
			return report, ErrRunAlreadyActive
		}
		defer func() {
			if err := e.runLock.ReleaseRunLock(); err != nil {
				slog.Error("Failed to release run lock", slog.String("error", err.Error()))
			}
		}()
	}

	automation, transport, err := e.loadSettings()
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return report, err
	}

	snapshot, err := BuildSnapshot(e.catalog, transport.WebsiteURL)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("failed to build catalog snapshot: %w", err)
	}

	err = e.users.FindAndExecuteOnUsers(ctx, func(user types.User) error {
		report.Processed++
		if user.Email == "" {
			return nil
		}
		e.processUser(ctx, user, automation, transport, snapshot, &report)
		return nil
	})
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return report, fmt.Errorf("user scan failed: %w", err)
	}

	runsTotal.WithLabelValues("ok").Inc()
	runDuration.Observe(time.Since(start).Seconds())
	slog.Info("Marketing automation run completed",
		slog.Int("processed", report.Processed),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.String("duration", time.Since(start).String()))
	return report, nil
}

func (e *Engine) loadSettings() (*types.AutomationSettings, *types.TransportSettings, error) {
	automation, err := e.settings.GetAutomationSettings()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrSettingsNotFound
		}
		return nil, nil, fmt.Errorf("failed to load automation settings: %w", err)
	}
	transport, err := e.settings.GetTransportSettings()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrSettingsNotFound
		}
		return nil, nil, fmt.Errorf("failed to load transport settings: %w", err)
	}
	return automation, transport, nil
}

// processUser evaluates all three campaigns in one pass. Failures are
// isolated per campaign: they are logged and counted, never abort the run.
func (e *Engine) processUser(
	ctx context.Context,
	user types.User,
	automation *types.AutomationSettings,
	transport *types.TransportSettings,
	snapshot *Snapshot,
	report *RunReport,
) {
	cart, err := e.users.GetCartByUserID(user.ID.Hex())
	if err != nil {
		// personalization degrades to empty cart blocks
		slog.Error("Failed to load cart", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		cart = nil
	}
	now := e.now()

	if automation.InactivityReminder.Enabled &&
		InactivityReminderVerdict(user, automation.InactivityReminder, now) == VerdictEligible {
		e.dispatchAndCommit(ctx, CampaignInactivityReminder, automation.InactivityReminder, user, cart, transport, snapshot, report,
			func() error { return e.users.MarkBookingReminderSent(user.ID.Hex()) })
	}

	if automation.CartReminder.Enabled &&
		CartReminderVerdict(user, cart, automation.CartReminder, now) == VerdictEligible {
		e.dispatchAndCommit(ctx, CampaignCartReminder, automation.CartReminder, user, cart, transport, snapshot, report,
			func() error { return e.users.MarkCartReminderSent(user.ID.Hex()) })
	}

	if automation.RecurringEngagement.Enabled &&
		RecurringEngagementVerdict(user, automation.RecurringEngagement, now) == VerdictEligible {
		e.dispatchAndCommit(ctx, CampaignRecurringEngagement, automation.RecurringEngagement, user, cart, transport, snapshot, report,
			func() error { return e.users.UpdateLastRecurringSent(user.ID.Hex(), now.Unix()) })
	}
}

// dispatchAndCommit renders and sends one campaign email and, only on
// success, immediately persists the idempotency marker before the engine
// moves on to the next campaign or user.
func (e *Engine) dispatchAndCommit(
	ctx context.Context,
	campaign Campaign,
	settings types.CampaignSettings,
	user types.User,
	cart *types.Cart,
	transport *types.TransportSettings,
	snapshot *Snapshot,
	report *RunReport,
	commit func() error,
) {
	content := BuildUserContent(snapshot, cart, settings.CategoryOverride, transport.WebsiteURL)
	values := MergeTagValues(user, *transport, snapshot.Blocks, content)
	subject := ResolveMergeTags(settings.Subject, values)
	body := RenderBody(settings.MessageTemplate, values)

	sendCtx, cancel := context.WithTimeout(ctx, e.dispatchTimeout)
	defer cancel()

	if err := e.sender.SendMail(sendCtx, *transport, user.Email, subject, body); err != nil {
		report.Failed++
		sendFailuresTotal.WithLabelValues(string(campaign)).Inc()
		slog.Error("Failed to send campaign email",
			slog.String("userID", user.ID.Hex()),
			slog.String("campaign", string(campaign)),
			slog.String("error", err.Error()))
		return
	}

	if err := commit(); err != nil {
		// the email went out but the marker did not stick, the next run may
		// send this campaign again
		report.Failed++
		sendFailuresTotal.WithLabelValues(string(campaign)).Inc()
		slog.Error("Failed to commit idempotency marker after send",
			slog.String("userID", user.ID.Hex()),
			slog.String("campaign", string(campaign)),
			slog.String("error", err.Error()))
		return
	}

	report.Sent++
	report.SentPerCampaign[campaign]++
	emailsSentTotal.WithLabelValues(string(campaign)).Inc()

	if e.sentLog != nil {
		_, err := e.sentLog.AddToSentEmails(types.SentEmail{
			UserID:   user.ID.Hex(),
			To:       user.Email,
			Campaign: string(campaign),
			Subject:  subject,
			SentAt:   e.now().Unix(),
		})
		if err != nil {
			slog.Error("Failed to save sent email", slog.String("error", err.Error()))
		}
	}
}
