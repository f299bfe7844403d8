// Package reconciler verifies payment-provider webhook deliveries and keeps
// the stored recipient status in line with the provider. Every handled event
// triggers a fresh read of the account, so duplicate and out-of-order
// deliveries converge on the provider's current state.
package reconciler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/models"
	"mentorpay/internal/provider"
	"mentorpay/internal/services/account"

	"github.com/stripe/stripe-go/v72/webhook"
)

const (
	outcomeRefreshed = "refreshed"
	outcomeIgnored   = "ignored"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

// EventSource retrieves the full form of a thin event.
type EventSource interface {
	GetEvent(ctx context.Context, eventID string) (*provider.Event, error)
}

// StatusRefresher recomputes and stores an account's derived status.
type StatusRefresher interface {
	RefreshStatus(ctx context.Context, accountID string, scope account.Scope) (*account.Status, error)
}

// EventLog is the audit trail of deliveries.
type EventLog interface {
	Record(ctx context.Context, event *models.PaymentEvent) error
	MarkProcessed(ctx context.Context, outcome models.EventOutcome) error
}

// Notifier is told when an account becomes able to receive payments.
type Notifier interface {
	AccountReady(ctx context.Context, accountID string) error
}

type Service interface {
	// HandleDelivery verifies and applies one webhook delivery. A nil error
	// means the delivery may be acknowledged.
	HandleDelivery(ctx context.Context, payload []byte, signature string) error
}

type Deps struct {
	Secret   string
	Events   EventSource
	Accounts StatusRefresher
	Log      EventLog
	Notifier Notifier
	Metrics  MetricsCollector
	Logger   *slog.Logger
}

type service struct {
	secret   string
	events   EventSource
	accounts StatusRefresher
	log      EventLog
	notifier Notifier
	metrics  MetricsCollector
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(deps Deps) Service {
	if deps.Metrics == nil {
		deps.Metrics = &NoopMetricsCollector{}
	}
	return &service{
		secret:   deps.Secret,
		events:   deps.Events,
		accounts: deps.Accounts,
		log:      deps.Log,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With("component", "reconciler"),
		now:      time.Now,
	}
}

func (s *service) HandleDelivery(ctx context.Context, payload []byte, signature string) error {
	start := s.now()

	if s.secret == "" {
		return domainerrors.Configuration("webhook signing secret is not configured", nil)
	}
	if err := webhook.ValidatePayload(payload, signature, s.secret); err != nil {
		s.metrics.RecordRejected("signature")
		return domainerrors.WithCause(domainerrors.ErrSignatureInvalid, err)
	}

	d, err := ParseDelivery(payload)
	if err != nil {
		s.metrics.RecordRejected("malformed")
		return err
	}
	s.record(ctx, d, payload)

	if d.Thin {
		if err := s.hydrate(ctx, d); err != nil {
			s.finish(ctx, d, start, outcomeFailed, err)
			return err
		}
	}

	outcome, err := s.dispatch(ctx, Classify(d))
	s.finish(ctx, d, start, outcome, err)
	return err
}

// hydrate fills type and account from the full event behind a thin one.
func (s *service) hydrate(ctx context.Context, d *Delivery) error {
	ev, err := s.events.GetEvent(ctx, d.ID)
	if err != nil {
		return domainerrors.UpstreamUnavailable("could not retrieve event "+d.ID, err)
	}
	if ev.Type != "" {
		d.Type = ev.Type
	}
	if ev.AccountID != "" {
		d.AccountID = ev.AccountID
	}
	return nil
}

func (s *service) dispatch(ctx context.Context, ev Event) (string, error) {
	switch e := ev.(type) {
	case RequirementsUpdated:
		_, outcome, err := s.refresh(ctx, e.AccountID, account.ScopeRequirements)
		return outcome, err

	case CapabilityStatusUpdated:
		status, outcome, err := s.refresh(ctx, e.AccountID, account.ScopeCapability)
		if err == nil && status != nil && status.ReadyToReceivePayments && s.notifier != nil {
			if nerr := s.notifier.AccountReady(ctx, e.AccountID); nerr != nil {
				s.logger.WarnContext(ctx, "account ready notification failed",
					"account_id", e.AccountID, "error", nerr)
			}
		}
		return outcome, err

	case Unhandled:
		s.logger.DebugContext(ctx, "ignoring event type", "type", e.Type)
		return outcomeIgnored, nil

	default:
		return outcomeIgnored, nil
	}
}

func (s *service) refresh(ctx context.Context, accountID string, scope account.Scope) (*account.Status, string, error) {
	if accountID == "" {
		s.logger.WarnContext(ctx, "event names no account", "scope", scope.String())
		return nil, outcomeSkipped, nil
	}

	status, err := s.accounts.RefreshStatus(ctx, accountID, scope)
	if err == nil {
		return status, outcomeRefreshed, nil
	}
	if mustRedeliver(err) {
		s.logger.ErrorContext(ctx, "status refresh failed",
			"account_id", accountID, "scope", scope.String(), "error", err)
		return nil, outcomeFailed, err
	}

	// Accounts without a local profile, or unknown upstream, are acknowledged.
	s.logger.WarnContext(ctx, "status refresh skipped",
		"account_id", accountID, "scope", scope.String(), "error", err)
	return nil, outcomeSkipped, nil
}

// mustRedeliver reports whether the provider should send the event again.
func mustRedeliver(err error) bool {
	if domainerrors.Retryable(err) {
		return true
	}
	kind := domainerrors.KindOf(err)
	return kind == domainerrors.KindConfiguration || kind == domainerrors.KindInternal
}

// record and finish write the audit trail. Failures there never block
// reconciliation.
func (s *service) record(ctx context.Context, d *Delivery, payload []byte) {
	if s.log == nil {
		return
	}
	var detail models.JSON
	if err := json.Unmarshal(payload, &detail); err != nil {
		detail = nil
	}
	err := s.log.Record(ctx, &models.PaymentEvent{
		EventID:    d.ID,
		Type:       d.Type,
		AccountID:  d.AccountID,
		Thin:       d.Thin,
		Detail:     detail,
		ReceivedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "event log write failed", "event_id", d.ID, "error", err)
	}
}

func (s *service) finish(ctx context.Context, d *Delivery, start time.Time, outcome string, handleErr error) {
	s.metrics.RecordEvent(d.Type, outcome, s.now().Sub(start))
	s.logger.InfoContext(ctx, "webhook event handled",
		"event_id", d.ID,
		"type", d.Type,
		"account_id", d.AccountID,
		"thin", d.Thin,
		"outcome", outcome)

	if s.log == nil {
		return
	}
	err := s.log.MarkProcessed(ctx, models.EventOutcome{
		EventID:     d.ID,
		Type:        d.Type,
		AccountID:   d.AccountID,
		ProcessedAt: s.now().UTC(),
		Err:         handleErr,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "event log update failed", "event_id", d.ID, "error", err)
	}
}
