package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
	"github.com/spec-kit/benefits-service/internal/repository"
)

// RenewalWorker periodically publishes renewal_due for cases that need
// attention.
type RenewalWorker struct {
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	marker     ReminderMarker
	interval   time.Duration
	dedupe     time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// RenewalWorkerConfig configures the worker.
type RenewalWorkerConfig struct {
	CaseRepo   repository.CaseRepository
	Dispatcher events.Dispatcher
	Marker     ReminderMarker
	Interval   time.Duration
	Dedupe     time.Duration
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewRenewalWorker builds the worker. Without a marker reminders are
// deduped in process.
func NewRenewalWorker(cfg RenewalWorkerConfig) *RenewalWorker {
	w := &RenewalWorker{
		cases:      cfg.CaseRepo,
		dispatcher: cfg.Dispatcher,
		marker:     cfg.Marker,
		interval:   cfg.Interval,
		dedupe:     cfg.Dedupe,
		logger:     cfg.Logger,
		now:        cfg.Clock,
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.marker == nil {
		w.marker = NewMemoryMarker(w.now)
	}
	if w.dedupe <= 0 {
		w.dedupe = 24 * time.Hour
	}
	return w
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
// A zero interval disables the worker.
func (w *RenewalWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.logger.Info("renewal worker disabled")
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("renewal sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep publishes one renewal_due per urgent case not reminded within the
// dedupe window. It returns how many reminders were published.
func (w *RenewalWorker) Sweep(ctx context.Context) (int, error) {
	all, err := w.cases.List(ctx, repository.CaseFilter{})
	if err != nil {
		return 0, err
	}

	now := w.now()
	sent := 0
	for _, item := range lifecycle.Dashboard(all, lifecycle.FilterNeedsRenewal, now) {
		first, err := w.marker.Mark(ctx, reminderKey(item.Case, item.Tier), w.dedupe)
		if err != nil {
			w.logger.Warn("reminder dedupe failed", zap.String("case_id", item.Case.ID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}
		if w.dispatcher != nil {
			err = w.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventRenewalDue,
				CaseID:    item.Case.ID,
				UserID:    item.Case.OwnerID,
				Timestamp: now,
				Payload: events.RenewalDuePayload{
					Tier:        string(item.Tier),
					RenewalDate: item.Case.RenewalDate,
					OwnerEmail:  item.Case.UserEmail,
				},
			})
			if err != nil {
				w.logger.Warn("renewal_due delivery failed", zap.String("case_id", item.Case.ID), zap.Error(err))
			}
		}
		sent++
	}
	if sent > 0 {
		w.logger.Info("renewal reminders published", zap.Int("count", sent))
	}
	return sent, nil
}

func reminderKey(c domain.Case, tier lifecycle.RenewalTier) string {
	return c.ID + ":" + string(tier)
}
