package bot

import (
	"context"
	"fmt"
	"time"

	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/store"
)

// Notifier announces sweep-materialized expenses to their owners. Message
// delivery failures must not abort the sweep.
type Notifier interface {
	Notify(userID, text string) error
}

// Sweeper materializes due recurring expenses into regular expense rows on a
// fixed interval, advancing last_tracked after each insertion.
type Sweeper struct {
	store    *store.Store
	notifier Notifier
	logger   logging.Logger
	interval time.Duration
	now      func() time.Time
}

// NewSweeper builds a sweeper. notifier may be nil to run silently.
func NewSweeper(st *store.Store, notifier Notifier, interval time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{
		store:    st,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.SweepOnce()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce processes every due recurring row once. Each row is handled
// independently so one failure does not block the rest.
func (s *Sweeper) SweepOnce() {
	now := s.now()
	due, err := s.store.ListDueRecurring(now)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list due recurring expenses")
		return
	}
	for _, r := range due {
		if err := s.materialize(r, now); err != nil {
			s.logger.WithError(err).WithField("recurring", r.ID).
				Error("Failed to materialize recurring expense")
		}
	}
	if len(due) > 0 {
		s.logger.WithField("count", len(due)).Info("Materialized recurring expenses")
	}
}

func (s *Sweeper) materialize(r models.RecurringExpense, now time.Time) error {
	_, err := s.store.InsertExpense(models.Expense{
		UserID:      r.UserID,
		Amount:      r.Amount,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Description: r.Description,
		Timestamp:   now,
		CreatedAt:   now,
	})
	if err != nil {
		return err
	}
	if err := s.store.MarkTracked(r.ID, now); err != nil {
		return err
	}
	if s.notifier != nil {
		msg := fmt.Sprintf("🔄 Tracked your %s expense: $%s - %s (%s)",
			r.Frequency, r.Amount.StringFixed(2), r.Description, r.DisplayCategory())
		if err := s.notifier.Notify(r.UserID, msg); err != nil {
			s.logger.WithError(err).WithField("user", r.UserID).Warn("Failed to notify user")
		}
	}
	return nil
}
