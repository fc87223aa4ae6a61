// Package overlay resolves the booked-seat overlay for a showing. No single
// authoritative "seats booked for showing X" endpoint reliably exists, so the
// reconciler walks an ordered list of strategies, each under its own timeout,
// and stops at the first that answers.
package overlay

import (
	"context"
	"log/slog"
	"time"

	"github.com/bioskopid/counter-gateway/internal/domain"
)

const defaultTierTimeout = 3 * time.Second

// Strategy is one source of booked-seat codes for a specific showing.
type Strategy interface {
	Name() string
	// Partial reports whether the strategy can only see a subset of
	// bookings (e.g. the session's own history).
	Partial() bool
	Fetch(ctx context.Context, sessionID string, showing domain.Showing) ([]string, error)
}

type Reconciler struct {
	strategies  []Strategy
	tierTimeout time.Duration
	logger      *slog.Logger
}

func NewReconciler(logger *slog.Logger, tierTimeout time.Duration, strategies ...Strategy) *Reconciler {
	if tierTimeout <= 0 {
		tierTimeout = defaultTierTimeout
	}

	return &Reconciler{
		strategies:  strategies,
		tierTimeout: tierTimeout,
		logger:      logger,
	}
}

// Resolve never fails: when every strategy errors out, it returns an empty
// overlay marked partial so the seat map still renders, inventory-only, with
// a non-blocking notice. Each tier runs under its own timeout so a hung
// first attempt cannot block falling through to the next.
func (r *Reconciler) Resolve(ctx context.Context, sessionID string, showing domain.Showing) domain.Overlay {
	for _, strategy := range r.strategies {
		tierCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
		codes, err := strategy.Fetch(tierCtx, sessionID, showing)
		cancel()

		if err != nil {
			r.logger.Warn("booked-seat overlay tier failed",
				"tier", strategy.Name(),
				"schedule_id", showing.ScheduleID,
				"error", err,
			)
			continue
		}

		return domain.NewOverlay(codes, strategy.Name(), strategy.Partial())
	}

	r.logger.Warn("all booked-seat overlay tiers exhausted", "schedule_id", showing.ScheduleID)

	return domain.NewOverlay(nil, "none", true)
}
