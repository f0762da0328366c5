package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/clock"
)

// Reminders sends upcoming-appointment notifications. It is driven by the
// reminder worker on a fixed interval; the window is [now+lead-interval,
// now+lead) so consecutive runs cover the lead horizon without overlap.
type Reminders struct {
	repo     Repository
	notifier Notifier
	clk      clock.Clock
	logger   *zap.Logger
}

func NewReminders(repo Repository, notifier Notifier, clk clock.Clock, logger *zap.Logger) *Reminders {
	return &Reminders{
		repo:     repo,
		notifier: notifier,
		clk:      clk,
		logger:   logger,
	}
}

// Run sends a reminder for every confirmed booking whose start falls inside
// the window. Delivery failures are logged per booking and do not stop the
// run.
func (r *Reminders) Run(ctx context.Context, lead, interval time.Duration) (int, error) {
	now := r.clk.Now()
	from := now.Add(lead - interval)
	to := now.Add(lead)

	upcoming, err := r.repo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("list upcoming bookings: %w", err)
	}

	sent := 0
	for i := range upcoming {
		b := &upcoming[i]
		if err := r.notifier.NotifyReminder(ctx, b); err != nil {
			r.logger.Warn("reminder delivery failed",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	return sent, nil
}
