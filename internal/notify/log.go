package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/timeutil"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development when no Kafka or SMTP endpoint is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyConfirmation(_ context.Context, b *booking.Booking) error {
	n.log("confirmation", b)
	return nil
}

func (n *LogNotifier) NotifyCancellation(_ context.Context, b *booking.Booking) error {
	n.log("cancellation", b)
	return nil
}

func (n *LogNotifier) NotifyReminder(_ context.Context, b *booking.Booking) error {
	n.log("reminder", b)
	return nil
}

func (n *LogNotifier) log(kind string, b *booking.Booking) {
	n.logger.Info("booking notification",
		zap.String("kind", kind),
		zap.String("booking_id", b.ID.String()),
		zap.String("date", timeutil.FormatDate(b.Date)),
		zap.String("start", b.Interval.Start.String()),
		zap.String("client_email", b.ClientEmail))
}
