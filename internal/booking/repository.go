package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/salonware/booking-engine/internal/timeutil"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrSettingNotFound = errors.New("setting not found")
)

// SettingsStore is the key-value settings collaborator, used for the
// BUSINESS_OPEN / BUSINESS_CLOSE keys. Absent keys return ErrSettingNotFound.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
}

// Repository contains all store interactions needed by the engine and the
// admission service.
type Repository interface {
	GetService(ctx context.Context, id uuid.UUID) (*Service, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)

	// ListWindows returns the explicit availability windows for a staff
	// member on a date, ordered by start. Zero rows means the default
	// all-day policy applies.
	ListWindows(ctx context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error)

	// ListConfirmed returns the intervals of CONFIRMED bookings for a staff
	// member on a date. Cancelled bookings never appear here.
	ListConfirmed(ctx context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error)

	InsertBooking(ctx context.Context, b *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// UpdateBookingStatus performs a conditional status transition and
	// returns ErrBookingNotFound when no row matches (id, from).
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, cancelledAt *time.Time) (*Booking, error)

	// ListStartingBetween returns CONFIRMED bookings whose start instant
	// falls in [from, to). Used by the reminder worker.
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error)
}

// Notifier delivers booking notifications. Calls are fire-and-forget from
// the engine's point of view: a failed notification never rolls back a
// booking state change.
type Notifier interface {
	NotifyConfirmation(ctx context.Context, b *Booking) error
	NotifyCancellation(ctx context.Context, b *Booking) error
	NotifyReminder(ctx context.Context, b *Booking) error
}
