package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonware/booking-engine/internal/timeutil"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// CanTransitionTo enumerates the one legal lifecycle transition. Bookings
// are immutable once admitted; the only state change is an explicit
// cancellation, and a cancelled booking stays cancelled.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	return s == StatusConfirmed && to == StatusCancelled
}

type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Valid reports whether the catalog record satisfies the scheduling
// invariants (positive duration and price, visible for booking).
func (s *Service) Valid() bool {
	return s.DurationMinutes > 0 && s.PriceCents > 0 && s.Active
}

type Staff struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityWindow is an explicit working window for a staff member on a
// date. Zero windows for a (staff, date) pair means available all day.
type AvailabilityWindow struct {
	ID       uuid.UUID
	StaffID  uuid.UUID
	Date     time.Time
	Interval timeutil.Interval
}

type Booking struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	StaffID     uuid.UUID
	Date        time.Time
	Interval    timeutil.Interval
	Status      BookingStatus
	ClientName  string
	ClientEmail string
	Notes       string
	CreatedAt   time.Time
	CancelledAt *time.Time
}

// StartAt returns the booking's start as an instant on its date.
func (b *Booking) StartAt() time.Time {
	return timeutil.AtTime(b.Date, b.Interval.Start)
}

// Slot is a computed, unpersisted bookable interval offered to a caller.
type Slot struct {
	Start   timeutil.TimeOfDay `json:"start"`
	End     timeutil.TimeOfDay `json:"end"`
	StaffID uuid.UUID          `json:"staff_id"`
}

// StaffSelector picks either one staff member or the whole roster for a
// listing. The zero value selects nobody; use SelectStaff or AnyStaff.
type StaffSelector struct {
	any bool
	id  uuid.UUID
}

func SelectStaff(id uuid.UUID) StaffSelector {
	return StaffSelector{id: id}
}

func AnyStaff() StaffSelector {
	return StaffSelector{any: true}
}

func (s StaffSelector) Any() bool {
	return s.any
}

func (s StaffSelector) StaffID() uuid.UUID {
	return s.id
}
