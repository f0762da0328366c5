package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/salonware/booking-engine/internal/redis"
	"github.com/salonware/booking-engine/internal/timeutil"
)

// memSettings is an in-memory SettingsStore.
type memSettings map[string]string

func (m memSettings) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	return v, nil
}

type windowKey struct {
	staffID uuid.UUID
	date    string
}

// memRepo is an in-memory Repository backing engine and admission tests.
type memRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]Service
	staff    map[uuid.UUID]Staff
	windows  map[windowKey][]timeutil.Interval
	bookings map[uuid.UUID]Booking

	windowsErrFor uuid.UUID // staff whose ListWindows call fails
	windowsErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{
		services: make(map[uuid.UUID]Service),
		staff:    make(map[uuid.UUID]Staff),
		windows:  make(map[windowKey][]timeutil.Interval),
		bookings: make(map[uuid.UUID]Booking),
	}
}

func (r *memRepo) addService(durationMinutes int) uuid.UUID {
	id := uuid.New()
	r.services[id] = Service{
		ID:              id,
		Name:            "Haircut",
		DurationMinutes: durationMinutes,
		PriceCents:      4500,
		Active:          true,
	}
	return id
}

func (r *memRepo) addStaff(name string) uuid.UUID {
	id := uuid.New()
	r.staff[id] = Staff{ID: id, Name: name, Email: name + "@example.com", Role: "Stylist"}
	return id
}

func (r *memRepo) addWindow(staffID uuid.UUID, date time.Time, iv timeutil.Interval) {
	k := windowKey{staffID: staffID, date: timeutil.FormatDate(date)}
	r.windows[k] = append(r.windows[k], iv)
}

func (r *memRepo) GetService(_ context.Context, id uuid.UUID) (*Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &s, nil
}

func (r *memRepo) GetStaff(_ context.Context, id uuid.UUID) (*Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return &s, nil
}

func (r *memRepo) ListStaff(_ context.Context) ([]Staff, error) {
	out := make([]Staff, 0, len(r.staff))
	for _, s := range r.staff {
		out = append(out, s)
	}
	return out, nil
}

func (r *memRepo) ListWindows(_ context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error) {
	if r.windowsErr != nil && staffID == r.windowsErrFor {
		return nil, r.windowsErr
	}
	return r.windows[windowKey{staffID: staffID, date: timeutil.FormatDate(date)}], nil
}

func (r *memRepo) ListConfirmed(_ context.Context, staffID uuid.UUID, date time.Time) ([]timeutil.Interval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timeutil.Interval
	for _, b := range r.bookings {
		if b.StaffID == staffID && b.Status == StatusConfirmed && timeutil.FormatDate(b.Date) == timeutil.FormatDate(date) {
			out = append(out, b.Interval)
		}
	}
	return out, nil
}

func (r *memRepo) InsertBooking(_ context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[b.ID] = *b
	stored := r.bookings[b.ID]
	return &stored, nil
}

func (r *memRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *memRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, from, to BookingStatus, cancelledAt *time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return nil, ErrBookingNotFound
	}
	b.Status = to
	b.CancelledAt = cancelledAt
	r.bookings[id] = b
	return &b, nil
}

func (r *memRepo) ListStartingBetween(_ context.Context, from, to time.Time) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Booking
	for _, b := range r.bookings {
		if b.Status != StatusConfirmed {
			continue
		}
		at := b.StartAt()
		if !at.Before(from) && at.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

// localLocker serializes admissions in-process, standing in for the Redis
// staff-day lock.
type localLocker struct {
	mu sync.Mutex
}

func (l *localLocker) WithStaffDayLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

var _ redisclient.Locker = (*localLocker)(nil)

// recordingNotifier captures notification calls and can be told to fail.
type recordingNotifier struct {
	confirmations []uuid.UUID
	cancellations []uuid.UUID
	reminders     []uuid.UUID
	fail          bool
}

func (n *recordingNotifier) NotifyConfirmation(_ context.Context, b *Booking) error {
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	n.confirmations = append(n.confirmations, b.ID)
	return nil
}

func (n *recordingNotifier) NotifyCancellation(_ context.Context, b *Booking) error {
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	n.cancellations = append(n.cancellations, b.ID)
	return nil
}

func (n *recordingNotifier) NotifyReminder(_ context.Context, b *Booking) error {
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	n.reminders = append(n.reminders, b.ID)
	return nil
}
