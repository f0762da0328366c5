package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/clock"
	"github.com/salonware/booking-engine/internal/timeutil"
)

type admissionFixture struct {
	repo      *memRepo
	adm       *Admission
	engine    *Engine
	notifier  *recordingNotifier
	serviceID uuid.UUID
	staffID   uuid.UUID
	date      time.Time
}

// newAdmissionFixture wires an admission service against in-memory stores
// with "now" fixed to 08:00 on the test date.
func newAdmissionFixture(t *testing.T) *admissionFixture {
	t.Helper()

	repo := newMemRepo()
	logger := zap.NewNop()
	hours := NewHoursResolver(memSettings{}, logger)
	notifier := &recordingNotifier{}
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(date.Add(8 * time.Hour))

	return &admissionFixture{
		repo:      repo,
		adm:       NewAdmission(repo, hours, &localLocker{}, notifier, clk, logger),
		engine:    NewEngine(repo, hours, 30, logger),
		notifier:  notifier,
		serviceID: repo.addService(60),
		staffID:   repo.addStaff("Dana"),
		date:      date,
	}
}

func (f *admissionFixture) admitAt(t *testing.T, start string) (*Booking, error) {
	t.Helper()
	s, err := timeutil.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	return f.adm.Admit(context.Background(), AdmitRequest{
		ServiceID:   f.serviceID,
		StaffID:     f.staffID,
		Date:        f.date,
		Start:       s,
		ClientName:  "Alex Doe",
		ClientEmail: "alex@example.com",
	})
}

func TestAdmitSuccess(t *testing.T) {
	f := newAdmissionFixture(t)

	b, err := f.admitAt(t, "10:00")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	if b.Status != StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", b.Status)
	}
	if b.Interval.Start.String() != "10:00" || b.Interval.End.String() != "11:00" {
		t.Errorf("interval = %s, want 10:00-11:00", b.Interval)
	}
	if len(f.notifier.confirmations) != 1 || f.notifier.confirmations[0] != b.ID {
		t.Error("expected one confirmation notification for the new booking")
	}

	stored, err := f.repo.GetBookingByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if stored.Status != StatusConfirmed {
		t.Errorf("persisted status = %s, want CONFIRMED", stored.Status)
	}
}

func TestAdmitUnknownService(t *testing.T) {
	f := newAdmissionFixture(t)
	f.serviceID = uuid.New()

	_, err := f.admitAt(t, "10:00")
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestAdmitInactiveService(t *testing.T) {
	f := newAdmissionFixture(t)
	svc := f.repo.services[f.serviceID]
	svc.Active = false
	f.repo.services[f.serviceID] = svc

	_, err := f.admitAt(t, "10:00")
	if !errors.Is(err, ErrInvalidService) {
		t.Fatalf("expected ErrInvalidService, got %v", err)
	}
}

func TestAdmitUnknownStaff(t *testing.T) {
	f := newAdmissionFixture(t)
	f.staffID = uuid.New()

	_, err := f.admitAt(t, "10:00")
	if !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestAdmitPastBooking(t *testing.T) {
	f := newAdmissionFixture(t)

	// Clock is fixed at 08:00; 07:00 is in the past even though it is also
	// outside business hours. The past check wins.
	_, err := f.admitAt(t, "07:00")
	if !errors.Is(err, ErrPastBooking) {
		t.Fatalf("expected ErrPastBooking, got %v", err)
	}
}

func TestAdmitOutsideBusinessHours(t *testing.T) {
	f := newAdmissionFixture(t)

	// 16:30 + 60 minutes spills past the 17:00 close.
	_, err := f.admitAt(t, "16:30")
	if !errors.Is(err, ErrOutsideBusinessHours) {
		t.Fatalf("expected ErrOutsideBusinessHours, got %v", err)
	}

	_, err = f.admitAt(t, "08:30")
	if !errors.Is(err, ErrOutsideBusinessHours) {
		t.Fatalf("expected ErrOutsideBusinessHours for pre-open start, got %v", err)
	}
}

func TestAdmitOutsideStaffAvailability(t *testing.T) {
	f := newAdmissionFixture(t)
	f.repo.addWindow(f.staffID, f.date, mustInterval(t, "09:00", "12:00"))

	_, err := f.admitAt(t, "13:00")
	if !errors.Is(err, ErrOutsideStaffAvailability) {
		t.Fatalf("expected ErrOutsideStaffAvailability, got %v", err)
	}

	if _, err := f.admitAt(t, "10:00"); err != nil {
		t.Fatalf("admit inside window: %v", err)
	}
}

func TestAdmitConflictAndTouchingBoundary(t *testing.T) {
	f := newAdmissionFixture(t)
	confirmBooking(t, f.repo, f.staffID, f.date, "10:00", "11:00")

	_, err := f.admitAt(t, "10:30")
	if !errors.Is(err, ErrBookingConflict) {
		t.Fatalf("expected ErrBookingConflict, got %v", err)
	}

	// Touching the existing booking's end is not an overlap.
	if _, err := f.admitAt(t, "11:00"); err != nil {
		t.Fatalf("admit at touching boundary: %v", err)
	}
}

func TestAdmitRemovesSlotFromListing(t *testing.T) {
	f := newAdmissionFixture(t)

	b, err := f.admitAt(t, "10:00")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	slots, err := f.engine.ListSlots(context.Background(), f.serviceID, SelectStaff(f.staffID), f.date)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	for _, s := range slots {
		if (timeutil.Interval{Start: s.Start, End: s.End}).Overlaps(b.Interval) {
			t.Fatalf("slot %s-%s overlaps the admitted booking", s.Start, s.End)
		}
	}
}

func TestAdmitSurvivesNotifierFailure(t *testing.T) {
	f := newAdmissionFixture(t)
	f.notifier.fail = true

	b, err := f.admitAt(t, "10:00")
	if err != nil {
		t.Fatalf("admit should not fail on notification errors: %v", err)
	}
	if _, err := f.repo.GetBookingByID(context.Background(), b.ID); err != nil {
		t.Fatalf("booking should stay persisted: %v", err)
	}
}

func TestCancelLifecycle(t *testing.T) {
	f := newAdmissionFixture(t)

	b, err := f.admitAt(t, "10:00")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}

	cancelled, err := f.adm.Cancel(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("cancelled booking should record its cancellation time")
	}
	if len(f.notifier.cancellations) != 1 {
		t.Error("expected one cancellation notification")
	}

	// Cancellation is terminal.
	if _, err := f.adm.Cancel(context.Background(), b.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("second cancel: expected ErrAlreadyCancelled, got %v", err)
	}

	// The freed interval is bookable again.
	slots, err := f.engine.ListSlots(context.Background(), f.serviceID, SelectStaff(f.staffID), f.date)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	freed := false
	for _, s := range slots {
		if (timeutil.Interval{Start: s.Start, End: s.End}).Overlaps(b.Interval) {
			freed = true
		}
	}
	if !freed {
		t.Fatal("cancelled interval should reappear in the listing")
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newAdmissionFixture(t)

	_, err := f.adm.Cancel(context.Background(), uuid.New())
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	if !StatusConfirmed.CanTransitionTo(StatusCancelled) {
		t.Error("CONFIRMED -> CANCELLED must be allowed")
	}
	if StatusCancelled.CanTransitionTo(StatusConfirmed) {
		t.Error("CANCELLED -> CONFIRMED must be rejected")
	}
	if StatusCancelled.CanTransitionTo(StatusCancelled) {
		t.Error("CANCELLED -> CANCELLED must be rejected")
	}
	if StatusConfirmed.CanTransitionTo(StatusConfirmed) {
		t.Error("CONFIRMED -> CONFIRMED must be rejected")
	}
}
