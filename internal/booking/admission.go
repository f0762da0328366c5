package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/clock"
	redisclient "github.com/salonware/booking-engine/internal/redis"
	"github.com/salonware/booking-engine/internal/timeutil"
)

var (
	ErrInvalidService           = errors.New("service is not bookable")
	ErrPastBooking              = errors.New("booking start is in the past")
	ErrOutsideBusinessHours     = errors.New("booking falls outside business hours")
	ErrOutsideStaffAvailability = errors.New("booking falls outside staff availability")
	ErrBookingConflict          = errors.New("booking overlaps an existing confirmed booking")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrInvalidStatusTransition  = errors.New("invalid booking status transition")
	ErrStaffBeingBooked         = errors.New("staff schedule is currently being booked, please retry")
	ErrStorageUnavailable       = errors.New("booking store unavailable")
)

// Admission validates booking requests and applies cancellations. The
// conflict check and the insert run under a per-(staff, date) lock so two
// concurrent requests cannot both pass the check against the same snapshot
// and double-book.
type Admission struct {
	repo     Repository
	hours    *HoursResolver
	locker   redisclient.Locker
	notifier Notifier
	clk      clock.Clock
	logger   *zap.Logger
}

func NewAdmission(repo Repository, hours *HoursResolver, locker redisclient.Locker, notifier Notifier, clk clock.Clock, logger *zap.Logger) *Admission {
	return &Admission{
		repo:     repo,
		hours:    hours,
		locker:   locker,
		notifier: notifier,
		clk:      clk,
		logger:   logger,
	}
}

type AdmitRequest struct {
	ServiceID   uuid.UUID
	StaffID     uuid.UUID
	Date        time.Time
	Start       timeutil.TimeOfDay
	ClientName  string
	ClientEmail string
	Notes       string
}

// Admit validates the request in order (service, past start, business
// hours, staff availability, conflicts) and persists a CONFIRMED booking.
// The first failed check wins.
func (a *Admission) Admit(ctx context.Context, req AdmitRequest) (*Booking, error) {
	svc, err := a.repo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, storageErr("load service", err)
	}
	if !svc.Valid() {
		return nil, ErrInvalidService
	}

	if _, err := a.repo.GetStaff(ctx, req.StaffID); err != nil {
		return nil, storageErr("load staff", err)
	}

	interval := timeutil.NewInterval(req.Start, svc.DurationMinutes)

	if timeutil.AtTime(req.Date, req.Start).Before(a.clk.Now()) {
		return nil, ErrPastBooking
	}

	hours, err := a.hours.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !hours.Contains(interval) {
		return nil, ErrOutsideBusinessHours
	}

	windows, err := ResolveWindows(ctx, a.repo, req.StaffID, req.Date, hours)
	if err != nil {
		return nil, storageErr("resolve windows", err)
	}
	if !insideAnyWindow(interval, windows) {
		return nil, ErrOutsideStaffAvailability
	}

	var created *Booking

	err = a.locker.WithStaffDayLock(ctx, req.StaffID, req.Date, func(lockCtx context.Context) error {
		// Re-check conflicts inside the critical section so a concurrent
		// admission for the same staff and date cannot slip past us.
		busy, err := a.repo.ListConfirmed(lockCtx, req.StaffID, req.Date)
		if err != nil {
			return storageErr("list confirmed bookings", err)
		}
		if HasConflict(interval, busy) {
			return ErrBookingConflict
		}

		b := &Booking{
			ID:          uuid.New(),
			ServiceID:   req.ServiceID,
			StaffID:     req.StaffID,
			Date:        req.Date,
			Interval:    interval,
			Status:      StatusConfirmed,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			Notes:       req.Notes,
			CreatedAt:   a.clk.Now(),
		}

		created, err = a.repo.InsertBooking(lockCtx, b)
		if err != nil {
			return storageErr("insert booking", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrStaffBeingBooked
		}
		return nil, err
	}

	a.notify(ctx, created, a.notifier.NotifyConfirmation, "confirmation")

	return created, nil
}

// Cancel moves a CONFIRMED booking to CANCELLED. The record is retained;
// cancelling an already-cancelled booking is rejected rather than silently
// succeeding.
func (a *Admission) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := a.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, storageErr("load booking", err)
	}

	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidStatusTransition
	}

	now := a.clk.Now()
	updated, err := a.repo.UpdateBookingStatus(ctx, id, StatusConfirmed, StatusCancelled, &now)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			// Lost a race with another cancellation.
			return nil, ErrAlreadyCancelled
		}
		return nil, storageErr("cancel booking", err)
	}

	a.notify(ctx, updated, a.notifier.NotifyCancellation, "cancellation")

	return updated, nil
}

// Get retrieves a booking by ID.
func (a *Admission) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := a.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, storageErr("load booking", err)
	}
	return b, nil
}

func (a *Admission) notify(ctx context.Context, b *Booking, send func(context.Context, *Booking) error, kind string) {
	if err := send(ctx, b); err != nil {
		a.logger.Warn("notification delivery failed",
			zap.String("kind", kind),
			zap.String("booking_id", b.ID.String()),
			zap.Error(err))
	}
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
