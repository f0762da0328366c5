package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/timeutil"
)

// Engine computes the bookable slots for (service, staff selection, date).
// It is stateless; every call resolves fresh data from the repository.
type Engine struct {
	repo        Repository
	hours       *HoursResolver
	stepMinutes int
	logger      *zap.Logger
}

func NewEngine(repo Repository, hours *HoursResolver, stepMinutes int, logger *zap.Logger) *Engine {
	return &Engine{
		repo:        repo,
		hours:       hours,
		stepMinutes: stepMinutes,
		logger:      logger,
	}
}

// ListSlots returns every slot that could legally be booked for the service
// on the date, for the selected staff member or the whole roster. Slots are
// ordered by start time, then staff ID for ties. A resolution failure for
// one staff member excludes that member and logs a warning; it does not
// abort the listing.
func (e *Engine) ListSlots(ctx context.Context, serviceID uuid.UUID, selector StaffSelector, date time.Time) ([]Slot, error) {
	svc, err := e.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}

	hours, err := e.hours.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	staff, err := e.resolveStaff(ctx, selector)
	if err != nil {
		return nil, err
	}

	candidates := GenerateStarts(hours, svc.DurationMinutes, e.stepMinutes)

	var slots []Slot
	for _, st := range staff {
		staffSlots, err := e.slotsForStaff(ctx, st.ID, date, hours, candidates)
		if err != nil {
			e.logger.Warn("excluding staff from availability listing",
				zap.String("staff_id", st.ID.String()),
				zap.String("date", timeutil.FormatDate(date)),
				zap.Error(err))
			continue
		}
		slots = append(slots, staffSlots...)
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		return strings.Compare(slots[i].StaffID.String(), slots[j].StaffID.String()) < 0
	})

	return slots, nil
}

func (e *Engine) resolveStaff(ctx context.Context, selector StaffSelector) ([]Staff, error) {
	if selector.Any() {
		staff, err := e.repo.ListStaff(ctx)
		if err != nil {
			return nil, fmt.Errorf("list staff: %w", err)
		}
		return staff, nil
	}

	st, err := e.repo.GetStaff(ctx, selector.StaffID())
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	return []Staff{*st}, nil
}

func (e *Engine) slotsForStaff(ctx context.Context, staffID uuid.UUID, date time.Time, hours timeutil.Interval, candidates []timeutil.Interval) ([]Slot, error) {
	windows, err := ResolveWindows(ctx, e.repo, staffID, date, hours)
	if err != nil {
		return nil, err
	}

	busy, err := e.repo.ListConfirmed(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}

	var out []Slot
	for _, c := range candidates {
		if !insideAnyWindow(c, windows) {
			continue
		}
		if HasConflict(c, busy) {
			continue
		}
		out = append(out, Slot{Start: c.Start, End: c.End, StaffID: staffID})
	}
	return out, nil
}

func insideAnyWindow(candidate timeutil.Interval, windows []timeutil.Interval) bool {
	for _, w := range windows {
		if w.Contains(candidate) {
			return true
		}
	}
	return false
}
