package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonware/booking-engine/internal/timeutil"
)

// ResolveWindows returns the working windows for a staff member on a date.
// When no explicit rows exist the staff member is treated as available for
// the whole business-hours window, so the result is always concrete
// intervals, never an "always available" sentinel. Explicit rows are
// returned as stored, unclipped; clipping against business hours is the
// slot generator's concern.
func ResolveWindows(ctx context.Context, repo Repository, staffID uuid.UUID, date time.Time, hours timeutil.Interval) ([]timeutil.Interval, error) {
	windows, err := repo.ListWindows(ctx, staffID, date)
	if err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	if len(windows) == 0 {
		return []timeutil.Interval{hours}, nil
	}

	return windows, nil
}

// GenerateStarts enumerates candidate intervals of the given duration inside
// the business-hours window, starting at open and stepping by stepMinutes.
// The result is ordered by start ascending and is empty when the duration
// does not fit at all.
func GenerateStarts(hours timeutil.Interval, durationMinutes, stepMinutes int) []timeutil.Interval {
	if durationMinutes <= 0 || stepMinutes <= 0 {
		return nil
	}

	var out []timeutil.Interval
	for start := hours.Start; start.Add(durationMinutes) <= hours.End; start = start.Add(stepMinutes) {
		out = append(out, timeutil.NewInterval(start, durationMinutes))
	}
	return out
}

// HasConflict reports whether the candidate overlaps any of the busy
// intervals. Callers pass only CONFIRMED bookings; this function does no
// status filtering of its own.
func HasConflict(candidate timeutil.Interval, busy []timeutil.Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
