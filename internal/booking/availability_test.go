package booking

import (
	"context"
	"testing"
	"time"

	"github.com/salonware/booking-engine/internal/timeutil"
)

func testDate(t *testing.T) time.Time {
	t.Helper()
	d, err := timeutil.ParseDate("2026-09-14", time.UTC)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

func TestGenerateStarts(t *testing.T) {
	hours := timeutil.Interval{Start: 9 * 60, End: 17 * 60}

	// 60-minute service at 30-minute granularity: 09:00 through 16:00.
	got := GenerateStarts(hours, 60, 30)
	if len(got) != 15 {
		t.Fatalf("expected 15 candidates, got %d", len(got))
	}
	if got[0].Start.String() != "09:00" {
		t.Errorf("first candidate starts at %s, want 09:00", got[0].Start)
	}
	if got[len(got)-1].Start.String() != "16:00" {
		t.Errorf("last candidate starts at %s, want 16:00", got[len(got)-1].Start)
	}

	for i, c := range got {
		if c.Minutes() != 60 {
			t.Errorf("candidate %d has length %d minutes, want 60", i, c.Minutes())
		}
		if c.Start < hours.Start || c.End > hours.End {
			t.Errorf("candidate %d (%s) escapes business hours", i, c)
		}
		if i > 0 && got[i-1].Start >= c.Start {
			t.Errorf("candidates not strictly ascending at %d", i)
		}
	}
}

func TestGenerateStartsDurationExceedsSpan(t *testing.T) {
	hours := timeutil.Interval{Start: 9 * 60, End: 10 * 60}

	if got := GenerateStarts(hours, 90, 30); len(got) != 0 {
		t.Fatalf("expected no candidates when the service cannot fit, got %d", len(got))
	}
}

func TestGenerateStartsExactFit(t *testing.T) {
	hours := timeutil.Interval{Start: 9 * 60, End: 10 * 60}

	got := GenerateStarts(hours, 60, 30)
	if len(got) != 1 {
		t.Fatalf("expected exactly one candidate, got %d", len(got))
	}
	if got[0].Start.String() != "09:00" || got[0].End.String() != "10:00" {
		t.Fatalf("unexpected candidate %s", got[0])
	}
}

func TestGenerateStartsBadInputs(t *testing.T) {
	hours := timeutil.Interval{Start: 9 * 60, End: 17 * 60}

	if got := GenerateStarts(hours, 0, 30); got != nil {
		t.Error("zero duration should yield nothing")
	}
	if got := GenerateStarts(hours, 30, 0); got != nil {
		t.Error("zero step should yield nothing")
	}
}

func TestHasConflict(t *testing.T) {
	busy := []timeutil.Interval{
		{Start: 10 * 60, End: 11 * 60},
		{Start: 14 * 60, End: 15 * 60},
	}

	if !HasConflict(timeutil.Interval{Start: 10*60 + 30, End: 11*60 + 30}, busy) {
		t.Error("overlapping candidate should conflict")
	}
	if HasConflict(timeutil.Interval{Start: 11 * 60, End: 12 * 60}, busy) {
		t.Error("candidate touching a booking's end should not conflict")
	}
	if HasConflict(timeutil.Interval{Start: 12 * 60, End: 13 * 60}, busy) {
		t.Error("disjoint candidate should not conflict")
	}
	if HasConflict(timeutil.Interval{Start: 9 * 60, End: 10 * 60}, nil) {
		t.Error("no bookings means no conflict")
	}
}

func TestResolveWindowsDefaultsToBusinessHours(t *testing.T) {
	repo := newMemRepo()
	staffID := repo.addStaff("Dana")
	hours := mustInterval(t, "09:00", "17:00")

	windows, err := ResolveWindows(context.Background(), repo, staffID, testDate(t), hours)
	if err != nil {
		t.Fatalf("resolve windows: %v", err)
	}
	if len(windows) != 1 || windows[0] != hours {
		t.Fatalf("expected single full business-hours window, got %v", windows)
	}
}

func TestResolveWindowsReturnsRowsUnclipped(t *testing.T) {
	repo := newMemRepo()
	staffID := repo.addStaff("Dana")
	date := testDate(t)
	hours := mustInterval(t, "09:00", "17:00")

	// Window deliberately exceeds business hours; the resolver must not clip.
	w := mustInterval(t, "08:00", "12:00")
	repo.addWindow(staffID, date, w)

	windows, err := ResolveWindows(context.Background(), repo, staffID, date, hours)
	if err != nil {
		t.Fatalf("resolve windows: %v", err)
	}
	if len(windows) != 1 || windows[0] != w {
		t.Fatalf("expected stored window unclipped, got %v", windows)
	}
}
