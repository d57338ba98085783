package surveystats

import (
	"testing"
	"time"
)

var testLoc = time.FixedZone("WIB", 7*60*60)

func TestBusinessDayWindow(t *testing.T) {
	t.Parallel()

	rng := DateRange{
		From: time.Date(2024, 1, 10, 0, 0, 0, 0, testLoc),
		To:   time.Date(2024, 1, 12, 0, 0, 0, 0, testLoc),
	}

	start, end := BusinessDayWindow(rng, testLoc)

	wantStart := time.Date(2024, 1, 9, 17, 0, 0, 0, testLoc)
	wantEnd := time.Date(2024, 1, 12, 17, 0, 0, 0, testLoc)
	if !start.Equal(wantStart) {
		t.Errorf("window start: got %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("window end: got %v, want %v", end, wantEnd)
	}

	// A submission at 18:00 the day before `from` is inside the window,
	// one at 16:00 is not.
	included := time.Date(2024, 1, 9, 18, 0, 0, 0, testLoc)
	excluded := time.Date(2024, 1, 9, 16, 0, 0, 0, testLoc)
	if included.Before(start) || !included.Before(end) {
		t.Errorf("submission at %v should fall inside [%v, %v)", included, start, end)
	}
	if !excluded.Before(start) {
		t.Errorf("submission at %v should fall before the window start %v", excluded, start)
	}
}

func TestBusinessDayWindowCrossesMonthStart(t *testing.T) {
	t.Parallel()

	rng := DateRange{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc),
		To:   time.Date(2024, 3, 2, 0, 0, 0, 0, testLoc),
	}

	start, _ := BusinessDayWindow(rng, testLoc)
	wantStart := time.Date(2024, 2, 29, 17, 0, 0, 0, testLoc)
	if !start.Equal(wantStart) {
		t.Errorf("window start: got %v, want %v", start, wantStart)
	}
}

func TestDayOfMonthVariants(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 15, 10, 30, 0, 0, testLoc)
	if got := TodayDayOfMonth(now, testLoc); got != 15 {
		t.Errorf("today day-of-month: got %d, want 15", got)
	}
	if got := YesterdayDayOfMonth(now, testLoc); got != 14 {
		t.Errorf("yesterday day-of-month: got %d, want 14", got)
	}

	// On the first of the month the yesterday variant yields 0 and
	// matches nothing; this mirrors the original arithmetic.
	firstOfMonth := time.Date(2024, 2, 1, 9, 0, 0, 0, testLoc)
	if got := YesterdayDayOfMonth(firstOfMonth, testLoc); got != 0 {
		t.Errorf("yesterday on the 1st: got %d, want 0", got)
	}
}
