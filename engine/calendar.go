package engine

import "time"

// =============================================================================
// DATE RANGE - Inclusive on both ends
// =============================================================================

// DateRange is an inclusive [Start, End] window at day granularity.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Day builds a UTC-midnight time for the given calendar day. All engine
// dates are day-granular; anything finer is truncated at the boundary.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns the inclusive day count of the range, clamped to at least 1.
// Malformed ranges (End before Start) count as a single day so downstream
// proration never goes negative.
func (r DateRange) Days() int {
	start := truncateToDay(r.Start)
	end := truncateToDay(r.End)
	n := int(end.Sub(start).Hours()/24) + 1
	if n < 1 {
		return 1
	}
	return n
}

// Contains reports whether t falls within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	d := truncateToDay(t)
	return !d.Before(truncateToDay(r.Start)) && !d.After(truncateToDay(r.End))
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) String() string {
	return "[" + r.Start.Format("2006-01-02") + ", " + r.End.Format("2006-01-02") + "]"
}

// DaysInMonth returns the length of the calendar month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
