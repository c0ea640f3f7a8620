// Package booking holds the pure rules of the seat-booking state
// machine: date-range spans and clamping, the attendance-lapse rule
// and swap-request status transitions.  Keeping these rules free of
// HTTP and SQL makes them directly testable and lets the handlers,
// the repositories and the background sweeper share one definition.
package booking

import "time"

// MaxSpanDays is the maximum number of days between the first and the
// last day of a booking.  A range from day D to day D+7 is accepted;
// anything longer is clamped at selection time and rejected at
// booking time.
const MaxSpanDays = 7

// LapseDays is the number of whole days without an attendance mark
// after which an active booking is cancelled automatically.
const LapseDays = 2

// Midnight truncates a timestamp to the start of its day in UTC.
// All date arithmetic in this package operates on midnights so that
// the time of day never influences a span.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SpanDays returns the number of whole days between from and to.
// Both arguments are truncated to midnight first, so SpanDays over a
// single calendar day is always zero regardless of clock times.
func SpanDays(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// ClampRange bounds a candidate date range to MaxSpanDays.  When the
// span between from and to exceeds the limit, to is pulled back to
// from + MaxSpanDays and the second return value reports that the
// range was clamped.  Shorter ranges pass through untouched.
func ClampRange(from, to time.Time) (time.Time, bool) {
	if SpanDays(from, to) > MaxSpanDays {
		return Midnight(from).AddDate(0, 0, MaxSpanDays), true
	}
	return Midnight(to), false
}

// FromSelectable reports whether from is a selectable start day, i.e.
// today or later.  Past dates are never selectable.
func FromSelectable(from, today time.Time) bool {
	return !Midnight(from).Before(Midnight(today))
}

// LapseElapsed reports whether the attendance-lapse rule has fired:
// LapseDays or more whole days have passed since the last attendance
// mark.  The caller must only invoke this while a booking is active.
func LapseElapsed(now, lastAttendance time.Time) bool {
	return SpanDays(lastAttendance, now) >= LapseDays
}
