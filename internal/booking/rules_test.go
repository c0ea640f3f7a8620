package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSpanDaysIgnoresClockTime(t *testing.T) {
	from := time.Date(2026, time.March, 1, 23, 50, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 4, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 3, SpanDays(from, to))
	assert.Equal(t, 0, SpanDays(to, to))
}

func TestClampRangeWithinLimit(t *testing.T) {
	from := date(2026, time.March, 1)
	to := date(2026, time.March, 8) // span of exactly 7 days
	got, clamped := ClampRange(from, to)
	assert.False(t, clamped)
	assert.Equal(t, to, got)
}

func TestClampRangeTenDaySelection(t *testing.T) {
	// A 10-day selection from "today" must come back as exactly 7 days.
	from := date(2026, time.March, 1)
	to := from.AddDate(0, 0, 10)
	got, clamped := ClampRange(from, to)
	assert.True(t, clamped)
	assert.Equal(t, from.AddDate(0, 0, 7), got)
	assert.Equal(t, MaxSpanDays, SpanDays(from, got))
}

func TestFromSelectable(t *testing.T) {
	today := date(2026, time.March, 10)
	assert.True(t, FromSelectable(today, today))
	assert.True(t, FromSelectable(today.AddDate(0, 0, 5), today))
	assert.False(t, FromSelectable(today.AddDate(0, 0, -1), today))
	// Later the same day still counts as today.
	assert.True(t, FromSelectable(today.Add(18*time.Hour), today))
}

func TestLapseElapsed(t *testing.T) {
	last := date(2026, time.March, 1)
	assert.False(t, LapseElapsed(last, last))
	assert.False(t, LapseElapsed(last.AddDate(0, 0, 1), last))
	assert.True(t, LapseElapsed(last.AddDate(0, 0, 2), last))
	assert.True(t, LapseElapsed(last.AddDate(0, 0, 9), last))
	// One day plus a few hours is still only one whole day.
	assert.False(t, LapseElapsed(last.Add(47*time.Hour), last))
}
