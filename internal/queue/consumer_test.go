package queue

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	ev := NotificationEvent{
		UserID:      2,
		Title:       "Booking Confirmed",
		Description: "Your seat is booked from 2026-09-01 to 2026-09-05.",
		Variant:     VariantDefault,
		OccurredAt:  "2026-09-01T09:00:00Z",
	}
	line := FormatLine(ev)
	assert.Equal(t,
		"[2026-09-01T09:00:00Z] Booking Confirmed | user_id=2 | variant=default | Your seat is booked from 2026-09-01 to 2026-09-05.\n",
		line)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestNewNotificationStampsTime(t *testing.T) {
	ev := NewNotification(7, "Swap Rejected", "Your seat swap request was rejected.", VariantDestructive)
	assert.Equal(t, uint64(7), ev.UserID)
	assert.Equal(t, VariantDestructive, ev.Variant)
	assert.NotEmpty(t, ev.OccurredAt)
}

func TestNotificationEventRoundTripsThroughJSON(t *testing.T) {
	in := NewNotification(3, "Seat Selected", "Seat selected.", VariantDefault)
	body, err := json.Marshal(in)
	require.NoError(t, err)

	var out NotificationEvent
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, in, out)
}
