package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

type stubAttendance struct {
	streak uint32
	last   *time.Time
	marks  int
}

func (s *stubAttendance) MarkAttendance(_ context.Context, _ uint64, day time.Time) (model.User, error) {
	s.streak++
	s.marks++
	d := day
	s.last = &d
	return model.User{ID: 2, AttendanceStreak: s.streak, LastAttendance: s.last}, nil
}

type stubSweeper struct {
	swept []uint64
}

func (s *stubSweeper) SweepUser(_ context.Context, userID uint64) {
	s.swept = append(s.swept, userID)
}

func postAttendance(t *testing.T, h *BookingHandler) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/attendance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(2))
	require.NoError(t, h.MarkAttendance(c))
	return rec
}

// Marking attendance succeeds and increments the streak even when the
// caller holds no active booking: the streak belongs to the user, not
// to a booking row.
func TestMarkAttendanceWithoutBookingIncrementsStreak(t *testing.T) {
	users := &stubAttendance{}
	sweeper := &stubSweeper{}
	h := &BookingHandler{Users: users, Sweeper: sweeper}

	rec := postAttendance(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, users.marks)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["attendance_streak"])
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), resp["last_attendance"])
	assert.Equal(t, []uint64{2}, sweeper.swept)
}

// Repeated marks keep incrementing, same-day marks included.
func TestMarkAttendanceAlwaysIncrements(t *testing.T) {
	users := &stubAttendance{streak: 4}
	h := &BookingHandler{Users: users, Sweeper: &stubSweeper{}}

	postAttendance(t, h)
	rec := postAttendance(t, h)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(6), resp["attendance_streak"])
	assert.Equal(t, 2, users.marks)
}
