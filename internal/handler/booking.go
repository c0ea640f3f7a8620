package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/booking"
	"github.com/iliyamo/office-seat-booking/internal/metrics"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
	"github.com/iliyamo/office-seat-booking/internal/service"
	"github.com/iliyamo/office-seat-booking/internal/session"
)

// attendanceMarker records an attendance mark on a user record.
type attendanceMarker interface {
	MarkAttendance(ctx context.Context, userID uint64, day time.Time) (model.User, error)
}

// lapseChecker re-evaluates the attendance-lapse rule for one user.
type lapseChecker interface {
	SweepUser(ctx context.Context, userID uint64)
}

// BookingHandler turns the session selection into a durable booking
// and manages its lifecycle: cancellation and attendance marks.  All
// mutations run in a single transaction with row locks so per-seat
// exclusivity and the one-active-booking-per-user rule hold across
// concurrent requests.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
	Users    attendanceMarker
	Sessions *session.Store
	Sweeper  lapseChecker
}

func NewBookingHandler(b *repository.BookingRepo, s *repository.SeatRepo, u attendanceMarker, st *session.Store, sw *service.LapseSweeper) *BookingHandler {
	return &BookingHandler{Bookings: b, Seats: s, Users: u, Sessions: st, Sweeper: sw}
}

// Create books the selected seat for the stored date range.  Missing
// selection or range is a silent no-op: the dashboard's confirm button
// simply does nothing until both are set.  A span over the limit is a
// hard validation error here even though range selection clamps; the
// double check keeps stale session records from slipping through.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Sessions.Get(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	from, to, ok := st.Range()
	if st.SelectedSeatID == 0 || !ok {
		return c.JSON(http.StatusOK, echo.Map{"booked": false})
	}
	if booking.SpanDays(from, to) > booking.MaxSpanDays {
		metrics.TrackOperation("book", "error")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking may span at most 7 days"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() { _ = tx.Rollback() }()

	seat, err := h.Seats.GetForUpdateTx(ctx, tx, st.SelectedSeatID)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if seat.Status == model.SeatMaintenance {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat under maintenance"})
	}
	// Seeded demo occupancy marks seats OCCUPIED without a backing
	// booking row, so the seat status is checked as well as the table.
	if seat.Status == model.SeatOccupied && (seat.OccupantID == nil || *seat.OccupantID != uid) {
		metrics.TrackOperation("book", "error")
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrSeatTaken.Error()})
	}

	// Per-seat exclusivity: at most one ACTIVE booking per seat.
	if _, err := h.Bookings.ActiveBySeatTx(ctx, tx, seat.ID); err == nil {
		metrics.TrackOperation("book", "error")
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrSeatTaken.Error()})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// One active booking per user.
	if _, err := h.Bookings.ActiveByUserTx(ctx, tx, uid); err == nil {
		metrics.TrackOperation("book", "error")
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrAlreadyBooked.Error()})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	b := model.Booking{
		UserID:   uid,
		SeatID:   seat.ID,
		FromDate: booking.Midnight(from),
		ToDate:   booking.Midnight(to),
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := h.Seats.SetOccupantTx(ctx, tx, seat.ID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seat failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	_ = h.Sessions.Clear(ctx, uid)
	metrics.TrackOperation("book", "ok")
	h.Sweeper.SweepUser(ctx, uid)

	ev := notify(queue.NewNotification(uid, "Booking Confirmed",
		"Your seat is booked from "+st.RangeFrom+" to "+st.RangeTo+".", queue.VariantDefault))
	return c.JSON(http.StatusCreated, echo.Map{
		"booked": true,
		"booking": echo.Map{
			"id":        b.ID,
			"seat_id":   b.SeatID,
			"from_date": st.RangeFrom,
			"to_date":   st.RangeTo,
			"status":    b.Status,
		},
		"notification": ev,
	})
}

// CancelCurrent cancels the caller's active booking and frees the
// seat.  Calling it without an active booking is an idempotent no-op,
// not an error.
func (h *BookingHandler) CancelCurrent(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() { _ = tx.Rollback() }()

	b, err := h.Bookings.ActiveByUserTx(ctx, tx, uid)
	if err == sql.ErrNoRows {
		_ = h.Sessions.Clear(ctx, uid)
		return c.JSON(http.StatusOK, echo.Map{"cancelled": false})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Bookings.CancelTx(ctx, tx, b.ID, model.CancelByUser); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.Seats.ClearOccupantTx(ctx, tx, b.SeatID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seat failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	_ = h.Sessions.Clear(ctx, uid)
	metrics.TrackOperation("cancel", "ok")

	ev := notify(queue.NewNotification(uid, "Booking Cancelled",
		"Your booking was cancelled and the seat released.", queue.VariantDestructive))
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true, "notification": ev})
}

// Current returns the caller's active booking with seat, floor and
// location detail, or a null booking when none exists.
func (h *BookingHandler) Current(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Bookings.CurrentDetail(ctx, uid)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusOK, echo.Map{"booking": nil})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": det})
}

// MarkAttendance stamps today's date on the caller's user record and
// increments the streak by one.  Every mark increments, repeated
// same-day marks included, and no booking is required: the streak
// belongs to the user and survives booking cancellation.
func (h *BookingHandler) MarkAttendance(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	today := booking.Midnight(time.Now())
	u, err := h.Users.MarkAttendance(ctx, uid, today)
	if err != nil {
		metrics.TrackOperation("attendance", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	metrics.TrackOperation("attendance", "ok")
	h.Sweeper.SweepUser(ctx, uid)

	ev := notify(queue.NewNotification(uid, "Attendance Marked",
		"Attendance recorded for today.", queue.VariantDefault))
	return c.JSON(http.StatusOK, echo.Map{
		"last_attendance":   today.Format("2006-01-02"),
		"attendance_streak": u.AttendanceStreak,
		"notification":      ev,
	})
}
