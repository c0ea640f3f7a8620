package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/booking"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
	"github.com/iliyamo/office-seat-booking/internal/session"
)

// seatReader is the view of SeatRepo the session manager needs.
type seatReader interface {
	GetByID(ctx context.Context, id uint64) (model.Seat, error)
}

// SessionHandler manages the ephemeral booking session: which seat the
// employee has selected and which date range they are considering.
// Nothing here touches the bookings table; the state lives in Redis
// until POST /v1/bookings turns it into a durable booking.
type SessionHandler struct {
	Seats    seatReader
	Sessions *session.Store
}

func NewSessionHandler(s *repository.SeatRepo, st *session.Store) *SessionHandler {
	return &SessionHandler{Seats: s, Sessions: st}
}

type selectSeatReq struct {
	SeatID uint64 `json:"seat_id"`
}
type selectRangeReq struct {
	From string `json:"from"` // 2006-01-02
	To   string `json:"to"`
}

// SelectSeat records a seat selection in the session.  Only AVAILABLE
// seats are selectable: picking an occupied seat leaves the selection
// untouched and flags the swap flow instead, and maintenance seats are
// rejected outright.
func (h *SessionHandler) SelectSeat(c echo.Context) error {
	var req selectSeatReq
	if err := c.Bind(&req); err != nil || req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seat, err := h.Seats.GetByID(ctx, req.SeatID)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	switch seat.Status {
	case model.SeatMaintenance:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat under maintenance"})
	case model.SeatOccupied:
		if seat.OccupantID != nil && *seat.OccupantID == uid {
			// Caller clicked their own booked seat; nothing to select.
			return c.JSON(http.StatusOK, echo.Map{"seat_id": seat.ID, "already_yours": true})
		}
		// Selection stays where it was; the client opens the swap dialog
		// for this seat instead.
		return c.JSON(http.StatusOK, echo.Map{"seat_id": seat.ID, "swap_flow": true})
	}

	st, err := h.Sessions.Get(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	st.SelectedSeatID = seat.ID
	if err := h.Sessions.Put(ctx, uid, st); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}

	ev := notify(queue.NewNotification(uid, "Seat Selected",
		"Seat selected. Pick your dates and confirm to book it.", queue.VariantDefault))
	return c.JSON(http.StatusOK, echo.Map{"seat_id": seat.ID, "notification": ev})
}

// SelectRange records a candidate date range in the session.  The
// start day must be today or later; a span over the limit is clamped
// to it rather than rejected, and the response reports the stored
// (possibly clamped) range.
func (h *SessionHandler) SelectRange(c echo.Context) error {
	var req selectRangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	if !booking.FromSelectable(from, time.Now()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "start date is in the past"})
	}
	if booking.Midnight(to).Before(booking.Midnight(from)) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "end date is before start date"})
	}
	clampedTo, clamped := booking.ClampRange(from, to)

	uid, _ := c.Get("user_id").(uint64)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Sessions.Get(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	st.RangeFrom = booking.Midnight(from).Format("2006-01-02")
	st.RangeTo = clampedTo.Format("2006-01-02")
	if err := h.Sessions.Put(ctx, uid, st); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"from":    st.RangeFrom,
		"to":      st.RangeTo,
		"clamped": clamped,
	})
}
