package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/metrics"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
)

// Narrow repository views; filing a swap never opens a transaction.
type swapStore interface {
	Create(ctx context.Context, s *model.SwapRequest) error
	ListByRequester(ctx context.Context, requesterID uint64) ([]model.SwapRequest, error)
}
type activeBookingReader interface {
	ActiveByUser(ctx context.Context, userID uint64) (model.Booking, error)
}

// SwapHandler files and lists seat-swap requests.  Creating a request
// requires an active booking; resolution is an admin operation and
// lives in AdminHandler.
type SwapHandler struct {
	Swaps    swapStore
	Bookings activeBookingReader
	Seats    seatReader
}

func NewSwapHandler(sw *repository.SwapRepo, b *repository.BookingRepo, s *repository.SeatRepo) *SwapHandler {
	return &SwapHandler{Swaps: sw, Bookings: b, Seats: s}
}

type createSwapReq struct {
	SeatID uint64 `json:"seat_id"` // the seat the requester wants
}

// Create files a PENDING swap request for the given target seat.
// Without an active booking the request is refused and nothing is
// recorded.
func (h *SwapHandler) Create(c echo.Context) error {
	var req createSwapReq
	if err := c.Bind(&req); err != nil || req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}
	uid, _ := c.Get("user_id").(uint64)
	name, _ := c.Get("name").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.ActiveByUser(ctx, uid)
	if err == sql.ErrNoRows {
		metrics.TrackOperation("swap_request", "error")
		ev := notify(queue.NewNotification(uid, "Swap Unavailable",
			"You need an active booking before requesting a seat swap.", queue.VariantDestructive))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":        "no active booking",
			"notification": ev,
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if req.SeatID == b.SeatID {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cannot swap with your own seat"})
	}

	target, err := h.Seats.GetByID(ctx, req.SeatID)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if target.Status == model.SeatMaintenance {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat under maintenance"})
	}

	s := model.SwapRequest{
		Reference:       uuid.NewString(),
		RequesterID:     uid,
		RequesterName:   name,
		CurrentSeatID:   b.SeatID,
		RequestedSeatID: target.ID,
	}
	if err := h.Swaps.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create swap failed"})
	}

	metrics.TrackOperation("swap_request", "ok")
	ev := notify(queue.NewNotification(uid, "Swap Requested",
		"Your swap request was sent for admin approval.", queue.VariantDefault))
	return c.JSON(http.StatusCreated, echo.Map{"swap": swapJSON(s), "notification": ev})
}

// ListMine returns the caller's swap requests, newest first.
func (h *SwapHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	swaps, err := h.Swaps.ListByRequester(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(swaps))
	for _, s := range swaps {
		out = append(out, swapJSON(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"swaps": out})
}

// swapJSON shapes a swap request for responses.  The public reference
// is the UUID; the row id only appears on admin payloads where it is
// needed for the approve/reject URLs.
func swapJSON(s model.SwapRequest) echo.Map {
	m := echo.Map{
		"reference":         s.Reference,
		"requester_id":      s.RequesterID,
		"requester_name":    s.RequesterName,
		"current_seat_id":   s.CurrentSeatID,
		"requested_seat_id": s.RequestedSeatID,
		"status":            s.Status,
		"created_at":        s.CreatedAt,
	}
	if s.ResolvedAt != nil {
		m["resolved_at"] = s.ResolvedAt
	}
	return m
}
