package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/booking"
	"github.com/iliyamo/office-seat-booking/internal/metrics"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
)

// Demo consumption figures surfaced on the analytics dashboard.
const (
	waterLitersPerDay    = 2500
	electricityKWhPerDay = 1200
)

// AdminHandler resolves swap requests and serves the analytics view.
// Swap resolution is transactional: approval exchanges both parties'
// seat assignments atomically and a request can only ever be resolved
// once.
type AdminHandler struct {
	Swaps    *repository.SwapRepo
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
}

func NewAdminHandler(sw *repository.SwapRepo, b *repository.BookingRepo, s *repository.SeatRepo) *AdminHandler {
	return &AdminHandler{Swaps: sw, Bookings: b, Seats: s}
}

// ListSwaps returns every swap request, newest first.  Row ids are
// included so the client can build approve/reject URLs.
func (h *AdminHandler) ListSwaps(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	swaps, err := h.Swaps.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(swaps))
	for _, s := range swaps {
		m := swapJSON(s)
		m["id"] = s.ID
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"swaps": out})
}

// Approve marks a PENDING swap request APPROVED and exchanges the seat
// assignments: the requester's active booking moves to the requested
// seat, and if that seat's occupant holds an active booking it moves
// to the requester's old seat.  Resolving a non-PENDING request is a
// conflict.
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.resolve(c, model.SwapApproved)
}

// Reject marks a PENDING swap request REJECTED.  Seat assignments are
// untouched.
func (h *AdminHandler) Reject(c echo.Context) error {
	return h.resolve(c, model.SwapRejected)
}

func (h *AdminHandler) resolve(c echo.Context, status string) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid swap id"})
	}
	adminID, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Swaps.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() { _ = tx.Rollback() }()

	s, err := h.Swaps.GetForUpdateTx(ctx, tx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "swap request not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := booking.SwapTransition(s.Status, status); err != nil {
		var terminal booking.ErrTerminalSwap
		if errors.As(err, &terminal) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "status": s.Status})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	now := time.Now().UTC()
	if err := h.Swaps.ResolveTx(ctx, tx, s.ID, status, adminID, now); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "swap request already resolved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve failed"})
	}

	var occupantID uint64
	if status == model.SwapApproved {
		occupantID, err = h.exchangeSeats(ctx, tx, s)
		if err != nil {
			if err == repository.ErrConflict {
				return c.JSON(http.StatusConflict, echo.Map{"error": "requester no longer holds an active booking"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat exchange failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	if status == model.SwapApproved {
		metrics.TrackOperation("swap_approve", "ok")
		notify(queue.NewNotification(s.RequesterID, "Swap Approved",
			"Your seat swap was approved. Your booking now points at the requested seat.", queue.VariantDefault))
		if occupantID != 0 {
			notify(queue.NewNotification(occupantID, "Seat Changed",
				"An approved swap moved your booking to a different seat.", queue.VariantDefault))
		}
	} else {
		metrics.TrackOperation("swap_reject", "ok")
		notify(queue.NewNotification(s.RequesterID, "Swap Rejected",
			"Your seat swap request was rejected.", queue.VariantDestructive))
	}

	return c.JSON(http.StatusOK, echo.Map{"id": s.ID, "reference": s.Reference, "status": status})
}

// exchangeSeats swaps the two parties' assignments inside the open
// transaction.  Returns the displaced occupant's user id, zero when
// the requested seat had no active booking.  ErrConflict is returned
// when the requester's booking disappeared since the request was
// filed; the swap cannot be honored and the whole transaction rolls
// back.
func (h *AdminHandler) exchangeSeats(ctx context.Context, tx *sql.Tx, s model.SwapRequest) (uint64, error) {
	reqBooking, err := h.Bookings.ActiveByUserTx(ctx, tx, s.RequesterID)
	if err == sql.ErrNoRows {
		return 0, repository.ErrConflict
	}
	if err != nil {
		return 0, err
	}
	// The requester may have moved since filing; exchange from the seat
	// their booking actually holds now.
	oldSeatID := reqBooking.SeatID

	occBooking, err := h.Bookings.ActiveBySeatTx(ctx, tx, s.RequestedSeatID)
	hasOccupant := err == nil
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}

	if err := h.Bookings.MoveSeatTx(ctx, tx, reqBooking.ID, s.RequestedSeatID); err != nil {
		return 0, err
	}
	if err := h.Seats.SetOccupantTx(ctx, tx, s.RequestedSeatID, s.RequesterID); err != nil {
		return 0, err
	}

	if hasOccupant {
		if err := h.Bookings.MoveSeatTx(ctx, tx, occBooking.ID, oldSeatID); err != nil {
			return 0, err
		}
		if err := h.Seats.SetOccupantTx(ctx, tx, oldSeatID, occBooking.UserID); err != nil {
			return 0, err
		}
		return occBooking.UserID, nil
	}
	if err := h.Seats.ClearOccupantTx(ctx, tx, oldSeatID); err != nil {
		return 0, err
	}
	return 0, nil
}

// Analytics reports live occupancy plus the demo consumption figures.
func (h *AdminHandler) Analytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, occupied, err := h.Seats.OccupancyCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	metrics.SetOccupancy(total, occupied)

	rate := 0.0
	if total > 0 {
		rate = float64(occupied) / float64(total)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"occupancy": echo.Map{
			"total_seats":    total,
			"occupied_seats": occupied,
			"rate":           rate,
		},
		"water_liters":    waterLitersPerDay,
		"electricity_kwh": electricityKWhPerDay,
	})
}
