package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/repository"
)

// CatalogHandler serves the location/floor/seat reference data used by
// the booking dashboard.  All endpoints are read-only; seat status is
// reported relative to the viewer so clients can render the caller's
// booked seat as selected.
type CatalogHandler struct {
	Locations *repository.LocationRepo
	Seats     *repository.SeatRepo
}

func NewCatalogHandler(l *repository.LocationRepo, s *repository.SeatRepo) *CatalogHandler {
	return &CatalogHandler{Locations: l, Seats: s}
}

// ListLocations returns every office location.
func (h *CatalogHandler) ListLocations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	locs, err := h.Locations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locs})
}

// ListFloors returns the floors of a location.  An unknown slug falls
// back to the first location instead of failing.
func (h *CatalogHandler) ListFloors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	loc, err := h.Locations.GetBySlugOrFirst(ctx, c.Param("slug"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	floors, err := h.Locations.ListFloors(ctx, loc.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"location": loc, "floors": floors})
}

// ListSeats returns the seats of a floor decorated with occupant and
// viewer-relative data.  An unknown floor id falls back to the first
// floor, same as the location fallback.
func (h *CatalogHandler) ListSeats(c echo.Context) error {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	viewerID, _ := c.Get("user_id").(uint64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	floor, err := h.Locations.GetFloorOrFirst(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	seats, err := h.Seats.ListByFloor(ctx, floor.ID, viewerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"floor": floor, "seats": seats})
}
