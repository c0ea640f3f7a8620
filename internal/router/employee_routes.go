package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/handler"
	"github.com/iliyamo/office-seat-booking/internal/middleware"
	"github.com/iliyamo/office-seat-booking/internal/model"
)

// RegisterEmployee registers employee-scoped endpoints under /v1.  All
// routes require a valid JWT and the EMPLOYEE role.  Employees manage
// their booking session (seat and date-range selection), create and
// cancel bookings, mark attendance and file seat-swap requests.
func RegisterEmployee(e *echo.Echo, ses *handler.SessionHandler, bk *handler.BookingHandler, sw *handler.SwapHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee),
	)

	// Ephemeral session state: what the dashboard holds between clicks.
	g.PUT("/session/seat", ses.SelectSeat)
	g.PUT("/session/range", ses.SelectRange)

	// Durable booking lifecycle.
	g.POST("/bookings", bk.Create)
	g.GET("/bookings/current", bk.Current)
	g.DELETE("/bookings/current", bk.CancelCurrent)
	g.POST("/attendance", bk.MarkAttendance)

	// Seat swaps; resolution is admin-only and registered separately.
	g.POST("/swaps", sw.Create)
	g.GET("/swaps", sw.ListMine)
}
