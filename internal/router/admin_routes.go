package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-booking/internal/handler"
	"github.com/iliyamo/office-seat-booking/internal/middleware"
	"github.com/iliyamo/office-seat-booking/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role; a wrong-role caller
// is routed back to login exactly like an unauthenticated one.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/swaps", h.ListSwaps)
	g.POST("/swaps/:id/approve", h.Approve)
	g.POST("/swaps/:id/reject", h.Reject)
	g.GET("/analytics", h.Analytics)
}
