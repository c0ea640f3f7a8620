package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                               // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Prometheus HTTP exposition handler

	"github.com/iliyamo/office-seat-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/office-seat-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/office-seat-booking/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check and the Prometheus metrics
// exposition endpoint.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication endpoints.  Login and
// refresh live under /v1/auth and need no session; logout and /v1/me
// run behind JWTAuth because they operate on the caller's session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the location/floor/seat browse endpoints.
// Both roles may browse; seat payloads are viewer-relative so the
// routes still require a session.  extra carries optional middleware
// such as the Redis response cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee, model.RoleAdmin),
	}, extra...)
	g := e.Group("/v1", mw...)
	g.GET("/locations", h.ListLocations)
	g.GET("/locations/:slug/floors", h.ListFloors)
	g.GET("/floors/:id/seats", h.ListSeats)
}
