package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The roles
// accepted correspond to the values stored in the JWT's "role" claim.
// A user with the wrong role gets the SAME response as an
// unauthenticated user: 401 with a login redirect, not 403.  The
// original product routes wrong-role access back to the login view
// rather than an "unauthorized" page, and that asymmetry is kept on
// purpose.  It assumes a previous middleware has extracted the role
// into the context under the key "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Build a set of allowed roles for constant-time lookups.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Retrieve the role from context.  It should have been stored
			// by JWTAuth as a string; if not present or of the wrong type,
			// treat it as missing.
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return redirectToLogin(c, "login required")
			}
			return next(c)
		}
	}
}
