package middleware

// identity.go defines helper functions shared across middleware files.
// It provides a user identifier extraction function used by the rate
// limiter's key builder.  When no session is present "guest" is
// returned so anonymous traffic still gets bucketed.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the context values stored by
// JWTAuth.  It returns "guest" when no user is authenticated.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "guest"
}
