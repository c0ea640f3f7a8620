package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the session claims into the request context.  The provided secret
// must match the one used when issuing tokens.  This middleware wraps every
// protected route so that handlers can access the authenticated session via
// c.Get("user_id"), c.Get("name"), c.Get("email"), c.Get("role") and
// c.Get("location").  Requests without a valid token receive the same
// login-redirect response as wrong-role requests: the client always routes
// back to the login view.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header.  A valid header starts with
			// "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return redirectToLogin(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse the token using the HS256 signing method and our secret.
			// The callback supplies the signing key and rejects tokens using
			// a different algorithm.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return redirectToLogin(c, "invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return redirectToLogin(c, "invalid claims")
			}

			// JWT numeric values decode as float64; normalise the subject to
			// uint64 so handlers get a single type.  Tokens without a
			// numeric subject never identify a user and are rejected.
			sub, ok := claims["sub"].(float64)
			if !ok || sub < 0 {
				return redirectToLogin(c, "invalid token")
			}
			c.Set("user_id", uint64(sub))
			c.Set("name", claims["name"])
			c.Set("email", claims["email"])
			c.Set("role", claims["role"])
			if loc, ok := claims["loc"].(string); ok {
				c.Set("location", loc)
			}
			return next(c)
		}
	}
}

// redirectToLogin writes the uniform guard response: 401 with a
// redirect hint pointing at the login view.  No notification is
// produced for guard failures.
func redirectToLogin(c echo.Context, reason string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":    reason,
		"redirect": "/login",
	})
}
