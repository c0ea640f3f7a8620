package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // SQL database interactions
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/office-seat-booking/internal/config"     // app configuration
	"github.com/iliyamo/office-seat-booking/internal/model"      // domain models
	"github.com/iliyamo/office-seat-booking/internal/repository" // DB repositories
	"github.com/iliyamo/office-seat-booking/internal/session"    // Redis booking-session store
	"github.com/iliyamo/office-seat-booking/internal/utils"      // helper functions (hashing, token issuing)
)

// Narrow views over the repositories, so the handler can be exercised
// without a database.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}
type tokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}
type locationResolver interface {
	GetBySlugOrFirst(ctx context.Context, slug string) (model.Location, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Users     userStore
	Tokens    tokenStore
	Locations locationResolver
	Sessions  *session.Store
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, l *repository.LocationRepo, s *session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Locations: l, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"` // slug, employees only
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
	Location     string `json:"location"` // optional, employees only
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// sessionPart is the serialized session record returned to the client
// and mirrored in the access-token claims.  Location is present for
// employees only.
type sessionPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Location string `json:"location,omitempty"`
}
type authResp struct {
	User    sessionPart `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Login verifies demo credentials and returns a token pair.  Employee
// logins carry an office location: the requested slug is resolved
// against the catalog and an unknown or absent slug falls back to the
// first location rather than failing.  Admin sessions have no location.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	locSlug, err := h.resolveLocation(ctx, u.Role, req.Location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve location failed"})
	}

	return h.issuePair(c, ctx, u, locSlug, http.StatusOK)
}

// Refresh validates a refresh token by hash, revokes it and issues a
// new pair.  Employees may resend their location slug; when absent the
// catalog fallback applies, same as at login.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	locSlug, err := h.resolveLocation(ctx, u.Role, req.Location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve location failed"})
	}

	return h.issuePair(c, ctx, u, locSlug, http.StatusOK)
}

// Logout revokes the presented refresh token (or all of the caller's
// tokens when none is supplied) and drops the Redis booking session.
// Runs behind JWTAuth, so the caller's identity comes from context.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	} else if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	// The ephemeral seat/range selection dies with the session.
	if h.Sessions != nil {
		_ = h.Sessions.Clear(ctx, uid)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me reconstructs the session record from the verified claims.  No DB
// round trip: the access token IS the session.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint64)
	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	loc, _ := c.Get("location").(string)
	return c.JSON(http.StatusOK, sessionPart{
		ID: uid, Name: name, Email: email, Role: role, Location: loc,
	})
}

// resolveLocation maps a requested slug to a stored one for employee
// sessions.  Admins never carry a location.
func (h *AuthHandler) resolveLocation(ctx context.Context, role, slug string) (string, error) {
	if role != model.RoleEmployee {
		return "", nil
	}
	loc, err := h.Locations.GetBySlugOrFirst(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return "", err
	}
	return loc.Slug, nil
}

// issuePair signs a new access/refresh pair for the user and writes
// the refresh hash, then responds with the session record and tokens.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u model.User, locSlug string, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, utils.SessionClaims{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Location: locSlug,
	}, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		User:    sessionPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Location: locSlug},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}
