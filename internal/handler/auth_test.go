package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/config"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/session"
	"github.com/iliyamo/office-seat-booking/internal/utils"
)

type stubUsers struct {
	users []model.User
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

type stubTokens struct {
	stored []string
}

func (s *stubTokens) StoreRefresh(_ context.Context, _ uint64, hash string, _ time.Time) error {
	s.stored = append(s.stored, hash)
	return nil
}
func (s *stubTokens) ValidateRefresh(context.Context, string) (uint64, error) { return 0, sql.ErrNoRows }
func (s *stubTokens) RevokeByHash(context.Context, string) error              { return nil }
func (s *stubTokens) RevokeAllForUser(context.Context, uint64) error          { return nil }

type stubLocations struct {
	locs []model.Location
}

func (s *stubLocations) GetBySlugOrFirst(_ context.Context, slug string) (model.Location, error) {
	for _, l := range s.locs {
		if l.Slug == slug {
			return l, nil
		}
	}
	return s.locs[0], nil
}

func newAuthFixture(t *testing.T) *AuthHandler {
	t.Helper()
	adminHash, err := utils.HashPassword("admin123", 4)
	require.NoError(t, err)
	empHash, err := utils.HashPassword("employee123", 4)
	require.NoError(t, err)
	return &AuthHandler{
		Cfg: config.Config{JWTSecret: "test-secret", AccessTTLMin: 5, RefreshTTLDays: 7},
		Users: &stubUsers{users: []model.User{
			{ID: 1, Name: "Admin User", Email: "admin@demo.com", PasswordHash: adminHash, Role: model.RoleAdmin},
			{ID: 2, Name: "John Employee", Email: "employee@demo.com", PasswordHash: empHash, Role: model.RoleEmployee},
		}},
		Tokens: &stubTokens{},
		Locations: &stubLocations{locs: []model.Location{
			{ID: 1, Slug: "chennai", Name: "Chennai"},
			{ID: 3, Slug: "pune", Name: "Pune"},
		}},
		Sessions: session.NewStore(nil, time.Hour),
	}
}

func doLogin(t *testing.T, h *AuthHandler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLoginEmployeeAttachesLocation(t *testing.T) {
	h := newAuthFixture(t)
	rec, resp := doLogin(t, h, `{"email":"employee@demo.com","password":"employee123","location":"pune"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "EMPLOYEE", user["role"])
	assert.Equal(t, "pune", user["location"])
	access := resp["access"].(map[string]interface{})
	assert.NotEmpty(t, access["token"])
}

func TestLoginUnknownLocationFallsBackToFirst(t *testing.T) {
	h := newAuthFixture(t)
	rec, resp := doLogin(t, h, `{"email":"employee@demo.com","password":"employee123","location":"atlantis"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "chennai", user["location"])
}

func TestLoginAdminCarriesNoLocation(t *testing.T) {
	h := newAuthFixture(t)
	rec, resp := doLogin(t, h, `{"email":"admin@demo.com","password":"admin123","location":"pune"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "ADMIN", user["role"])
	_, hasLoc := user["location"]
	assert.False(t, hasLoc)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthFixture(t)
	rec, resp := doLogin(t, h, `{"email":"employee@demo.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", resp["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newAuthFixture(t)
	rec, resp := doLogin(t, h, `{"email":"ghost@demo.com","password":"employee123"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", resp["error"])
}
