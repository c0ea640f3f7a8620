package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/utils"
)

const testSecret = "test-secret"

func TestJWTAuthInjectsSessionClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, utils.SessionClaims{
		UserID:   2,
		Name:     "John Employee",
		Email:    "employee@demo.com",
		Role:     model.RoleEmployee,
		Location: "chennai",
	}, 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		assert.Equal(t, uint64(2), c.Get("user_id"))
		assert.Equal(t, "John Employee", c.Get("name"))
		assert.Equal(t, "employee@demo.com", c.Get("email"))
		assert.Equal(t, model.RoleEmployee, c.Get("role"))
		assert.Equal(t, "chennai", c.Get("location"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthAdminTokenHasNoLocation(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, utils.SessionClaims{
		UserID: 1,
		Name:   "Admin User",
		Email:  "admin@demo.com",
		Role:   model.RoleAdmin,
	}, 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		assert.Nil(t, c.Get("location"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
}

func TestJWTAuthMissingTokenRedirectsToLogin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "/login")
}

// A correctly signed token whose subject is not numeric must be
// rejected, not passed through with a string user_id that handler
// assertions would coerce to user 0.
func TestJWTAuthRejectsNonNumericSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":   "abc",
		"name":  "John Employee",
		"email": "employee@demo.com",
		"role":  model.RoleEmployee,
		"exp":   time.Now().UTC().Add(5 * time.Minute).Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "/login")
}

func TestJWTAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", utils.SessionClaims{UserID: 1, Role: model.RoleAdmin}, 5)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error { return nil })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
