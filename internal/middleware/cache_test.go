package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          10 * time.Second,
		KeyStrategy:  "viewer_path_query",
		Prefix:       "cache:catalog",
		MaxBodyBytes: 1 << 20,
	}
}

func seatsContext(e *echo.Echo, target string, uid uint64) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/floors/:id/seats")
	c.Set("user_id", uid)
	return c
}

// Two floors share one route template; their cache keys must differ so
// one floor's seat map is never served for another.
func TestCacheKeyDistinguishesFloors(t *testing.T) {
	e := echo.New()
	cfg := cacheTestConfig()

	k1 := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/1/seats", 7))
	k2 := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/2/seats", 7))

	assert.NotEqual(t, k1, k2)
}

// Seat listings carry per-viewer selected_by_you flags, so two users
// requesting the same floor must not share a cache entry.
func TestCacheKeyDistinguishesViewers(t *testing.T) {
	e := echo.New()
	cfg := cacheTestConfig()

	kA := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/1/seats", 7))
	kB := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/1/seats", 8))

	assert.NotEqual(t, kA, kB)
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	e := echo.New()
	cfg := cacheTestConfig()

	k1 := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/1/seats", 7))
	k2 := cacheKeyFrom(cfg, seatsContext(e, "/v1/floors/1/seats", 7))

	assert.Equal(t, k1, k2)
}

func TestCacheMissStoresAndTagsResponse(t *testing.T) {
	e := echo.New()
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	req := httptest.NewRequest(http.MethodGet, "/v1/floors/1/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/floors/:id/seats")
	c.Set("user_id", uint64(7))

	key := cacheKeyFrom(cfg, c)
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSetEx(key, `(?s).*`, cfg.TTL).SetVal("OK")

	handler := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"seats": []int{1, 2, 3}})
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitReplaysStoredResponse(t *testing.T) {
	e := echo.New()
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	req := httptest.NewRequest(http.MethodGet, "/v1/floors/1/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/floors/:id/seats")
	c.Set("user_id", uint64(7))

	body := []byte(`{"seats":[1,2,3]}`)
	header := http.Header{}
	header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	payload := encodePayload(http.StatusOK, header, body)

	key := cacheKeyFrom(cfg, c)
	mock.ExpectGet(key).SetVal(string(payload))

	called := false
	handler := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusInternalServerError)
	})

	require.NoError(t, handler(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, string(body), rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
