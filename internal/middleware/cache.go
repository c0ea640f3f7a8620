package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/office-seat-booking/internal/config"
)

// captureWriter wraps the response writer so a successful catalog
// response can be stored after the handler runs.  Bodies beyond the
// configured limit are passed through uncached.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.size += int64(len(b))
	if w.limit <= 0 || w.size <= w.limit {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// cacheKeyFrom builds the Redis key for a request.  The key always uses
// the concrete request path (c.Request().URL.Path), never the route
// template, so /v1/floors/1/seats and /v1/floors/2/seats cache
// separately.  Seat listings are viewer-relative (selected_by_you), so
// the default strategy also folds in the authenticated user id.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	path := c.Request().URL.Path
	query := c.Request().URL.RawQuery

	var tail string
	switch cfg.KeyStrategy {
	case "path":
		tail = path
	case "path_query":
		tail = path + "?" + query
	case "viewer_path":
		tail = userID(c) + "|" + path
	default: // viewer_path_query
		tail = userID(c) + "|" + path + "?" + query
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// encodePayload packs status, headers and body into a single value:
// [4B status][4B header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) []byte {
	hdr, _ := json.Marshal(header)
	out := make([]byte, 0, 8+len(hdr)+len(body))
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(status))
	out = append(out, u32[:]...)
	binary.BigEndian.PutUint32(u32[:], uint32(len(hdr)))
	out = append(out, u32[:]...)
	out = append(out, hdr...)
	out = append(out, body...)
	return out
}

func decodePayload(raw []byte) (int, http.Header, []byte, bool) {
	if len(raw) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(raw[:4]))
	hdrLen := int(binary.BigEndian.Uint32(raw[4:8]))
	if len(raw) < 8+hdrLen {
		return 0, nil, nil, false
	}
	var header http.Header
	if err := json.Unmarshal(raw[8:8+hdrLen], &header); err != nil {
		return 0, nil, nil, false
	}
	return status, header, raw[8+hdrLen:], true
}

// NewRedisCache returns middleware caching successful catalog reads in
// Redis.  Only configured methods are considered; hits replay the
// stored status, headers and body with X-Cache: HIT, misses run the
// handler and store 200 responses for the configured TTL.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, header, body, ok := decodePayload(raw); ok {
					h := c.Response().Header()
					for k, vals := range header {
						if k == "Content-Length" {
							continue
						}
						for _, v := range vals {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(status, header.Get(echo.HeaderContentType), body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (cw.limit <= 0 || cw.size <= cw.limit) {
				payload := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
				rdb.SetEx(ctx, key, payload, ttl)
			}
			return nil
		}
	}
}
