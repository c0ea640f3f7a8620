package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/booking"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/repository"
	"github.com/iliyamo/office-seat-booking/internal/session"
)

type stubSeats struct {
	seats map[uint64]model.Seat
}

func (s *stubSeats) GetByID(_ context.Context, id uint64) (model.Seat, error) {
	seat, ok := s.seats[id]
	if !ok {
		return model.Seat{}, repository.ErrSeatNotFound
	}
	return seat, nil
}

func sessionFixture(seats map[uint64]model.Seat) (*SessionHandler, redismock.ClientMock) {
	rdb, mock := redismock.NewClientMock()
	h := &SessionHandler{
		Seats:    &stubSeats{seats: seats},
		Sessions: session.NewStore(rdb, time.Hour),
	}
	return h, mock
}

func putJSON(t *testing.T, path, body string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	return c, rec
}

func TestSelectSeatStoresAvailableSeat(t *testing.T) {
	h, mock := sessionFixture(map[uint64]model.Seat{
		5: {ID: 5, Status: model.SeatAvailable},
	})
	raw, err := json.Marshal(session.State{SelectedSeatID: 5})
	require.NoError(t, err)
	mock.ExpectGet(session.Key(42)).RedisNil()
	mock.ExpectSetEx(session.Key(42), raw, time.Hour).SetVal("OK")

	c, rec := putJSON(t, "/v1/session/seat", `{"seat_id":5}`, 42)
	require.NoError(t, h.SelectSeat(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seat Selected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Picking an occupied seat must not disturb the stored selection; the
// response only opens the swap flow.  No Redis expectation is set, so
// any write would fail the test.
func TestSelectSeatOccupiedLeavesSelectionUntouched(t *testing.T) {
	other := uint64(7)
	h, mock := sessionFixture(map[uint64]model.Seat{
		2: {ID: 2, Status: model.SeatOccupied, OccupantID: &other},
	})

	c, rec := putJSON(t, "/v1/session/seat", `{"seat_id":2}`, 42)
	require.NoError(t, h.SelectSeat(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["swap_flow"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectSeatMaintenanceRejected(t *testing.T) {
	h, mock := sessionFixture(map[uint64]model.Seat{
		3: {ID: 3, Status: model.SeatMaintenance},
	})

	c, rec := putJSON(t, "/v1/session/seat", `{"seat_id":3}`, 42)
	require.NoError(t, h.SelectSeat(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectRangeClampsLongSpan(t *testing.T) {
	h, mock := sessionFixture(nil)

	from := booking.Midnight(time.Now())
	to := from.AddDate(0, 0, 10)
	want := session.State{
		RangeFrom: from.Format("2006-01-02"),
		RangeTo:   from.AddDate(0, 0, booking.MaxSpanDays).Format("2006-01-02"),
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	mock.ExpectGet(session.Key(42)).RedisNil()
	mock.ExpectSetEx(session.Key(42), raw, time.Hour).SetVal("OK")

	body := `{"from":"` + from.Format("2006-01-02") + `","to":"` + to.Format("2006-01-02") + `"}`
	c, rec := putJSON(t, "/v1/session/range", body, 42)
	require.NoError(t, h.SelectRange(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, want.RangeTo, resp["to"])
	assert.Equal(t, true, resp["clamped"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectRangePastStartRejected(t *testing.T) {
	h, mock := sessionFixture(nil)

	from := time.Now().AddDate(0, 0, -1)
	body := `{"from":"` + from.Format("2006-01-02") + `","to":"` + time.Now().Format("2006-01-02") + `"}`
	c, rec := putJSON(t, "/v1/session/range", body, 42)
	require.NoError(t, h.SelectRange(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
