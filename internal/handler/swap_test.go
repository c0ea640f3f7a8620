package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

type stubSwaps struct {
	created []model.SwapRequest
}

func (s *stubSwaps) Create(_ context.Context, sr *model.SwapRequest) error {
	sr.ID = uint64(len(s.created) + 1)
	sr.Status = model.SwapPending
	s.created = append(s.created, *sr)
	return nil
}

func (s *stubSwaps) ListByRequester(context.Context, uint64) ([]model.SwapRequest, error) {
	return s.created, nil
}

type stubBookings struct {
	booking *model.Booking
}

func (s *stubBookings) ActiveByUser(context.Context, uint64) (model.Booking, error) {
	if s.booking == nil {
		return model.Booking{}, sql.ErrNoRows
	}
	return *s.booking, nil
}

func swapFixture(b *model.Booking, seats map[uint64]model.Seat) (*SwapHandler, *stubSwaps) {
	swaps := &stubSwaps{}
	h := &SwapHandler{
		Swaps:    swaps,
		Bookings: &stubBookings{booking: b},
		Seats:    &stubSeats{seats: seats},
	}
	return h, swaps
}

func postSwap(t *testing.T, h *SwapHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/swaps", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(2))
	c.Set("name", "John Employee")
	require.NoError(t, h.Create(c))
	return rec
}

// A swap request without an active booking is refused and leaves no
// record behind.
func TestSwapWithoutBookingIsErrorAndNoRecord(t *testing.T) {
	h, swaps := swapFixture(nil, map[uint64]model.Seat{
		9: {ID: 9, Status: model.SeatOccupied},
	})

	rec := postSwap(t, h, `{"seat_id":9}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no active booking")
	assert.Empty(t, swaps.created)
}

func TestSwapCreatesPendingRequestWithReference(t *testing.T) {
	h, swaps := swapFixture(&model.Booking{ID: 1, UserID: 2, SeatID: 3}, map[uint64]model.Seat{
		9: {ID: 9, Status: model.SeatOccupied},
	})

	rec := postSwap(t, h, `{"seat_id":9}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, swaps.created, 1)
	got := swaps.created[0]
	assert.Equal(t, uint64(3), got.CurrentSeatID)
	assert.Equal(t, uint64(9), got.RequestedSeatID)
	assert.Equal(t, "John Employee", got.RequesterName)

	_, err := uuid.Parse(got.Reference)
	assert.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	swap := resp["swap"].(map[string]interface{})
	assert.Equal(t, model.SwapPending, swap["status"])
}

func TestSwapOwnSeatRejected(t *testing.T) {
	h, swaps := swapFixture(&model.Booking{ID: 1, UserID: 2, SeatID: 3}, map[uint64]model.Seat{
		3: {ID: 3, Status: model.SeatOccupied},
	})

	rec := postSwap(t, h, `{"seat_id":3}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, swaps.created)
}

func TestSwapMaintenanceTargetRejected(t *testing.T) {
	h, swaps := swapFixture(&model.Booking{ID: 1, UserID: 2, SeatID: 3}, map[uint64]model.Seat{
		4: {ID: 4, Status: model.SeatMaintenance},
	})

	rec := postSwap(t, h, `{"seat_id":4}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, swaps.created)
}
