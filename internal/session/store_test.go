package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingKeyIsEmptyState(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db, time.Hour)

	mock.ExpectGet(Key(42)).RedisNil()

	st, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutThenGetRoundTrip(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db, time.Hour)

	st := State{SelectedSeatID: 7, RangeFrom: "2026-03-01", RangeTo: "2026-03-05"}
	raw, err := json.Marshal(st)
	require.NoError(t, err)

	mock.ExpectSetEx(Key(7), raw, time.Hour).SetVal("OK")
	require.NoError(t, store.Put(context.Background(), 7, st))

	mock.ExpectGet(Key(7)).SetVal(string(raw))
	got, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, st, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearDeletesKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db, time.Hour)

	mock.ExpectDel(Key(9)).SetVal(1)
	require.NoError(t, store.Clear(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorruptRecordReadsAsEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db, time.Hour)

	mock.ExpectGet(Key(3)).SetVal("{not json")
	st, err := store.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}

func TestNilClientIsUnavailable(t *testing.T) {
	store := NewStore(nil, time.Hour)
	_, err := store.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, store.Put(context.Background(), 1, State{}), ErrUnavailable)
	assert.ErrorIs(t, store.Clear(context.Background(), 1), ErrUnavailable)
}

func TestStateRange(t *testing.T) {
	st := State{RangeFrom: "2026-03-01", RangeTo: "2026-03-05"}
	from, to, ok := st.Range()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), to)

	_, _, ok = State{RangeFrom: "2026-03-01"}.Range()
	assert.False(t, ok)
	_, _, ok = State{RangeFrom: "bad", RangeTo: "2026-03-05"}.Range()
	assert.False(t, ok)
}
