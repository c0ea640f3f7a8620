// Package session stores the ephemeral booking-session state of a
// logged-in employee: the currently selected seat and the candidate
// date range.  This state mirrors what the dashboard keeps between
// clicks; it is not part of the durable booking record, so it lives in
// Redis under a per-user key with a TTL and is cleared on booking and
// on logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when no Redis client is configured.  The
// service degrades by rejecting seat/range selection calls; durable
// booking state is unaffected.
var ErrUnavailable = errors.New("session store unavailable")

// State is the per-user booking session record.  Dates are stored as
// ISO "2006-01-02" strings so the serialized form is stable and
// readable in Redis.
type State struct {
	SelectedSeatID uint64 `json:"selected_seat_id,omitempty"`
	RangeFrom      string `json:"range_from,omitempty"`
	RangeTo        string `json:"range_to,omitempty"`
}

// Range parses the stored date range.  ok is false unless both bounds
// are present and valid; booking requires a fully specified range.
func (st State) Range() (from, to time.Time, ok bool) {
	if st.RangeFrom == "" || st.RangeTo == "" {
		return from, to, false
	}
	from, err := time.Parse("2006-01-02", st.RangeFrom)
	if err != nil {
		return from, to, false
	}
	to, err = time.Parse("2006-01-02", st.RangeTo)
	if err != nil {
		return from, to, false
	}
	return from, to, true
}

// Store reads and writes session state in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store writing entries with the given TTL.  rdb
// may be nil, in which case every call returns ErrUnavailable.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key returns the Redis key for a user's session record.
func Key(userID uint64) string {
	return "session:booking:" + strconv.FormatUint(userID, 10)
}

// Get loads a user's session state.  A missing key yields the zero
// State with no error: absence simply means nothing is selected.
func (s *Store) Get(ctx context.Context, userID uint64) (State, error) {
	var st State
	if s.rdb == nil {
		return st, ErrUnavailable
	}
	raw, err := s.rdb.Get(ctx, Key(userID)).Bytes()
	if err == redis.Nil {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt record is treated as empty rather than wedging the
		// session forever.
		return State{}, nil
	}
	return st, nil
}

// Put stores a user's session state, refreshing the TTL.
func (s *Store) Put(ctx context.Context, userID uint64, st State) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, Key(userID), raw, s.ttl).Err()
}

// Clear removes a user's session state.  Called after a successful
// booking and on logout.
func (s *Store) Clear(ctx context.Context, userID uint64) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	return s.rdb.Del(ctx, Key(userID)).Err()
}
