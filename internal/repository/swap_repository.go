package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

// SwapRepo provides CRUD operations for swap requests.  Creation is a
// plain insert; resolution is transactional because approving a swap
// also exchanges the two parties' seat assignments and must reject a
// second resolution of the same request.
type SwapRepo struct {
	db *sql.DB
}

// NewSwapRepo returns a new SwapRepo bound to the given database.
func NewSwapRepo(db *sql.DB) *SwapRepo { return &SwapRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span swap requests, bookings and seats.
func (r *SwapRepo) DB() *sql.DB { return r.db }

const swapCols = "id, reference, requester_id, requester_name, current_seat_id, requested_seat_id, status, resolved_by, resolved_at, created_at"

func scanSwap(row interface{ Scan(...interface{}) error }) (model.SwapRequest, error) {
	var s model.SwapRequest
	var resolvedBy sql.NullInt64
	var resolvedAt sql.NullTime
	err := row.Scan(&s.ID, &s.Reference, &s.RequesterID, &s.RequesterName,
		&s.CurrentSeatID, &s.RequestedSeatID, &s.Status, &resolvedBy, &resolvedAt, &s.CreatedAt)
	if err != nil {
		return s, err
	}
	if resolvedBy.Valid {
		v := uint64(resolvedBy.Int64)
		s.ResolvedBy = &v
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		s.ResolvedAt = &t
	}
	return s, nil
}

// Create inserts a PENDING swap request and populates the generated ID.
func (r *SwapRepo) Create(ctx context.Context, s *model.SwapRequest) error {
	const q = `INSERT INTO swap_requests
	           (reference, requester_id, requester_name, current_seat_id, requested_seat_id, status)
	           VALUES (?, ?, ?, ?, ?, 'PENDING')`
	result, err := r.db.ExecContext(ctx, q,
		s.Reference, s.RequesterID, s.RequesterName, s.CurrentSeatID, s.RequestedSeatID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SwapPending
	return nil
}

// ListByRequester returns a user's swap requests, newest first.
func (r *SwapRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]model.SwapRequest, error) {
	const q = `SELECT ` + swapCols + ` FROM swap_requests WHERE requester_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, requesterID)
}

// ListAll returns every swap request, newest first.  Used by the admin
// dashboard.
func (r *SwapRepo) ListAll(ctx context.Context) ([]model.SwapRequest, error) {
	const q = `SELECT ` + swapCols + ` FROM swap_requests ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *SwapRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.SwapRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SwapRequest, 0)
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetForUpdateTx loads a swap request by id with a row lock.  The
// resolution flow locks the request first so that two concurrent admin
// actions serialize here and the loser sees the terminal status.
func (r *SwapRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.SwapRequest, error) {
	return scanSwap(tx.QueryRowContext(ctx,
		"SELECT "+swapCols+" FROM swap_requests WHERE id=? FOR UPDATE", id))
}

// ResolveTx stamps a locked PENDING request with its terminal status,
// the resolving admin and the resolution time.  The WHERE clause
// re-checks PENDING so a stale caller updates zero rows.
func (r *SwapRepo) ResolveTx(ctx context.Context, tx *sql.Tx, id uint64, status string, adminID uint64, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE swap_requests SET status=?, resolved_by=?, resolved_at=? WHERE id=? AND status='PENDING'",
		status, adminID, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
