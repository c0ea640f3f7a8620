package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

// SeatRepo provides access to seats.  Seat status transitions that
// belong to a booking or swap flow are exposed as *Tx methods so the
// caller can bundle them with the booking mutation in one
// transaction; plain reads run on the pool directly.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span seats and bookings.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// SeatView is a seat decorated with viewer-relative presentation
// fields.  Status is the stored status; SelectedByYou is true when the
// seat is the caller's booked seat, in which case clients render it as
// "selected" rather than "occupied".
type SeatView struct {
	ID             uint64  `json:"id"`
	FloorID        uint64  `json:"floor_id"`
	SeatNumber     uint32  `json:"seat_number"`
	Status         string  `json:"status"`
	OccupantID     *uint64 `json:"occupant_id,omitempty"`
	OccupantName   *string `json:"occupant_name,omitempty"`
	SelectedByYou  bool    `json:"selected_by_you"`
	LastAttendance *string `json:"occupant_last_attendance,omitempty"`
	Streak         *uint32 `json:"occupant_streak,omitempty"`
}

// GetByID returns a single seat.  ErrSeatNotFound is returned when the
// id does not exist.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
	var s model.Seat
	var occ sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, floor_id, seat_number, status, occupant_id, created_at, updated_at FROM seats WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.FloorID, &s.SeatNumber, &s.Status, &occ, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrSeatNotFound
	}
	if err != nil {
		return s, err
	}
	if occ.Valid {
		v := uint64(occ.Int64)
		s.OccupantID = &v
	}
	return s, nil
}

// ListByFloor returns all seats on a floor with occupant display data,
// ordered by seat number.  viewerID controls the SelectedByYou flag.
func (r *SeatRepo) ListByFloor(ctx context.Context, floorID, viewerID uint64) ([]SeatView, error) {
	const q = `SELECT s.id, s.floor_id, s.seat_number, s.status, s.occupant_id, u.name,
	                  u.last_attendance, u.attendance_streak
	           FROM seats s
	           LEFT JOIN users u ON u.id = s.occupant_id
	           WHERE s.floor_id = ?
	           ORDER BY s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeatView, 0)
	for rows.Next() {
		var v SeatView
		var occID sql.NullInt64
		var occName sql.NullString
		var lastAtt sql.NullTime
		var streak sql.NullInt64
		if err := rows.Scan(&v.ID, &v.FloorID, &v.SeatNumber, &v.Status, &occID, &occName, &lastAtt, &streak); err != nil {
			return nil, err
		}
		if occID.Valid {
			id := uint64(occID.Int64)
			v.OccupantID = &id
			v.SelectedByYou = id == viewerID
		}
		if occName.Valid {
			n := occName.String
			v.OccupantName = &n
		}
		if lastAtt.Valid {
			d := lastAtt.Time.UTC().Format("2006-01-02")
			v.LastAttendance = &d
		}
		if streak.Valid {
			s := uint32(streak.Int64)
			v.Streak = &s
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetForUpdateTx loads a seat with a row lock inside the given
// transaction.  The booking flow locks the seat first so that two
// concurrent bookings for the same seat serialize on this row.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Seat, error) {
	var s model.Seat
	var occ sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT id, floor_id, seat_number, status, occupant_id, created_at, updated_at FROM seats WHERE id=? FOR UPDATE",
		id).Scan(&s.ID, &s.FloorID, &s.SeatNumber, &s.Status, &occ, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrSeatNotFound
	}
	if err != nil {
		return s, err
	}
	if occ.Valid {
		v := uint64(occ.Int64)
		s.OccupantID = &v
	}
	return s, nil
}

// SetOccupantTx marks a seat OCCUPIED by the given user within a
// transaction.
func (r *SeatRepo) SetOccupantTx(ctx context.Context, tx *sql.Tx, seatID, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE seats SET status='OCCUPIED', occupant_id=? WHERE id=?",
		userID, seatID)
	return err
}

// ClearOccupantTx releases a seat back to AVAILABLE within a
// transaction.  Seats under maintenance are left untouched.
func (r *SeatRepo) ClearOccupantTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE seats SET status='AVAILABLE', occupant_id=NULL WHERE id=? AND status <> 'MAINTENANCE'",
		seatID)
	return err
}

// OccupancyCounts returns the number of occupiable seats and how many
// of them are occupied.  Maintenance seats are excluded from the
// denominator so the rate reflects bookable capacity.
func (r *SeatRepo) OccupancyCounts(ctx context.Context) (total, occupied int, err error) {
	const q = `SELECT
	             COUNT(CASE WHEN status <> 'MAINTENANCE' THEN 1 END),
	             COUNT(CASE WHEN status = 'OCCUPIED' THEN 1 END)
	           FROM seats`
	err = r.db.QueryRowContext(ctx, q).Scan(&total, &occupied)
	return total, occupied, err
}
