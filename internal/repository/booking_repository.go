package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking is a
// single user's claim on a single seat for a bounded date range.  The
// mutating paths are exposed as *Tx methods because every booking
// mutation also touches the seats table (occupancy) and the two must
// commit or roll back together.  All timestamp fields are stored in
// UTC; from/to are DATE columns.  Attendance state is not stored
// here, it lives on the users table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions
// spanning bookings and seats.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = "id, user_id, seat_id, from_date, to_date, status, cancel_reason, created_at, updated_at"

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var b model.Booking
	var reason sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.SeatID, &b.FromDate, &b.ToDate, &b.Status,
		&reason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if reason.Valid {
		s := reason.String
		b.CancelReason = &s
	}
	return b, nil
}

// ActiveByUser returns the caller's ACTIVE booking.  sql.ErrNoRows is
// returned when the user has no active booking.
func (r *BookingRepo) ActiveByUser(ctx context.Context, userID uint64) (model.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? AND status='ACTIVE' LIMIT 1", userID))
}

// ActiveByUserTx is ActiveByUser with a row lock, used inside the
// booking and swap transactions.
func (r *BookingRepo) ActiveByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? AND status='ACTIVE' LIMIT 1 FOR UPDATE", userID))
}

// ActiveBySeatTx returns the ACTIVE booking on a seat with a row lock.
// The booking transaction uses this to enforce at-most-one active
// booking per seat; sql.ErrNoRows means the seat is free.
func (r *BookingRepo) ActiveBySeatTx(ctx context.Context, tx *sql.Tx, seatID uint64) (model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE seat_id=? AND status='ACTIVE' LIMIT 1 FOR UPDATE", seatID))
}

// GetForUpdateTx loads a booking by id with a row lock.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	return scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? FOR UPDATE", id))
}

// CreateTx inserts a new ACTIVE booking within the scope of an
// existing transaction and populates the generated ID on the provided
// record.  The caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, seat_id, from_date, to_date, status) VALUES (?, ?, ?, ?, 'ACTIVE')`
	result, err := tx.ExecContext(ctx, q, b.UserID, b.SeatID, b.FromDate, b.ToDate)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingActive
	return nil
}

// CancelTx marks a booking CANCELLED with the given reason within a
// transaction.  Only ACTIVE rows are touched, so cancelling an already
// cancelled booking is a no-op at the SQL level as well.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64, reason string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status='CANCELLED', cancel_reason=? WHERE id=? AND status='ACTIVE'",
		reason, bookingID)
	return err
}

// MoveSeatTx reassigns an ACTIVE booking to a different seat within a
// transaction.  Used by swap approval to exchange the two parties'
// assignments atomically.
func (r *BookingRepo) MoveSeatTx(ctx context.Context, tx *sql.Tx, bookingID, newSeatID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE bookings SET seat_id=? WHERE id=? AND status='ACTIVE'",
		newSeatID, bookingID)
	return err
}

// ListLapsed returns the ACTIVE bookings whose holder's attendance has
// lapsed as of now: the user's last attendance mark (or the booking
// start when no mark exists yet) lies lapseDays or more whole days in
// the past.  The sweeper cancels each returned booking in its own
// transaction.
func (r *BookingRepo) ListLapsed(ctx context.Context, now time.Time, lapseDays int) ([]model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.seat_id, b.from_date, b.to_date, b.status, b.cancel_reason, b.created_at, b.updated_at
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           WHERE b.status='ACTIVE'
	             AND DATEDIFF(?, COALESCE(u.last_attendance, b.from_date)) >= ?`
	rows, err := r.db.QueryContext(ctx, q, now, lapseDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookingDetail is a booking joined with its seat, floor and location
// for display on the employee dashboard.
type BookingDetail struct {
	ID               uint64  `json:"id"`
	SeatID           uint64  `json:"seat_id"`
	SeatNumber       uint32  `json:"seat_number"`
	FloorID          uint64  `json:"floor_id"`
	FloorName        string  `json:"floor_name"`
	LocationSlug     string  `json:"location"`
	LocationName     string  `json:"location_name"`
	FromDate         string  `json:"from_date"`
	ToDate           string  `json:"to_date"`
	Status           string  `json:"status"`
	LastAttendance   *string `json:"last_attendance,omitempty"`
	AttendanceStreak uint32  `json:"attendance_streak"`
}

// CurrentDetail returns the caller's ACTIVE booking with seat, floor
// and location information.  sql.ErrNoRows is returned when no active
// booking exists.
func (r *BookingRepo) CurrentDetail(ctx context.Context, userID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.seat_id, s.seat_number, f.id, f.name, l.slug, l.name,
	                  b.from_date, b.to_date, b.status, u.last_attendance, u.attendance_streak
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           JOIN seats s ON s.id = b.seat_id
	           JOIN floors f ON f.id = s.floor_id
	           JOIN locations l ON l.id = f.location_id
	           WHERE b.user_id = ? AND b.status = 'ACTIVE'`
	var det BookingDetail
	var from, to time.Time
	var lastAtt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&det.ID, &det.SeatID, &det.SeatNumber, &det.FloorID, &det.FloorName,
		&det.LocationSlug, &det.LocationName, &from, &to, &det.Status, &lastAtt, &det.AttendanceStreak,
	)
	if err != nil {
		return nil, err
	}
	det.FromDate = from.UTC().Format("2006-01-02")
	det.ToDate = to.UTC().Format("2006-01-02")
	if lastAtt.Valid {
		d := lastAtt.Time.UTC().Format("2006-01-02")
		det.LastAttendance = &d
	}
	return &det, nil
}
