package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID.  Emails are normalized to
// lower case before insertion so the unique index catches duplicates
// regardless of how the address was typed.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userCols = "id,name,email,password_hash,role,is_active,last_attendance,attendance_streak,created_at,updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (model.User, error) {
	var u model.User
	var lastAtt sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&lastAtt, &u.AttendanceStreak, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if lastAtt.Valid {
		t := lastAtt.Time
		u.LastAttendance = &t
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// MarkAttendance records an attendance mark: last_attendance is set to
// the given day and the streak is incremented by exactly one.  Every
// call increments, including repeated marks on the same day, and the
// mark succeeds whether or not the user currently holds a booking.
func (r *UserRepo) MarkAttendance(ctx context.Context, userID uint64, day time.Time) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_attendance=?, attendance_streak=attendance_streak+1 WHERE id=?",
		day, userID)
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, userID)
}

// GetForUpdateTx loads a user by id with a row lock.  The lapse
// sweeper uses this to re-check attendance inside its cancellation
// transaction.
func (r *UserRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.User, error) {
	return scanUser(tx.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? FOR UPDATE", id))
}

// Count returns the number of user rows.  Used by the seeder to skip
// seeding when demo users already exist.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
