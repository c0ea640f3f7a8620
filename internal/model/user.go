package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// Note that a user's office location is NOT a column: employees
// choose a location at login and it lives only in the session
// record for that session.  Attendance state lives here rather than
// on the booking row: a mark always counts, and cancelling a booking
// never resets the streak.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Name             – display name shown on dashboards and swap requests.
//  Email            – unique email address.
//  PasswordHash     – bcrypt hashed password.
//  Role             – name of the role (ADMIN or EMPLOYEE).
//  IsActive         – whether the account is active.
//  LastAttendance   – date attendance was last marked (nullable).
//  AttendanceStreak – count of attendance marks, incremented by one
//                     per mark and never decremented.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64     // users.id
	Name             string     // users.name
	Email            string     // users.email
	PasswordHash     string     // users.password_hash
	Role             string     // users.role
	IsActive         bool       // users.is_active
	LastAttendance   *time.Time // users.last_attendance (nullable)
	AttendanceStreak uint32     // users.attendance_streak
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}

// Roles recognised by the service.  The role is embedded in access
// tokens and checked by the route guard middleware.
const (
	RoleAdmin    = "ADMIN"    // can resolve swap requests and view analytics
	RoleEmployee = "EMPLOYEE" // can book seats, mark attendance and request swaps
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
