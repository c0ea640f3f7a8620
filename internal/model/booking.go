package model

import "time"

// Booking records an employee's claim on a seat for a bounded date
// range.  At most one ACTIVE booking exists per user and per seat;
// both bounds are enforced inside the booking transaction with row
// locks.  Attendance state lives on the user, not the booking, so a
// cancellation never touches the streak.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – user who made the booking.
//  SeatID       – seat being booked.
//  FromDate     – first day of the booking (inclusive).
//  ToDate       – last day of the booking (inclusive).
//  Status       – state of the booking (ACTIVE, CANCELLED).
//  CancelReason – why the booking was cancelled (nullable).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64    // bookings.id
	UserID       uint64    // bookings.user_id
	SeatID       uint64    // bookings.seat_id
	FromDate     time.Time // bookings.from_date
	ToDate       time.Time // bookings.to_date
	Status       string    // bookings.status
	CancelReason *string   // bookings.cancel_reason (nullable)
	CreatedAt    time.Time // bookings.created_at
	UpdatedAt    time.Time // bookings.updated_at
}

// Booking statuses.
const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
)

// Cancellation reasons stored in bookings.cancel_reason.
const (
	CancelByUser  = "USER"             // manual cancellation
	CancelByLapse = "ATTENDANCE_LAPSE" // auto-cancelled after 2 days without attendance
)
