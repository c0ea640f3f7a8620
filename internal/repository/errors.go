// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrSeatTaken indicates that another session already holds an
// active booking for a seat.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as approving a swap request that has
// already been resolved. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is returned by the booking transaction when the seat
// already has an active booking by another user. Per-seat mutual
// exclusion is enforced server-side with row locks.
var ErrSeatTaken = errors.New("seat already booked")

// ErrAlreadyBooked is returned when the caller already holds an
// active booking and tries to create another one.
var ErrAlreadyBooked = errors.New("user already has an active booking")

// ErrSeatNotFound is returned when a referenced seat does not exist.
var ErrSeatNotFound = errors.New("seat not found")
