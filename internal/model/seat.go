package model

import "time"

// Seat describes a physical desk on a floor.  Seats are uniquely
// identified by their floor and seat number.  Only AVAILABLE,
// OCCUPIED and MAINTENANCE are stored statuses; "selected" is a
// viewer-relative presentation state and is derived at read time by
// comparing against the caller's booked seat.
//
// Fields:
//  ID         – primary key identifier.
//  FloorID    – floor to which this seat belongs.
//  SeatNumber – number of the seat within the floor.
//  Status     – stored status (AVAILABLE, OCCUPIED, MAINTENANCE).
//  OccupantID – user currently occupying the seat (null when free).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	ID         uint64    // seats.id
	FloorID    uint64    // seats.floor_id
	SeatNumber uint32    // seats.seat_number
	Status     string    // seats.status
	OccupantID *uint64   // seats.occupant_id (nullable)
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}

// Stored seat statuses.
const (
	SeatAvailable   = "AVAILABLE"   // free to select and book
	SeatOccupied    = "OCCUPIED"    // booked by some user
	SeatMaintenance = "MAINTENANCE" // blocked, never selectable
)
