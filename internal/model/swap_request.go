package model

import "time"

// SwapRequest is an employee's proposal to exchange their booked seat
// for another seat, subject to admin resolution.  PENDING is the only
// non-terminal status: once a request is APPROVED or REJECTED it is
// frozen and any further transition is refused.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – public UUID shown to users instead of the row id.
//  RequesterID     – user who filed the request.
//  RequesterName   – denormalised display name of the requester.
//  CurrentSeatID   – the requester's booked seat at request time.
//  RequestedSeatID – the seat the requester wants.
//  Status          – PENDING, APPROVED or REJECTED.
//  ResolvedBy      – admin who resolved the request (nullable).
//  ResolvedAt      – when the request was resolved (nullable).
//  CreatedAt       – creation timestamp.
type SwapRequest struct {
	ID              uint64     // swap_requests.id
	Reference       string     // swap_requests.reference
	RequesterID     uint64     // swap_requests.requester_id
	RequesterName   string     // swap_requests.requester_name
	CurrentSeatID   uint64     // swap_requests.current_seat_id
	RequestedSeatID uint64     // swap_requests.requested_seat_id
	Status          string     // swap_requests.status
	ResolvedBy      *uint64    // swap_requests.resolved_by (nullable)
	ResolvedAt      *time.Time // swap_requests.resolved_at (nullable)
	CreatedAt       time.Time  // swap_requests.created_at
}

// Swap request statuses.
const (
	SwapPending  = "PENDING"
	SwapApproved = "APPROVED"
	SwapRejected = "REJECTED"
)
