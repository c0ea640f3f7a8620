package model

import "time"

// Location describes an office site (e.g. Chennai, Mumbai).  Locations
// are reference data: they are seeded once and treated as read-only by
// the rest of the service.  Employees pick a location at login and the
// chosen slug is attached to their session record.
//
// Fields:
//  ID        – primary key identifier.
//  Slug      – short stable identifier used in URLs and login requests.
//  Name      – human-readable name.
//  CreatedAt – creation timestamp.
type Location struct {
	ID        uint64    // locations.id
	Slug      string    // locations.slug
	Name      string    // locations.name
	CreatedAt time.Time // locations.created_at
}

// Floor is a single floor of a location.  Each floor belongs to
// exactly one location and carries an ordered list of seats.
//
// Fields:
//  ID         – primary key identifier.
//  LocationID – location to which this floor belongs.
//  Name       – human-readable name (e.g. "Floor 1").
//  Position   – ordering index within the location.
//  CreatedAt  – creation timestamp.
type Floor struct {
	ID         uint64    // floors.id
	LocationID uint64    // floors.location_id
	Name       string    // floors.name
	Position   uint32    // floors.position
	CreatedAt  time.Time // floors.created_at
}
