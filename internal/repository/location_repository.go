package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

// LocationRepo provides read access to the location/floor catalog.
// Locations and floors are reference data: they are written once by
// the seeder and treated as read-only afterwards, so this repository
// exposes no mutation methods.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// List returns all locations ordered by id.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	const q = `SELECT id, slug, name, created_at FROM locations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Slug, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetBySlugOrFirst resolves a location by slug.  When the slug is empty
// or unknown the first location is returned instead of an error; the
// catalog always falls back to the first available item rather than
// failing on a missing id.
func (r *LocationRepo) GetBySlugOrFirst(ctx context.Context, slug string) (model.Location, error) {
	var l model.Location
	if slug != "" {
		err := r.db.QueryRowContext(ctx,
			"SELECT id, slug, name, created_at FROM locations WHERE slug=? LIMIT 1",
			slug).Scan(&l.ID, &l.Slug, &l.Name, &l.CreatedAt)
		if err == nil {
			return l, nil
		}
		if err != sql.ErrNoRows {
			return l, err
		}
	}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, slug, name, created_at FROM locations ORDER BY id LIMIT 1").
		Scan(&l.ID, &l.Slug, &l.Name, &l.CreatedAt)
	return l, err
}

// ListFloors returns the floors of a location ordered by position.
func (r *LocationRepo) ListFloors(ctx context.Context, locationID uint64) ([]model.Floor, error) {
	const q = `SELECT id, location_id, name, position, created_at
	           FROM floors WHERE location_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Floor, 0)
	for rows.Next() {
		var f model.Floor
		if err := rows.Scan(&f.ID, &f.LocationID, &f.Name, &f.Position, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFloorOrFirst resolves a floor by id, falling back to the first
// floor in the catalog when the id is unknown or zero.  Mirrors the
// location fallback: browsing never fails on a stale reference id.
func (r *LocationRepo) GetFloorOrFirst(ctx context.Context, id uint64) (model.Floor, error) {
	var f model.Floor
	if id != 0 {
		err := r.db.QueryRowContext(ctx,
			"SELECT id, location_id, name, position, created_at FROM floors WHERE id=? LIMIT 1",
			id).Scan(&f.ID, &f.LocationID, &f.Name, &f.Position, &f.CreatedAt)
		if err == nil {
			return f, nil
		}
		if err != sql.ErrNoRows {
			return f, err
		}
	}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, location_id, name, position, created_at FROM floors ORDER BY location_id, position LIMIT 1").
		Scan(&f.ID, &f.LocationID, &f.Name, &f.Position, &f.CreatedAt)
	return f, err
}

// CountLocations returns the number of location rows.  The seeder uses
// this to decide whether reference data already exists.
func (r *LocationRepo) CountLocations(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&n)
	return n, err
}
