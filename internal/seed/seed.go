// Package seed populates the database with the demo dataset: the two
// demo accounts and the location/floor/seat catalog.  Seat occupancy
// is randomized at roughly 30% through an injected rand source so
// tests and demos can make it deterministic.  Seeding is idempotent:
// it skips any section whose rows already exist.
package seed

import (
	"context"
	"database/sql"
	"log"
	"math/rand"

	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/repository"
)

// OccupancyRate is the probability that a seeded seat starts out
// occupied.
const OccupancyRate = 0.3

// demoUser describes one seeded account.
type demoUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// demoFloor is one floor of the demo catalog with its seat count.
type demoFloor struct {
	Name  string
	Seats int
}

// demoLocation is one office site of the demo catalog.
type demoLocation struct {
	Slug   string
	Name   string
	Floors []demoFloor
}

// DemoUsers is the fixed demo credential set.
var DemoUsers = []demoUser{
	{Name: "Admin User", Email: "admin@demo.com", Password: "admin123", Role: model.RoleAdmin},
	{Name: "John Employee", Email: "employee@demo.com", Password: "employee123", Role: model.RoleEmployee},
}

// DemoLocations is the fixed office catalog.
var DemoLocations = []demoLocation{
	{Slug: "chennai", Name: "Chennai", Floors: []demoFloor{{"Floor 1", 20}, {"Floor 2", 15}}},
	{Slug: "mumbai", Name: "Mumbai", Floors: []demoFloor{{"Floor 1", 25}}},
	{Slug: "pune", Name: "Pune", Floors: []demoFloor{{"Floor 1", 18}}},
	{Slug: "kochi", Name: "Kochi", Floors: []demoFloor{{"Floor 1", 15}}},
	{Slug: "bangalore", Name: "Bangalore", Floors: []demoFloor{{"Floor 1", 30}, {"Floor 2", 25}}},
}

// OccupancyPlan draws the initial occupancy of n seats from rnd.  It
// is a pure function of the rand stream, which keeps seeded layouts
// reproducible for a fixed seed.
func OccupancyPlan(rnd *rand.Rand, n int) []bool {
	plan := make([]bool, n)
	for i := range plan {
		plan[i] = rnd.Float64() < OccupancyRate
	}
	return plan
}

// Seeder writes the demo dataset.
type Seeder struct {
	db    *sql.DB
	users *repository.UserRepo
	locs  *repository.LocationRepo
	cost  int
	rnd   *rand.Rand
}

// NewSeeder constructs a Seeder.  cost is the bcrypt cost used for the
// demo passwords; rnd drives seat occupancy.
func NewSeeder(db *sql.DB, users *repository.UserRepo, locs *repository.LocationRepo, cost int, rnd *rand.Rand) *Seeder {
	return &Seeder{db: db, users: users, locs: locs, cost: cost, rnd: rnd}
}

// Run executes all seeders.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	return s.seedCatalog(ctx)
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // accounts already exist
	}
	for _, u := range DemoUsers {
		if _, err := s.users.Create(ctx, u.Name, u.Email, u.Password, u.Role, s.cost); err != nil {
			return err
		}
	}
	log.Printf("seed: created %d demo users", len(DemoUsers))
	return nil
}

func (s *Seeder) seedCatalog(ctx context.Context) error {
	n, err := s.locs.CountLocations(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // catalog already exists
	}
	seats := 0
	for _, loc := range DemoLocations {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO locations (slug, name) VALUES (?,?)", loc.Slug, loc.Name)
		if err != nil {
			return err
		}
		locID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for pos, fl := range loc.Floors {
			fres, err := s.db.ExecContext(ctx,
				"INSERT INTO floors (location_id, name, position) VALUES (?,?,?)",
				locID, fl.Name, pos)
			if err != nil {
				return err
			}
			floorID, err := fres.LastInsertId()
			if err != nil {
				return err
			}
			plan := OccupancyPlan(s.rnd, fl.Seats)
			for i := 0; i < fl.Seats; i++ {
				status := model.SeatAvailable
				if plan[i] {
					status = model.SeatOccupied
				}
				if _, err := s.db.ExecContext(ctx,
					"INSERT INTO seats (floor_id, seat_number, status) VALUES (?,?,?)",
					floorID, i+1, status); err != nil {
					return err
				}
				seats++
			}
		}
	}
	log.Printf("seed: created %d locations with %d seats", len(DemoLocations), seats)
	return nil
}
