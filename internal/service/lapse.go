// Package service hosts background jobs that run beside the HTTP
// server.  The lapse sweeper enforces the attendance rule: an active
// booking whose occupant has not marked attendance for two whole days
// is cancelled automatically and its seat freed.
package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/office-seat-booking/internal/booking"
	"github.com/iliyamo/office-seat-booking/internal/metrics"
	"github.com/iliyamo/office-seat-booking/internal/model"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
	queuepub "github.com/iliyamo/office-seat-booking/internal/service/queue_publisher"
)

// LapseSweeper scans for attendance-lapsed bookings and cancels them.
// Each candidate is re-checked and cancelled inside its own
// transaction so a concurrent attendance mark or manual cancellation
// wins cleanly and the sweep never cancels twice.
type LapseSweeper struct {
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
	Users    *repository.UserRepo
}

// NewLapseSweeper returns a sweeper over the given repositories.
func NewLapseSweeper(b *repository.BookingRepo, s *repository.SeatRepo, u *repository.UserRepo) *LapseSweeper {
	return &LapseSweeper{Bookings: b, Seats: s, Users: u}
}

// Schedule registers the sweep on the given cron runner, once per
// minute.  The caller owns starting and stopping the runner.
func (s *LapseSweeper) Schedule(c *cron.Cron) error {
	_, err := c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Sweep(ctx)
	})
	return err
}

// Sweep cancels every currently lapsed booking.  Errors on individual
// bookings are logged and do not stop the rest of the sweep.
func (s *LapseSweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	lapsed, err := s.Bookings.ListLapsed(ctx, now, booking.LapseDays)
	if err != nil {
		log.Printf("lapse sweep: list failed: %v", err)
		return
	}
	for _, b := range lapsed {
		if err := s.cancelLapsed(ctx, b.ID, now); err != nil {
			log.Printf("lapse sweep: booking %d: %v", b.ID, err)
		}
	}
}

// SweepUser re-runs the lapse check for one user's active booking.
// Handlers call this after attendance marks and new bookings so the
// rule is re-evaluated whenever its inputs change, not only on the
// minute tick.
func (s *LapseSweeper) SweepUser(ctx context.Context, userID uint64) {
	b, err := s.Bookings.ActiveByUser(ctx, userID)
	if err != nil {
		return // no active booking, nothing to check
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	now := time.Now().UTC()
	last := b.FromDate
	if u.LastAttendance != nil {
		last = *u.LastAttendance
	}
	if !booking.LapseElapsed(now, last) {
		return
	}
	if err := s.cancelLapsed(ctx, b.ID, now); err != nil {
		log.Printf("lapse check: booking %d: %v", b.ID, err)
	}
}

// cancelLapsed cancels one booking under a row lock, re-verifying
// inside the transaction that it is still ACTIVE and still lapsed.
func (s *LapseSweeper) cancelLapsed(ctx context.Context, bookingID uint64, now time.Time) error {
	tx, err := s.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	b, err := s.Bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if b.Status != model.BookingActive {
		return nil // already resolved by someone else
	}
	u, err := s.Users.GetForUpdateTx(ctx, tx, b.UserID)
	if err != nil {
		return err
	}
	last := b.FromDate
	if u.LastAttendance != nil {
		last = *u.LastAttendance
	}
	if !booking.LapseElapsed(now, last) {
		return nil // attendance arrived between listing and locking
	}

	if err := s.Bookings.CancelTx(ctx, tx, b.ID, model.CancelByLapse); err != nil {
		return err
	}
	if err := s.Seats.ClearOccupantTx(ctx, tx, b.SeatID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	metrics.TrackLapseCancellation()
	ev := queue.NewNotification(b.UserID, "Booking Cancelled",
		"Your booking was cancelled after two days without attendance.", queue.VariantDestructive)
	_ = queuepub.PublishNotification(ctx, ev)
	return nil
}
