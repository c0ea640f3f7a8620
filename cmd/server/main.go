package main // Entry point package

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/iliyamo/office-seat-booking/internal/config"
	"github.com/iliyamo/office-seat-booking/internal/database"
	"github.com/iliyamo/office-seat-booking/internal/handler"
	"github.com/iliyamo/office-seat-booking/internal/middleware"
	"github.com/iliyamo/office-seat-booking/internal/queue"
	"github.com/iliyamo/office-seat-booking/internal/repository"
	"github.com/iliyamo/office-seat-booking/internal/router"
	"github.com/iliyamo/office-seat-booking/internal/seed"
	"github.com/iliyamo/office-seat-booking/internal/service"
	"github.com/iliyamo/office-seat-booking/internal/session"
)

func main() {
	// Load a local .env when present; real deployments set the
	// environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	locations := repository.NewLocationRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	swaps := repository.NewSwapRepo(db)

	// Seed the demo users and the office catalog.  SEED_RAND pins the
	// occupancy layout; zero means a fresh layout per boot.
	randSeed := cfg.SeedRand
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	seeder := seed.NewSeeder(db, users, locations, cfg.BcryptCost, rand.New(rand.NewSource(randSeed)))
	if err := seeder.Run(ctx); err != nil {
		cancel()
		log.Fatalf("seed: %v", err)
	}
	cancel()

	// Redis backs the booking-session store, the response cache and the
	// rate limiter.  A nil client degrades each of them independently.
	rdb := config.NewRedisClient()
	sessions := session.NewStore(rdb, time.Duration(cfg.SessionTTLMin)*time.Minute)

	sweeper := service.NewLapseSweeper(bookings, seats, users)

	authH := handler.NewAuthHandler(cfg, users, tokens, locations, sessions)
	catalogH := handler.NewCatalogHandler(locations, seats)
	sessionH := handler.NewSessionHandler(seats, sessions)
	bookingH := handler.NewBookingHandler(bookings, seats, users, sessions, sweeper)
	swapH := handler.NewSwapHandler(swaps, bookings, seats)
	adminH := handler.NewAdminHandler(swaps, bookings, seats)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterEmployee(e, sessionH, bookingH, swapH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background workers: the notification consumer tails the broker
	// queue into logs/notifications.log, the cron sweeper enforces the
	// attendance-lapse rule.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	cr := cron.New()
	if err := sweeper.Schedule(cr); err != nil {
		log.Fatalf("schedule lapse sweep: %v", err)
	}
	cr.Start()
	defer cr.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
