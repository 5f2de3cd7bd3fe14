package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablebooking/config"
	"tablebooking/internal/bootstrap"
	"tablebooking/internal/cache"
	"tablebooking/internal/kafka"
	"tablebooking/internal/repository"
	"tablebooking/internal/service/availability"
	"tablebooking/internal/service/booking"
	"tablebooking/internal/service/pricing"
	"tablebooking/internal/service/venue"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Booking.VenueTimezone)
	if err != nil {
		log.Fatalf("load venue timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ReferenceCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	venueRepo := repository.NewVenueRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool, venueRepo, time.Duration(cfg.Booking.StoreTimeoutSeconds)*time.Second)
	paymentRepo := repository.NewPaymentRepository(pool)

	venueSvc := venue.NewVenueService(venueRepo, redisCache)
	resolver := availability.NewResolver(venueRepo, time.Duration(cfg.Booking.SlotDurationMinutes)*time.Minute)
	pricer := pricing.NewEngine(venueSvc, loc)
	bookingSvc := booking.NewBookingService(
		bookingRepo,
		paymentRepo,
		resolver,
		pricer,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.CreateRetries,
	)

	if err := bootstrap.Run(ctx, cfg, bookingSvc, venueSvc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
