// The worker owns everything that is not request-synchronous: expiring
// pending bookings whose start time has passed, and applying settled
// payments arriving on the payments topic.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablebooking/config"
	"tablebooking/internal/cache"
	"tablebooking/internal/kafka"
	"tablebooking/internal/repository"
	"tablebooking/internal/service/availability"
	"tablebooking/internal/service/booking"
	"tablebooking/internal/service/pricing"
	"tablebooking/internal/service/venue"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.PaymentEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode payment event error: %v", err)
				return nil
			}
			if _, err := bookingSvc.HandlePaymentPaid(ctx, event); err != nil {
				log.Printf("apply payment for booking %s: %v", event.BookingRef, err)
			}
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingSvc.ExpirePendingBookings(ctx)
			if err != nil {
				log.Printf("expire bookings error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d bookings", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
