package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tablebooking/api"
	"tablebooking/config"
	"tablebooking/internal/service/booking"
	"tablebooking/internal/service/venue"

	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, venueSvc venue.VenueUseCase) error {
	router := gin.Default()

	bookingHandler := api.NewBookingHandler(bookingSvc)
	bookingHandler.Register(router.Group("/bookings"))
	bookingHandler.RegisterAvailability(router.Group("/availability"))

	venueHandler := api.NewVenueHandler(venueSvc)
	venueHandler.Register(router.Group("/venue"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
