package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablebooking/internal/domain"
	"tablebooking/internal/service/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	UserID        int64     `json:"user_id"`
	PartySize     int       `json:"party_size"`
	StartsAt      time.Time `json:"starts_at"`
	SeatingTypeID int64     `json:"seating_type_id"`
	OccasionID    *int64    `json:"occasion_id"`
}

type updateBookingRequest struct {
	PartySize     int       `json:"party_size"`
	StartsAt      time.Time `json:"starts_at"`
	SeatingTypeID int64     `json:"seating_type_id"`
	OccasionID    *int64    `json:"occasion_id"`
}

type bookingResponse struct {
	Ref             string `json:"ref"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"payment_status"`
	PartySize       int    `json:"party_size"`
	StartsAt        string `json:"starts_at"`
	EndsAt          string `json:"ends_at"`
	TableID         int64  `json:"table_id"`
	SeatingTypeID   int64  `json:"seating_type_id"`
	BasePriceCents  int64  `json:"base_price_cents"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Ref:             b.Ref,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		PartySize:       b.PartySize,
		StartsAt:        b.StartsAt.Format(time.RFC3339),
		EndsAt:          b.EndsAt.Format(time.RFC3339),
		TableID:         b.TableID,
		SeatingTypeID:   b.SeatingTypeID,
		BasePriceCents:  b.BasePriceCents,
		TotalPriceCents: b.TotalPriceCents,
	}
}

// statusFor translates the domain error taxonomy into HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoTableAvailable),
		errors.Is(err, domain.ErrTableInUse),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConflictRetryable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAmbiguousTimeSlots),
		errors.Is(err, domain.ErrInternalInconsistency):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:ref", h.get)
	router.PUT("/:ref", h.update)
	router.POST("/:ref/confirm", h.confirm)
	router.POST("/:ref/no-show", h.noShow)
	router.DELETE("/:ref", h.cancel)
}

func (h *BookingHandler) RegisterAvailability(router *gin.RouterGroup) {
	router.GET("/", h.availability)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:        req.UserID,
		PartySize:     req.PartySize,
		StartsAt:      req.StartsAt,
		SeatingTypeID: req.SeatingTypeID,
		OccasionID:    req.OccasionID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) list(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), c.Param("ref"), booking.UpdateBookingInput{
		PartySize:     req.PartySize,
		StartsAt:      req.StartsAt,
		SeatingTypeID: req.SeatingTypeID,
		OccasionID:    req.OccasionID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	b, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) noShow(c *gin.Context) {
	b, err := h.service.MarkNoShow(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) availability(c *gin.Context) {
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_size must be an integer"})
		return
	}
	seatingTypeID, err := strconv.ParseInt(c.Query("seating_type_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seating_type_id must be an integer"})
		return
	}
	startsAt, err := time.Parse(time.RFC3339, c.Query("starts_at"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must be RFC3339"})
		return
	}

	table, err := h.service.CheckAvailability(c.Request.Context(), partySize, startsAt, seatingTypeID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"capacity":     table.Capacity,
	})
}
