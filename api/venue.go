package api

import (
	"net/http"
	"strconv"

	"tablebooking/internal/domain"
	"tablebooking/internal/service/venue"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	service venue.VenueUseCase
}

type tableResponse struct {
	ID            int64  `json:"id"`
	TableNumber   string `json:"table_number"`
	SeatingTypeID int64  `json:"seating_type_id"`
	Capacity      int    `json:"capacity"`
	IsActive      bool   `json:"is_active"`
}

type seatingTypeResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Capacity           int    `json:"capacity"`
	IsAccessible       bool   `json:"is_accessible"`
	PriceMultiplierPct int64  `json:"price_multiplier_pct"`
	LocationNote       string `json:"location_note,omitempty"`
	IsActive           bool   `json:"is_active"`
}

type timeSlotResponse struct {
	ID             int64  `json:"id"`
	StartMinute    int    `json:"start_minute"`
	EndMinute      int    `json:"end_minute"`
	Label          string `json:"label,omitempty"`
	BasePriceCents int64  `json:"base_price_cents"`
	IsActive       bool   `json:"is_active"`
}

func NewVenueHandler(service venue.VenueUseCase) *VenueHandler {
	return &VenueHandler{service: service}
}

func (h *VenueHandler) Register(router *gin.RouterGroup) {
	router.GET("/tables", h.tables)
	router.DELETE("/tables/:id", h.deleteTable)
	router.GET("/seating-types", h.seatingTypes)
	router.GET("/time-slots", h.timeSlots)
}

func (h *VenueHandler) tables(c *gin.Context) {
	tables, err := h.service.Tables(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		resp = append(resp, tableResponse{
			ID:            t.ID,
			TableNumber:   t.TableNumber,
			SeatingTypeID: t.SeatingTypeID,
			Capacity:      t.Capacity,
			IsActive:      t.IsActive,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VenueHandler) deleteTable(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.service.DeleteTable(c.Request.Context(), id); err != nil {
		status := statusFor(err)
		msg := err.Error()
		if err == domain.ErrTableInUse {
			msg = "table has bookings and cannot be deleted"
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VenueHandler) seatingTypes(c *gin.Context) {
	types, err := h.service.SeatingTypes(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]seatingTypeResponse, 0, len(types))
	for _, st := range types {
		resp = append(resp, seatingTypeResponse{
			ID:                 st.ID,
			Name:               st.Name,
			Capacity:           st.Capacity,
			IsAccessible:       st.IsAccessible,
			PriceMultiplierPct: st.PriceMultiplierPct,
			LocationNote:       st.LocationNote,
			IsActive:           st.IsActive,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VenueHandler) timeSlots(c *gin.Context) {
	slots, err := h.service.TimeSlots(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]timeSlotResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, timeSlotResponse{
			ID:             s.ID,
			StartMinute:    s.StartMinute,
			EndMinute:      s.EndMinute,
			Label:          s.Label,
			BasePriceCents: s.BasePriceCents,
			IsActive:       s.IsActive,
		})
	}
	c.JSON(http.StatusOK, resp)
}
