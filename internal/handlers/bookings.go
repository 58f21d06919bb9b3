package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// CreateBooking - POST /api/bookings
// Reserve a station slot and settle the payment from the balance.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Reserve(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewBookingResponse(booking))
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.services.Bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewBookingResponse(booking))
}

// CancelBooking - PATCH /api/bookings/cancel
// Release the slot and refund the payment; repeating the call is harmless.
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Cancel(c.Request.Context(), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewBookingResponse(booking))
}

// ListBookings - GET /api/bookings?customer_id=N&upcoming=true
func (h *Handlers) ListBookings(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		return
	}

	var bookings []models.Booking
	if c.Query("upcoming") == "true" {
		bookings, err = h.services.Bookings.ListUpcomingByCustomer(c.Request.Context(), customerID)
	} else {
		bookings, err = h.services.Bookings.ListByCustomer(c.Request.Context(), customerID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*models.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = models.NewBookingResponse(&bookings[i])
	}

	c.JSON(http.StatusOK, responses)
}

// CheckAvailability - GET /api/bookings/availability
// Probe a slot without reserving it.
func (h *Handlers) CheckAvailability(c *gin.Context) {
	stationID, err := strconv.ParseInt(c.Query("station_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station_id is required"})
		return
	}

	date := c.Query("date")
	start := c.Query("start_time")
	end := c.Query("end_time")

	available, err := h.services.Bookings.IsSlotAvailable(c.Request.Context(), stationID, date, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		StationID: stationID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Available: available,
	})
}
