package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// CreateStation - POST /api/stations
func (h *Handlers) CreateStation(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.services.Stations.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, station)
}

// GetStation - GET /api/stations/:id
func (h *Handlers) GetStation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	station, err := h.services.Stations.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, station)
}

// ListStations - GET /api/stations
func (h *Handlers) ListStations(c *gin.Context) {
	stations, err := h.services.Stations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stations)
}

// SearchStations - GET /api/stations/search
func (h *Handlers) SearchStations(c *gin.Context) {
	query := c.Query("query")
	stationType := c.Query("type")
	status := c.Query("status")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	stations, err := h.services.Stations.Search(c.Request.Context(), query, stationType, status, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stations)
}

// UpdateStationStatus - PATCH /api/stations/:id/status
func (h *Handlers) UpdateStationStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.services.Stations.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, station)
}

// DeleteStation - DELETE /api/stations/:id
func (h *Handlers) DeleteStation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Stations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStationSchedule - GET /api/stations/:id/schedule?date=YYYY-MM-DD
func (h *Handlers) GetStationSchedule(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	bookings, err := h.services.Stations.Schedule(c.Request.Context(), id, date)
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
