package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// CreateTournament - POST /api/tournaments
func (h *Handlers) CreateTournament(c *gin.Context) {
	var req models.CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tournament, err := h.services.Tournaments.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tournament)
}

// GetTournament - GET /api/tournaments/:id
func (h *Handlers) GetTournament(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	tournament, err := h.services.Tournaments.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tournament)
}

// ListTournaments - GET /api/tournaments?upcoming=true
func (h *Handlers) ListTournaments(c *gin.Context) {
	var (
		tournaments []models.Tournament
		err         error
	)

	if c.Query("upcoming") == "true" {
		tournaments, err = h.services.Tournaments.ListUpcoming(c.Request.Context())
	} else {
		tournaments, err = h.services.Tournaments.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tournaments)
}

// RegisterParticipant - POST /api/tournaments/:id/register
// Claim a capacity slot and settle the entry fee.
func (h *Handlers) RegisterParticipant(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.RegisterTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.TournamentID = id

	participant, err := h.services.Tournaments.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

// ListParticipants - GET /api/tournaments/:id/participants
func (h *Handlers) ListParticipants(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	participants, err := h.services.Tournaments.ListParticipants(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, participants)
}

// UpdateTournamentStatus - PATCH /api/tournaments/:id/status
func (h *Handlers) UpdateTournamentStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Tournaments.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
