package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// CreateGame - POST /api/games
func (h *Handlers) CreateGame(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.services.Games.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, game)
}

// GetGame - GET /api/games/:id
func (h *Handlers) GetGame(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	game, err := h.services.Games.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// ListGames - GET /api/games?title=...
func (h *Handlers) ListGames(c *gin.Context) {
	var (
		games []models.Game
		err   error
	)

	if title := c.Query("title"); title != "" {
		games, err = h.services.Games.Search(c.Request.Context(), title)
	} else {
		games, err = h.services.Games.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, games)
}
