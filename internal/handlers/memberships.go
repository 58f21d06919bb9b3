package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// IssueMembership - POST /api/customers/:id/membership
func (h *Handlers) IssueMembership(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.IssueMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.CustomerID = id

	card, err := h.services.Memberships.Issue(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// GetMembership - GET /api/customers/:id/membership
func (h *Handlers) GetMembership(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	card, err := h.services.Memberships.GetByCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// RenewMembership - PATCH /api/customers/:id/membership/renew
func (h *Handlers) RenewMembership(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Years  int    `json:"years"`
		Method string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.services.Memberships.Renew(c.Request.Context(), id, req.Years, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// DeactivateMembership - PATCH /api/customers/:id/membership/deactivate
func (h *Handlers) DeactivateMembership(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Memberships.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
