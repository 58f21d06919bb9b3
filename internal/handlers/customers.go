package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"arcadia/internal/models"
)

// CreateCustomer - POST /api/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.services.Customers.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer - GET /api/customers/:id
func (h *Handlers) GetCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	customer, err := h.services.Customers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ListCustomers - GET /api/customers?name=...
func (h *Handlers) ListCustomers(c *gin.Context) {
	var (
		customers []models.Customer
		err       error
	)

	if name := c.Query("name"); name != "" {
		customers, err = h.services.Customers.Search(c.Request.Context(), name)
	} else {
		customers, err = h.services.Customers.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// UpdateCustomer - PATCH /api/customers/:id
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.services.Customers.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer - DELETE /api/customers/:id
// Removes the customer and all dependent records.
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Deposit - POST /api/customers/:id/deposit
func (h *Handlers) Deposit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.CustomerID = id

	resp, err := h.services.Ledger.Deposit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBalance - GET /api/customers/:id/balance
func (h *Handlers) GetBalance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	resp, err := h.services.Ledger.GetBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTransactions - GET /api/customers/:id/transactions
func (h *Handlers) ListTransactions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	transactions, err := h.services.Ledger.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// AuditBalance - GET /api/customers/:id/audit
func (h *Handlers) AuditBalance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	balance, ledgerSum, err := h.services.Ledger.Audit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id": id,
		"balance":     balance,
		"ledger_sum":  ledgerSum,
		"consistent":  balance.Equal(ledgerSum),
	})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
