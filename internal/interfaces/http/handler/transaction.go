package handler

import (
	financeapp "github.com/fleet/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// TransactionHandler serves /transactions
type TransactionHandler struct {
	BaseHandler
	service *financeapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *financeapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Create godoc
// POST /transactions
// Manual transactions never touch the wallet balance.
func (h *TransactionHandler) Create(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ft, err := h.service.Create(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ft)
}

// List godoc
// GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.service.List(c.Request.Context(), company, actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get godoc
// GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "transaction")
	if !ok {
		return
	}

	ft, err := h.service.GetByID(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ft)
}

// Update godoc
// PATCH /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "transaction")
	if !ok {
		return
	}
	var req financeapp.UpdateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ft, err := h.service.Update(c.Request.Context(), company, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ft)
}

// Delete godoc
// DELETE /transactions/:id
// Answers 409 while a payable or receivable references the transaction.
func (h *TransactionHandler) Delete(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "transaction")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), company, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
