package handler

import (
	financeapp "github.com/fleet/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ReceivableHandler serves /receivables
type ReceivableHandler struct {
	BaseHandler
	service *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(service *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{service: service}
}

// Create godoc
// POST /receivables
// Creates a PENDING receivable. Non-admin callers always book into their own branch.
func (h *ReceivableHandler) Create(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CreateObligationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	receivable, err := h.service.Create(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivable)
}

// List godoc
// GET /receivables
// Filters: branch_id, status, start_date, end_date (due date), order_by, order_dir, page, page_size.
func (h *ReceivableHandler) List(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.ObligationListFilter
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

// Summary godoc
// GET /receivables/summary
// Same filters as List. Totals cover every match, not only the returned page.
func (h *ReceivableHandler) Summary(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.ObligationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), company, actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get godoc
// GET /receivables/:id
func (h *ReceivableHandler) Get(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "receivable")
	if !ok {
		return
	}

	receivable, err := h.service.GetByID(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Update godoc
// PATCH /receivables/:id
// Only PENDING receivables can be changed.
func (h *ReceivableHandler) Update(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "receivable")
	if !ok {
		return
	}
	var req financeapp.UpdateObligationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	receivable, err := h.service.Update(c.Request.Context(), company, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Receive godoc
// POST /receivables/:id/receive
// Records an INCOME transaction and credits the branch wallet. Body is optional.
func (h *ReceivableHandler) Receive(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "receivable")
	if !ok {
		return
	}
	var req financeapp.SettleRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.service.Receive(c.Request.Context(), company, actor, id, req)
	if result == nil {
		h.HandleError(c, err)
		return
	}
	h.Settled(c, result, err)
}

// Cancel godoc
// POST /receivables/:id/cancel
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "receivable")
	if !ok {
		return
	}

	receivable, err := h.service.Cancel(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// Delete godoc
// DELETE /receivables/:id
// Soft delete. RECEIVED receivables cannot be removed.
func (h *ReceivableHandler) Delete(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "receivable")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), company, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
