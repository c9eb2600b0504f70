package handler

import (
	financeapp "github.com/fleet/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PayableHandler serves /payables
type PayableHandler struct {
	BaseHandler
	service *financeapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(service *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{service: service}
}

// Create godoc
// POST /payables
// Creates a PENDING payable. Non-admin callers always book into their own branch.
func (h *PayableHandler) Create(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.CreateObligationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payable, err := h.service.Create(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payable)
}

// List godoc
// GET /payables
// Filters: branch_id, status, start_date, end_date (due date), order_by, order_dir, page, page_size.
func (h *PayableHandler) List(c *gin.Context) {
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
// GET /payables/summary
// Same filters as List. Totals cover every match, not only the returned page.
func (h *PayableHandler) Summary(c *gin.Context) {
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
// GET /payables/:id
func (h *PayableHandler) Get(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "payable")
	if !ok {
		return
	}

	payable, err := h.service.GetByID(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// Update godoc
// PATCH /payables/:id
// Only PENDING payables can be changed.
func (h *PayableHandler) Update(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "payable")
	if !ok {
		return
	}
	var req financeapp.UpdateObligationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payable, err := h.service.Update(c.Request.Context(), company, actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// Pay godoc
// POST /payables/:id/pay
// Body is optional: {"settlement_date": "...", "notes": "..."}.
func (h *PayableHandler) Pay(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "payable")
	if !ok {
		return
	}
	var req financeapp.SettleRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.service.Pay(c.Request.Context(), company, actor, id, req)
	if result == nil {
		h.HandleError(c, err)
		return
	}
	h.Settled(c, result, err)
}

// Cancel godoc
// POST /payables/:id/cancel
func (h *PayableHandler) Cancel(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "payable")
	if !ok {
		return
	}

	payable, err := h.service.Cancel(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// Delete godoc
// DELETE /payables/:id
// Soft delete. PAID payables are rejected with INVALID_STATE.
func (h *PayableHandler) Delete(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "payable")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), company, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
