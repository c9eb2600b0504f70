package handler

import (
	financeapp "github.com/fleet/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler serves /wallet
type WalletHandler struct {
	BaseHandler
	wallets   *financeapp.WalletService
	summaries *financeapp.WalletSummaryService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallets *financeapp.WalletService, summaries *financeapp.WalletSummaryService) *WalletHandler {
	return &WalletHandler{wallets: wallets, summaries: summaries}
}

type balanceQuery struct {
	BranchID *uuid.UUID `form:"branch_id"`
}

// Balance godoc
// GET /wallet/balance?branch_id=
// A branch without a wallet row reports zero.
func (h *WalletHandler) Balance(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var q balanceQuery
	if !h.bindQuery(c, &q) {
		return
	}

	balance, err := h.wallets.GetBalance(c.Request.Context(), company, actor, q.BranchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Adjust godoc
// POST /wallet/adjust
// Admin only. Overrides the balance and appends to the adjustment history.
func (h *WalletHandler) Adjust(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.AdjustBalanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	adjustment, err := h.wallets.AdjustBalance(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

// Adjustments godoc
// GET /wallet/adjustments
func (h *WalletHandler) Adjustments(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var filter financeapp.AdjustmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.wallets.ListAdjustments(c.Request.Context(), company, actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Summary godoc
// GET /wallet/summary?branch_id=&month=&year=
// Admins may omit branch_id for a company-wide view.
func (h *WalletHandler) Summary(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req financeapp.WalletSummaryRequest
	if !h.bindQuery(c, &req) {
		return
	}

	summary, err := h.summaries.Summary(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
