package handler

import (
	orgapp "github.com/fleet/ledger/internal/application/organization"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler serves /companies and /branches
type OrganizationHandler struct {
	BaseHandler
	service *orgapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service *orgapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// CreateCompany godoc
// POST /companies (admin)
func (h *OrganizationHandler) CreateCompany(c *gin.Context) {
	_, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req orgapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.service.CreateCompany(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// ListCompanies godoc
// GET /companies (admin)
func (h *OrganizationHandler) ListCompanies(c *gin.Context) {
	_, actor, ok := h.caller(c)
	if !ok {
		return
	}
	companies, err := h.service.ListCompanies(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, companies)
}

// CurrentCompany godoc
// GET /companies/current
func (h *OrganizationHandler) CurrentCompany(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	found, err := h.service.GetCompany(c.Request.Context(), company, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// CreateBranch godoc
// POST /branches (admin)
func (h *OrganizationHandler) CreateBranch(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	var req orgapp.CreateBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	branch, err := h.service.CreateBranch(c.Request.Context(), company, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// ListBranches godoc
// GET /branches
// Non-admin callers only see their own branch.
func (h *OrganizationHandler) ListBranches(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	branches, err := h.service.ListBranches(c.Request.Context(), company, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// GetBranch godoc
// GET /branches/:id
func (h *OrganizationHandler) GetBranch(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "branch")
	if !ok {
		return
	}
	branch, err := h.service.GetBranch(c.Request.Context(), company, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// DeleteBranch godoc
// DELETE /branches/:id (admin)
func (h *OrganizationHandler) DeleteBranch(c *gin.Context) {
	company, actor, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "branch")
	if !ok {
		return
	}
	if err := h.service.DeleteBranch(c.Request.Context(), company, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
