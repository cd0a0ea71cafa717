package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/application/safe"
	"github.com/safedocs/backend/internal/domain/shared"
)

// InvestmentStore manages persisted investments and their documents
type InvestmentStore interface {
	Create(ctx context.Context, creatorID uuid.UUID, req safe.CreateInvestmentRequest) (*safe.InvestmentResponse, error)
	Get(ctx context.Context, creatorID, id uuid.UUID) (*safe.InvestmentResponse, error)
	List(ctx context.Context, creatorID uuid.UUID, req safe.ListInvestmentsRequest) ([]safe.InvestmentResponse, int64, error)
	Delete(ctx context.Context, creatorID, id uuid.UUID) error
	GenerateDocument(ctx context.Context, creatorID, id uuid.UUID) (*safe.DocumentLinkResponse, error)
	DocumentLink(ctx context.Context, creatorID, id uuid.UUID) (*safe.DocumentLinkResponse, error)
}

// InvestmentHandler handles investment record endpoints
type InvestmentHandler struct {
	BaseHandler
	investments InvestmentStore
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investments InvestmentStore) *InvestmentHandler {
	return &InvestmentHandler{investments: investments}
}

// Create godoc
// @ID           createInvestment
// @Summary      Record an investment
// @Description  Creates the investment together with any company, fund, founder or investor given inline
// @Tags         investments
// @Accept       json
// @Produce      json
// @Param        request body safe.CreateInvestmentRequest true "Investment"
// @Success      201 {object} APIResponse[safe.InvestmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments [post]
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req safe.CreateInvestmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.investments.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listInvestments
// @Summary      List investments
// @Tags         investments
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Param        order_by  query string false "Sort column" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]safe.InvestmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments [get]
func (h *InvestmentHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req safe.ListInvestmentsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	rows, total, err := h.investments.List(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := req.Page, req.PageSize
	defaults := shared.DefaultFilter()
	if page <= 0 {
		page = defaults.Page
	}
	if pageSize <= 0 {
		pageSize = defaults.PageSize
	}
	h.SuccessWithMeta(c, rows, total, page, pageSize)
}

// Get godoc
// @ID           getInvestment
// @Summary      Get an investment
// @Tags         investments
// @Produce      json
// @Param        id path string true "Investment ID" format(uuid)
// @Success      200 {object} APIResponse[safe.InvestmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments/{id} [get]
func (h *InvestmentHandler) Get(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}
	resp, err := h.investments.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteInvestment
// @Summary      Delete an investment
// @Description  Removes the investment and its stored document
// @Tags         investments
// @Param        id path string true "Investment ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments/{id} [delete]
func (h *InvestmentHandler) Delete(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}
	if err := h.investments.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GenerateDocument godoc
// @ID           generateInvestmentDocument
// @Summary      Generate and store the investment's SAFE
// @Description  Renders the document, stores it and returns a time-limited download link.
// @Description  The deal summary is attached when a provider is configured.
// @Tags         investments
// @Produce      json
// @Param        id path string true "Investment ID" format(uuid)
// @Success      200 {object} APIResponse[safe.DocumentLinkResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments/{id}/document [post]
func (h *InvestmentHandler) GenerateDocument(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}
	resp, err := h.investments.GenerateDocument(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetDocument godoc
// @ID           getInvestmentDocument
// @Summary      Get a download link for the stored SAFE
// @Tags         investments
// @Produce      json
// @Param        id path string true "Investment ID" format(uuid)
// @Success      200 {object} APIResponse[safe.DocumentLinkResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investments/{id}/document [get]
func (h *InvestmentHandler) GetDocument(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}
	resp, err := h.investments.DocumentLink(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InvestmentHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := getUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *InvestmentHandler) userAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.requireUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.PathID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
