package handler

import (
	"encoding/json"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/domain/lifecycle"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/request"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations
func (h *QuotationHandler) List(c *gin.Context) {
	input := &service.ListQuotationsInput{
		Pagination: GetPagination(c),
		Search:     c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		var s enum.QuotationStatus
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err == nil {
			input.Status = &s
		}
	}
	if raw := c.Query("client_id"); raw != "" {
		if clientID, err := uuid.Parse(raw); err == nil {
			input.ClientID = &clientID
		}
	}

	result, err := h.quotationService.ListQuotations(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles retrieving a single quotation
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), &service.CreateQuotationInput{
		UserID:     *userID,
		ClientID:   clientID,
		IssueDate:  req.IssueDate,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
		Items:      request.ToInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Update handles editing a draft quotation
func (h *QuotationHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req request.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), &service.UpdateQuotationInput{
		UserID:     *userID,
		ID:         id,
		IssueDate:  req.IssueDate,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
		Items:      request.ToInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// transition applies a lifecycle event to a quotation
func (h *QuotationHandler) transition(c *gin.Context, event lifecycle.Event, message string) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.TransitionQuotation(c.Request.Context(), *userID, id, event)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, quotation)
}

// Send marks a draft quotation as sent to the client
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, lifecycle.EventSend, "Quotation sent successfully")
}

// MarkViewed records that the client viewed the quotation
func (h *QuotationHandler) MarkViewed(c *gin.Context) {
	h.transition(c, lifecycle.EventView, "Quotation marked as viewed")
}

// Approve records client approval of the quotation
func (h *QuotationHandler) Approve(c *gin.Context) {
	h.transition(c, lifecycle.EventApprove, "Quotation approved successfully")
}

// Reject records client rejection of the quotation
func (h *QuotationHandler) Reject(c *gin.Context) {
	h.transition(c, lifecycle.EventReject, "Quotation rejected")
}

// Revise pulls a sent or viewed quotation back to draft for editing
func (h *QuotationHandler) Revise(c *gin.Context) {
	h.transition(c, lifecycle.EventRevise, "Quotation reverted to draft")
}

// Convert converts an approved quotation into a draft invoice
func (h *QuotationHandler) Convert(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req request.ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.quotationService.ConvertQuotation(c.Request.Context(), *userID, id, req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation converted to invoice successfully", invoice)
}
