package handler

import (
	"encoding/json"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles lead-related HTTP requests
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

type leadRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	CompanyName *string         `json:"company_name"`
	Email       *string         `json:"email" binding:"omitempty,email"`
	Phone       *string         `json:"phone"`
	Source      *string         `json:"source"`
	Status      enum.LeadStatus `json:"status"`
	Notes       *string         `json:"notes"`
}

// List handles listing leads
func (h *LeadHandler) List(c *gin.Context) {
	var status *enum.LeadStatus
	if raw := c.Query("status"); raw != "" {
		var s enum.LeadStatus
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err == nil {
			status = &s
		}
	}

	result, err := h.leadService.ListLeads(c.Request.Context(), GetPagination(c), c.Query("search"), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Leads retrieved successfully", result)
}

// Get handles retrieving a single lead
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid lead ID")
		return
	}

	lead, err := h.leadService.GetLead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lead retrieved successfully", lead)
}

// Create handles creating a lead
func (h *LeadHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), &service.LeadInput{
		UserID:      *userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Source:      req.Source,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Lead created successfully", lead)
}

// Update handles updating a lead
func (h *LeadHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid lead ID")
		return
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), id, &service.LeadInput{
		UserID:      *userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Source:      req.Source,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Lead updated successfully", lead)
}

// Delete handles deleting a lead
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid lead ID")
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Convert handles converting a lead into a client
func (h *LeadHandler) Convert(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid lead ID")
		return
	}

	client, err := h.leadService.ConvertLead(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Lead converted successfully", client)
}
