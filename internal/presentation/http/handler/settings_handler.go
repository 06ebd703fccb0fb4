package handler

import (
	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the authenticated user's document defaults
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// Update saves the authenticated user's document defaults
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		QuotationValidityDays int                        `json:"quotation_validity_days" binding:"required"`
		InvoiceDueDays        int                        `json:"invoice_due_days" binding:"required"`
		DefaultTaxRates       map[string]decimal.Decimal `json:"default_tax_rates"`
		CurrencySymbol        string                     `json:"currency_symbol" binding:"required,max=10"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:                *userID,
		QuotationValidityDays: req.QuotationValidityDays,
		InvoiceDueDays:        req.InvoiceDueDays,
		DefaultTaxRates:       req.DefaultTaxRates,
		CurrencySymbol:        req.CurrencySymbol,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
