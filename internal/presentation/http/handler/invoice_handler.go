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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	paymentService *service.PaymentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, paymentService *service.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	input := &service.ListInvoicesInput{
		Pagination: GetPagination(c),
		Search:     c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		var s enum.InvoiceStatus
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err == nil {
			input.Status = &s
		}
	}
	if raw := c.Query("client_id"); raw != "" {
		if clientID, err := uuid.Parse(raw); err == nil {
			input.ClientID = &clientID
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles retrieving a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Create handles creating an invoice directly, without a source quotation
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		UserID:    *userID,
		ClientID:  clientID,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		Items:     request.ToInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles editing a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), &service.UpdateInvoiceInput{
		UserID:    *userID,
		ID:        id,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
		Items:     request.ToInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// transition applies a lifecycle event to an invoice
func (h *InvoiceHandler) transition(c *gin.Context, event lifecycle.Event, message string) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.TransitionInvoice(c.Request.Context(), *userID, id, event)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, invoice)
}

// Send issues a draft invoice to the client, opening it for payments
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.transition(c, lifecycle.EventSend, "Invoice sent successfully")
}

// Cancel cancels an invoice with no active payments
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, lifecycle.EventCancel, "Invoice cancelled")
}

// Revise pulls an unpaid invoice back to draft for editing
func (h *InvoiceHandler) Revise(c *gin.Context) {
	h.transition(c, lifecycle.EventRevise, "Invoice reverted to draft")
}

// ApplyPayment records a payment against the invoice
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.ApplyPayment(c.Request.Context(), &service.ApplyPaymentInput{
		UserID:           *userID,
		InvoiceID:        id,
		Amount:           req.Amount,
		Mode:             req.Mode,
		PaidOn:           req.PaidOn,
		Reference:        req.Reference,
		AllowOverpayment: req.AllowOverpayment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment applied successfully", payment)
}

// ListPayments lists all payments recorded against the invoice
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}
