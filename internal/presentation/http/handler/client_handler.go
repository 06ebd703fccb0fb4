package handler

import (
	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type clientRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	CompanyName *string `json:"company_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	GSTIN       *string `json:"gstin"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Notes       *string `json:"notes"`
}

// List handles listing clients
func (h *ClientHandler) List(c *gin.Context) {
	result, err := h.clientService.ListClients(c.Request.Context(), GetPagination(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Clients retrieved successfully", result)
}

// Get handles retrieving a single client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Create handles creating a client
func (h *ClientHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &service.ClientInput{
		UserID:      *userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTIN:       req.GSTIN,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Update handles updating a client
func (h *ClientHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, &service.ClientInput{
		UserID:      *userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTIN:       req.GSTIN,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles deleting a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
