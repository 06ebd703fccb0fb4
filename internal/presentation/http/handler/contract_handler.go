package handler

import (
	"encoding/json"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/request"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContractHandler handles AMC contract HTTP requests
type ContractHandler struct {
	contractService *service.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// List handles listing contracts
func (h *ContractHandler) List(c *gin.Context) {
	input := &service.ListContractsInput{
		Pagination: GetPagination(c),
		Search:     c.Query("search"),
	}

	if raw := c.Query("status"); raw != "" {
		var s enum.ContractStatus
		if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err == nil {
			input.Status = &s
		}
	}
	if raw := c.Query("client_id"); raw != "" {
		if clientID, err := uuid.Parse(raw); err == nil {
			input.ClientID = &clientID
		}
	}

	result, err := h.contractService.ListContracts(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Contracts retrieved successfully", result)
}

// Get handles retrieving a single contract with its visit schedule
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid contract ID")
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contract retrieved successfully", contract)
}

// Create handles creating a contract
func (h *ContractHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), &service.CreateContractInput{
		UserID:           *userID,
		ClientID:         clientID,
		ContractValue:    req.ContractValue,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ServiceFrequency: req.ServiceFrequency,
		Notes:            req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Contract created successfully", contract)
}

// Activate moves a draft contract to active
func (h *ContractHandler) Activate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid contract ID")
		return
	}

	contract, err := h.contractService.ActivateContract(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contract activated successfully", contract)
}

// Renew closes the contract as renewed and creates its successor
func (h *ContractHandler) Renew(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid contract ID")
		return
	}

	var req request.RenewContractRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	renewal, err := h.contractService.RenewContract(c.Request.Context(), &service.RenewContractInput{
		UserID:        *userID,
		ContractID:    id,
		ContractValue: req.ContractValue,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Contract renewed successfully", renewal)
}

// CompleteVisit marks a scheduled service visit as completed
func (h *ContractHandler) CompleteVisit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	visitID, ok := ParseIDParam(c, "visit_id")
	if !ok {
		response.BadRequest(c, "Invalid visit ID")
		return
	}

	var req request.CompleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	visit, err := h.contractService.CompleteVisit(c.Request.Context(), *userID, visitID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Visit completed successfully", visit)
}
