// internal/handlers/shipment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/farmlink/agritrace-backend/internal/i18n"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type ShipmentHandler struct {
	shipmentService *services.ShipmentService
}

func NewShipmentHandler(shipmentService *services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

func shipmentFilterFromQuery(c *gin.Context) services.ShipmentFilter {
	filter := services.ShipmentFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		shipmentStatus := models.ShipmentStatus(status)
		filter.Status = &shipmentStatus
	}
	return filter
}

// POST /shipments
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	shipment, err := h.shipmentService.CreateShipment(userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyShipmentCreated),
		"shipment": shipment,
	})
}

// GET /shipments
func (h *ShipmentHandler) GetShipments(c *gin.Context) {
	filter := shipmentFilterFromQuery(c)

	shipments, total, err := h.shipmentService.ListShipments(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(shipments, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /shipments/:id
func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	shipment, err := h.shipmentService.GetShipment(id, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"shipment": shipment})
}

// PUT /shipments/:id/assign
func (h *ShipmentHandler) AssignDriver(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	shipment, err := h.shipmentService.AssignDriver(id, userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyShipmentDriverAssigned),
		"shipment": shipment,
	})
}

// PUT /shipments/:id/status
func (h *ShipmentHandler) UpdateShipmentStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	shipment, err := h.shipmentService.UpdateStatus(id, userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyShipmentStatusUpdated),
		"shipment": shipment,
	})
}

// GET /shipments/my-deliveries
func (h *ShipmentHandler) GetMyDeliveries(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	filter := shipmentFilterFromQuery(c)
	shipments, total, err := h.shipmentService.ListDriverShipments(userID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(shipments, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /shipments/farm/:farmId
func (h *ShipmentHandler) GetFarmShipments(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	farmID, ok := parseUUIDParam(c, "farmId")
	if !ok {
		return
	}

	filter := shipmentFilterFromQuery(c)
	shipments, total, err := h.shipmentService.ListFarmShipments(farmID, userID, role, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(shipments, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /drivers
func (h *ShipmentHandler) GetDrivers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	drivers, total, err := h.shipmentService.ListDrivers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(drivers, total, params)
	utils.PaginatedResponse(c, result)
}
