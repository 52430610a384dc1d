// internal/handlers/farm.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/farmlink/agritrace-backend/internal/i18n"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type FarmHandler struct {
	catalogService *services.CatalogService
}

func NewFarmHandler(catalogService *services.CatalogService) *FarmHandler {
	return &FarmHandler{catalogService: catalogService}
}

// GET /farms
func (h *FarmHandler) GetFarms(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	farms, total, err := h.catalogService.ListFarms(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(farms, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /farms/my-farms
func (h *FarmHandler) GetMyFarms(c *gin.Context) {
	userID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	farms, err := h.catalogService.ListOwnedFarms(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"farms": farms})
}

// GET /farms/:id
func (h *FarmHandler) GetFarm(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	farm, err := h.catalogService.GetFarm(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"farm": farm})
}

// POST /farms
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	farm, err := h.catalogService.CreateFarm(userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmCreated),
		"farm":    farm,
	})
}

// PUT /farms/:id
func (h *FarmHandler) UpdateFarm(c *gin.Context) {
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

	var req services.UpdateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	farm, err := h.catalogService.UpdateFarm(id, userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmUpdated),
		"farm":    farm,
	})
}

// POST /seasons
func (h *FarmHandler) CreateSeason(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	season, err := h.catalogService.CreateSeason(userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySeasonCreated),
		"season":  season,
	})
}

// GET /farms/:id/seasons
func (h *FarmHandler) GetFarmSeasons(c *gin.Context) {
	farmID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	seasons, total, err := h.catalogService.ListFarmSeasons(farmID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(seasons, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /seasons/:id
func (h *FarmHandler) UpdateSeason(c *gin.Context) {
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

	var req services.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	season, err := h.catalogService.UpdateSeason(id, userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySeasonUpdated),
		"season":  season,
	})
}

// PUT /seasons/:id/complete
func (h *FarmHandler) CompleteSeason(c *gin.Context) {
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

	season, err := h.catalogService.CompleteSeason(id, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySeasonCompleted),
		"season":  season,
	})
}

// POST /seasons/:id/processes
func (h *FarmHandler) RecordProcess(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, role, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	seasonID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RecordProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	process, err := h.catalogService.RecordProcess(seasonID, userID, role, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProcessRecorded),
		"process": process,
	})
}
