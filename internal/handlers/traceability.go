// internal/handlers/traceability.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// TraceabilityHandler serves the unauthenticated consumer-facing
// endpoints.
type TraceabilityHandler struct {
	traceabilityService *services.TraceabilityService
}

func NewTraceabilityHandler(traceabilityService *services.TraceabilityService) *TraceabilityHandler {
	return &TraceabilityHandler{traceabilityService: traceabilityService}
}

// GET /seasons/:id
func (h *TraceabilityHandler) GetSeasonTrace(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	trace, err := h.traceabilityService.GetSeasonTrace(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trace)
}

// GET /batches/:code
func (h *TraceabilityHandler) GetBatchTrace(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		utils.BadRequestResponse(c, "Missing batch code", nil)
		return
	}

	trace, err := h.traceabilityService.GetBatchTrace(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trace)
}
