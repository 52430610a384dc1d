// internal/handlers/admin.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmlink/agritrace-backend/internal/i18n"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type AdminHandler struct {
	adminService        *services.AdminService
	notificationService *services.NotificationService
	orderService        *services.OrderService
	shipmentService     *services.ShipmentService
}

func NewAdminHandler(adminService *services.AdminService, notificationService *services.NotificationService, orderService *services.OrderService, shipmentService *services.ShipmentService) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		notificationService: notificationService,
		orderService:        orderService,
		shipmentService:     shipmentService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if role := c.Query("role"); role != "" {
		userRole := models.UserRole(role)
		filter.Role = &userRole
	}
	if status := c.Query("status"); status != "" {
		userStatus := models.UserStatus(status)
		filter.Status = &userStatus
	}
	if afterStr := c.Query("created_after"); afterStr != "" {
		if after, err := time.Parse(time.RFC3339, afterStr); err == nil {
			filter.CreatedAfter = &after
		}
	}
	if beforeStr := c.Query("created_before"); beforeStr != "" {
		if before, err := time.Parse(time.RFC3339, beforeStr); err == nil {
			filter.CreatedBefore = &before
		}
	}

	users, total, err := h.adminService.ListUsers(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	filter := orderFilterFromQuery(c)

	orders, total, err := h.orderService.ListAllOrders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /admin/shipments
func (h *AdminHandler) GetShipments(c *gin.Context) {
	filter := shipmentFilterFromQuery(c)

	shipments, total, err := h.shipmentService.ListShipments(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(shipments, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.adminService.UpdateUserRole(adminID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserRoleUpdated),
		"user":    user,
	})
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.adminService.UpdateUserStatus(adminID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserStatusUpdated),
		"user":    user,
	})
}

// GET /admin/reports
func (h *AdminHandler) GetReports(c *gin.Context) {
	filter := services.ReportFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		reportStatus := models.ReportStatus(status)
		filter.Status = &reportStatus
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}

	reports, total, err := h.adminService.ListReports(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(reports, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/reports/:id/resolve
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, _, ok := currentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	reportID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.adminService.ResolveReport(reportID, adminID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportResolved),
		"report":  report,
	})
}

// POST /admin/notifications
func (h *AdminHandler) SendNotification(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.notificationService.SendCustomNotification(&req); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	filter := services.AuditLogFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := uuid.Parse(userIDStr); err == nil {
			filter.UserID = &userID
		}
	}
	if resourceType := c.Query("resource_type"); resourceType != "" {
		filter.ResourceType = &resourceType
	}
	if afterStr := c.Query("created_after"); afterStr != "" {
		if after, err := time.Parse(time.RFC3339, afterStr); err == nil {
			filter.CreatedAfter = &after
		}
	}

	logs, total, err := h.adminService.ListAuditLogs(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}
