// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	NewUsersThisMonth  int64   `json:"new_users_this_month"`
	TotalFarms         int64   `json:"total_farms"`
	ActiveSeasons      int64   `json:"active_seasons"`
	TotalProducts      int64   `json:"total_products"`
	AvailableProducts  int64   `json:"available_products"`
	TotalOrders        int64   `json:"total_orders"`
	PendingOrders      int64   `json:"pending_orders"`
	OrdersThisMonth    int64   `json:"orders_this_month"`
	TotalRevenue       float64 `json:"total_revenue"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	ShipmentsInTransit int64   `json:"shipments_in_transit"`
	OpenReports        int64   `json:"open_reports"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole   `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required"`
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active suspended"`
	Reason string            `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type CreateReportRequest struct {
	Category string `json:"category" validate:"required,max=50"`
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
}

type ResolveReportRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required,oneof=resolved dismissed"`
	Resolution string              `json:"resolution" validate:"required,max=2000"`
}

type ReportFilter struct {
	utils.PaginationParams
	Status   *models.ReportStatus `json:"status,omitempty"`
	Category *string              `json:"category,omitempty"`
}

type AuditLogFilter struct {
	utils.PaginationParams
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	ResourceType *string    `json:"resource_type,omitempty"`
	CreatedAfter *time.Time `json:"created_after,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Farm{}).Count(&stats.TotalFarms)
	s.db.Model(&models.Season{}).Where("status = ?", models.SeasonStatusActive).Count(&stats.ActiveSeasons)

	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)
	s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusAvailable).Count(&stats.AvailableProducts)

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders)
	s.db.Model(&models.Order{}).Where("created_at >= ?", monthStart).Count(&stats.OrdersThisMonth)

	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, monthStart).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.Shipment{}).
		Where("status IN ?", []models.ShipmentStatus{
			models.ShipmentStatusAssigned,
			models.ShipmentStatusPickedUp,
			models.ShipmentStatusDelivering,
		}).Count(&stats.ShipmentsInTransit)

	s.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusOpen).Count(&stats.OpenReports)

	return stats, nil
}

// User management

func (s *AdminService) ListUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "full_name", "email", "role", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateUserRole assigns a marketplace role. Role assignment is the
// one identity decision this service owns: the external provider
// authenticates, the users row authorizes.
func (s *AdminService) UpdateUserRole(adminID, userID uuid.UUID, req *UpdateUserRoleRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	if adminID == userID {
		return nil, fmt.Errorf("%w: administrators cannot change their own role", ErrValidation)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("role", req.Role).Error; err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	user.Role = req.Role

	if s.notificationService != nil {
		go s.notificationService.SendCustomNotification(&NotificationRequest{
			RecipientID: user.ID,
			Type:        "role_changed",
			Title:       "Account role updated",
			Message:     fmt.Sprintf("Your account role is now %s", req.Role),
		})
	}

	return &user, nil
}

func (s *AdminService) UpdateUserStatus(adminID, userID uuid.UUID, req *UpdateUserStatusRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if adminID == userID {
		return nil, fmt.Errorf("%w: administrators cannot suspend themselves", ErrValidation)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.Status = req.Status

	if s.notificationService != nil {
		message := fmt.Sprintf("Your account status is now %s", req.Status)
		if req.Reason != "" {
			message = fmt.Sprintf("%s. Reason: %s", message, req.Reason)
		}
		go s.notificationService.SendCustomNotification(&NotificationRequest{
			RecipientID: user.ID,
			Type:        "status_changed",
			Title:       "Account status updated",
			Message:     message,
			SendEmail:   true,
		})
	}

	return &user, nil
}

// Reports

func (s *AdminService) CreateReport(senderID uuid.UUID, req *CreateReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	report := &models.Report{
		SenderID: senderID,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Status:   models.ReportStatusOpen,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

func (s *AdminService) ListReports(filter ReportFilter) ([]models.Report, int64, error) {
	query := s.db.Model(&models.Report{}).Preload("Sender")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	allowedSortFields := []string{"created_at", "status", "category"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, total, nil
}

func (s *AdminService) ListMyReports(senderID uuid.UUID, params utils.PaginationParams) ([]models.Report, int64, error) {
	query := s.db.Model(&models.Report{}).Where("sender_id = ?", senderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, total, nil
}

// ResolveReport closes an open report. Resolving twice is a conflict,
// not an overwrite.
func (s *AdminService) ResolveReport(reportID, adminID uuid.UUID, req *ResolveReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var report models.Report

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).First(&report, reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: report", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if report.Status != models.ReportStatusOpen {
			return fmt.Errorf("%w: report is already %s", ErrConflict, report.Status)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      req.Status,
			"resolved_by": adminID,
			"resolution":  req.Resolution,
			"resolved_at": &now,
		}

		if err := tx.Model(&report).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to resolve report: %w", err)
		}

		report.Status = req.Status
		report.ResolvedBy = &adminID
		report.Resolution = req.Resolution
		report.ResolvedAt = &now
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.SendReportResolvedNotification(&report)
	}

	return &report, nil
}

// Audit logs

func (s *AdminService) ListAuditLogs(filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ResourceType != nil {
		query = query.Where("resource_type = ?", *filter.ResourceType)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
