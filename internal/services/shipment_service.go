// internal/services/shipment_service.go
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

// ShipmentService owns the shipment state machine and the mirroring of
// shipment progress onto the parent order. The shipment row, the
// mirrored order status and the in-app notification rows always commit
// in the same transaction; only the email mirror is fire-and-forget.
type ShipmentService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateShipmentRequest struct {
	OrderID          uuid.UUID  `json:"order_id" validate:"required"`
	DriverID         *uuid.UUID `json:"driver_id,omitempty"`
	VehicleInfo      string     `json:"vehicle_info,omitempty" validate:"omitempty,max=255"`
	PickupLocation   string     `json:"pickup_location,omitempty" validate:"omitempty,max=500"`
	DeliveryLocation string     `json:"delivery_location,omitempty" validate:"omitempty,max=500"`
	Note             string     `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type AssignDriverRequest struct {
	DriverID    uuid.UUID `json:"driver_id" validate:"required"`
	VehicleInfo string    `json:"vehicle_info,omitempty" validate:"omitempty,max=255"`
}

type UpdateShipmentStatusRequest struct {
	Status models.ShipmentStatus `json:"status" validate:"required"`
	Note   string                `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type ShipmentFilter struct {
	utils.PaginationParams
	Status *models.ShipmentStatus `json:"status,omitempty"`
}

func NewShipmentService(db *gorm.DB, notificationService *NotificationService) *ShipmentService {
	return &ShipmentService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *ShipmentService) requireDriver(tx *gorm.DB, driverID uuid.UUID) (*models.User, error) {
	var driver models.User
	if err := tx.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: driver", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if driver.Role != models.UserRoleDriver {
		return nil, fmt.Errorf("%w: user is not a driver", ErrValidation)
	}

	if !driver.IsActive() {
		return nil, fmt.Errorf("%w: driver account is suspended", ErrValidation)
	}

	return &driver, nil
}

// CreateShipment creates the logistics record for a confirmed order.
// Pickup defaults to the farm address and delivery to the retailer
// address. Uniqueness per order is enforced by the partial unique
// index on shipments(order_id); losing that race is reported as a
// conflict, never as a second shipment.
func (s *ShipmentService) CreateShipment(managerID uuid.UUID, role models.UserRole, req *CreateShipmentRequest) (*models.Shipment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if role != models.UserRoleShipping && role != models.UserRoleAdmin {
		return nil, fmt.Errorf("%w: only shipping staff create shipments", ErrForbidden)
	}

	var shipment *models.Shipment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(forUpdate()).
			Preload("Product").Preload("Product.Farm").Preload("Retailer").
			First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusConfirmed {
			return fmt.Errorf("%w: order is not confirmed", ErrConflict)
		}

		pickup := req.PickupLocation
		if pickup == "" {
			pickup = order.Product.Farm.Address
		}
		delivery := req.DeliveryLocation
		if delivery == "" {
			delivery = order.Retailer.Address
		}
		if pickup == "" || delivery == "" {
			return fmt.Errorf("%w: pickup and delivery locations are required", ErrValidation)
		}

		status := models.ShipmentStatusCreated
		if req.DriverID != nil {
			if _, err := s.requireDriver(tx, *req.DriverID); err != nil {
				return err
			}
			status = models.ShipmentStatusAssigned
		}

		trackingNumber, err := utils.GenerateTrackingNumber()
		if err != nil {
			return fmt.Errorf("failed to generate tracking number: %w", err)
		}

		shipment = &models.Shipment{
			OrderID:          order.ID,
			DriverID:         req.DriverID,
			ManagerID:        managerID,
			PickupLocation:   pickup,
			DeliveryLocation: delivery,
			Status:           status,
			TrackingNumber:   trackingNumber,
			VehicleInfo:      req.VehicleInfo,
			Note:             req.Note,
		}

		if err := tx.Create(shipment).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: an active shipment already exists for this order", ErrConflict)
			}
			return fmt.Errorf("failed to create shipment: %w", err)
		}

		// Shipment creation moves the order to shipping in the same
		// commit.
		if err := tx.Model(&order).
			Update("status", models.MirroredOrderStatus(status)).Error; err != nil {
			return fmt.Errorf("failed to mirror order status: %w", err)
		}

		shipment.Order = order
		if s.notificationService != nil {
			return s.notificationService.CreateShipmentStatusNotifications(tx, shipment)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Order").Preload("Order.Retailer").Preload("Driver").First(shipment, shipment.ID)

	if s.notificationService != nil {
		go s.notificationService.EmailShipmentStatusNotifications(shipment)
	}

	return shipment, nil
}

func (s *ShipmentService) GetShipment(id, actorID uuid.UUID, role models.UserRole) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.db.
		Preload("Order").Preload("Order.Retailer").Preload("Order.Product").Preload("Order.Product.Farm").
		Preload("Driver").Preload("Manager").
		First(&shipment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shipment", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !s.canViewShipment(&shipment, actorID, role) {
		return nil, fmt.Errorf("%w: not a participant of this shipment", ErrForbidden)
	}

	return &shipment, nil
}

func (s *ShipmentService) canViewShipment(shipment *models.Shipment, actorID uuid.UUID, role models.UserRole) bool {
	switch role {
	case models.UserRoleAdmin, models.UserRoleShipping:
		return true
	case models.UserRoleDriver:
		return shipment.DriverID != nil && *shipment.DriverID == actorID
	case models.UserRoleRetailer:
		return shipment.Order.RetailerID == actorID
	case models.UserRoleFarm:
		return shipment.Order.Product.Farm.OwnerID == actorID
	}
	return false
}

// AssignDriver moves a created shipment to assigned.
func (s *ShipmentService) AssignDriver(id, actorID uuid.UUID, role models.UserRole, req *AssignDriverRequest) (*models.Shipment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if role != models.UserRoleShipping && role != models.UserRoleAdmin {
		return nil, fmt.Errorf("%w: only shipping staff assign drivers", ErrForbidden)
	}

	var shipment models.Shipment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).Preload("Order").First(&shipment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: shipment", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !models.ShipmentEdgeExists(shipment.Status, models.ShipmentStatusAssigned) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shipment.Status, models.ShipmentStatusAssigned)
		}

		if _, err := s.requireDriver(tx, req.DriverID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"driver_id": req.DriverID,
			"status":    models.ShipmentStatusAssigned,
		}
		if req.VehicleInfo != "" {
			updates["vehicle_info"] = req.VehicleInfo
		}

		if err := tx.Model(&shipment).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to assign driver: %w", err)
		}

		shipment.DriverID = &req.DriverID
		shipment.Status = models.ShipmentStatusAssigned

		if s.notificationService != nil {
			return s.notificationService.CreateShipmentStatusNotifications(tx, &shipment)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Order").Preload("Order.Retailer").Preload("Driver").First(&shipment, shipment.ID)

	if s.notificationService != nil {
		go s.notificationService.EmailShipmentStatusNotifications(&shipment)
	}

	return &shipment, nil
}

// UpdateStatus advances (or fails) a shipment and mirrors the implied
// order status in the same transaction: both rows change together or
// not at all.
func (s *ShipmentService) UpdateStatus(id, actorID uuid.UUID, role models.UserRole, req *UpdateShipmentStatusRequest) (*models.Shipment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown shipment status %q", ErrValidation, req.Status)
	}

	var shipment models.Shipment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).Preload("Order").First(&shipment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: shipment", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !models.ShipmentEdgeExists(shipment.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shipment.Status, req.Status)
		}

		assignedDriver := shipment.DriverID != nil && *shipment.DriverID == actorID
		if !models.ShipmentTransitionAllowed(role, assignedDriver, shipment.Status, req.Status) {
			return fmt.Errorf("%w: role %s may not apply %s -> %s", ErrForbidden, role, shipment.Status, req.Status)
		}

		updates := map[string]interface{}{"status": req.Status}
		if req.Note != "" {
			updates["note"] = req.Note
		}
		if req.Status == models.ShipmentStatusDelivered {
			now := time.Now()
			updates["delivered_at"] = &now
			shipment.DeliveredAt = &now
		}

		if err := tx.Model(&shipment).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update shipment status: %w", err)
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", shipment.OrderID).
			Update("status", models.MirroredOrderStatus(req.Status)).Error; err != nil {
			return fmt.Errorf("failed to mirror order status: %w", err)
		}

		shipment.Status = req.Status

		if s.notificationService != nil {
			return s.notificationService.CreateShipmentStatusNotifications(tx, &shipment)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Order").Preload("Order.Retailer").Preload("Driver").First(&shipment, shipment.ID)

	if s.notificationService != nil {
		go s.notificationService.EmailShipmentStatusNotifications(&shipment)
	}

	return &shipment, nil
}

func (s *ShipmentService) ListShipments(filter ShipmentFilter) ([]models.Shipment, int64, error) {
	query := s.db.Model(&models.Shipment{}).
		Preload("Order").Preload("Order.Retailer").Preload("Driver")

	return s.listShipments(query, filter)
}

func (s *ShipmentService) ListFarmShipments(farmID, actorID uuid.UUID, role models.UserRole, filter ShipmentFilter) ([]models.Shipment, int64, error) {
	var farm models.Farm
	if err := s.db.First(&farm, farmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: farm", ErrNotFound)
		}
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	if role != models.UserRoleAdmin && role != models.UserRoleShipping && farm.OwnerID != actorID {
		return nil, 0, fmt.Errorf("%w: farm belongs to another owner", ErrForbidden)
	}

	query := s.db.Model(&models.Shipment{}).
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.farm_id = ?", farmID).
		Preload("Order").Preload("Order.Retailer").Preload("Driver")

	return s.listShipments(query, filter)
}

func (s *ShipmentService) ListDriverShipments(driverID uuid.UUID, filter ShipmentFilter) ([]models.Shipment, int64, error) {
	query := s.db.Model(&models.Shipment{}).
		Where("driver_id = ?", driverID).
		Preload("Order").Preload("Order.Retailer")

	return s.listShipments(query, filter)
}

func (s *ShipmentService) listShipments(query *gorm.DB, filter ShipmentFilter) ([]models.Shipment, int64, error) {
	if filter.Status != nil {
		query = query.Where("shipments.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shipments: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var shipments []models.Shipment
	if err := query.Find(&shipments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch shipments: %w", err)
	}

	return shipments, total, nil
}

// ListDrivers returns active driver accounts for assignment pickers.
func (s *ShipmentService) ListDrivers(params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.UserRoleDriver, models.UserStatusActive)

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	allowedSortFields := []string{"created_at", "full_name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var drivers []models.User
	if err := query.Find(&drivers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch drivers: %w", err)
	}

	return drivers, total, nil
}
