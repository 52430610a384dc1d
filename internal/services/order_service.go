// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// OrderService owns the order state machine. Allowed edges live in
// models.OrderTransitionAllowed; this service adds ownership checks
// and the transactional side effects (quantity reserve/release).
type OrderService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateOrderRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Note      string    `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderFilter struct {
	utils.PaginationParams
	Status *models.OrderStatus `json:"status,omitempty"`
}

func NewOrderService(db *gorm.DB, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		notificationService: notificationService,
	}
}

// CreateOrder places a retailer order against a product. The total
// price is computed from the product price at this moment and never
// recomputed afterwards. The quantity decrement is a conditional
// update, so concurrent orders cannot drive stock negative.
func (s *OrderService) CreateOrder(retailerID uuid.UUID, role models.UserRole, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if role != models.UserRoleRetailer && role != models.UserRoleAdmin {
		return nil, fmt.Errorf("%w: only retailers place orders", ErrForbidden)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if product.Status != models.ProductStatusAvailable {
			return fmt.Errorf("%w: product is not available", ErrValidation)
		}

		if req.Quantity > product.Quantity {
			return fmt.Errorf("%w: quantity exceeds available stock", ErrValidation)
		}

		// The guard is re-applied atomically; the reads above only
		// shape the error message for the common case.
		if err := reserveQuantity(tx, product.ID, req.Quantity); err != nil {
			return err
		}

		order = &models.Order{
			RetailerID: retailerID,
			ProductID:  product.ID,
			Quantity:   req.Quantity,
			TotalPrice: float64(req.Quantity) * product.Price,
			Status:     models.OrderStatusPending,
			Note:       req.Note,
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Product").Preload("Product.Farm").First(order, order.ID)

	if s.notificationService != nil {
		go s.notificationService.SendOrderPlacedNotification(order)
	}

	return order, nil
}

func (s *OrderService) GetOrder(id, actorID uuid.UUID, role models.UserRole) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Product").Preload("Product.Farm").Preload("Retailer").Preload("Shipment").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !s.canViewOrder(&order, actorID, role) {
		return nil, fmt.Errorf("%w: not a participant of this order", ErrForbidden)
	}

	return &order, nil
}

func (s *OrderService) canViewOrder(order *models.Order, actorID uuid.UUID, role models.UserRole) bool {
	switch role {
	case models.UserRoleAdmin, models.UserRoleShipping:
		return true
	case models.UserRoleRetailer:
		return order.RetailerID == actorID
	case models.UserRoleFarm:
		return order.Product.Farm.OwnerID == actorID
	case models.UserRoleDriver:
		return order.Shipment != nil && order.Shipment.DriverID != nil && *order.Shipment.DriverID == actorID
	}
	return false
}

// UpdateStatus applies a requested transition. The current state is
// always read back from the row; the client only names the target.
// 409 means the edge does not exist, 403 means the edge exists but
// this actor may not take it.
func (s *OrderService) UpdateStatus(id, actorID uuid.UUID, role models.UserRole, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, newStatus)
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate()).
			Preload("Product").Preload("Product.Farm").
			First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !models.OrderEdgeExists(order.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
		}

		if !models.OrderTransitionAllowed(role, order.Status, newStatus) {
			return fmt.Errorf("%w: role %s may not apply %s -> %s", ErrForbidden, role, order.Status, newStatus)
		}

		// Edge-level permission passed; now pin it to the actual owner.
		switch role {
		case models.UserRoleFarm:
			if order.Product.Farm.OwnerID != actorID {
				return fmt.Errorf("%w: order is not against this farm's product", ErrForbidden)
			}
		case models.UserRoleRetailer:
			if order.RetailerID != actorID {
				return fmt.Errorf("%w: order belongs to another retailer", ErrForbidden)
			}
		}

		if newStatus == models.OrderStatusCancelled {
			if err := releaseQuantity(tx, order.ProductID, order.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		order.Status = newStatus
		return nil
	})

	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.SendOrderStatusNotification(&order)
	}

	return &order, nil
}

func (s *OrderService) ListRetailerOrders(retailerID uuid.UUID, filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Where("retailer_id = ?", retailerID).
		Preload("Product").Preload("Product.Farm").Preload("Shipment")

	return s.listOrders(query, filter)
}

func (s *OrderService) ListFarmOrders(farmID, actorID uuid.UUID, role models.UserRole, filter OrderFilter) ([]models.Order, int64, error) {
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

	query := s.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.farm_id = ?", farmID).
		Preload("Product").Preload("Retailer").Preload("Shipment")

	return s.listOrders(query, filter)
}

// ListAllOrders returns orders across all farms and retailers. Access is
// restricted to admins at the route level.
func (s *OrderService) ListAllOrders(filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Product").Preload("Product.Farm").Preload("Retailer").Preload("Shipment")

	return s.listOrders(query, filter)
}

func (s *OrderService) listOrders(query *gorm.DB, filter OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total_price", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}
