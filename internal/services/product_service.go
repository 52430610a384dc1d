// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

type ProductService struct {
	db      *gorm.DB
	catalog *CatalogService
}

type CreateProductRequest struct {
	FarmID      uuid.UUID  `json:"farm_id" validate:"required"`
	SeasonID    *uuid.UUID `json:"season_id,omitempty"`
	Name        string     `json:"name" validate:"required,min=2,max=255"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price" validate:"gte=0"`
	Quantity    int        `json:"quantity" validate:"gte=0"`
	Unit        string     `json:"unit,omitempty" validate:"omitempty,max=20"`
	Images      []string   `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        string   `json:"unit,omitempty" validate:"omitempty,max=20"`
	Images      []string `json:"images,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	FarmID   *uuid.UUID            `json:"farm_id,omitempty"`
	SeasonID *uuid.UUID            `json:"season_id,omitempty"`
	Status   *models.ProductStatus `json:"status,omitempty"`
	PriceMin *float64              `json:"price_min,omitempty"`
	PriceMax *float64              `json:"price_max,omitempty"`
	InStock  *bool                 `json:"in_stock,omitempty"`
}

func NewProductService(db *gorm.DB, catalog *CatalogService) *ProductService {
	return &ProductService{db: db, catalog: catalog}
}

func (s *ProductService) CreateProduct(actorID uuid.UUID, role models.UserRole, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	farm, err := s.catalog.requireFarmOwnership(req.FarmID, actorID, role)
	if err != nil {
		return nil, err
	}

	// A season reference, when given, must belong to the same farm.
	if req.SeasonID != nil {
		var season models.Season
		if err := s.db.First(&season, *req.SeasonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: season", ErrNotFound)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		if season.FarmID != farm.ID {
			return nil, fmt.Errorf("%w: season belongs to another farm", ErrValidation)
		}
	}

	batchCode, err := utils.GenerateBatchCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch code: %w", err)
	}

	status := models.ProductStatusAvailable
	if req.Quantity == 0 {
		status = models.ProductStatusSoldOut
	}

	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}

	product := &models.Product{
		FarmID:      req.FarmID,
		SeasonID:    req.SeasonID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        unit,
		Images:      pqStringArray(req.Images),
		BatchCode:   batchCode,
		Status:      status,
	}

	if err := s.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: batch code collision, retry", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Farm").Preload("Season").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id, actorID uuid.UUID, role models.UserRole, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.requireFarmOwnership(product.FarmID, actorID, role); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
		if *req.Quantity > 0 {
			updates["status"] = models.ProductStatusAvailable
		} else {
			updates["status"] = models.ProductStatusSoldOut
		}
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Images != nil {
		updates["images"] = pqStringArray(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(id, actorID uuid.UUID, role models.UserRole) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	if _, err := s.catalog.requireFarmOwnership(product.FarmID, actorID, role); err != nil {
		return err
	}

	// Ordered products stay visible for traceability.
	var orderCount int64
	if err := s.db.Model(&models.Order{}).
		Where("product_id = ?", id).
		Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to check orders: %w", err)
	}

	if orderCount > 0 {
		return fmt.Errorf("%w: product has orders", ErrConflict)
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Farm").Preload("Season")

	if params.FarmID != nil {
		query = query.Where("farm_id = ?", *params.FarmID)
	}

	if params.SeasonID != nil {
		query = query.Where("season_id = ?", *params.SeasonID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "quantity"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// reserveQuantity atomically takes quantity units from the product.
// The WHERE clause carries the remaining-quantity guard, so two
// concurrent orders can never oversell: the conditional update either
// applies fully or matches no row.
func reserveQuantity(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND status = ? AND quantity >= ?",
			productID, models.ProductStatusAvailable, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return fmt.Errorf("failed to reserve quantity: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: insufficient quantity", ErrConflict)
	}

	// Flip to sold_out when the reserve drained the stock.
	if err := tx.Model(&models.Product{}).
		Where("id = ? AND quantity = 0", productID).
		UpdateColumn("status", models.ProductStatusSoldOut).Error; err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	return nil
}

// releaseQuantity returns units reserved by a cancelled order.
func releaseQuantity(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
		return fmt.Errorf("failed to release quantity: %w", err)
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ? AND quantity > 0 AND status = ?", productID, models.ProductStatusSoldOut).
		UpdateColumn("status", models.ProductStatusAvailable).Error; err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	return nil
}
