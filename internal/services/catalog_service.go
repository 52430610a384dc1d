// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func pqStringArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}

// CatalogService owns the farm/season hierarchy and the append-only
// cultivation log. A farm actor may only touch farms they own; admin
// may touch any.
type CatalogService struct {
	db     *gorm.DB
	ledger *LedgerService
}

type CreateFarmRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Address        string   `json:"address" validate:"required,max=500"`
	Latitude       float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Certifications []string `json:"certifications,omitempty"`
	Description    string   `json:"description,omitempty"`
}

type UpdateFarmRequest struct {
	Name           string   `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Address        string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Certifications []string `json:"certifications,omitempty"`
	Description    string   `json:"description,omitempty"`
}

type CreateSeasonRequest struct {
	FarmID    uuid.UUID `json:"farm_id" validate:"required"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	StartDate time.Time `json:"start_date" validate:"required"`
}

type UpdateSeasonRequest struct {
	Name      string     `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

type RecordProcessRequest struct {
	Type        models.ProcessType `json:"type" validate:"required"`
	Description string             `json:"description" validate:"required,min=3"`
	ImageURL    string             `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
}

func NewCatalogService(db *gorm.DB, ledger *LedgerService) *CatalogService {
	return &CatalogService{db: db, ledger: ledger}
}

// requireFarmOwnership loads the farm and checks the actor may mutate
// it.
func (s *CatalogService) requireFarmOwnership(farmID, actorID uuid.UUID, role models.UserRole) (*models.Farm, error) {
	var farm models.Farm
	if err := s.db.First(&farm, farmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: farm", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if role != models.UserRoleAdmin && farm.OwnerID != actorID {
		return nil, fmt.Errorf("%w: farm belongs to another owner", ErrForbidden)
	}

	return &farm, nil
}

func (s *CatalogService) CreateFarm(ownerID uuid.UUID, role models.UserRole, req *CreateFarmRequest) (*models.Farm, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if role != models.UserRoleFarm && role != models.UserRoleAdmin {
		return nil, fmt.Errorf("%w: only farm accounts can register farms", ErrForbidden)
	}

	farm := &models.Farm{
		OwnerID:        ownerID,
		Name:           req.Name,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Certifications: pqStringArray(req.Certifications),
		Description:    req.Description,
	}

	if err := s.db.Create(farm).Error; err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	return farm, nil
}

func (s *CatalogService) GetFarm(id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := s.db.Preload("Owner").First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: farm", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &farm, nil
}

func (s *CatalogService) UpdateFarm(id, actorID uuid.UUID, role models.UserRole, req *UpdateFarmRequest) (*models.Farm, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	farm, err := s.requireFarmOwnership(id, actorID, role)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Certifications != nil {
		updates["certifications"] = pqStringArray(req.Certifications)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(farm).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update farm: %w", err)
		}
	}

	return farm, nil
}

func (s *CatalogService) ListFarms(params utils.PaginationParams) ([]models.Farm, int64, error) {
	query := s.db.Model(&models.Farm{}).Preload("Owner")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count farms: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var farms []models.Farm
	if err := query.Find(&farms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch farms: %w", err)
	}

	return farms, total, nil
}

func (s *CatalogService) ListOwnedFarms(ownerID uuid.UUID) ([]models.Farm, error) {
	var farms []models.Farm
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&farms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch farms: %w", err)
	}
	return farms, nil
}

// Seasons

func (s *CatalogService) CreateSeason(actorID uuid.UUID, role models.UserRole, req *CreateSeasonRequest) (*models.Season, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.requireFarmOwnership(req.FarmID, actorID, role); err != nil {
		return nil, err
	}

	season := &models.Season{
		FarmID:    req.FarmID,
		Name:      req.Name,
		StartDate: req.StartDate,
		Status:    models.SeasonStatusActive,
	}

	if err := s.db.Create(season).Error; err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}

	return season, nil
}

func (s *CatalogService) getSeasonForActor(id, actorID uuid.UUID, role models.UserRole) (*models.Season, error) {
	var season models.Season
	if err := s.db.First(&season, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: season", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if _, err := s.requireFarmOwnership(season.FarmID, actorID, role); err != nil {
		return nil, err
	}

	return &season, nil
}

func (s *CatalogService) UpdateSeason(id, actorID uuid.UUID, role models.UserRole, req *UpdateSeasonRequest) (*models.Season, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	season, err := s.getSeasonForActor(id, actorID, role)
	if err != nil {
		return nil, err
	}

	if season.Status == models.SeasonStatusCompleted {
		return nil, fmt.Errorf("%w: season already completed", ErrInvalidTransition)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(season).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update season: %w", err)
		}
	}

	return season, nil
}

// CompleteSeason sets the end date and closes the season; the
// cultivation log freezes with it.
func (s *CatalogService) CompleteSeason(id, actorID uuid.UUID, role models.UserRole) (*models.Season, error) {
	season, err := s.getSeasonForActor(id, actorID, role)
	if err != nil {
		return nil, err
	}

	if season.Status == models.SeasonStatusCompleted {
		return nil, fmt.Errorf("%w: season already completed", ErrInvalidTransition)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":   models.SeasonStatusCompleted,
		"end_date": &now,
	}

	if err := s.db.Model(season).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to complete season: %w", err)
	}

	return season, nil
}

func (s *CatalogService) ListFarmSeasons(farmID uuid.UUID, params utils.PaginationParams) ([]models.Season, int64, error) {
	query := s.db.Model(&models.Season{}).Where("farm_id = ?", farmID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seasons: %w", err)
	}

	allowedSortFields := []string{"created_at", "start_date", "name", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var seasons []models.Season
	if err := query.Find(&seasons).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seasons: %w", err)
	}

	return seasons, total, nil
}

// Cultivation log

// RecordProcess appends one entry to the season's cultivation log.
// Entries are immutable once written; there is no update or delete
// path.
func (s *CatalogService) RecordProcess(seasonID, actorID uuid.UUID, role models.UserRole, req *RecordProcessRequest) (*models.CultivationProcess, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown process type %q", ErrValidation, req.Type)
	}

	season, err := s.getSeasonForActor(seasonID, actorID, role)
	if err != nil {
		return nil, err
	}

	if season.Status != models.SeasonStatusActive {
		return nil, fmt.Errorf("%w: season is not active", ErrInvalidTransition)
	}

	// ID and timestamp are assigned up front so the ledger hash covers
	// the exact stored values.
	process := &models.CultivationProcess{
		ID:          uuid.New(),
		SeasonID:    seasonID,
		Type:        req.Type,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Appends for one season are serialized on the season row.
		// Without the lock two writers can read the same chain head
		// and fork the ledger.
		var locked models.Season
		if err := tx.Clauses(forUpdate()).First(&locked, seasonID).Error; err != nil {
			return fmt.Errorf("failed to lock season: %w", err)
		}
		if locked.Status != models.SeasonStatusActive {
			return fmt.Errorf("%w: season is not active", ErrInvalidTransition)
		}

		return s.ledger.Append(tx, process)
	})
	if err != nil {
		return nil, err
	}

	return process, nil
}
