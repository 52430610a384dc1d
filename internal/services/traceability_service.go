// internal/services/traceability_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
)

// TraceabilityService serves the public, unauthenticated view of a
// season: what was grown where, every recorded cultivation step in
// order, and whether the hash chain over those steps still verifies.
type TraceabilityService struct {
	db            *gorm.DB
	ledgerService *LedgerService
}

type SeasonTrace struct {
	Season     SeasonSummary               `json:"season"`
	Farm       FarmSummary                 `json:"farm"`
	Processes  []models.CultivationProcess `json:"processes"`
	Products   []ProductSummary            `json:"products"`
	ChainValid bool                        `json:"chain_valid"`
}

type SeasonSummary struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	StartDate string              `json:"start_date"`
	EndDate   *string             `json:"end_date,omitempty"`
	Status    models.SeasonStatus `json:"status"`
}

type FarmSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Certifications []string  `json:"certifications"`
}

type ProductSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BatchCode string    `json:"batch_code"`
	Unit      string    `json:"unit"`
}

func NewTraceabilityService(db *gorm.DB, ledgerService *LedgerService) *TraceabilityService {
	return &TraceabilityService{
		db:            db,
		ledgerService: ledgerService,
	}
}

// GetSeasonTrace builds the public timeline for one season. The chain
// is re-verified on every read so a tampered row is visible to the
// consumer, not just to an auditor.
func (s *TraceabilityService) GetSeasonTrace(seasonID uuid.UUID) (*SeasonTrace, error) {
	var season models.Season
	if err := s.db.Preload("Farm").First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: season", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var processes []models.CultivationProcess
	if err := s.db.
		Where("season_id = ?", seasonID).
		Order("created_at ASC, id ASC").
		Find(&processes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cultivation processes: %w", err)
	}

	var products []models.Product
	if err := s.db.
		Where("season_id = ?", seasonID).
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	chainValid, err := s.ledgerService.VerifyChain(seasonID)
	if err != nil {
		return nil, err
	}

	trace := &SeasonTrace{
		Season: SeasonSummary{
			ID:        season.ID,
			Name:      season.Name,
			StartDate: season.StartDate.Format("2006-01-02"),
			Status:    season.Status,
		},
		Farm: FarmSummary{
			ID:             season.Farm.ID,
			Name:           season.Farm.Name,
			Address:        season.Farm.Address,
			Certifications: []string(season.Farm.Certifications),
		},
		Processes:  processes,
		Products:   make([]ProductSummary, 0, len(products)),
		ChainValid: chainValid,
	}

	if season.EndDate != nil {
		end := season.EndDate.Format("2006-01-02")
		trace.Season.EndDate = &end
	}

	for _, p := range products {
		trace.Products = append(trace.Products, ProductSummary{
			ID:        p.ID,
			Name:      p.Name,
			BatchCode: p.BatchCode,
			Unit:      p.Unit,
		})
	}

	return trace, nil
}

// GetBatchTrace resolves a public batch code to its season trace.
func (s *TraceabilityService) GetBatchTrace(batchCode string) (*SeasonTrace, error) {
	var product models.Product
	if err := s.db.Where("batch_code = ?", batchCode).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: batch", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SeasonID == nil {
		return nil, fmt.Errorf("%w: batch has no season record", ErrNotFound)
	}

	return s.GetSeasonTrace(*product.SeasonID)
}
