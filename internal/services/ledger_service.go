// internal/services/ledger_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// LedgerService hash-chains cultivation log entries per season. Each
// entry's tx hash covers its own payload and the previous entry's
// hash, so rewriting history invalidates every later entry. The chain
// is checked on the public traceability read.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

func (s *LedgerService) entryPayload(p *models.CultivationProcess) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		p.ID, p.SeasonID, p.Type, p.Description, p.ImageURL, p.CreatedAt.Unix())
}

// Append stamps the entry with its chain hash and inserts it within
// tx. The caller pre-assigns ID and CreatedAt so the hash covers the
// stored values exactly.
func (s *LedgerService) Append(tx *gorm.DB, process *models.CultivationProcess) error {
	var previous models.CultivationProcess
	previousHash := ""

	err := tx.Where("season_id = ?", process.SeasonID).
		Order("created_at DESC, id DESC").
		First(&previous).Error
	if err == nil {
		previousHash = previous.TxHash
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to read ledger head: %w", err)
	}

	process.TxHash = utils.ChainHash(previousHash, s.entryPayload(process))

	if err := tx.Create(process).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// VerifyChain recomputes the hash chain for a season's log and reports
// whether every stored tx hash matches.
func (s *LedgerService) VerifyChain(seasonID uuid.UUID) (bool, error) {
	var processes []models.CultivationProcess
	if err := s.db.Where("season_id = ?", seasonID).
		Order("created_at ASC, id ASC").
		Find(&processes).Error; err != nil {
		return false, fmt.Errorf("failed to load ledger entries: %w", err)
	}

	previousHash := ""
	for i := range processes {
		expected := utils.ChainHash(previousHash, s.entryPayload(&processes[i]))
		if processes[i].TxHash != expected {
			return false, nil
		}
		previousHash = processes[i].TxHash
	}

	return true, nil
}
