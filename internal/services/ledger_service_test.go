// internal/services/ledger_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func TestEntryPayloadDeterministic(t *testing.T) {
	s := NewLedgerService(nil)
	now := time.Now()

	p := &models.CultivationProcess{
		ID:          uuid.New(),
		SeasonID:    uuid.New(),
		Type:        models.ProcessTypeWatering,
		Description: "Morning irrigation",
		CreatedAt:   now,
	}

	assert.Equal(t, s.entryPayload(p), s.entryPayload(p))

	// Any stored field flips the payload
	tampered := *p
	tampered.Description = "Evening irrigation"
	assert.NotEqual(t, s.entryPayload(p), s.entryPayload(&tampered))

	shifted := *p
	shifted.CreatedAt = now.Add(time.Second)
	assert.NotEqual(t, s.entryPayload(p), s.entryPayload(&shifted))
}

func TestChainDetectsTampering(t *testing.T) {
	s := NewLedgerService(nil)
	seasonID := uuid.New()
	base := time.Now()

	// Build a three entry chain the way Append would
	entries := make([]models.CultivationProcess, 3)
	previousHash := ""
	for i, desc := range []string{"Sowing", "Fertilizing", "Harvesting"} {
		entries[i] = models.CultivationProcess{
			ID:          uuid.New(),
			SeasonID:    seasonID,
			Type:        models.ProcessTypeFertilizing,
			Description: desc,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		entries[i].TxHash = utils.ChainHash(previousHash, s.entryPayload(&entries[i]))
		previousHash = entries[i].TxHash
	}

	verify := func(list []models.CultivationProcess) bool {
		prev := ""
		for i := range list {
			if list[i].TxHash != utils.ChainHash(prev, s.entryPayload(&list[i])) {
				return false
			}
			prev = list[i].TxHash
		}
		return true
	}

	assert.True(t, verify(entries))

	// Rewriting an early entry breaks verification even though its own
	// hash is recomputed
	tampered := make([]models.CultivationProcess, 3)
	copy(tampered, entries)
	tampered[0].Description = "Sowing (edited)"
	tampered[0].TxHash = utils.ChainHash("", s.entryPayload(&tampered[0]))
	assert.False(t, verify(tampered))

	// Silently editing without recomputing breaks it at the entry itself
	tampered2 := make([]models.CultivationProcess, 3)
	copy(tampered2, entries)
	tampered2[1].Description = "Extra pesticide"
	assert.False(t, verify(tampered2))
}
