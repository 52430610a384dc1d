// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

// Appending a cultivation entry must lock the season row before reading
// the chain head, otherwise two concurrent appends fork the ledger.
func TestRecordProcessLocksSeasonRow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db, NewLedgerService(db))

	seasonID := uuid.New()
	farmID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "seasons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "status"}).
			AddRow(seasonID.String(), farmID.String(), "active"))
	mock.ExpectQuery(`SELECT \* FROM "farms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).
			AddRow(farmID.String(), ownerID.String()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "seasons" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "status"}).
			AddRow(seasonID.String(), farmID.String(), "active"))
	mock.ExpectQuery(`SELECT \* FROM "cultivation_processes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "cultivation_processes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	process, err := svc.RecordProcess(seasonID, ownerID, models.UserRoleFarm, &RecordProcessRequest{
		Type:        models.ProcessTypeWatering,
		Description: "Morning irrigation of the north field",
	})
	require.NoError(t, err)

	ledger := NewLedgerService(nil)
	assert.Equal(t, utils.ChainHash("", ledger.entryPayload(process)), process.TxHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
