// internal/services/shipment_service_test.go
package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/agritrace-backend/internal/config"
	"github.com/farmlink/agritrace-backend/internal/models"
)

// A shipment status change and its in-app notification rows must commit
// together. The mock asserts the notification insert happens between
// the status updates and the commit, never after.
func TestUpdateStatusPersistsNotificationsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewShipmentService(db, NewNotificationService(db, &config.Config{}))

	shipmentID := uuid.New()
	orderID := uuid.New()
	retailerID := uuid.New()
	actorID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "shipments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "driver_id", "manager_id", "status", "tracking_number"}).
			AddRow(shipmentID.String(), orderID.String(), nil, actorID.String(), "picked_up", "AGT-20260901-TESTTRCK"))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "retailer_id", "product_id", "status"}).
			AddRow(orderID.String(), retailerID.String(), uuid.New().String(), "shipping"))
	mock.ExpectExec(`UPDATE "shipments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "orders" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Reload with preloads after commit.
	mock.ExpectQuery(`SELECT \* FROM "shipments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "driver_id", "manager_id", "status", "tracking_number"}).
			AddRow(shipmentID.String(), orderID.String(), nil, actorID.String(), "delivering", "AGT-20260901-TESTTRCK"))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "retailer_id", "product_id", "status"}).
			AddRow(orderID.String(), retailerID.String(), uuid.New().String(), "shipping"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "status"}).
			AddRow(retailerID.String(), "retailer", "active"))

	shipment, err := svc.UpdateStatus(shipmentID, actorID, models.UserRoleShipping, &UpdateShipmentStatusRequest{
		Status: models.ShipmentStatusDelivering,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ShipmentStatusDelivering, shipment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed notification insert must roll the status change back.
func TestUpdateStatusRollsBackWhenNotificationInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewShipmentService(db, NewNotificationService(db, &config.Config{}))

	shipmentID := uuid.New()
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "shipments" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "driver_id", "manager_id", "status", "tracking_number"}).
			AddRow(shipmentID.String(), orderID.String(), nil, uuid.New().String(), "picked_up", "AGT-20260901-TESTTRCK"))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "retailer_id", "product_id", "status"}).
			AddRow(orderID.String(), uuid.New().String(), uuid.New().String(), "shipping"))
	mock.ExpectExec(`UPDATE "shipments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "orders" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(shipmentID, uuid.New(), models.UserRoleShipping, &UpdateShipmentStatusRequest{
		Status: models.ShipmentStatusDelivering,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
