// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/agritrace-backend/internal/models"
)

func TestShipmentStatusRows(t *testing.T) {
	retailerID := uuid.New()
	driverID := uuid.New()

	shipment := &models.Shipment{
		OrderID:        uuid.New(),
		TrackingNumber: "AGT-20260901-ABCD1234",
		Status:         models.ShipmentStatusDelivering,
		Order:          models.Order{RetailerID: retailerID},
	}
	shipment.ID = uuid.New()

	t.Run("retailer row always present", func(t *testing.T) {
		rows := shipmentStatusRows(shipment)
		require.Len(t, rows, 1)
		assert.Equal(t, retailerID, rows[0].RecipientID)
		assert.Equal(t, "shipment_status", rows[0].Type)
		assert.Contains(t, rows[0].Message, shipment.TrackingNumber)
		assert.Contains(t, rows[0].Message, string(models.ShipmentStatusDelivering))
	})

	t.Run("driver row added on assignment", func(t *testing.T) {
		shipment.Status = models.ShipmentStatusAssigned
		shipment.DriverID = &driverID

		rows := shipmentStatusRows(shipment)
		require.Len(t, rows, 2)
		assert.Equal(t, driverID, rows[1].RecipientID)
		assert.Equal(t, "shipment_assigned", rows[1].Type)
	})

	t.Run("no driver row past assignment", func(t *testing.T) {
		shipment.Status = models.ShipmentStatusPickedUp
		shipment.DriverID = &driverID

		rows := shipmentStatusRows(shipment)
		assert.Len(t, rows, 1)
	})
}
