// internal/models/shipment_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShipmentEdgeExists(t *testing.T) {
	cases := []struct {
		name string
		from ShipmentStatus
		to   ShipmentStatus
		want bool
	}{
		{"created to assigned", ShipmentStatusCreated, ShipmentStatusAssigned, true},
		{"assigned to picked_up", ShipmentStatusAssigned, ShipmentStatusPickedUp, true},
		{"picked_up to delivering", ShipmentStatusPickedUp, ShipmentStatusDelivering, true},
		{"delivering to delivered", ShipmentStatusDelivering, ShipmentStatusDelivered, true},
		{"created to delivered skips the chain", ShipmentStatusCreated, ShipmentStatusDelivered, false},
		{"assigned to delivering skips pickup", ShipmentStatusAssigned, ShipmentStatusDelivering, false},
		{"backwards delivering to picked_up", ShipmentStatusDelivering, ShipmentStatusPickedUp, false},
		{"created can fail", ShipmentStatusCreated, ShipmentStatusFailed, true},
		{"assigned can fail", ShipmentStatusAssigned, ShipmentStatusFailed, true},
		{"delivering can fail", ShipmentStatusDelivering, ShipmentStatusFailed, true},
		{"delivered cannot fail", ShipmentStatusDelivered, ShipmentStatusFailed, false},
		{"failed cannot fail again", ShipmentStatusFailed, ShipmentStatusFailed, false},
		{"failed is terminal", ShipmentStatusFailed, ShipmentStatusAssigned, false},
		{"delivered is terminal", ShipmentStatusDelivered, ShipmentStatusDelivering, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShipmentEdgeExists(tc.from, tc.to))
		})
	}
}

func TestShipmentTransitionAllowed(t *testing.T) {
	cases := []struct {
		name           string
		role           UserRole
		assignedDriver bool
		from           ShipmentStatus
		to             ShipmentStatus
		want           bool
	}{
		{"shipping assigns", UserRoleShipping, false, ShipmentStatusCreated, ShipmentStatusAssigned, true},
		{"shipping advances any edge", UserRoleShipping, false, ShipmentStatusPickedUp, ShipmentStatusDelivering, true},
		{"shipping fails a shipment", UserRoleShipping, false, ShipmentStatusDelivering, ShipmentStatusFailed, true},
		{"admin advances any edge", UserRoleAdmin, false, ShipmentStatusAssigned, ShipmentStatusPickedUp, true},
		{"assigned driver picks up", UserRoleDriver, true, ShipmentStatusAssigned, ShipmentStatusPickedUp, true},
		{"assigned driver delivers", UserRoleDriver, true, ShipmentStatusDelivering, ShipmentStatusDelivered, true},
		{"assigned driver reports failure", UserRoleDriver, true, ShipmentStatusDelivering, ShipmentStatusFailed, true},
		{"unassigned driver denied", UserRoleDriver, false, ShipmentStatusAssigned, ShipmentStatusPickedUp, false},
		{"driver cannot self-assign", UserRoleDriver, true, ShipmentStatusCreated, ShipmentStatusAssigned, false},
		{"retailer denied", UserRoleRetailer, false, ShipmentStatusAssigned, ShipmentStatusPickedUp, false},
		{"farm denied", UserRoleFarm, false, ShipmentStatusDelivering, ShipmentStatusDelivered, false},
		{"shipping cannot use a nonexistent edge", UserRoleShipping, false, ShipmentStatusCreated, ShipmentStatusDelivered, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShipmentTransitionAllowed(tc.role, tc.assignedDriver, tc.from, tc.to))
		})
	}
}

func TestMirroredOrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusShipping, MirroredOrderStatus(ShipmentStatusCreated))
	assert.Equal(t, OrderStatusShipping, MirroredOrderStatus(ShipmentStatusAssigned))
	assert.Equal(t, OrderStatusShipping, MirroredOrderStatus(ShipmentStatusPickedUp))
	assert.Equal(t, OrderStatusShipping, MirroredOrderStatus(ShipmentStatusDelivering))
	assert.Equal(t, OrderStatusDelivered, MirroredOrderStatus(ShipmentStatusDelivered))

	// A failed shipment releases the order back to confirmed so a
	// replacement shipment can be created.
	assert.Equal(t, OrderStatusConfirmed, MirroredOrderStatus(ShipmentStatusFailed))
}

func TestShipmentStatusTerminal(t *testing.T) {
	assert.True(t, ShipmentStatusDelivered.Terminal())
	assert.True(t, ShipmentStatusFailed.Terminal())
	assert.False(t, ShipmentStatusCreated.Terminal())
	assert.False(t, ShipmentStatusAssigned.Terminal())
	assert.False(t, ShipmentStatusPickedUp.Terminal())
	assert.False(t, ShipmentStatusDelivering.Terminal())
}
