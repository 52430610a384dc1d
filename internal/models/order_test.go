// internal/models/order_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderEdgeExists(t *testing.T) {
	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"confirmed to shipping", OrderStatusConfirmed, OrderStatusShipping, true},
		{"confirmed to cancelled", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"delivered to completed", OrderStatusDelivered, OrderStatusCompleted, true},
		{"pending to shipping skips confirmation", OrderStatusPending, OrderStatusShipping, false},
		{"pending to delivered skips everything", OrderStatusPending, OrderStatusDelivered, false},
		{"shipping to cancelled after dispatch", OrderStatusShipping, OrderStatusCancelled, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusPending, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"backwards confirmed to pending", OrderStatusConfirmed, OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OrderEdgeExists(tc.from, tc.to))
		})
	}
}

func TestOrderTransitionAllowed(t *testing.T) {
	cases := []struct {
		name string
		role UserRole
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"farm confirms pending", UserRoleFarm, OrderStatusPending, OrderStatusConfirmed, true},
		{"retailer cannot confirm own order", UserRoleRetailer, OrderStatusPending, OrderStatusConfirmed, false},
		{"farm rejects pending", UserRoleFarm, OrderStatusPending, OrderStatusCancelled, true},
		{"retailer cannot cancel pending", UserRoleRetailer, OrderStatusPending, OrderStatusCancelled, false},
		{"retailer cancels confirmed", UserRoleRetailer, OrderStatusConfirmed, OrderStatusCancelled, true},
		{"farm cancels confirmed", UserRoleFarm, OrderStatusConfirmed, OrderStatusCancelled, true},
		{"retailer completes delivered", UserRoleRetailer, OrderStatusDelivered, OrderStatusCompleted, true},
		{"farm cannot complete delivered", UserRoleFarm, OrderStatusDelivered, OrderStatusCompleted, false},
		{"admin confirms pending", UserRoleAdmin, OrderStatusPending, OrderStatusConfirmed, true},
		{"admin completes delivered", UserRoleAdmin, OrderStatusDelivered, OrderStatusCompleted, true},
		{"driver has no order edges", UserRoleDriver, OrderStatusPending, OrderStatusConfirmed, false},
		{"shipping staff have no order edges", UserRoleShipping, OrderStatusConfirmed, OrderStatusShipping, false},
		{"admin cannot use a nonexistent edge", UserRoleAdmin, OrderStatusPending, OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OrderTransitionAllowed(tc.role, tc.from, tc.to))
		})
	}
}

func TestOrderCancellable(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).Cancellable())
	assert.True(t, (&Order{Status: OrderStatusConfirmed}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusShipping}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusDelivered}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).Cancellable())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).Cancellable())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("unknown").Valid())
	assert.False(t, OrderStatus("").Valid())
}
