// internal/models/shipment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Shipment struct {
	BaseModel
	OrderID          uuid.UUID      `json:"order_id" gorm:"type:uuid;not null;index"`
	DriverID         *uuid.UUID     `json:"driver_id" gorm:"type:uuid;index"`
	ManagerID        uuid.UUID      `json:"manager_id" gorm:"type:uuid;not null;index"`
	PickupLocation   string         `json:"pickup_location" gorm:"size:500;not null"`
	DeliveryLocation string         `json:"delivery_location" gorm:"size:500;not null"`
	Status           ShipmentStatus `json:"status" gorm:"type:varchar(20);default:'created';index"`
	TrackingNumber   string         `json:"tracking_number" gorm:"size:32;uniqueIndex;not null"`
	VehicleInfo      string         `json:"vehicle_info,omitempty" gorm:"size:255"`
	Note             string         `json:"note,omitempty" gorm:"type:text"`
	DeliveredAt      *time.Time     `json:"delivered_at"`

	// Relationships
	Order   Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Driver  *User `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Manager User  `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}

var shipmentAdvance = map[ShipmentStatus]ShipmentStatus{
	ShipmentStatusCreated:    ShipmentStatusAssigned,
	ShipmentStatusAssigned:   ShipmentStatusPickedUp,
	ShipmentStatusPickedUp:   ShipmentStatusDelivering,
	ShipmentStatusDelivering: ShipmentStatusDelivered,
}

// ShipmentEdgeExists reports whether from -> to is a legal shipment
// edge: the single-step advance chain, plus failed from any
// non-terminal state.
func ShipmentEdgeExists(from, to ShipmentStatus) bool {
	if to == ShipmentStatusFailed {
		return !from.Terminal()
	}
	return shipmentAdvance[from] == to
}

// ShipmentTransitionAllowed reports whether the actor may move a
// shipment along the given edge. Shipping staff and admin may take any
// legal edge; the assigned driver may advance or fail their own
// shipment once it has been assigned to them.
func ShipmentTransitionAllowed(role UserRole, assignedDriver bool, from, to ShipmentStatus) bool {
	if !ShipmentEdgeExists(from, to) {
		return false
	}
	switch role {
	case UserRoleAdmin, UserRoleShipping:
		return true
	case UserRoleDriver:
		return assignedDriver && from != ShipmentStatusCreated
	}
	return false
}

// MirroredOrderStatus returns the order status implied by a shipment
// status. The shipment record is authoritative once it exists: any
// in-flight state keeps the order at shipping, delivery completes it,
// and a failed shipment returns the order to confirmed so a
// replacement shipment can be created.
func MirroredOrderStatus(s ShipmentStatus) OrderStatus {
	switch s {
	case ShipmentStatusDelivered:
		return OrderStatusDelivered
	case ShipmentStatusFailed:
		return OrderStatusConfirmed
	default:
		return OrderStatusShipping
	}
}
