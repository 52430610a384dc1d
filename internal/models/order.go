// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	RetailerID uuid.UUID   `json:"retailer_id" gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID   `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity   int         `json:"quantity" gorm:"not null"`
	TotalPrice float64     `json:"total_price" gorm:"type:decimal(14,2);not null"`
	Status     OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Note       string      `json:"note,omitempty" gorm:"type:text"`

	// Relationships
	Retailer User      `json:"retailer,omitempty" gorm:"foreignKey:RetailerID"`
	Product  Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Shipment *Shipment `json:"shipment,omitempty" gorm:"foreignKey:OrderID"`
}

type orderEdge struct {
	from OrderStatus
	to   OrderStatus
}

// orderTransitions maps each directly requestable order edge to the
// roles allowed to request it. Edges driven by the shipment lifecycle
// (shipping -> delivered) are applied through MirroredOrderStatus and
// are deliberately absent here.
var orderTransitions = map[orderEdge][]UserRole{
	{OrderStatusPending, OrderStatusConfirmed}:   {UserRoleFarm, UserRoleAdmin},
	{OrderStatusPending, OrderStatusCancelled}:   {UserRoleFarm, UserRoleAdmin},
	{OrderStatusConfirmed, OrderStatusShipping}:  {UserRoleFarm, UserRoleAdmin},
	{OrderStatusConfirmed, OrderStatusCancelled}: {UserRoleFarm, UserRoleRetailer, UserRoleAdmin},
	{OrderStatusDelivered, OrderStatusCompleted}: {UserRoleRetailer, UserRoleAdmin},
}

// OrderTransitionAllowed reports whether role may move an order from
// one status to another. Ownership (the farm owning the product, the
// retailer owning the order) is checked by the caller; this function
// only gates the edge itself.
func OrderTransitionAllowed(role UserRole, from, to OrderStatus) bool {
	roles, ok := orderTransitions[orderEdge{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// OrderEdgeExists reports whether from -> to is a legal order edge for
// any role. Used to distinguish 409 (no such edge) from 403 (edge
// exists, role may not take it).
func OrderEdgeExists(from, to OrderStatus) bool {
	_, ok := orderTransitions[orderEdge{from, to}]
	return ok
}

// Cancellable reports whether an order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}
