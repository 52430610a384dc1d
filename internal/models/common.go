// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleFarm     UserRole = "farm"
	UserRoleRetailer UserRole = "retailer"
	UserRoleShipping UserRole = "shipping"
	UserRoleDriver   UserRole = "driver"
	UserRoleGuest    UserRole = "guest"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleFarm, UserRoleRetailer, UserRoleShipping, UserRoleDriver, UserRoleGuest:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type SeasonStatus string

const (
	SeasonStatusActive    SeasonStatus = "active"
	SeasonStatusCompleted SeasonStatus = "completed"
)

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusSoldOut   ProductStatus = "sold_out"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type ShipmentStatus string

const (
	ShipmentStatusCreated    ShipmentStatus = "created"
	ShipmentStatusAssigned   ShipmentStatus = "assigned"
	ShipmentStatusPickedUp   ShipmentStatus = "picked_up"
	ShipmentStatusDelivering ShipmentStatus = "delivering"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
	ShipmentStatusFailed     ShipmentStatus = "failed"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusCreated, ShipmentStatusAssigned, ShipmentStatusPickedUp,
		ShipmentStatusDelivering, ShipmentStatusDelivered, ShipmentStatusFailed:
		return true
	}
	return false
}

// Terminal shipment states accept no further transitions.
func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusFailed
}

type ProcessType string

const (
	ProcessTypeWatering    ProcessType = "watering"
	ProcessTypeFertilizing ProcessType = "fertilizing"
	ProcessTypeHarvesting  ProcessType = "harvesting"
	ProcessTypePesticide   ProcessType = "pesticide"
)

func (t ProcessType) Valid() bool {
	switch t {
	case ProcessTypeWatering, ProcessTypeFertilizing, ProcessTypeHarvesting, ProcessTypePesticide:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)
