// internal/models/user.go
package models

import (
	"time"
)

type User struct {
	BaseModel
	ExternalID string     `json:"external_id" gorm:"uniqueIndex;size:255;not null"`
	FullName   string     `json:"full_name" gorm:"size:255"`
	Email      string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone      string     `json:"phone" gorm:"size:30"`
	Address    string     `json:"address" gorm:"size:500"`
	Role       UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'guest'"`
	Status     UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastSeenAt *time.Time `json:"last_seen_at"`

	// Relationships
	Farms     []Farm     `json:"farms,omitempty" gorm:"foreignKey:OwnerID"`
	Orders    []Order    `json:"orders,omitempty" gorm:"foreignKey:RetailerID"`
	Shipments []Shipment `json:"shipments,omitempty" gorm:"foreignKey:DriverID"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
