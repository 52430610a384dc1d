// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Type        string    `json:"type" gorm:"size:50;not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	Data        JSONB     `json:"data,omitempty" gorm:"type:jsonb"`

	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

type Report struct {
	BaseModel
	SenderID   uuid.UUID    `json:"sender_id" gorm:"type:uuid;not null;index"`
	Category   string       `json:"category" gorm:"size:50;not null"`
	Title      string       `json:"title" gorm:"size:255;not null"`
	Content    string       `json:"content" gorm:"type:text;not null"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	ResolvedBy *uuid.UUID   `json:"resolved_by" gorm:"type:uuid"`
	Resolution string       `json:"resolution,omitempty" gorm:"type:text"`
	ResolvedAt *time.Time   `json:"resolved_at"`

	Sender   User  `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Resolver *User `json:"resolver,omitempty" gorm:"foreignKey:ResolvedBy"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:500"`
	NewValues    JSONB      `json:"new_values,omitempty" gorm:"type:jsonb"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
