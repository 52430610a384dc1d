// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	FarmID      uuid.UUID      `json:"farm_id" gorm:"type:uuid;not null;index"`
	SeasonID    *uuid.UUID     `json:"season_id" gorm:"type:uuid;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:0"`
	Unit        string         `json:"unit" gorm:"size:20;default:'kg'"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	BatchCode   string         `json:"batch_code" gorm:"size:32;uniqueIndex;not null"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(20);default:'available';index"`

	// Relationships
	Farm   Farm    `json:"farm,omitempty" gorm:"foreignKey:FarmID"`
	Season *Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:ProductID"`
}
