// internal/models/farm.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Farm struct {
	BaseModel
	OwnerID        uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Address        string         `json:"address" gorm:"size:500;not null"`
	Latitude       float64        `json:"latitude" gorm:"type:decimal(10,7)"`
	Longitude      float64        `json:"longitude" gorm:"type:decimal(10,7)"`
	Certifications pq.StringArray `json:"certifications" gorm:"type:text[]"`
	Description    string         `json:"description" gorm:"type:text"`

	// Relationships
	Owner    User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Seasons  []Season  `json:"seasons,omitempty" gorm:"foreignKey:FarmID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:FarmID"`
}

type Season struct {
	BaseModel
	FarmID    uuid.UUID    `json:"farm_id" gorm:"type:uuid;not null;index"`
	Name      string       `json:"name" gorm:"size:255;not null"`
	StartDate time.Time    `json:"start_date" gorm:"not null"`
	EndDate   *time.Time   `json:"end_date"`
	Status    SeasonStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Farm      Farm                 `json:"farm,omitempty" gorm:"foreignKey:FarmID"`
	Processes []CultivationProcess `json:"processes,omitempty" gorm:"foreignKey:SeasonID"`
	Products  []Product            `json:"products,omitempty" gorm:"foreignKey:SeasonID"`
}

// CultivationProcess rows form an append-only log; they are never
// updated or deleted once written. TxHash chains each entry to its
// predecessor within the season.
type CultivationProcess struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeasonID    uuid.UUID   `json:"season_id" gorm:"type:uuid;not null;index"`
	Type        ProcessType `json:"type" gorm:"type:varchar(20);not null"`
	Description string      `json:"description" gorm:"type:text;not null"`
	ImageURL    string      `json:"image_url,omitempty" gorm:"size:500"`
	TxHash      string      `json:"tx_hash" gorm:"size:64;not null"`
	CreatedAt   time.Time   `json:"created_at"`

	Season Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
}
