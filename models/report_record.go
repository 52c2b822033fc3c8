package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRecord is the stored form of a Report. The report itself is kept as
// a JSON document in Payload; the other columns exist for lookups.
type ReportRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	StorageKey string    `gorm:"uniqueIndex;not null"`
	CreatedBy  string    `gorm:"index"`
	Region     string    `gorm:"index"`
	Payload    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (r *ReportRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StorageKey == "" {
		r.StorageKey = StorageKeyPrefix + r.ID.String()
	}
	return nil
}

// StorageKeyPrefix prefixes the key every intervention document is filed under.
const StorageKeyPrefix = "intervencion_"
