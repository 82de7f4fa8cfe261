package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization and Application are owned by the identity subsystem; this
// service only reads them to validate foreign keys and to label views.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Application struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"not null"`
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
