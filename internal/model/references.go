package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem and CartItem are owned by the ordering subsystem. Only their
// part_id column matters here: any row blocks deletion of the part.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PartID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PartID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time
}

// UserPermission carries per-user catalog flags.
type UserPermission struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CanViewPricing bool      `gorm:"not null;default:false"`
	UpdatedAt      time.Time
}
