package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriceType tells whether a part is sold at a published unit price or quoted per request.
type PriceType string

const (
	PriceTypeFixed    PriceType = "fixed"
	PriceTypeNonFixed PriceType = "non_fixed"
)

// Valid reports whether p is one of the two known price types.
func (p PriceType) Valid() bool {
	return p == PriceTypeFixed || p == PriceTypeNonFixed
}

// Part is the canonical catalog record. The pricing columns are the defaults
// that apply to any organization without its own override row.
type Part struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ManufacturerPartNumber string    `gorm:"index;not null"`
	ClientPartNumber       *string
	Name                   string `gorm:"index;not null"`
	Description            *string
	// Specifications holds a free-form JSON payload (object or plain string).
	Specifications datatypes.JSON
	Machine        *string
	Assembly       *string
	Manufacturer   string `gorm:"index;not null"`
	PartType       *string
	Voltage        *string
	PowerRatingHP  *float64 `gorm:"column:power_rating_hp"`
	PowerRatingKW  *float64 `gorm:"column:power_rating_kw"`
	ShaftSize      *string
	GearboxRatio   *string
	StockQuantity  int `gorm:"not null;default:0"`

	EstimatedLeadTimeDays *int
	PriceType             PriceType        `gorm:"type:varchar(20);not null"`
	UnitPrice             *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsRepairable          bool             `gorm:"not null;default:false"`
	RepairPrice           *decimal.Decimal `gorm:"type:decimal(12,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Details      []PartOrganizationDetail `gorm:"foreignKey:PartID"`
	Applications []PartApplication        `gorm:"foreignKey:PartID"`
}

func (p *Part) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultTerms returns the part-level commercial terms.
func (p *Part) DefaultTerms() Terms {
	return Terms{
		PriceType:             p.PriceType,
		UnitPrice:             p.UnitPrice,
		EstimatedLeadTimeDays: p.EstimatedLeadTimeDays,
		IsRepairable:          p.IsRepairable,
		RepairPrice:           p.RepairPrice,
	}
}

// Terms is the override-able commercial subset shared by Part and PartOrganizationDetail.
type Terms struct {
	PriceType             PriceType
	UnitPrice             *decimal.Decimal
	EstimatedLeadTimeDays *int
	IsRepairable          bool
	RepairPrice           *decimal.Decimal
}
