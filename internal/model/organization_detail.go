package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartOrganizationDetail is the per-organization override of a part's
// commercial terms. At most one row exists per (part, organization); the
// values are a snapshot taken at write time, never a live reference to the
// part defaults.
type PartOrganizationDetail struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_org_detail"`
	OrganizationID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_org_detail;index"`
	OrganizationItemNumber *string

	EstimatedLeadTimeDays *int
	PriceType             PriceType        `gorm:"type:varchar(20);not null"`
	UnitPrice             *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsRepairable          bool             `gorm:"not null;default:false"`
	RepairPrice           *decimal.Decimal `gorm:"type:decimal(12,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Organization *Organization `gorm:"foreignKey:OrganizationID"`
}

func (PartOrganizationDetail) TableName() string { return "part_organization_details" }

func (d *PartOrganizationDetail) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Terms returns the stored override values.
func (d *PartOrganizationDetail) Terms() Terms {
	return Terms{
		PriceType:             d.PriceType,
		UnitPrice:             d.UnitPrice,
		EstimatedLeadTimeDays: d.EstimatedLeadTimeDays,
		IsRepairable:          d.IsRepairable,
		RepairPrice:           d.RepairPrice,
	}
}

// SnapshotDetail builds an override row whose terms are copied from t.
func SnapshotDetail(partID, organizationID uuid.UUID, itemNumber *string, t Terms) PartOrganizationDetail {
	return PartOrganizationDetail{
		PartID:                 partID,
		OrganizationID:         organizationID,
		OrganizationItemNumber: itemNumber,
		EstimatedLeadTimeDays:  t.EstimatedLeadTimeDays,
		PriceType:              t.PriceType,
		UnitPrice:              t.UnitPrice,
		IsRepairable:           t.IsRepairable,
		RepairPrice:            t.RepairPrice,
	}
}
