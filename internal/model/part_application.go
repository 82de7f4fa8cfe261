package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoApplication is the form sentinel meaning "not scoped to any application".
const NoApplication = "__none__"

// PartApplication scopes a part to one application of one organization.
// A (part, organization) pair without rows is visible to the organization
// generally.
type PartApplication struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_org_app"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_org_app"`
	ApplicationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_org_app;index"`
	CreatedAt      time.Time

	Application *Application `gorm:"foreignKey:ApplicationID"`
}

func (PartApplication) TableName() string { return "part_applications" }

func (a *PartApplication) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
