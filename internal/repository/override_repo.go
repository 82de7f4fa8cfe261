package repository

import (
	"context"
	"errors"

	"partsadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverrideRepository stores per-organization overrides (part_organization_details).
type OverrideRepository interface {
	// Upsert writes d keyed by (part_id, organization_id); an existing row is overwritten.
	Upsert(ctx context.Context, d *model.PartOrganizationDetail) error
	ListForPart(ctx context.Context, partID uuid.UUID) ([]model.PartOrganizationDetail, error)
	// FindForOrganization returns (nil, nil) when the organization has no override.
	FindForOrganization(ctx context.Context, partID, organizationID uuid.UUID) (*model.PartOrganizationDetail, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID, partIDs []uuid.UUID) ([]model.PartOrganizationDetail, error)
	DeleteByPart(ctx context.Context, partID uuid.UUID) error

	WithTx(tx *gorm.DB) OverrideRepository
}

type overrideRepo struct{ db *gorm.DB }

func NewOverrideRepository(db *gorm.DB) OverrideRepository { return &overrideRepo{db: db} }

var overrideColumns = []string{
	"organization_item_number",
	"estimated_lead_time_days",
	"price_type",
	"unit_price",
	"is_repairable",
	"repair_price",
	"updated_at",
}

func (r *overrideRepo) Upsert(ctx context.Context, d *model.PartOrganizationDetail) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "part_id"}, {Name: "organization_id"}},
		DoUpdates: clause.AssignmentColumns(overrideColumns),
	}).Omit("Organization").Create(d).Error
}

func (r *overrideRepo) ListForPart(ctx context.Context, partID uuid.UUID) ([]model.PartOrganizationDetail, error) {
	var list []model.PartOrganizationDetail
	err := r.db.WithContext(ctx).Where("part_id = ?", partID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *overrideRepo) FindForOrganization(ctx context.Context, partID, organizationID uuid.UUID) (*model.PartOrganizationDetail, error) {
	var d model.PartOrganizationDetail
	err := r.db.WithContext(ctx).
		Where("part_id = ? AND organization_id = ?", partID, organizationID).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *overrideRepo) ListForOrganization(ctx context.Context, organizationID uuid.UUID, partIDs []uuid.UUID) ([]model.PartOrganizationDetail, error) {
	if len(partIDs) == 0 {
		return nil, nil
	}
	var list []model.PartOrganizationDetail
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND part_id IN ?", organizationID, partIDs).
		Find(&list).Error
	return list, err
}

func (r *overrideRepo) DeleteByPart(ctx context.Context, partID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("part_id = ?", partID).Delete(&model.PartOrganizationDetail{}).Error
}

func (r *overrideRepo) WithTx(tx *gorm.DB) OverrideRepository {
	if tx == nil {
		return r
	}
	return &overrideRepo{db: tx}
}
