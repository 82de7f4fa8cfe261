package repository

import (
	"context"
	"errors"

	"partsadmin/internal/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// OrganizationRepository reads the externally owned organizations and applications.
type OrganizationRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Missing returns the ids from ids that do not match any organization.
	Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	ApplicationBelongsTo(ctx context.Context, applicationID, organizationID uuid.UUID) (bool, error)
	ListApplications(ctx context.Context, organizationID uuid.UUID) ([]model.Application, error)
}

type organizationRepo struct{ db *gorm.DB }

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var org model.Organization
	err := r.db.WithContext(ctx).Select("id").First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *organizationRepo) Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Organization{}).
		Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	missing, _ := lo.Difference(ids, found)
	return missing, nil
}

func (r *organizationRepo) ApplicationBelongsTo(ctx context.Context, applicationID, organizationID uuid.UUID) (bool, error) {
	var app model.Application
	err := r.db.WithContext(ctx).Select("id").
		Where("id = ? AND organization_id = ?", applicationID, organizationID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *organizationRepo) ListApplications(ctx context.Context, organizationID uuid.UUID) ([]model.Application, error) {
	var list []model.Application
	err := r.db.WithContext(ctx).Where("organization_id = ?", organizationID).Order("name ASC").Find(&list).Error
	return list, err
}
