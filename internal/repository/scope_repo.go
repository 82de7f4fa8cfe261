package repository

import (
	"context"

	"partsadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopeRepository stores application scoping links (part_applications).
type ScopeRepository interface {
	// LinkApplications inserts one row per application id, skipping links that
	// already exist. It runs in its own transaction, or in a savepoint when the
	// repository is bound to an open transaction, so a failure never poisons
	// the caller's transaction.
	LinkApplications(ctx context.Context, partID, organizationID uuid.UUID, applicationIDs []uuid.UUID) error
	ListForPart(ctx context.Context, partID uuid.UUID) ([]model.PartApplication, error)
	DeleteByPart(ctx context.Context, partID uuid.UUID) error

	WithTx(tx *gorm.DB) ScopeRepository
}

type scopeRepo struct{ db *gorm.DB }

func NewScopeRepository(db *gorm.DB) ScopeRepository { return &scopeRepo{db: db} }

func (r *scopeRepo) LinkApplications(ctx context.Context, partID, organizationID uuid.UUID, applicationIDs []uuid.UUID) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	rows := make([]model.PartApplication, 0, len(applicationIDs))
	for _, appID := range applicationIDs {
		rows = append(rows, model.PartApplication{
			PartID:         partID,
			OrganizationID: organizationID,
			ApplicationID:  appID,
		})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Application").Create(&rows).Error
	})
}

func (r *scopeRepo) ListForPart(ctx context.Context, partID uuid.UUID) ([]model.PartApplication, error) {
	var list []model.PartApplication
	err := r.db.WithContext(ctx).Where("part_id = ?", partID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *scopeRepo) DeleteByPart(ctx context.Context, partID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("part_id = ?", partID).Delete(&model.PartApplication{}).Error
}

func (r *scopeRepo) WithTx(tx *gorm.DB) ScopeRepository {
	if tx == nil {
		return r
	}
	return &scopeRepo{db: tx}
}
