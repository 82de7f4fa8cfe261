package repository

import (
	"context"
	"errors"

	"partsadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceRepository answers read-only existence checks used to guard deletes
// and the per-user pricing permission.
type ReferenceRepository interface {
	PartInOrders(ctx context.Context, partID uuid.UUID) (bool, error)
	PartInCarts(ctx context.Context, partID uuid.UUID) (bool, error)
	CanViewPricing(ctx context.Context, userID uuid.UUID) (bool, error)
}

type referenceRepo struct{ db *gorm.DB }

func NewReferenceRepository(db *gorm.DB) ReferenceRepository { return &referenceRepo{db: db} }

func (r *referenceRepo) PartInOrders(ctx context.Context, partID uuid.UUID) (bool, error) {
	return r.exists(ctx, &model.OrderItem{}, partID)
}

func (r *referenceRepo) PartInCarts(ctx context.Context, partID uuid.UUID) (bool, error) {
	return r.exists(ctx, &model.CartItem{}, partID)
}

func (r *referenceRepo) exists(ctx context.Context, table interface{}, partID uuid.UUID) (bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(table).Where("part_id = ?", partID).Limit(1).Pluck("id", &ids).Error
	return len(ids) > 0, err
}

func (r *referenceRepo) CanViewPricing(ctx context.Context, userID uuid.UUID) (bool, error) {
	var perm model.UserPermission
	err := r.db.WithContext(ctx).First(&perm, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return perm.CanViewPricing, nil
}
