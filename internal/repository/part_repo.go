package repository

import (
	"context"
	"errors"
	"strings"

	"partsadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock buckets used by PartQuery.StockStatus.
const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"

	lowStockCeiling = 5
)

// PartQuery is the explicit filter set for listing parts. Zero values mean
// "no filter"; Limit 0 returns every match.
type PartQuery struct {
	Search string
	// SearchDescription extends the free-text search to the description column.
	SearchDescription bool

	OrganizationID *uuid.UUID // parts with an override row for this organization
	ApplicationID  *uuid.UUID // requires OrganizationID; parts scoped to this application
	PriceType      string
	Manufacturer   string
	PartType       string
	StockStatus    string

	OrderByName bool
	Limit       int
	Offset      int
	// WithAccess preloads overrides and scopes together with their organization/application rows.
	WithAccess bool
}

// PartRepository defines the data access contract for parts.
// Services depend on this interface, not on the concrete GORM implementation.
type PartRepository interface {
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindWithAccess(ctx context.Context, id uuid.UUID) (*model.Part, error)
	List(ctx context.Context, q PartQuery) ([]model.Part, int64, error)
	Update(ctx context.Context, p *model.Part) error
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a repository bound to tx; a nil tx returns the receiver.
	WithTx(tx *gorm.DB) PartRepository
	DB() *gorm.DB
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partRepo) FindWithAccess(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := preloadAccess(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partRepo) List(ctx context.Context, pq PartQuery) ([]model.Part, int64, error) {
	var parts []model.Part
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Part{})

	if s := strings.TrimSpace(pq.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		cond := "LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(manufacturer_part_number) LIKE ? ESCAPE '\\' OR LOWER(client_part_number) LIKE ? ESCAPE '\\'"
		args := []interface{}{pattern, pattern, pattern}
		if pq.SearchDescription {
			cond += " OR LOWER(description) LIKE ? ESCAPE '\\'"
			args = append(args, pattern)
		}
		q = q.Where("("+cond+")", args...)
	}
	if pq.OrganizationID != nil {
		sub := r.db.Model(&model.PartOrganizationDetail{}).Select("part_id").
			Where("organization_id = ?", *pq.OrganizationID)
		q = q.Where("id IN (?)", sub)
		if pq.ApplicationID != nil {
			scoped := r.db.Model(&model.PartApplication{}).Select("part_id").
				Where("organization_id = ? AND application_id = ?", *pq.OrganizationID, *pq.ApplicationID)
			q = q.Where("id IN (?)", scoped)
		}
	}
	if pq.PriceType != "" {
		q = q.Where("price_type = ?", pq.PriceType)
	}
	if pq.Manufacturer != "" {
		q = q.Where("manufacturer = ?", pq.Manufacturer)
	}
	if pq.PartType != "" {
		q = q.Where("part_type = ?", pq.PartType)
	}
	switch pq.StockStatus {
	case StockOut:
		q = q.Where("stock_quantity = 0")
	case StockLow:
		q = q.Where("stock_quantity BETWEEN 1 AND ?", lowStockCeiling)
	case StockIn:
		q = q.Where("stock_quantity > ?", lowStockCeiling)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pq.OrderByName {
		q = q.Order("name ASC").Order("id ASC")
	} else {
		q = q.Order("updated_at DESC").Order("id ASC")
	}
	if pq.Limit > 0 {
		q = q.Limit(pq.Limit).Offset(pq.Offset)
	}
	if pq.WithAccess {
		q = preloadAccess(q)
	}
	err := q.Find(&parts).Error
	return parts, total, err
}

func (r *partRepo) Update(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Omit("Details", "Applications").Save(p).Error
}

func (r *partRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Part{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrPartNotFound
	}
	return nil
}

func (r *partRepo) WithTx(tx *gorm.DB) PartRepository {
	if tx == nil {
		return r
	}
	return &partRepo{db: tx}
}

func (r *partRepo) DB() *gorm.DB { return r.db }

func preloadAccess(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Details.Organization").
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Applications.Application")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
