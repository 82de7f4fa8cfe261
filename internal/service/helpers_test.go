package service

import (
	"context"
	"errors"
	"testing"

	"partsadmin/internal/dto"
	"partsadmin/internal/model"
	"partsadmin/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// fixture wires real repositories over SQLite and seeds two organizations,
// each with one application.
type fixture struct {
	db        *gorm.DB
	parts     repository.PartRepository
	overrides repository.OverrideRepository
	scopes    repository.ScopeRepository
	orgs      repository.OrganizationRepository
	refs      repository.ReferenceRepository

	acme, globex       model.Organization
	acmeApp, globexApp model.Application
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:        db,
		parts:     repository.NewPartRepository(db),
		overrides: repository.NewOverrideRepository(db),
		scopes:    repository.NewScopeRepository(db),
		orgs:      repository.NewOrganizationRepository(db),
		refs:      repository.NewReferenceRepository(db),
		acme:      model.Organization{ID: uuid.New(), Name: "Acme Mining"},
		globex:    model.Organization{ID: uuid.New(), Name: "Globex Paper"},
	}
	f.acmeApp = model.Application{ID: uuid.New(), OrganizationID: f.acme.ID, Name: "Conveyor Line"}
	f.globexApp = model.Application{ID: uuid.New(), OrganizationID: f.globex.ID, Name: "Pulp Mill"}

	require.NoError(t, db.Create(&[]model.Organization{f.acme, f.globex}).Error)
	require.NoError(t, db.Create(&[]model.Application{f.acmeApp, f.globexApp}).Error)
	return f
}

func (f *fixture) partService() PartService {
	return NewPartService(f.parts, f.overrides, f.scopes, f.orgs, f.refs, NoopTermsCache{})
}

func (f *fixture) count(t *testing.T, table interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(table).Where(where, args...).Count(&n).Error)
	return n
}

func newCreateRequest() dto.CreatePartRequest {
	lead := gofakeit.Number(1, 60)
	price := decimal.NewFromFloat(gofakeit.Price(10, 500)).Round(2)
	return dto.CreatePartRequest{
		ManufacturerPartNumber: gofakeit.Numerify("MPN-#####"),
		Name:                   gofakeit.ProductName(),
		Manufacturer:           gofakeit.Company(),
		StockQuantity:          gofakeit.Number(0, 20),
		EstimatedLeadTimeDays:  &lead,
		PriceType:              string(model.PriceTypeFixed),
		UnitPrice:              &price,
		IsRepairable:           true,
	}
}

func ptr[T any](v T) *T { return &v }

var errInjected = errors.New("injected store failure")

// failingOverrides fails every upsert, including inside transactions.
type failingOverrides struct{ repository.OverrideRepository }

func (failingOverrides) Upsert(context.Context, *model.PartOrganizationDetail) error {
	return errInjected
}

func (f failingOverrides) WithTx(tx *gorm.DB) repository.OverrideRepository {
	return failingOverrides{f.OverrideRepository.WithTx(tx)}
}

// failingScopes fails every application link.
type failingScopes struct{ repository.ScopeRepository }

func (failingScopes) LinkApplications(context.Context, uuid.UUID, uuid.UUID, []uuid.UUID) error {
	return errInjected
}

func (f failingScopes) WithTx(tx *gorm.DB) repository.ScopeRepository {
	return failingScopes{f.ScopeRepository.WithTx(tx)}
}
