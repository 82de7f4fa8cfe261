package service

import (
	"context"
	"errors"
	"testing"

	"partsadmin/internal/dto"
	"partsadmin/internal/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartService_CreateWithAccess(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{
		{
			OrganizationID:         f.acme.ID.String(),
			OrganizationItemNumber: ptr("ACME-001"),
			UseDefaultPricing:      true,
			ApplicationID:          f.acmeApp.ID.String(),
		},
		{
			OrganizationID:    f.globex.ID.String(),
			CustomLeadTime:    "21",
			CustomPriceType:   "fixed",
			CustomPrice:       "99.90",
			CustomRepairPrice: " ",
			ApplicationID:     model.NoApplication,
		},
	}

	resp, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Organizations, 2)

	byID := lo.KeyBy(resp.Organizations, func(o dto.OrganizationAccessResponse) string { return o.ID })
	acme := byID[f.acme.ID.String()]
	assert.Equal(t, "Acme Mining", acme.Name)
	assert.Equal(t, "ACME-001", *acme.OrganizationItemNumber)
	assert.Equal(t, req.PriceType, acme.PriceType)
	assert.True(t, acme.UnitPrice.Equal(*req.UnitPrice))
	assert.Equal(t, *req.EstimatedLeadTimeDays, *acme.EstimatedLeadTimeDays)
	require.Len(t, acme.Applications, 1)
	assert.Equal(t, "Conveyor Line", acme.Applications[0].Name)

	globex := byID[f.globex.ID.String()]
	assert.Equal(t, 21, *globex.EstimatedLeadTimeDays)
	assert.True(t, globex.UnitPrice.Equal(decimal.RequireFromString("99.90")))
	assert.Nil(t, globex.RepairPrice)
	assert.False(t, globex.IsRepairable)
	assert.Empty(t, globex.Applications)
}

func TestPartService_RepeatedOrganizationLastEntryWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kiln := model.Application{ID: uuid.New(), OrganizationID: f.acme.ID, Name: "Kiln"}
	require.NoError(t, f.db.Create(&kiln).Error)

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{
		{OrganizationID: f.acme.ID.String(), CustomPriceType: "fixed", CustomPrice: "10", ApplicationID: f.acmeApp.ID.String()},
		{OrganizationID: f.acme.ID.String(), CustomPriceType: "fixed", CustomPrice: "20", ApplicationID: kiln.ID.String()},
	}

	resp, err := f.partService().Create(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Organizations, 1)
	acme := resp.Organizations[0]
	assert.True(t, acme.UnitPrice.Equal(decimal.RequireFromString("20")))
	require.Len(t, acme.Applications, 1)
	assert.Equal(t, kiln.ID.String(), acme.Applications[0].ID)

	partID := uuid.MustParse(resp.ID)
	assert.Equal(t, int64(1), f.count(t, &model.PartApplication{}, "part_id = ?", partID))
	assert.Equal(t, int64(1), f.count(t, &model.PartOrganizationDetail{}, "part_id = ?", partID))
}

func TestPartService_CreateCustomDefaultsToNonFixed(t *testing.T) {
	f := newFixture(t)
	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String()}}

	resp, err := f.partService().Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Organizations, 1)
	assert.Equal(t, string(model.PriceTypeNonFixed), resp.Organizations[0].PriceType)
	assert.Nil(t, resp.Organizations[0].UnitPrice)
}

func TestPartService_CreateRejectsUnknownOrganization(t *testing.T) {
	f := newFixture(t)
	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: uuid.NewString(), UseDefaultPricing: true}}

	_, err := f.partService().Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Zero(t, f.count(t, &model.Part{}, "1 = 1"))
}

func TestPartService_CreateRejectsForeignApplication(t *testing.T) {
	f := newFixture(t)
	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{
		OrganizationID:    f.acme.ID.String(),
		UseDefaultPricing: true,
		Applications:      []string{f.globexApp.ID.String()},
	}}

	_, err := f.partService().Create(context.Background(), req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "organization_access[0].applications")
	assert.Zero(t, f.count(t, &model.Part{}, "1 = 1"))
}

func TestPartService_CreateRejectsBadCustomValues(t *testing.T) {
	f := newFixture(t)
	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{
		OrganizationID: f.acme.ID.String(),
		CustomLeadTime: "two weeks",
		CustomPrice:    "cheap",
	}}

	_, err := f.partService().Create(context.Background(), req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "organization_access[0].custom_lead_time")
	assert.Contains(t, verr.Fields, "organization_access[0].custom_price")
}

func TestPartService_CreateRequiresCoreFields(t *testing.T) {
	f := newFixture(t)
	req := newCreateRequest()
	req.Name = "  "
	req.PriceType = "bogus"

	_, err := f.partService().Create(context.Background(), req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "price_type")
}

func TestPartService_ScopeFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	svc := NewPartService(f.parts, f.overrides, failingScopes{f.scopes}, f.orgs, f.refs, nil)

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{
		OrganizationID:    f.acme.ID.String(),
		UseDefaultPricing: true,
		ApplicationID:     f.acmeApp.ID.String(),
	}}

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Organizations, 1)
	assert.Empty(t, resp.Organizations[0].Applications)
}

func TestPartService_OverrideFailureRollsBackCreate(t *testing.T) {
	f := newFixture(t)
	svc := NewPartService(f.parts, failingOverrides{f.overrides}, f.scopes, f.orgs, f.refs, nil)

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true}}

	_, err := svc.Create(context.Background(), req)
	require.ErrorIs(t, err, errInjected)
	assert.Zero(t, f.count(t, &model.Part{}, "1 = 1"))
}

// Overrides written with use_default_pricing are snapshots: editing the part
// defaults does not reach them until access is replaced.
func TestPartService_UpdateKeepsSnapshotUntilReplaced(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	req := newCreateRequest()
	req.UnitPrice = ptr(decimal.RequireFromString("100.00"))
	req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true}}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	upd := dto.UpdatePartRequest{
		ManufacturerPartNumber: created.ManufacturerPartNumber,
		Name:                   "Renamed",
		PriceType:              created.PriceType,
		UnitPrice:              ptr(decimal.RequireFromString("250.00")),
		EstimatedLeadTimeDays:  created.EstimatedLeadTimeDays,
		IsRepairable:           created.IsRepairable,
	}
	updated, err := svc.Update(ctx, id, upd)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("250.00")))
	require.Len(t, updated.Organizations, 1)
	assert.True(t, updated.Organizations[0].UnitPrice.Equal(decimal.RequireFromString("100.00")), "override must keep the old snapshot")

	upd.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true}}
	replaced, err := svc.Update(ctx, id, upd)
	require.NoError(t, err)
	require.Len(t, replaced.Organizations, 1)
	assert.True(t, replaced.Organizations[0].UnitPrice.Equal(decimal.RequireFromString("250.00")))
}

func TestPartService_UpdateReplacesAccessAndKeepsManufacturer(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	req := newCreateRequest()
	req.PartType = ptr("motor")
	req.OrganizationAccess = []dto.OrganizationAccessInput{
		{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true, ApplicationID: f.acmeApp.ID.String()},
		{OrganizationID: f.globex.ID.String(), UseDefaultPricing: true},
	}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	updated, err := svc.Update(ctx, id, dto.UpdatePartRequest{
		ManufacturerPartNumber: created.ManufacturerPartNumber,
		Name:                   created.Name,
		PriceType:              string(model.PriceTypeNonFixed),
		OrganizationAccess: []dto.OrganizationAccessInput{
			{OrganizationID: f.globex.ID.String(), UseDefaultPricing: true, ApplicationID: f.globexApp.ID.String()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, req.Manufacturer, updated.Manufacturer)
	assert.Equal(t, "motor", *updated.PartType)
	require.Len(t, updated.Organizations, 1)
	assert.Equal(t, f.globex.ID.String(), updated.Organizations[0].ID)
	assert.Equal(t, string(model.PriceTypeNonFixed), updated.Organizations[0].PriceType)
	require.Len(t, updated.Organizations[0].Applications, 1)
	assert.Equal(t, "Pulp Mill", updated.Organizations[0].Applications[0].Name)

	assert.Zero(t, f.count(t, &model.PartApplication{}, "organization_id = ?", f.acme.ID))
}

func TestPartService_UpdateEmptyAccessClearsOverrides(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true}}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, uuid.MustParse(created.ID), dto.UpdatePartRequest{
		ManufacturerPartNumber: created.ManufacturerPartNumber,
		Name:                   created.Name,
		PriceType:              created.PriceType,
		OrganizationAccess:     []dto.OrganizationAccessInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Organizations)
}

func TestPartService_UpdateUnknownPart(t *testing.T) {
	f := newFixture(t)
	_, err := f.partService().Update(context.Background(), uuid.New(), dto.UpdatePartRequest{
		ManufacturerPartNumber: "X", Name: "Y", PriceType: "fixed",
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPartService_DeleteGuardedByReferences(t *testing.T) {
	tests := []struct {
		name   string
		seed   func(f *fixture, partID uuid.UUID) interface{}
		reason string
	}{
		{
			name: "order line",
			seed: func(f *fixture, partID uuid.UUID) interface{} {
				return &model.OrderItem{ID: uuid.New(), OrderID: uuid.New(), PartID: partID, Quantity: 1}
			},
			reason: "Cannot delete part that has been used in orders",
		},
		{
			name: "cart line",
			seed: func(f *fixture, partID uuid.UUID) interface{} {
				return &model.CartItem{ID: uuid.New(), UserID: uuid.New(), PartID: partID, Quantity: 2}
			},
			reason: "Cannot delete part that is currently in user carts",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.partService()
			ctx := context.Background()

			req := newCreateRequest()
			req.OrganizationAccess = []dto.OrganizationAccessInput{{
				OrganizationID: f.acme.ID.String(), UseDefaultPricing: true, ApplicationID: f.acmeApp.ID.String(),
			}}
			created, err := svc.Create(ctx, req)
			require.NoError(t, err)
			id := uuid.MustParse(created.ID)
			require.NoError(t, f.db.Create(tt.seed(f, id)).Error)

			err = svc.Delete(ctx, id)
			var refErr *model.ReferentialError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.reason, refErr.Reason)
			assert.ErrorIs(t, err, model.ErrReferenced)

			assert.EqualValues(t, 1, f.count(t, &model.Part{}, "id = ?", id))
			assert.EqualValues(t, 1, f.count(t, &model.PartOrganizationDetail{}, "part_id = ?", id))
			assert.EqualValues(t, 1, f.count(t, &model.PartApplication{}, "part_id = ?", id))
		})
	}
}

func TestPartService_DeleteRemovesEverything(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	req := newCreateRequest()
	req.OrganizationAccess = []dto.OrganizationAccessInput{
		{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true, ApplicationID: f.acmeApp.ID.String()},
		{OrganizationID: f.globex.ID.String(), UseDefaultPricing: true, ApplicationID: f.globexApp.ID.String()},
	}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	require.NoError(t, svc.Delete(ctx, id))

	assert.Zero(t, f.count(t, &model.Part{}, "id = ?", id))
	assert.Zero(t, f.count(t, &model.PartOrganizationDetail{}, "part_id = ?", id))
	assert.Zero(t, f.count(t, &model.PartApplication{}, "part_id = ?", id))

	assert.ErrorIs(t, svc.Delete(ctx, id), model.ErrPartNotFound)
}

func TestPartService_ListFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	svc := f.partService()
	ctx := context.Background()

	mk := func(name, manufacturer string, stock int, access bool) {
		req := newCreateRequest()
		req.Name = name
		req.Manufacturer = manufacturer
		req.StockQuantity = stock
		if access {
			req.OrganizationAccess = []dto.OrganizationAccessInput{{OrganizationID: f.acme.ID.String(), UseDefaultPricing: true}}
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	mk("Bearing 6204", "SKF", 0, true)
	mk("Bearing 6305", "SKF", 3, false)
	mk("Gearbox 10_1", "Sew", 12, true)
	mk("Coupling", "Rexnord", 40, false)

	all, err := svc.List(ctx, dto.PartFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	require.Len(t, all.Parts, 2)
	assert.Equal(t, "Bearing 6204", all.Parts[0].Name, "admin list is ordered by name")

	search, err := svc.List(ctx, dto.PartFilter{Search: "bearing", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, search.Pagination.Total)

	underscore, err := svc.List(ctx, dto.PartFilter{Search: "10_1", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, underscore.Pagination.Total)

	byOrg, err := svc.List(ctx, dto.PartFilter{OrganizationID: f.acme.ID.String(), Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byOrg.Pagination.Total)
	for _, p := range byOrg.Parts {
		require.Len(t, p.Organizations, 1)
	}

	byMaker, err := svc.List(ctx, dto.PartFilter{Manufacturer: "SKF", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byMaker.Pagination.Total)

	for status, want := range map[string]int64{dto.StockOut: 1, dto.StockLow: 1, dto.StockIn: 2} {
		res, err := svc.List(ctx, dto.PartFilter{StockStatus: status, Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.EqualValues(t, want, res.Pagination.Total, status)
	}

	_, err = svc.List(ctx, dto.PartFilter{OrganizationID: "nope", Page: 1, Limit: 50})
	assert.ErrorIs(t, err, model.ErrValidation)
}
