package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"partsadmin/internal/dto"
	"partsadmin/internal/model"
	"partsadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartService is the admin contract over parts and their organization access.
type PartService interface {
	List(ctx context.Context, filter dto.PartFilter) (*dto.PartListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error)
	Create(ctx context.Context, req dto.CreatePartRequest) (*dto.PartResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type partService struct {
	parts     repository.PartRepository
	overrides repository.OverrideRepository
	scopes    repository.ScopeRepository
	orgs      repository.OrganizationRepository
	refs      repository.ReferenceRepository
	cache     TermsCache
}

func NewPartService(
	parts repository.PartRepository,
	overrides repository.OverrideRepository,
	scopes repository.ScopeRepository,
	orgs repository.OrganizationRepository,
	refs repository.ReferenceRepository,
	cache TermsCache,
) PartService {
	if cache == nil {
		cache = NoopTermsCache{}
	}
	return &partService{
		parts:     parts,
		overrides: overrides,
		scopes:    scopes,
		orgs:      orgs,
		refs:      refs,
		cache:     cache,
	}
}

// ── Read ─────────────────────────────────────────────────────────────────────

func (s *partService) List(ctx context.Context, f dto.PartFilter) (*dto.PartListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}

	q := repository.PartQuery{
		Search:            f.Search,
		SearchDescription: true,
		PriceType:         f.PriceType,
		Manufacturer:      f.Manufacturer,
		PartType:          f.PartType,
		StockStatus:       f.StockStatus,
		OrderByName:       f.Sort != dto.SortUpdated,
		Limit:             f.Limit,
		Offset:            (f.Page - 1) * f.Limit,
		WithAccess:        true,
	}
	if f.OrganizationID != "" {
		orgID, err := uuid.Parse(f.OrganizationID)
		if err != nil {
			return nil, model.NewValidationError("organization", "must be a valid uuid")
		}
		q.OrganizationID = &orgID
	}

	parts, total, err := s.parts.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}

	resp := &dto.PartListResponse{
		Parts: make([]dto.PartResponse, 0, len(parts)),
		Pagination: dto.Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, mapPart(p))
	}
	return resp, nil
}

func (s *partService) Get(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error) {
	p, err := s.parts.FindWithAccess(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapPart(*p)
	return &resp, nil
}

// ── Write ────────────────────────────────────────────────────────────────────
// Part, override and scope writes share one transaction. Scope links run in a
// savepoint and only log on failure.

func (s *partService) Create(ctx context.Context, req dto.CreatePartRequest) (*dto.PartResponse, error) {
	entries, err := parseAccess(req.OrganizationAccess)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccessTargets(ctx, entries); err != nil {
		return nil, err
	}

	part := &model.Part{
		ManufacturerPartNumber: strings.TrimSpace(req.ManufacturerPartNumber),
		ClientPartNumber:       blankToNil(req.ClientPartNumber),
		Name:                   strings.TrimSpace(req.Name),
		Description:            blankToNil(req.Description),
		Specifications:         specifications(req.Specifications),
		Machine:                blankToNil(req.Machine),
		Assembly:               blankToNil(req.Assembly),
		Manufacturer:           strings.TrimSpace(req.Manufacturer),
		PartType:               blankToNil(req.PartType),
		Voltage:                blankToNil(req.Voltage),
		PowerRatingHP:          req.PowerRatingHP,
		PowerRatingKW:          req.PowerRatingKW,
		ShaftSize:              blankToNil(req.ShaftSize),
		GearboxRatio:           blankToNil(req.GearboxRatio),
		StockQuantity:          req.StockQuantity,
		EstimatedLeadTimeDays:  req.EstimatedLeadTimeDays,
		PriceType:              model.PriceType(req.PriceType),
		UnitPrice:              req.UnitPrice,
		IsRepairable:           req.IsRepairable,
		RepairPrice:            req.RepairPrice,
	}
	if err := validatePart(part); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.parts.DB(), func(tx *gorm.DB) error {
		if err := s.parts.WithTx(tx).Create(ctx, part); err != nil {
			return fmt.Errorf("create part: %w", err)
		}
		return s.writeAccess(ctx, tx, part, entries)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("part_id", part.ID.String()).Int("organizations", len(entries)).Msg("part created")
	return s.Get(ctx, part.ID)
}

// Update replaces the editable attributes. Manufacturer and part type are
// fixed at creation. A non-nil OrganizationAccess fully replaces the override
// and scope rows; use_default_pricing entries snapshot the updated defaults.
func (s *partService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := s.parts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replace := req.OrganizationAccess != nil
	var entries []accessEntry
	if replace {
		if entries, err = parseAccess(req.OrganizationAccess); err != nil {
			return nil, err
		}
		if err := s.checkAccessTargets(ctx, entries); err != nil {
			return nil, err
		}
	}

	part.ManufacturerPartNumber = strings.TrimSpace(req.ManufacturerPartNumber)
	part.ClientPartNumber = blankToNil(req.ClientPartNumber)
	part.Name = strings.TrimSpace(req.Name)
	part.Description = blankToNil(req.Description)
	if req.Specifications != nil {
		part.Specifications = specifications(req.Specifications)
	}
	part.Machine = blankToNil(req.Machine)
	part.Assembly = blankToNil(req.Assembly)
	part.Voltage = blankToNil(req.Voltage)
	part.PowerRatingHP = req.PowerRatingHP
	part.PowerRatingKW = req.PowerRatingKW
	part.ShaftSize = blankToNil(req.ShaftSize)
	part.GearboxRatio = blankToNil(req.GearboxRatio)
	if req.StockQuantity != nil {
		part.StockQuantity = *req.StockQuantity
	}
	part.EstimatedLeadTimeDays = req.EstimatedLeadTimeDays
	part.PriceType = model.PriceType(req.PriceType)
	part.UnitPrice = req.UnitPrice
	part.IsRepairable = req.IsRepairable
	part.RepairPrice = req.RepairPrice
	if err := validatePart(part); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.parts.DB(), func(tx *gorm.DB) error {
		if err := s.parts.WithTx(tx).Update(ctx, part); err != nil {
			return fmt.Errorf("update part: %w", err)
		}
		if !replace {
			return nil
		}
		if err := s.overrides.WithTx(tx).DeleteByPart(ctx, id); err != nil {
			return fmt.Errorf("clear overrides: %w", err)
		}
		if err := s.scopes.WithTx(tx).DeleteByPart(ctx, id); err != nil {
			return fmt.Errorf("clear scopes: %w", err)
		}
		return s.writeAccess(ctx, tx, part, entries)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	log.Info().Str("part_id", id.String()).Bool("access_replaced", replace).Msg("part updated")
	return s.Get(ctx, id)
}

// Delete refuses while any order line or cart line references the part.
// Overrides and scopes go before the part row.
func (s *partService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.parts.FindByID(ctx, id); err != nil {
		return err
	}

	inOrders, err := s.refs.PartInOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("check order references: %w", err)
	}
	if inOrders {
		return &model.ReferentialError{Reason: "Cannot delete part that has been used in orders"}
	}
	inCarts, err := s.refs.PartInCarts(ctx, id)
	if err != nil {
		return fmt.Errorf("check cart references: %w", err)
	}
	if inCarts {
		return &model.ReferentialError{Reason: "Cannot delete part that is currently in user carts"}
	}

	err = runTx(ctx, s.parts.DB(), func(tx *gorm.DB) error {
		if err := s.overrides.WithTx(tx).DeleteByPart(ctx, id); err != nil {
			return fmt.Errorf("delete overrides: %w", err)
		}
		if err := s.scopes.WithTx(tx).DeleteByPart(ctx, id); err != nil {
			return fmt.Errorf("delete scopes: %w", err)
		}
		return s.parts.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	log.Info().Str("part_id", id.String()).Msg("part deleted")
	return nil
}

func (s *partService) writeAccess(ctx context.Context, tx *gorm.DB, part *model.Part, entries []accessEntry) error {
	overrides := s.overrides.WithTx(tx)
	scopes := s.scopes.WithTx(tx)
	for _, e := range entries {
		d := e.detail(part)
		if err := overrides.Upsert(ctx, &d); err != nil {
			return fmt.Errorf("write override for organization %s: %w", e.organizationID, err)
		}
		if err := scopes.LinkApplications(ctx, part.ID, e.organizationID, e.applicationIDs); err != nil {
			log.Warn().Err(err).
				Str("part_id", part.ID.String()).
				Str("organization_id", e.organizationID.String()).
				Strs("application_ids", lo.Map(e.applicationIDs, func(id uuid.UUID, _ int) string { return id.String() })).
				Msg("application scope insert failed")
		}
	}
	return nil
}

// checkAccessTargets verifies every organization exists and every
// application belongs to the organization it is scoped under.
func (s *partService) checkAccessTargets(ctx context.Context, entries []accessEntry) error {
	if len(entries) == 0 {
		return nil
	}
	missing, err := s.orgs.Missing(ctx, lo.Map(entries, func(e accessEntry, _ int) uuid.UUID { return e.organizationID }))
	if err != nil {
		return fmt.Errorf("check organizations: %w", err)
	}
	if len(missing) > 0 {
		return model.NewValidationError("organization_access",
			"unknown organization "+strings.Join(lo.Map(missing, func(id uuid.UUID, _ int) string { return id.String() }), ", "))
	}

	verr := &model.ValidationError{}
	for i, e := range entries {
		for _, appID := range e.applicationIDs {
			ok, err := s.orgs.ApplicationBelongsTo(ctx, appID, e.organizationID)
			if err != nil {
				return fmt.Errorf("check application: %w", err)
			}
			if !ok {
				verr.Add(fmt.Sprintf("organization_access[%d].applications", i),
					fmt.Sprintf("application %s does not belong to organization %s", appID, e.organizationID))
			}
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// ── Organization access input ────────────────────────────────────────────────

type accessEntry struct {
	organizationID uuid.UUID
	itemNumber     *string
	useDefaults    bool
	custom         model.Terms
	applicationIDs []uuid.UUID
}

// detail builds the override row. With useDefaults the part's current
// defaults are copied; the row does not follow later default changes.
func (e accessEntry) detail(p *model.Part) model.PartOrganizationDetail {
	terms := e.custom
	if e.useDefaults {
		terms = p.DefaultTerms()
	}
	return model.SnapshotDetail(p.ID, e.organizationID, e.itemNumber, terms)
}

// parseAccess converts the form rows into entries, one per organization. A
// repeated organization replaces the earlier entry as a whole, applications
// included.
func parseAccess(inputs []dto.OrganizationAccessInput) ([]accessEntry, error) {
	verr := &model.ValidationError{}
	entries := make([]accessEntry, 0, len(inputs))
	position := make(map[uuid.UUID]int, len(inputs))

	for i, in := range inputs {
		field := func(name string) string { return fmt.Sprintf("organization_access[%d].%s", i, name) }

		orgID, err := uuid.Parse(strings.TrimSpace(in.OrganizationID))
		if err != nil {
			verr.Add(field("organization_id"), "must be a valid uuid")
			continue
		}
		e := accessEntry{
			organizationID: orgID,
			itemNumber:     blankToNil(in.OrganizationItemNumber),
			useDefaults:    in.UseDefaultPricing,
		}

		if !in.UseDefaultPricing {
			e.custom.IsRepairable = in.CustomIsRepairable
			e.custom.PriceType = model.PriceTypeNonFixed
			if v := strings.TrimSpace(in.CustomPriceType); v != "" {
				if pt := model.PriceType(v); pt.Valid() {
					e.custom.PriceType = pt
				} else {
					verr.Add(field("custom_price_type"), "must be fixed or non_fixed")
				}
			}
			if v := strings.TrimSpace(in.CustomLeadTime); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					verr.Add(field("custom_lead_time"), "must be a whole number of days")
				} else {
					e.custom.EstimatedLeadTimeDays = &n
				}
			}
			if e.custom.UnitPrice, err = parseMoney(in.CustomPrice); err != nil {
				verr.Add(field("custom_price"), "must be a number")
			}
			if e.custom.RepairPrice, err = parseMoney(in.CustomRepairPrice); err != nil {
				verr.Add(field("custom_repair_price"), "must be a number")
			}
		}

		for _, raw := range append([]string{in.ApplicationID}, in.Applications...) {
			raw = strings.TrimSpace(raw)
			if raw == "" || raw == model.NoApplication {
				continue
			}
			appID, err := uuid.Parse(raw)
			if err != nil {
				verr.Add(field("applications"), "must contain valid uuids")
				continue
			}
			e.applicationIDs = append(e.applicationIDs, appID)
		}
		e.applicationIDs = lo.Uniq(e.applicationIDs)

		if at, seen := position[orgID]; seen {
			entries[at] = e
			continue
		}
		position[orgID] = len(entries)
		entries = append(entries, e)
	}

	if !verr.Empty() {
		return nil, verr
	}
	return entries, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func validatePart(p *model.Part) error {
	verr := &model.ValidationError{}
	if p.ManufacturerPartNumber == "" {
		verr.Add("manufacturer_part_number", "is required")
	}
	if p.Name == "" {
		verr.Add("name", "is required")
	}
	if p.Manufacturer == "" {
		verr.Add("manufacturer", "is required")
	}
	if !p.PriceType.Valid() {
		verr.Add("price_type", "must be fixed or non_fixed")
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func parseMoney(v string) (*decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func specifications(raw []byte) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}
