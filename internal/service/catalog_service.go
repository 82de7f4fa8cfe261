package service

import (
	"context"
	"fmt"

	"partsadmin/internal/dto"
	"partsadmin/internal/model"
	"partsadmin/internal/pricing"
	"partsadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Viewer is the authenticated caller of the catalog.
type Viewer struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           string
}

// CatalogService is the end-user browse view: parts the caller's organization
// has access to, each with the terms that apply to that organization.
type CatalogService interface {
	List(ctx context.Context, v Viewer, filter dto.CatalogFilter) (*dto.CatalogListResponse, error)
	Get(ctx context.Context, v Viewer, id uuid.UUID) (*dto.CatalogPartResponse, error)
}

type catalogService struct {
	parts     repository.PartRepository
	overrides repository.OverrideRepository
	orgs      repository.OrganizationRepository
	refs      repository.ReferenceRepository
	cache     TermsCache
}

func NewCatalogService(
	parts repository.PartRepository,
	overrides repository.OverrideRepository,
	orgs repository.OrganizationRepository,
	refs repository.ReferenceRepository,
	cache TermsCache,
) CatalogService {
	if cache == nil {
		cache = NoopTermsCache{}
	}
	return &catalogService{parts: parts, overrides: overrides, orgs: orgs, refs: refs, cache: cache}
}

func (s *catalogService) List(ctx context.Context, v Viewer, f dto.CatalogFilter) (*dto.CatalogListResponse, error) {
	showPricing, err := s.canViewPricing(ctx, v)
	if err != nil {
		return nil, err
	}

	q := repository.PartQuery{Search: f.Search, OrganizationID: &v.OrganizationID}
	if f.ApplicationID != "" {
		appID, err := uuid.Parse(f.ApplicationID)
		if err != nil {
			return nil, model.NewValidationError("application", "must be a valid uuid")
		}
		q.ApplicationID = &appID
	}

	parts, _, err := s.parts.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	terms, err := s.resolveAll(ctx, v.OrganizationID, parts)
	if err != nil {
		return nil, err
	}

	// price_type filters on the organization's terms, not the part defaults.
	if f.PriceType != "" {
		parts = lo.Filter(parts, func(p model.Part, _ int) bool {
			return string(terms[p.ID].PriceType) == f.PriceType
		})
	}

	apps, err := s.orgs.ListApplications(ctx, v.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	resp := &dto.CatalogListResponse{
		Parts:          make([]dto.CatalogPartResponse, 0, len(parts)),
		Applications:   make([]dto.ApplicationResponse, 0, len(apps)),
		Count:          len(parts),
		CanViewPricing: showPricing,
	}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, mapCatalogPart(p, terms[p.ID], showPricing))
	}
	for _, a := range apps {
		resp.Applications = append(resp.Applications, dto.ApplicationResponse{
			ID:          a.ID.String(),
			Name:        a.Name,
			Description: a.Description,
		})
	}
	return resp, nil
}

// Get returns the part only when the caller's organization has an override row.
func (s *catalogService) Get(ctx context.Context, v Viewer, id uuid.UUID) (*dto.CatalogPartResponse, error) {
	part, err := s.parts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t, ok := s.cache.Get(ctx, id, v.OrganizationID)
	if !ok {
		d, err := s.overrides.FindForOrganization(ctx, id, v.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("load override: %w", err)
		}
		resolved := pricing.Resolve(part, v.OrganizationID, d)
		s.cache.Set(ctx, resolved)
		t = &resolved
	}
	if !t.Overridden {
		return nil, model.ErrPartNotFound
	}

	showPricing, err := s.canViewPricing(ctx, v)
	if err != nil {
		return nil, err
	}
	resp := mapCatalogPart(*part, *t, showPricing)
	return &resp, nil
}

// resolveAll resolves terms for every part, reading the cache first and
// loading the remaining overrides in one query.
func (s *catalogService) resolveAll(ctx context.Context, orgID uuid.UUID, parts []model.Part) (map[uuid.UUID]pricing.EffectiveTerms, error) {
	out := make(map[uuid.UUID]pricing.EffectiveTerms, len(parts))
	var misses []int
	for i := range parts {
		if t, ok := s.cache.Get(ctx, parts[i].ID, orgID); ok {
			out[parts[i].ID] = *t
			continue
		}
		misses = append(misses, i)
	}
	if len(misses) == 0 {
		return out, nil
	}

	ids := lo.Map(misses, func(i int, _ int) uuid.UUID { return parts[i].ID })
	details, err := s.overrides.ListForOrganization(ctx, orgID, ids)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	byPart := lo.KeyBy(details, func(d model.PartOrganizationDetail) uuid.UUID { return d.PartID })

	for _, i := range misses {
		p := &parts[i]
		var override *model.PartOrganizationDetail
		if d, ok := byPart[p.ID]; ok {
			override = &d
		}
		t := pricing.Resolve(p, orgID, override)
		s.cache.Set(ctx, t)
		out[p.ID] = t
	}
	return out, nil
}

func (s *catalogService) canViewPricing(ctx context.Context, v Viewer) (bool, error) {
	if model.SeesAllPricing(v.Role) {
		return true, nil
	}
	ok, err := s.refs.CanViewPricing(ctx, v.UserID)
	if err != nil {
		return false, fmt.Errorf("load pricing permission: %w", err)
	}
	return ok, nil
}
