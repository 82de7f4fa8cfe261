package service

import (
	"context"

	"partsadmin/internal/pricing"

	"github.com/google/uuid"
)

// TermsCache holds resolved terms per (part, organization). Implementations
// treat every failure as a miss; the database stays the source of truth.
type TermsCache interface {
	Get(ctx context.Context, partID, organizationID uuid.UUID) (*pricing.EffectiveTerms, bool)
	Set(ctx context.Context, terms pricing.EffectiveTerms)
	Invalidate(ctx context.Context, partIDs ...uuid.UUID)
}

// NoopTermsCache never hits. Used when Redis is not configured and in tests.
type NoopTermsCache struct{}

func (NoopTermsCache) Get(context.Context, uuid.UUID, uuid.UUID) (*pricing.EffectiveTerms, bool) {
	return nil, false
}

func (NoopTermsCache) Set(context.Context, pricing.EffectiveTerms) {}

func (NoopTermsCache) Invalidate(context.Context, ...uuid.UUID) {}
