// Package pricing resolves the commercial terms a part carries for an
// organization and groups override/scope rows into per-organization views.
//
// Override rows are snapshots: a row written with "use default pricing" holds
// the part defaults as they were at write time. Resolve never re-derives
// defaults for a present row, so later edits to the part defaults do not
// reach existing overrides until they are replaced.
package pricing

import (
	"partsadmin/internal/model"

	"github.com/google/uuid"
)

// EffectiveTerms are the terms that apply to one (part, organization) pair.
type EffectiveTerms struct {
	PartID         uuid.UUID
	OrganizationID uuid.UUID
	model.Terms
	// OrganizationItemNumber is only set when an override row exists.
	OrganizationItemNumber *string
	// Overridden reports whether the terms came from an override row.
	Overridden bool
}

// Resolve returns the override's stored values when override is non-nil and
// the part defaults otherwise. override must belong to part and organizationID.
func Resolve(part *model.Part, organizationID uuid.UUID, override *model.PartOrganizationDetail) EffectiveTerms {
	if override == nil {
		return EffectiveTerms{
			PartID:         part.ID,
			OrganizationID: organizationID,
			Terms:          part.DefaultTerms(),
		}
	}
	return EffectiveTerms{
		PartID:                 part.ID,
		OrganizationID:         organizationID,
		Terms:                  override.Terms(),
		OrganizationItemNumber: override.OrganizationItemNumber,
		Overridden:             true,
	}
}

// ResolveFrom picks the override for organizationID out of the part's
// preloaded Details and resolves it.
func ResolveFrom(part *model.Part, organizationID uuid.UUID) EffectiveTerms {
	for i := range part.Details {
		if part.Details[i].OrganizationID == organizationID {
			return Resolve(part, organizationID, &part.Details[i])
		}
	}
	return Resolve(part, organizationID, nil)
}
