package pricing

import (
	"partsadmin/internal/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OrganizationAccess is one organization's override together with the
// applications the part is scoped to inside that organization.
type OrganizationAccess struct {
	OrganizationID   uuid.UUID
	OrganizationName string
	Override         model.PartOrganizationDetail
	Applications     []model.Application
}

// GroupAccess folds override rows and scope rows into one entry per
// organization, in the order the overrides are given. Scope rows whose
// organization has no override are dropped. Relations (Organization,
// Application) are used for names when preloaded.
func GroupAccess(details []model.PartOrganizationDetail, scopes []model.PartApplication) []OrganizationAccess {
	byOrg := lo.GroupBy(scopes, func(s model.PartApplication) uuid.UUID { return s.OrganizationID })

	seen := make(map[uuid.UUID]bool, len(details))
	out := make([]OrganizationAccess, 0, len(details))
	for _, d := range details {
		if seen[d.OrganizationID] {
			continue
		}
		seen[d.OrganizationID] = true

		entry := OrganizationAccess{
			OrganizationID: d.OrganizationID,
			Override:       d,
			Applications:   []model.Application{},
		}
		if d.Organization != nil {
			entry.OrganizationName = d.Organization.Name
		}
		for _, s := range byOrg[d.OrganizationID] {
			app := model.Application{ID: s.ApplicationID, OrganizationID: s.OrganizationID}
			if s.Application != nil {
				app = *s.Application
			}
			entry.Applications = append(entry.Applications, app)
		}
		out = append(out, entry)
	}
	return out
}
