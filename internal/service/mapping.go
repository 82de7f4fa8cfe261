package service

import (
	"encoding/json"

	"partsadmin/internal/dto"
	"partsadmin/internal/model"
	"partsadmin/internal/pricing"
)

// mapPart converts a part with preloaded access rows into the admin view.
func mapPart(p model.Part) dto.PartResponse {
	resp := dto.PartResponse{
		ID:                     p.ID.String(),
		ManufacturerPartNumber: p.ManufacturerPartNumber,
		ClientPartNumber:       p.ClientPartNumber,
		Name:                   p.Name,
		Description:            p.Description,
		Specifications:         specJSON(p),
		Machine:                p.Machine,
		Assembly:               p.Assembly,
		Manufacturer:           p.Manufacturer,
		PartType:               p.PartType,
		Voltage:                p.Voltage,
		PowerRatingHP:          p.PowerRatingHP,
		PowerRatingKW:          p.PowerRatingKW,
		ShaftSize:              p.ShaftSize,
		GearboxRatio:           p.GearboxRatio,
		StockQuantity:          p.StockQuantity,
		EstimatedLeadTimeDays:  p.EstimatedLeadTimeDays,
		PriceType:              string(p.PriceType),
		UnitPrice:              p.UnitPrice,
		RepairPrice:            p.RepairPrice,
		IsRepairable:           p.IsRepairable,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
		Organizations:          []dto.OrganizationAccessResponse{},
	}

	for _, access := range pricing.GroupAccess(p.Details, p.Applications) {
		o := access.Override
		entry := dto.OrganizationAccessResponse{
			ID:                     access.OrganizationID.String(),
			Name:                   access.OrganizationName,
			OrganizationItemNumber: o.OrganizationItemNumber,
			EstimatedLeadTimeDays:  o.EstimatedLeadTimeDays,
			PriceType:              string(o.PriceType),
			UnitPrice:              o.UnitPrice,
			IsRepairable:           o.IsRepairable,
			RepairPrice:            o.RepairPrice,
			Applications:           make([]dto.ApplicationRef, 0, len(access.Applications)),
		}
		for _, app := range access.Applications {
			entry.Applications = append(entry.Applications, dto.ApplicationRef{ID: app.ID.String(), Name: app.Name})
		}
		resp.Organizations = append(resp.Organizations, entry)
	}
	return resp
}

// mapCatalogPart converts a part and its resolved terms into the catalog view.
// Prices are dropped unless showPricing is set.
func mapCatalogPart(p model.Part, t pricing.EffectiveTerms, showPricing bool) dto.CatalogPartResponse {
	terms := dto.EffectiveTermsResponse{
		OrganizationItemNumber: t.OrganizationItemNumber,
		EstimatedLeadTimeDays:  t.EstimatedLeadTimeDays,
		PriceType:              string(t.PriceType),
		IsRepairable:           t.IsRepairable,
	}
	if showPricing {
		terms.UnitPrice = t.UnitPrice
		terms.RepairPrice = t.RepairPrice
	}
	return dto.CatalogPartResponse{
		ID:                     p.ID.String(),
		ManufacturerPartNumber: p.ManufacturerPartNumber,
		ClientPartNumber:       p.ClientPartNumber,
		Name:                   p.Name,
		Description:            p.Description,
		Specifications:         specJSON(p),
		Machine:                p.Machine,
		Assembly:               p.Assembly,
		Manufacturer:           p.Manufacturer,
		PartType:               p.PartType,
		Voltage:                p.Voltage,
		PowerRatingHP:          p.PowerRatingHP,
		PowerRatingKW:          p.PowerRatingKW,
		ShaftSize:              p.ShaftSize,
		GearboxRatio:           p.GearboxRatio,
		StockQuantity:          p.StockQuantity,
		UpdatedAt:              p.UpdatedAt,
		Terms:                  terms,
	}
}

func specJSON(p model.Part) json.RawMessage {
	if len(p.Specifications) == 0 {
		return nil
	}
	return json.RawMessage(p.Specifications)
}
