package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CatalogFilter struct {
	Search        string `form:"search"`
	ApplicationID string `form:"application" validate:"omitempty,uuid"`
	PriceType     string `form:"price_type"  validate:"omitempty,oneof=fixed non_fixed"`
}

// EffectiveTermsResponse carries the terms that apply to the caller's
// organization. Prices are nil when the caller may not view pricing.
type EffectiveTermsResponse struct {
	OrganizationItemNumber *string          `json:"organization_item_number"`
	EstimatedLeadTimeDays  *int             `json:"estimated_lead_time_days"`
	PriceType              string           `json:"price_type"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	IsRepairable           bool             `json:"is_repairable"`
	RepairPrice            *decimal.Decimal `json:"repair_price"`
}

type CatalogPartResponse struct {
	ID                     string          `json:"id"`
	ManufacturerPartNumber string          `json:"manufacturer_part_number"`
	ClientPartNumber       *string         `json:"client_part_number"`
	Name                   string          `json:"name"`
	Description            *string         `json:"description"`
	Specifications         json.RawMessage `json:"specifications,omitempty"`
	Machine                *string         `json:"machine"`
	Assembly               *string         `json:"assembly"`
	Manufacturer           string          `json:"manufacturer"`
	PartType               *string         `json:"part_type"`
	Voltage                *string         `json:"voltage"`
	PowerRatingHP          *float64        `json:"power_rating_hp"`
	PowerRatingKW          *float64        `json:"power_rating_kw"`
	ShaftSize              *string         `json:"shaft_size"`
	GearboxRatio           *string         `json:"gearbox_ratio"`
	StockQuantity          int             `json:"stock_quantity"`
	UpdatedAt              time.Time       `json:"updated_at"`

	Terms EffectiveTermsResponse `json:"terms"`
}

type ApplicationResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CatalogListResponse struct {
	Parts          []CatalogPartResponse `json:"parts"`
	Applications   []ApplicationResponse `json:"applications"`
	Count          int                   `json:"count"`
	CanViewPricing bool                  `json:"can_view_pricing"`
}
