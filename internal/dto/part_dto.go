package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OrganizationAccessInput grants one organization access to a part. When
// UseDefaultPricing is set the stored override is a snapshot of the part's
// defaults at write time; otherwise the Custom* form values are stored as
// submitted (blank strings become null).
type OrganizationAccessInput struct {
	OrganizationID         string  `json:"organization_id"          validate:"required,uuid"`
	OrganizationItemNumber *string `json:"organization_item_number"`
	UseDefaultPricing      bool    `json:"use_default_pricing"`

	CustomLeadTime     string `json:"custom_lead_time"`
	CustomPriceType    string `json:"custom_price_type"  validate:"omitempty,oneof=fixed non_fixed"`
	CustomPrice        string `json:"custom_price"`
	CustomIsRepairable bool   `json:"custom_is_repairable"`
	CustomRepairPrice  string `json:"custom_repair_price"`

	// ApplicationID is the single-select form value; "__none__" or "" means no scope.
	ApplicationID string `json:"application_id"`
	// Applications generalizes ApplicationID to a set.
	Applications []string `json:"applications" validate:"omitempty,dive,uuid"`
}

type CreatePartRequest struct {
	ManufacturerPartNumber string           `json:"manufacturer_part_number" validate:"required,max=120"`
	ClientPartNumber       *string          `json:"client_part_number"`
	Name                   string           `json:"name"                     validate:"required,max=255"`
	Description            *string          `json:"description"`
	Specifications         json.RawMessage  `json:"specifications"`
	Machine                *string          `json:"machine"`
	Assembly               *string          `json:"assembly"`
	Manufacturer           string           `json:"manufacturer"             validate:"required,max=120"`
	PartType               *string          `json:"part_type"`
	Voltage                *string          `json:"voltage"`
	PowerRatingHP          *float64         `json:"power_rating_hp"`
	PowerRatingKW          *float64         `json:"power_rating_kw"`
	ShaftSize              *string          `json:"shaft_size"`
	GearboxRatio           *string          `json:"gearbox_ratio"`
	StockQuantity          int              `json:"stock_quantity"           validate:"min=0"`
	EstimatedLeadTimeDays  *int             `json:"estimated_lead_time_days" validate:"omitempty,min=0"`
	PriceType              string           `json:"price_type"               validate:"required,oneof=fixed non_fixed"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	RepairPrice            *decimal.Decimal `json:"repair_price"`
	IsRepairable           bool             `json:"is_repairable"`

	OrganizationAccess []OrganizationAccessInput `json:"organization_access" validate:"omitempty,dive"`
}

// UpdatePartRequest replaces the editable attributes of a part. Manufacturer
// and part type are fixed at creation and are not accepted here. A nil
// OrganizationAccess leaves overrides untouched; an empty slice clears them.
type UpdatePartRequest struct {
	ManufacturerPartNumber string           `json:"manufacturer_part_number" validate:"required,max=120"`
	ClientPartNumber       *string          `json:"client_part_number"`
	Name                   string           `json:"name"                     validate:"required,max=255"`
	Description            *string          `json:"description"`
	Specifications         json.RawMessage  `json:"specifications"`
	Machine                *string          `json:"machine"`
	Assembly               *string          `json:"assembly"`
	Voltage                *string          `json:"voltage"`
	PowerRatingHP          *float64         `json:"power_rating_hp"`
	PowerRatingKW          *float64         `json:"power_rating_kw"`
	ShaftSize              *string          `json:"shaft_size"`
	GearboxRatio           *string          `json:"gearbox_ratio"`
	StockQuantity          *int             `json:"stock_quantity"           validate:"omitempty,min=0"`
	EstimatedLeadTimeDays  *int             `json:"estimated_lead_time_days" validate:"omitempty,min=0"`
	PriceType              string           `json:"price_type"               validate:"required,oneof=fixed non_fixed"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	RepairPrice            *decimal.Decimal `json:"repair_price"`
	IsRepairable           bool             `json:"is_repairable"`

	OrganizationAccess []OrganizationAccessInput `json:"organization_access" validate:"omitempty,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

const (
	SortUpdated = "updated"
	SortName    = "name"

	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

type PartFilter struct {
	Search         string `form:"search"`
	OrganizationID string `form:"organization"  validate:"omitempty,uuid"`
	PriceType      string `form:"price_type"    validate:"omitempty,oneof=fixed non_fixed"`
	Manufacturer   string `form:"manufacturer"`
	PartType       string `form:"part_type"`
	StockStatus    string `form:"stock_status"  validate:"omitempty,oneof=out_of_stock low_stock in_stock"`
	Sort           string `form:"sort"          validate:"omitempty,oneof=updated name"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ApplicationRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrganizationAccessResponse is one organization's override plus the
// applications the part is scoped to within that organization.
type OrganizationAccessResponse struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	OrganizationItemNumber *string          `json:"organization_item_number"`
	EstimatedLeadTimeDays  *int             `json:"estimated_lead_time_days"`
	PriceType              string           `json:"price_type"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	IsRepairable           bool             `json:"is_repairable"`
	RepairPrice            *decimal.Decimal `json:"repair_price"`
	Applications           []ApplicationRef `json:"applications"`
}

type PartResponse struct {
	ID                     string           `json:"id"`
	ManufacturerPartNumber string           `json:"manufacturer_part_number"`
	ClientPartNumber       *string          `json:"client_part_number"`
	Name                   string           `json:"name"`
	Description            *string          `json:"description"`
	Specifications         json.RawMessage  `json:"specifications,omitempty"`
	Machine                *string          `json:"machine"`
	Assembly               *string          `json:"assembly"`
	Manufacturer           string           `json:"manufacturer"`
	PartType               *string          `json:"part_type"`
	Voltage                *string          `json:"voltage"`
	PowerRatingHP          *float64         `json:"power_rating_hp"`
	PowerRatingKW          *float64         `json:"power_rating_kw"`
	ShaftSize              *string          `json:"shaft_size"`
	GearboxRatio           *string          `json:"gearbox_ratio"`
	StockQuantity          int              `json:"stock_quantity"`
	EstimatedLeadTimeDays  *int             `json:"estimated_lead_time_days"`
	PriceType              string           `json:"price_type"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	RepairPrice            *decimal.Decimal `json:"repair_price"`
	IsRepairable           bool             `json:"is_repairable"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`

	Organizations []OrganizationAccessResponse `json:"organizations"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type PartListResponse struct {
	Parts      []PartResponse `json:"parts"`
	Pagination Pagination     `json:"pagination"`
}
