package importer

import (
	"fmt"
	"strconv"
	"strings"

	"partsadmin/internal/model"

	"github.com/shopspring/decimal"
)

// Record is one coerced data row. Optional columns left blank are nil.
type Record struct {
	ManufacturerPartNumber string
	Manufacturer           string
	ClientPartNumber       *string
	Name                   string
	Description            *string
	Machine                *string
	Assembly               *string
	PartType               *string
	Voltage                *string
	ShaftSize              *string
	GearboxRatio           *string
	PowerRatingHP          *float64
	PowerRatingKW          *float64
	EstimatedLeadTimeDays  *int
	PriceType              model.PriceType
	UnitPrice              *decimal.Decimal
	RepairPrice            *decimal.Decimal
	IsRepairable           bool
}

// Part maps the record onto a new part row carrying the record's values as defaults.
func (r *Record) Part() *model.Part {
	return &model.Part{
		ManufacturerPartNumber: r.ManufacturerPartNumber,
		ClientPartNumber:       r.ClientPartNumber,
		Name:                   r.Name,
		Description:            r.Description,
		Machine:                r.Machine,
		Assembly:               r.Assembly,
		Manufacturer:           r.Manufacturer,
		PartType:               r.PartType,
		Voltage:                r.Voltage,
		PowerRatingHP:          r.PowerRatingHP,
		PowerRatingKW:          r.PowerRatingKW,
		ShaftSize:              r.ShaftSize,
		GearboxRatio:           r.GearboxRatio,
		EstimatedLeadTimeDays:  r.EstimatedLeadTimeDays,
		PriceType:              r.PriceType,
		UnitPrice:              r.UnitPrice,
		IsRepairable:           r.IsRepairable,
		RepairPrice:            r.RepairPrice,
	}
}

// Row is the outcome of coercing one data line. Exactly one of Record and Err is set.
type Row struct {
	// Line is the 1-based source row; the header is line 1.
	Line   int
	Record *Record
	Err    error
}

// coerce converts one data line using the normalized header. Columns are
// visited in header order and the first bad value fails the row.
func coerce(header, values []string) (*Record, error) {
	rec := &Record{}
	for i, col := range header {
		v := strings.TrimSpace(values[i])
		switch col {
		case "manufacturer_part_number":
			rec.ManufacturerPartNumber = v
		case "manufacturer":
			rec.Manufacturer = v
		case "name":
			rec.Name = v
		case "client_part_number":
			rec.ClientPartNumber = optString(v)
		case "description":
			rec.Description = optString(v)
		case "machine":
			rec.Machine = optString(v)
		case "assembly":
			rec.Assembly = optString(v)
		case "part_type":
			rec.PartType = optString(v)
		case "voltage":
			rec.Voltage = optString(v)
		case "shaft_size":
			rec.ShaftSize = optString(v)
		case "gearbox_ratio":
			rec.GearboxRatio = optString(v)
		case "estimated_lead_time_days":
			n, err := optInt(col, v)
			if err != nil {
				return nil, err
			}
			rec.EstimatedLeadTimeDays = n
		case "unit_price":
			d, err := optDecimal(col, v)
			if err != nil {
				return nil, err
			}
			rec.UnitPrice = d
		case "repair_price":
			d, err := optDecimal(col, v)
			if err != nil {
				return nil, err
			}
			rec.RepairPrice = d
		case "power_rating_hp", "rating_hp":
			f, err := optFloat(col, v)
			if err != nil {
				return nil, err
			}
			rec.PowerRatingHP = f
		case "power_rating_kw", "rating_kw":
			f, err := optFloat(col, v)
			if err != nil {
				return nil, err
			}
			rec.PowerRatingKW = f
		case "is_repairable":
			rec.IsRepairable = strings.EqualFold(v, "true")
		case "price_type":
			pt := model.PriceType(v)
			if !pt.Valid() {
				return nil, fmt.Errorf("Invalid price_type '%s'. Must be fixed or non_fixed", v)
			}
			rec.PriceType = pt
		}
	}

	if rec.ManufacturerPartNumber == "" || rec.Manufacturer == "" || rec.Name == "" || rec.PriceType == "" {
		return nil, fmt.Errorf("Missing required fields")
	}
	return rec, nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optInt(col, v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("Invalid %s '%s'. Must be a whole number", col, v)
	}
	return &n, nil
}

func optFloat(col, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("Invalid %s '%s'. Must be a number", col, v)
	}
	return &f, nil
}

func optDecimal(col, v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("Invalid %s '%s'. Must be a number", col, v)
	}
	return &d, nil
}
