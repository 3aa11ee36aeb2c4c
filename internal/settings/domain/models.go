package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RoundingMode controls how customer-facing RAC amounts are rounded.
type RoundingMode string

const (
	// RoundingModeNone leaves the computed RAC untouched.
	RoundingModeNone RoundingMode = "none"
	// RoundingModeX90 rounds the RAC down to the nearest commercial price
	// point (X490 / X990).
	RoundingModeX90 RoundingMode = "x90"
)

// GridRule is a tenant-configured fixed-RAC rate-card entry. A rule matches
// when the selected heat pump's brand, efficiency rating and the property
// surface fall in its ranges and the folder income tier satisfies IncomeTier
// ("" matches any tier, "non-<tier>" matches every tier except the named one).
type GridRule struct {
	Brand      string          `json:"brand"`
	EtasMin    int             `json:"etas_min"`
	EtasMax    int             `json:"etas_max"`
	SurfaceMin float64         `json:"surface_min"`
	SurfaceMax float64         `json:"surface_max"`
	IncomeTier string          `json:"income_tier,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// FixedItem is a tenant-configured line added to every quote of the
// operation (administrative fees, mandatory sundries, ...).
type FixedItem struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// ModuleSettings is the per-tenant, per-operation pricing configuration.
type ModuleSettings struct {
	ID               snowflake.ID                           `json:"id" gorm:"primaryKey"`
	OrgID            snowflake.ID                           `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_module_settings_org_op,priority:1"`
	OperationCode    string                                 `json:"operation_code" gorm:"type:text;not null;uniqueIndex:ux_module_settings_org_op,priority:2"`
	GridRulesEnabled bool                                   `json:"grid_rules_enabled" gorm:"not null;default:false"`
	RoundingMode     RoundingMode                           `json:"rounding_mode" gorm:"type:text;not null;default:'none'"`
	MinMargin        decimal.Decimal                        `json:"min_margin" gorm:"type:numeric;not null"`
	MaxRacAddon      *decimal.Decimal                       `json:"max_rac_addon,omitempty" gorm:"type:numeric"`
	DefaultLaborRefs datatypes.JSONSlice[string]            `json:"default_labor_refs" gorm:"type:jsonb"`
	FixedItems       datatypes.JSONSlice[FixedItem]         `json:"fixed_items" gorm:"type:jsonb"`
	PercentQuotas    datatypes.JSONType[map[string]float64] `json:"percent_quotas" gorm:"type:jsonb"`
	GridRules        datatypes.JSONSlice[GridRule]          `json:"grid_rules" gorm:"type:jsonb"`
	CreatedAt        time.Time                              `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time                              `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ModuleSettings) TableName() string { return "module_settings" }

// Quotas returns the configured category percentage map, nil when percentage
// distribution is not configured for the tenant.
func (s ModuleSettings) Quotas() map[string]float64 {
	quotas := s.PercentQuotas.Data()
	if len(quotas) == 0 {
		return nil
	}
	return quotas
}

// MatchesTier reports whether the rule's income tier constraint accepts the
// given tier.
func (r GridRule) MatchesTier(tier string) bool {
	switch {
	case r.IncomeTier == "":
		return true
	case len(r.IncomeTier) > 4 && r.IncomeTier[:4] == "non-":
		return tier != r.IncomeTier[4:]
	default:
		return tier == r.IncomeTier
	}
}
