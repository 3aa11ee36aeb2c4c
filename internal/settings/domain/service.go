package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	GridRulesEnabled *bool               `json:"grid_rules_enabled,omitempty"`
	RoundingMode     *RoundingMode       `json:"rounding_mode,omitempty"`
	MinMargin        *decimal.Decimal    `json:"min_margin,omitempty"`
	MaxRacAddon      *decimal.Decimal    `json:"max_rac_addon,omitempty"`
	DefaultLaborRefs *[]string           `json:"default_labor_refs,omitempty"`
	FixedItems       *[]FixedItem        `json:"fixed_items,omitempty"`
	PercentQuotas    *map[string]float64 `json:"percent_quotas,omitempty"`
	GridRules        *[]GridRule         `json:"grid_rules,omitempty"`
}

type Service interface {
	// GetOrCreate resolves the tenant configuration for an operation,
	// creating a default record on first read.
	GetOrCreate(ctx context.Context, orgID snowflake.ID, operationCode string) (ModuleSettings, error)
	Update(ctx context.Context, orgID snowflake.ID, operationCode string, req UpdateSettingsRequest) (ModuleSettings, error)
}

var (
	ErrInvalidOperationCode = errors.New("invalid_operation_code")
	ErrInvalidRoundingMode  = errors.New("invalid_rounding_mode")
	ErrInvalidMinMargin     = errors.New("invalid_min_margin")
	ErrInvalidQuotas        = errors.New("invalid_percent_quotas")
	ErrInvalidGridRule      = errors.New("invalid_grid_rule")
	ErrSettingsNotFound     = errors.New("settings_not_found")
)
