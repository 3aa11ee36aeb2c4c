package engine

import (
	"github.com/shopspring/decimal"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// Strategy names reported in QuotePreview.Strategy.
const (
	StrategyLegacyGrid = "LEGACY_GRID"
	StrategyCostPlus   = "COST_PLUS"
)

// StrategyResult is a strategy's candidate outcome before override
// resolution and distribution.
type StrategyResult struct {
	RAC        decimal.Decimal
	MinimumRAC decimal.Decimal
	Lines      []domain.QuoteLine
	// Warnings concern the RAC derivation and always reach the preview.
	Warnings []string
	// LineWarnings concern the candidate line breakdown and only apply
	// when that breakdown survives; percentage distribution rebuilds the
	// lines from scratch and discards them.
	LineWarnings []string
}

// Strategy decides the customer's out-of-pocket target and an initial line
// breakdown. Strategies are tried in a fixed priority order; the first one
// that applies and produces a result wins.
type Strategy interface {
	Name() string
	CanApply(pctx domain.Context, settings settingsdomain.ModuleSettings) bool
	Calculate(pctx domain.Context, settings settingsdomain.ModuleSettings, subsidy decimal.Decimal) *StrategyResult
}
