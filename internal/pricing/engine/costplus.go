package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// symbolicMinimumRAC is the lowest customer-facing amount ever shown: the
// company absorbs any shortfall rather than presenting a zero or negative
// out-of-pocket price.
var symbolicMinimumRAC = decimal.NewFromInt(1)

// CostPlusStrategy derives the RAC from the true cost of goods plus the
// tenant's minimum margin. It always applies and acts as the final fallback.
type CostPlusStrategy struct{}

func (CostPlusStrategy) Name() string { return StrategyCostPlus }

func (CostPlusStrategy) CanApply(domain.Context, settingsdomain.ModuleSettings) bool { return true }

func (s CostPlusStrategy) Calculate(pctx domain.Context, settings settingsdomain.ModuleSettings, subsidy decimal.Decimal) *StrategyResult {
	cost := trueCostOfGoods(pctx, settings)
	floorExcl := cost.Add(settings.MinMargin)
	floorIncl := floorExcl.Mul(domain.TaxFactor(domain.SubsidizedWorksTaxRate))

	var warnings []string
	rac := floorIncl.Sub(subsidy)
	if rac.LessThan(symbolicMinimumRAC) {
		warnings = append(warnings, fmt.Sprintf(
			"subsidy %s exceeds the price floor %s; customer amount floored at %s",
			subsidy.Round(2), floorIncl.Round(2), symbolicMinimumRAC))
		rac = symbolicMinimumRAC
	}

	return &StrategyResult{
		RAC:        rac.Round(2),
		MinimumRAC: rac.Round(2),
		Lines:      buildInitialLines(pctx, settings),
		Warnings:   warnings,
	}
}
