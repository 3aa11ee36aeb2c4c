package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// GridStrategy prices the quote from a tenant-configured rate card: when a
// grid rule matches the selected heat pump and the folder attributes, the
// customer's RAC is the rule's fixed amount.
type GridStrategy struct{}

func (GridStrategy) Name() string { return StrategyLegacyGrid }

func (GridStrategy) CanApply(pctx domain.Context, settings settingsdomain.ModuleSettings) bool {
	if !settings.GridRulesEnabled {
		return false
	}
	return matchGridRule(pctx, settings) != nil
}

func (s GridStrategy) Calculate(pctx domain.Context, settings settingsdomain.ModuleSettings, subsidy decimal.Decimal) *StrategyResult {
	rule := matchGridRule(pctx, settings)
	if rule == nil {
		return nil
	}

	rac := applyRounding(settings.RoundingMode, rule.Amount)

	lines := buildInitialLines(pctx, settings)
	result := &StrategyResult{
		RAC:        rac.Round(2),
		MinimumRAC: symbolicMinimumRAC,
		Lines:      lines,
	}
	if !nudgeToTarget(result.Lines, subsidy.Add(result.RAC)) {
		result.LineWarnings = append(result.LineWarnings,
			"grid rule matched but no editable line could absorb the price adjustment")
	}
	return result
}

func matchGridRule(pctx domain.Context, settings settingsdomain.ModuleSettings) *settingsdomain.GridRule {
	pump := pctx.HeatPump()
	if pump == nil {
		return nil
	}
	etas := pctx.Etas()
	for i := range settings.GridRules {
		rule := settings.GridRules[i]
		if !strings.EqualFold(strings.TrimSpace(rule.Brand), strings.TrimSpace(pump.Brand)) {
			continue
		}
		if etas < rule.EtasMin || etas > rule.EtasMax {
			continue
		}
		if pctx.SurfaceM2 < rule.SurfaceMin || pctx.SurfaceM2 >= rule.SurfaceMax {
			continue
		}
		if !rule.MatchesTier(string(pctx.IncomeTier)) {
			continue
		}
		return &rule
	}
	return nil
}
