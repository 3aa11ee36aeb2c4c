package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// Engine composes the subsidy calculation, strategy selection, RAC override
// resolution and line distribution into one pure, synchronous computation.
// It performs no I/O and keeps no per-call state, so a single instance is
// safe for concurrent use.
type Engine struct {
	log        *zap.Logger
	strategies []Strategy
}

func New(log *zap.Logger) *Engine {
	return &Engine{
		log: log.Named("pricing.engine"),
		// Fixed priority order: the rate card wins when it matches,
		// cost-plus always applies and closes the chain.
		strategies: []Strategy{GridStrategy{}, CostPlusStrategy{}},
	}
}

// Simulate prices one quote from an already-resolved context and tenant
// configuration.
func (e *Engine) Simulate(pctx domain.Context, settings settingsdomain.ModuleSettings) (domain.QuotePreview, error) {
	subsidy := ComputePrime(pctx)

	result, name := e.selectStrategy(pctx, settings, subsidy)
	if result == nil {
		// Unreachable while cost-plus stays registered; kept as a hard
		// internal-consistency failure rather than a silent zero quote.
		return domain.QuotePreview{}, domain.ErrNoApplicableStrategy
	}
	warnings := result.Warnings

	rac, overrideWarnings := resolveRAC(pctx, settings, result)
	warnings = append(warnings, overrideWarnings...)

	total := subsidy.Add(rac)

	var lines []domain.QuoteLine
	percentage := len(settings.Quotas()) > 0
	if percentage {
		var distWarnings []string
		lines, distWarnings = percentageDistribute(pctx, settings, total)
		warnings = append(warnings, distWarnings...)
	} else {
		warnings = append(warnings, result.LineWarnings...)
		lines = result.Lines
		if len(lines) == 0 {
			lines = buildInitialLines(pctx, settings)
		}
		lines = ensureThermostatLine(pctx, lines)
		var distWarnings []string
		lines, distWarnings = proportionalDistribute(lines, total)
		warnings = append(warnings, distWarnings...)
	}

	for _, w := range warnings {
		e.log.Warn("quote simulation adjustment",
			zap.String("org_id", pctx.OrgID.String()),
			zap.String("operation_code", pctx.OperationCode),
			zap.String("strategy", name),
			zap.String("warning", w),
		)
	}

	cost := trueCostOfGoods(pctx, settings)
	margin := totalExclTax(lines).Sub(cost)
	marginPercent := decimal.Zero
	if cost.Sign() > 0 {
		marginPercent = margin.Div(cost).Mul(decimal.NewFromInt(100))
	}

	return domain.QuotePreview{
		Lines:                  lines,
		Subsidy:                subsidy.Round(2),
		RAC:                    rac.Round(2),
		Margin:                 margin.Round(2),
		MarginPercent:          marginPercent.Round(2),
		Strategy:               name,
		Warnings:               warnings,
		PercentageDistribution: percentage,
	}, nil
}

func (e *Engine) selectStrategy(pctx domain.Context, settings settingsdomain.ModuleSettings, subsidy decimal.Decimal) (*StrategyResult, string) {
	for _, strategy := range e.strategies {
		if !strategy.CanApply(pctx, settings) {
			continue
		}
		if result := strategy.Calculate(pctx, settings, subsidy); result != nil {
			return result, strategy.Name()
		}
	}
	return nil, ""
}

// resolveRAC applies the caller-supplied target on top of the strategy's
// candidate, clamped to [minimum, minimum+addon], then the tenant rounding
// mode. Rounding never drops the amount below the symbolic minimum.
func resolveRAC(pctx domain.Context, settings settingsdomain.ModuleSettings, result *StrategyResult) (decimal.Decimal, []string) {
	rac := result.RAC
	var warnings []string

	if pctx.TargetRAC != nil {
		target := *pctx.TargetRAC
		switch {
		case target.LessThan(result.MinimumRAC):
			warnings = append(warnings, fmt.Sprintf(
				"requested customer amount %s is below the computed minimum %s; minimum applied",
				target.Round(2), result.MinimumRAC.Round(2)))
			rac = result.MinimumRAC
		case settings.MaxRacAddon != nil && target.GreaterThan(result.MinimumRAC.Add(*settings.MaxRacAddon)):
			ceiling := result.MinimumRAC.Add(*settings.MaxRacAddon)
			warnings = append(warnings, fmt.Sprintf(
				"requested customer amount %s exceeds the ceiling %s; ceiling applied",
				target.Round(2), ceiling.Round(2)))
			rac = ceiling
		default:
			rac = target
		}
	}

	rounded := applyRounding(settings.RoundingMode, rac)
	if rounded.LessThan(symbolicMinimumRAC) {
		return rac.Round(2), warnings
	}
	return rounded.Round(2), warnings
}
