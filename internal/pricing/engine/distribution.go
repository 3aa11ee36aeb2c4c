package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// Percentage distribution bucket names, as configured in the tenant quota map.
const (
	BucketHeatPump   = "heat_pump"
	BucketLabor      = "labor"
	BucketThermostat = "thermostat"
	BucketFixed      = "fixed"
)

var bucketOrder = []string{BucketHeatPump, BucketLabor, BucketThermostat, BucketFixed}

type bucket struct {
	name     string
	lines    []domain.QuoteLine
	quota    *decimal.Decimal
	editable bool
}

// percentageDistribute reconstructs the line set from scratch, splitting the
// tax-included total across the tenant's category quotas. Buckets without a
// configured quota keep their listed prices and are carved out of the
// distributable amount first; any unassigned remainder falls to the heat-pump
// bucket so the reconstructed total stays exact.
func percentageDistribute(pctx domain.Context, settings settingsdomain.ModuleSettings, total decimal.Decimal) ([]domain.QuoteLine, []string) {
	quotas := settings.Quotas()
	buckets := collectBuckets(pctx, settings, quotas)

	var warnings []string
	distributable := total
	for i := range buckets {
		if buckets[i].quota == nil {
			for _, line := range buckets[i].lines {
				distributable = distributable.Sub(line.TotalInclTax())
			}
		}
	}
	if distributable.Sign() <= 0 {
		warnings = append(warnings, fmt.Sprintf(
			"percentage distribution is degenerate: pinned lines already reach %s of a %s total", total.Sub(distributable).Round(2), total.Round(2)))
		return flattenBuckets(buckets), warnings
	}

	assigned := decimal.Zero
	shares := make(map[string]decimal.Decimal, len(buckets))
	for i := range buckets {
		b := &buckets[i]
		if b.quota == nil || len(b.lines) == 0 {
			continue
		}
		share := distributable.Mul(*b.quota).Div(decimal.NewFromInt(100)).Round(2)
		shares[b.name] = share
		assigned = assigned.Add(share)
	}

	// Unassigned remainder (quota sum below 100, or quotas on empty buckets)
	// is absorbed by the heat-pump bucket, falling back to the first bucket
	// holding repriceable lines.
	remainder := distributable.Sub(assigned)
	if !remainder.IsZero() {
		if target := remainderBucket(buckets, shares); target != "" {
			shares[target] = shares[target].Add(remainder)
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"percentage distribution could not place a remainder of %s: no repriceable bucket", remainder.Round(2)))
		}
	}

	for i := range buckets {
		b := &buckets[i]
		share, ok := shares[b.name]
		if !ok || len(b.lines) == 0 {
			continue
		}
		spreadShare(b.lines, share)
	}
	return flattenBuckets(buckets), warnings
}

// spreadShare divides a bucket's tax-included share evenly across its
// members. Allocation tracks the totals the members actually realize after
// unit-price rounding, so the last member absorbs both the cent remainder
// and any rounding drift left by the earlier ones.
func spreadShare(lines []domain.QuoteLine, share decimal.Decimal) {
	count := decimal.NewFromInt(int64(len(lines)))
	per := share.Div(count).Truncate(2)
	realized := decimal.Zero
	for i := range lines {
		amount := per
		if i == len(lines)-1 {
			amount = share.Sub(realized)
		}
		lines[i].UnitPrice = inclToUnitPrice(amount, lines[i].TaxRate, lines[i].Quantity)
		realized = realized.Add(lines[i].TotalInclTax())
	}
}

func collectBuckets(pctx domain.Context, settings settingsdomain.ModuleSettings, quotas map[string]float64) []bucket {
	byName := map[string]*bucket{}
	ordered := make([]bucket, 0, len(bucketOrder))
	for _, name := range bucketOrder {
		b := bucket{name: name, editable: name == BucketHeatPump}
		if pct, ok := quotas[name]; ok {
			quota := decimal.NewFromFloat(pct)
			b.quota = &quota
		}
		ordered = append(ordered, b)
	}
	for i := range ordered {
		byName[ordered[i].name] = &ordered[i]
	}

	for _, p := range pctx.Products {
		switch p.Category {
		case catalogdomain.CategoryThermostat:
			byName[BucketThermostat].lines = append(byName[BucketThermostat].lines, productLine(p, false))
		case catalogdomain.CategoryLabor:
			byName[BucketLabor].lines = append(byName[BucketLabor].lines, productLine(p, false))
		default:
			byName[BucketHeatPump].lines = append(byName[BucketHeatPump].lines, productLine(p, byName[BucketHeatPump].editable))
		}
	}
	for _, p := range pctx.LaborProducts {
		byName[BucketLabor].lines = append(byName[BucketLabor].lines, productLine(p, false))
	}
	for _, item := range settings.FixedItems {
		byName[BucketFixed].lines = append(byName[BucketFixed].lines, fixedItemLine(item))
	}

	// The mandatory-thermostat rule participates in the thermostat bucket.
	if needsThermostat(pctx) && !bucketHasThermostat(byName[BucketThermostat].lines, pctx) {
		byName[BucketThermostat].lines = append(byName[BucketThermostat].lines, productLine(*pctx.CompatibleThermostat, false))
	}
	return ordered
}

func needsThermostat(pctx domain.Context) bool {
	if pctx.OperationCode != domain.OperationHeatPump || pctx.CompatibleThermostat == nil {
		return false
	}
	pump := pctx.HeatPump()
	return pump != nil && pump.HeatPump != nil && pump.HeatPump.CompatibleThermostatID != nil
}

func bucketHasThermostat(lines []domain.QuoteLine, pctx domain.Context) bool {
	return hasThermostatLine(pctx, lines)
}

func remainderBucket(buckets []bucket, shares map[string]decimal.Decimal) string {
	if _, ok := shares[BucketHeatPump]; ok {
		return BucketHeatPump
	}
	for _, b := range buckets {
		if _, ok := shares[b.name]; ok && len(b.lines) > 0 {
			return b.name
		}
	}
	return ""
}

func flattenBuckets(buckets []bucket) []domain.QuoteLine {
	var lines []domain.QuoteLine
	for _, b := range buckets {
		lines = append(lines, b.lines...)
	}
	return lines
}

// proportionalDistribute scales editable lines so the set's tax-included
// total matches target while non-editable lines keep their prices. The first
// editable line absorbs the residual left by rounding and by the untouched
// lines. An all-fixed or zero-priced line set cannot be reconciled and is
// returned untouched with a warning.
func proportionalDistribute(lines []domain.QuoteLine, target decimal.Decimal) ([]domain.QuoteLine, []string) {
	initial := totalInclTax(lines)
	if initial.Sign() <= 0 {
		return lines, []string{fmt.Sprintf(
			"proportional distribution is degenerate: initial line total is %s, quote total left at listed prices", initial.Round(2))}
	}
	editable := false
	for _, line := range lines {
		if line.Editable {
			editable = true
			break
		}
	}
	if !editable {
		return lines, []string{fmt.Sprintf(
			"proportional distribution is degenerate: no editable line can absorb the adjustment to %s", target.Round(2))}
	}

	ratio := target.Div(initial)
	for i := range lines {
		if !lines[i].Editable {
			continue
		}
		lines[i].UnitPrice = lines[i].UnitPrice.Mul(ratio).Round(unitPriceScale)
	}
	if !nudgeToTarget(lines, target) {
		return lines, []string{fmt.Sprintf(
			"proportional distribution left a residual toward %s that no editable line could absorb", target.Round(2))}
	}
	return lines, nil
}
