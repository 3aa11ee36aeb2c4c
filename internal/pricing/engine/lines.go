package engine

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

// unitPriceScale is the baseline precision kept on unit prices. The rounding
// error on a reconstructed line total grows with the quantity, so
// inclToUnitPrice adds one decimal per order of magnitude of quantity to keep
// every line total within a fraction of a cent of its target.
const unitPriceScale = 4

// buildInitialLines synthesizes the default line breakdown: selected products
// at sale price, default labor products, then tenant fixed items. Product and
// labor lines are editable; fixed items are not.
func buildInitialLines(pctx domain.Context, settings settingsdomain.ModuleSettings) []domain.QuoteLine {
	lines := make([]domain.QuoteLine, 0, len(pctx.Products)+len(pctx.LaborProducts)+len(settings.FixedItems))
	for _, p := range pctx.Products {
		lines = append(lines, productLine(p, true))
	}
	for _, p := range pctx.LaborProducts {
		lines = append(lines, productLine(p, true))
	}
	for _, item := range settings.FixedItems {
		lines = append(lines, fixedItemLine(item))
	}
	return lines
}

func productLine(p catalogdomain.Product, editable bool) domain.QuoteLine {
	id := p.ID
	return domain.QuoteLine{
		ProductID:   &id,
		Title:       p.Name,
		Description: p.Description,
		Quantity:    1,
		UnitPrice:   p.SalePrice,
		TaxRate:     p.TaxRate,
		Editable:    editable,
	}
}

func fixedItemLine(item settingsdomain.FixedItem) domain.QuoteLine {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	return domain.QuoteLine{
		Title:       item.Title,
		Description: item.Description,
		Quantity:    qty,
		UnitPrice:   item.UnitPrice,
		TaxRate:     item.TaxRate,
		Editable:    false,
	}
}

// trueCostOfGoods sums purchase costs over selected and labor products plus
// fixed items at their listed price.
func trueCostOfGoods(pctx domain.Context, settings settingsdomain.ModuleSettings) decimal.Decimal {
	cost := decimal.Zero
	for _, p := range pctx.Products {
		cost = cost.Add(p.CostOfGoods())
	}
	for _, p := range pctx.LaborProducts {
		cost = cost.Add(p.CostOfGoods())
	}
	for _, item := range settings.FixedItems {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		cost = cost.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return cost
}

func totalInclTax(lines []domain.QuoteLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalInclTax())
	}
	return total
}

func totalExclTax(lines []domain.QuoteLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalExclTax())
	}
	return total
}

// nudgeToTarget adjusts the first editable line so the tax-included total of
// the set equals target exactly. Returns false when no editable line exists
// or the adjustment would drive the line price negative.
func nudgeToTarget(lines []domain.QuoteLine, target decimal.Decimal) bool {
	for i := range lines {
		if !lines[i].Editable {
			continue
		}
		residual := target.Sub(totalInclTax(lines))
		wantIncl := lines[i].TotalInclTax().Add(residual)
		if wantIncl.IsNegative() {
			return false
		}
		lines[i].UnitPrice = inclToUnitPrice(wantIncl, lines[i].TaxRate, lines[i].Quantity)
		return true
	}
	return false
}

// inclToUnitPrice converts a tax-included line target back to a unit price.
func inclToUnitPrice(incl, taxRate decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	scale := int32(unitPriceScale)
	for q := quantity; q >= 10; q /= 10 {
		scale++
	}
	return incl.
		Div(domain.TaxFactor(taxRate)).
		Div(decimal.NewFromInt(int64(quantity))).
		Round(scale)
}

// thermostatProductIDs collects the ids of every thermostat that may satisfy
// the mandatory-thermostat rule: selected thermostat products plus the one
// discovered through the heat pump's compatibility link.
func thermostatProductIDs(pctx domain.Context) map[snowflake.ID]struct{} {
	ids := make(map[snowflake.ID]struct{})
	for _, p := range pctx.Products {
		if p.Category == catalogdomain.CategoryThermostat {
			ids[p.ID] = struct{}{}
		}
	}
	if pctx.CompatibleThermostat != nil {
		ids[pctx.CompatibleThermostat.ID] = struct{}{}
	}
	return ids
}

func hasThermostatLine(pctx domain.Context, lines []domain.QuoteLine) bool {
	ids := thermostatProductIDs(pctx)
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		if _, ok := ids[*line.ProductID]; ok {
			return true
		}
	}
	return false
}

// ensureThermostatLine appends the compatibility-linked thermostat at its
// listed price as a non-editable line when the BAR-TH-171 rule demands one
// and none is present yet.
func ensureThermostatLine(pctx domain.Context, lines []domain.QuoteLine) []domain.QuoteLine {
	if pctx.OperationCode != domain.OperationHeatPump {
		return lines
	}
	pump := pctx.HeatPump()
	if pump == nil || pump.HeatPump == nil || pump.HeatPump.CompatibleThermostatID == nil {
		return lines
	}
	if pctx.CompatibleThermostat == nil {
		return lines
	}
	if hasThermostatLine(pctx, lines) {
		return lines
	}
	return append(lines, productLine(*pctx.CompatibleThermostat, false))
}
