package engine

import (
	"strings"
	"testing"
)

func TestCostPlusDerivesRACFromCostFloor(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()

	// cost = 5000 (pump) + 1400 (labor at 70% of 2000) + 100 (fixed item)
	// floor = (6500 + 1000) × 1.055 = 7912.50
	result := CostPlusStrategy{}.Calculate(pctx, settings, dec(3345))
	if result == nil {
		t.Fatal("cost-plus returned no result")
	}
	if !result.RAC.Equal(dec(4567.50)) {
		t.Fatalf("rac = %s, want 4567.50", result.RAC)
	}
	if !result.MinimumRAC.Equal(result.RAC) {
		t.Fatalf("minimum = %s, want %s", result.MinimumRAC, result.RAC)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 initial lines, got %d", len(result.Lines))
	}
}

func TestCostPlusFloorsRACWhenSubsidyExceedsFloor(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()

	result := CostPlusStrategy{}.Calculate(pctx, settings, dec(9000))
	if !result.RAC.Equal(dec(1)) {
		t.Fatalf("rac = %s, want symbolic minimum 1", result.RAC)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "price floor") {
		t.Fatalf("expected a price-floor warning, got %v", result.Warnings)
	}
}

func TestCostPlusAlwaysApplies(t *testing.T) {
	pctx := houseContext()
	pctx.Products = nil
	pctx.LaborProducts = nil
	if !(CostPlusStrategy{}).CanApply(pctx, defaultSettings()) {
		t.Fatal("cost-plus must always apply")
	}
}

func TestCostPlusDefaultsPurchaseCostToSeventyPercent(t *testing.T) {
	pctx := houseContext()
	pctx.Products[0].PurchaseCost = nil
	settings := defaultSettings()
	settings.FixedItems = nil

	// cost = 5600 (70% of 8000) + 1400, floor = (7000 + 1000) × 1.055 = 8440
	result := CostPlusStrategy{}.Calculate(pctx, settings, dec(3345))
	if !result.RAC.Equal(dec(5095)) {
		t.Fatalf("rac = %s, want 5095.00", result.RAC)
	}
}
