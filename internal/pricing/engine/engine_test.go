package engine

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

func newTestEngine() *Engine { return New(zap.NewNop()) }

func TestSimulateStrategyPriority(t *testing.T) {
	pctx := houseContext()
	e := newTestEngine()

	preview, err := e.Simulate(pctx, gridSettings(matchingRule()))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if preview.Strategy != StrategyLegacyGrid {
		t.Fatalf("strategy = %s, want %s when a grid rule matches", preview.Strategy, StrategyLegacyGrid)
	}

	preview, err = e.Simulate(pctx, defaultSettings())
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if preview.Strategy != StrategyCostPlus {
		t.Fatalf("strategy = %s, want %s fallback", preview.Strategy, StrategyCostPlus)
	}
}

func TestSimulateExactnessAndMargin(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	e := newTestEngine()

	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.Subsidy.Equal(dec(3345)) {
		t.Fatalf("subsidy = %s, want 3345.00", preview.Subsidy)
	}
	if !preview.RAC.Equal(dec(4567.50)) {
		t.Fatalf("rac = %s, want 4567.50", preview.RAC)
	}

	// Exactness law: lines reproduce subsidy + RAC to the cent.
	total := totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}

	// Margin is recomputed from the final line set: 7912.50/1.055 − 6500.
	if !preview.Margin.Equal(dec(1000)) {
		t.Fatalf("margin = %s, want 1000.00", preview.Margin)
	}
	wantPercent := dec(1000).Div(dec(6500)).Mul(dec(100)).Round(2)
	if !preview.MarginPercent.Equal(wantPercent) {
		t.Fatalf("margin percent = %s, want %s", preview.MarginPercent, wantPercent)
	}
}

func TestSimulateTargetRACOverride(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	e := newTestEngine()

	pctx.TargetRAC = decPtr(5000)
	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.RAC.Equal(dec(5000)) {
		t.Fatalf("rac = %s, want accepted override 5000", preview.RAC)
	}
	if len(preview.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", preview.Warnings)
	}
}

func TestSimulateTargetRACBelowMinimum(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	e := newTestEngine()

	pctx.TargetRAC = decPtr(100)
	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.RAC.Equal(dec(4567.50)) {
		t.Fatalf("rac = %s, want computed minimum 4567.50", preview.RAC)
	}
	if len(preview.Warnings) != 1 || !strings.Contains(preview.Warnings[0], "below the computed minimum") {
		t.Fatalf("expected a minimum warning, got %v", preview.Warnings)
	}
}

func TestSimulateTargetRACAboveCeiling(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	settings.MaxRacAddon = decPtr(1000)
	e := newTestEngine()

	pctx.TargetRAC = decPtr(9000)
	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.RAC.Equal(dec(5567.50)) {
		t.Fatalf("rac = %s, want ceiling 5567.50", preview.RAC)
	}
	if len(preview.Warnings) != 1 || !strings.Contains(preview.Warnings[0], "ceiling") {
		t.Fatalf("expected a ceiling warning, got %v", preview.Warnings)
	}

	// Exactness holds after clamping too.
	total := totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}
}

func TestSimulateRoundingNeverBelowMinimum(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	settings.RoundingMode = settingsdomain.RoundingModeX90
	e := newTestEngine()

	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	// 4567.50 rounds down to the 4490 price point.
	if !preview.RAC.Equal(dec(4490)) {
		t.Fatalf("rac = %s, want 4490", preview.RAC)
	}

	// A floored RAC of 1.00 must survive x90 rounding instead of
	// collapsing to zero.
	pctx2 := houseContext()
	pctx2.BuybackPrice = dec(20)
	preview, err = e.Simulate(pctx2, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.RAC.Equal(dec(1)) {
		t.Fatalf("rac = %s, want symbolic minimum 1", preview.RAC)
	}
}

func TestSimulateExactnessLargeQuantities(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	settings.FixedItems = []settingsdomain.FixedItem{
		{Title: "Ducting per meter", Quantity: 137, UnitPrice: dec(4.2), TaxRate: dec(5.5)},
	}
	e := newTestEngine()

	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	total := totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("proportional line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}

	settings.PercentQuotas = datatypes.NewJSONType(map[string]float64{
		BucketHeatPump: 60,
		BucketLabor:    30,
		BucketFixed:    10,
	})
	preview, err = e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	total = totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("percentage line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}
}

func TestSimulatePercentageDropsLineNudgeWarning(t *testing.T) {
	// Fixed items far above subsidy + RAC: the grid strategy cannot nudge
	// its candidate lines onto the target.
	pctx := houseContext()
	settings := gridSettings(matchingRule())
	settings.FixedItems = []settingsdomain.FixedItem{
		{Title: "Oversized works package", Quantity: 1, UnitPrice: dec(20000), TaxRate: dec(5.5)},
	}
	e := newTestEngine()

	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var nudgeWarned bool
	for _, w := range preview.Warnings {
		if strings.Contains(w, "could absorb the price adjustment") {
			nudgeWarned = true
		}
	}
	if !nudgeWarned {
		t.Fatalf("expected the nudge warning on the proportional path, got %v", preview.Warnings)
	}

	// Percentage distribution rebuilds the lines, so the strategy's
	// line-level warning no longer describes the preview.
	settings.PercentQuotas = datatypes.NewJSONType(map[string]float64{
		BucketHeatPump: 70,
		BucketLabor:    20,
		BucketFixed:    10,
	})
	preview, err = e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, w := range preview.Warnings {
		if strings.Contains(w, "could absorb the price adjustment") {
			t.Fatalf("stale line warning carried into the percentage preview: %v", preview.Warnings)
		}
	}
	total := totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}
}

func TestSimulatePercentageDistributionFlag(t *testing.T) {
	pctx := houseContext()
	settings := defaultSettings()
	settings.PercentQuotas = datatypes.NewJSONType(map[string]float64{
		BucketHeatPump: 70,
		BucketLabor:    20,
		BucketFixed:    10,
	})
	e := newTestEngine()

	preview, err := e.Simulate(pctx, settings)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !preview.PercentageDistribution {
		t.Fatal("expected the percentage-distribution flag")
	}
	total := totalInclTax(preview.Lines).Round(2)
	if !total.Equal(preview.Subsidy.Add(preview.RAC)) {
		t.Fatalf("line total %s != subsidy+rac %s", total, preview.Subsidy.Add(preview.RAC))
	}
}
