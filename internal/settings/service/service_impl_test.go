package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

func TestGetOrCreateReturnsDefaults(t *testing.T) {
	svc := setupSettingsService(t)

	settings, err := svc.GetOrCreate(context.Background(), 1, "BAR-TH-171")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if settings.RoundingMode != domain.RoundingModeNone {
		t.Fatalf("expected rounding mode none, got %q", settings.RoundingMode)
	}
	if settings.GridRulesEnabled {
		t.Fatalf("expected grid rules disabled by default")
	}

	again, err := svc.GetOrCreate(context.Background(), 1, "BAR-TH-171")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != settings.ID {
		t.Fatalf("expected same settings row, got %d and %d", settings.ID, again.ID)
	}
}

func TestGetOrCreateIsolatesTenants(t *testing.T) {
	svc := setupSettingsService(t)

	first, err := svc.GetOrCreate(context.Background(), 1, "BAR-TH-171")
	if err != nil {
		t.Fatalf("org 1: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), 2, "BAR-TH-171")
	if err != nil {
		t.Fatalf("org 2: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct rows per org")
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	svc := setupSettingsService(t)

	enabled := true
	margin := decimal.NewFromInt(1200)
	updated, err := svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		GridRulesEnabled: &enabled,
		MinMargin:        &margin,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.GridRulesEnabled {
		t.Fatalf("expected grid rules enabled")
	}
	if !updated.MinMargin.Equal(margin) {
		t.Fatalf("expected min margin 1200, got %s", updated.MinMargin)
	}
	if updated.RoundingMode != domain.RoundingModeNone {
		t.Fatalf("rounding mode should be untouched, got %q", updated.RoundingMode)
	}

	mode := domain.RoundingModeX90
	updated, err = svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		RoundingMode: &mode,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !updated.GridRulesEnabled {
		t.Fatalf("grid rules flag should survive unrelated update")
	}
	if updated.RoundingMode != domain.RoundingModeX90 {
		t.Fatalf("expected rounding mode x90, got %q", updated.RoundingMode)
	}
}

func TestUpdateRejectsInvalidRoundingMode(t *testing.T) {
	svc := setupSettingsService(t)

	mode := domain.RoundingMode("x99")
	_, err := svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		RoundingMode: &mode,
	})
	if !errors.Is(err, domain.ErrInvalidRoundingMode) {
		t.Fatalf("expected invalid rounding mode, got %v", err)
	}
}

func TestUpdateRejectsQuotasOverHundred(t *testing.T) {
	svc := setupSettingsService(t)

	quotas := map[string]float64{"heat_pump": 70, "labor": 40}
	_, err := svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		PercentQuotas: &quotas,
	})
	if !errors.Is(err, domain.ErrInvalidQuotas) {
		t.Fatalf("expected invalid quotas, got %v", err)
	}
}

func TestUpdateRejectsDegenerateGridRule(t *testing.T) {
	svc := setupSettingsService(t)

	rules := []domain.GridRule{{
		Brand:      "Atlantic",
		EtasMin:    180,
		EtasMax:    120,
		SurfaceMin: 0,
		SurfaceMax: 200,
		Amount:     decimal.NewFromInt(4000),
	}}
	_, err := svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		GridRules: &rules,
	})
	if !errors.Is(err, domain.ErrInvalidGridRule) {
		t.Fatalf("expected invalid grid rule, got %v", err)
	}
}

func TestUpdateRoundTripsJSONFields(t *testing.T) {
	svc := setupSettingsService(t)

	refs := []string{"POSE-PAC"}
	items := []domain.FixedItem{{
		Title:     "Frais de dossier",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(90),
		TaxRate:   decimal.NewFromFloat(5.5),
	}}
	_, err := svc.Update(context.Background(), 1, "BAR-TH-171", domain.UpdateSettingsRequest{
		DefaultLaborRefs: &refs,
		FixedItems:       &items,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	settings, err := svc.GetOrCreate(context.Background(), 1, "BAR-TH-171")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(settings.DefaultLaborRefs) != 1 || settings.DefaultLaborRefs[0] != "POSE-PAC" {
		t.Fatalf("expected labor refs to round trip, got %v", settings.DefaultLaborRefs)
	}
	if len(settings.FixedItems) != 1 || settings.FixedItems[0].Title != "Frais de dossier" {
		t.Fatalf("expected fixed items to round trip, got %v", settings.FixedItems)
	}
	if !settings.FixedItems[0].UnitPrice.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected unit price 90, got %s", settings.FixedItems[0].UnitPrice)
	}
}

func setupSettingsService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.ModuleSettings{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
	}
}
