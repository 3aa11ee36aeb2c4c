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

	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/clock"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

func TestBuybackPricePrefersTierRow(t *testing.T) {
	svc := setupValuationService(t)
	ctx := context.Background()

	upsert(t, svc, 1, "BAR-TH-171", "modest", "5.0")
	upsert(t, svc, 1, "BAR-TH-171", domain.TierStandard, "4.5")

	price, err := svc.BuybackPrice(ctx, 1, "BAR-TH-171", "modest")
	if err != nil {
		t.Fatalf("buyback price: %v", err)
	}
	if !price.Equal(decimal.NewFromFloat(5.0)) {
		t.Fatalf("expected tier price 5.0, got %s", price)
	}
}

func TestBuybackPriceFallsBackToStandard(t *testing.T) {
	svc := setupValuationService(t)
	ctx := context.Background()

	upsert(t, svc, 1, "BAR-TH-171", domain.TierStandard, "4.5")

	price, err := svc.BuybackPrice(ctx, 1, "BAR-TH-171", "very_modest")
	if err != nil {
		t.Fatalf("buyback price: %v", err)
	}
	if !price.Equal(decimal.NewFromFloat(4.5)) {
		t.Fatalf("expected standard fallback 4.5, got %s", price)
	}
}

func TestBuybackPriceMissingIsConfigurationError(t *testing.T) {
	svc := setupValuationService(t)

	_, err := svc.BuybackPrice(context.Background(), 1, "BAR-TH-171", "modest")
	if !errors.Is(err, domain.ErrValuationNotConfigured) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	svc := setupValuationService(t)
	ctx := context.Background()

	upsert(t, svc, 1, "BAR-TH-171", "modest", "5.0")
	upsert(t, svc, 1, "BAR-TH-171", "modest", "5.5")

	rows, err := svc.List(ctx, 1, "BAR-TH-171")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(rows))
	}
	if !rows[0].BuybackPrice.Equal(decimal.NewFromFloat(5.5)) {
		t.Fatalf("expected updated price 5.5, got %s", rows[0].BuybackPrice)
	}
}

func TestUpsertRejectsNonPositivePrice(t *testing.T) {
	svc := setupValuationService(t)

	_, err := svc.Upsert(context.Background(), 1, domain.UpsertValuationRequest{
		OperationCode: "BAR-TH-171",
		IncomeTier:    "modest",
		BuybackPrice:  decimal.Zero,
	})
	if !errors.Is(err, domain.ErrInvalidBuybackPrice) {
		t.Fatalf("expected invalid buyback price, got %v", err)
	}
}

func upsert(t *testing.T, svc *Service, orgID snowflake.ID, operationCode, tier, price string) {
	t.Helper()
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	if _, err := svc.Upsert(context.Background(), orgID, domain.UpsertValuationRequest{
		OperationCode: operationCode,
		IncomeTier:    tier,
		BuybackPrice:  parsed,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
}

func setupValuationService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.OperationValuation{}); err != nil {
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
		clock: clock.SystemClock{},
	}
}
