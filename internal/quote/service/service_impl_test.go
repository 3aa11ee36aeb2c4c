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

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	catalogsvc "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/service"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/clock"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/events"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	foldersvc "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/service"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/migration"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/engine"
	quotedomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/domain"
	settingssvc "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/service"
	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
	valuationsvc "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/service"
)

type quoteTestEnv struct {
	db  *gorm.DB
	svc *Service
}

func TestSimulateEndToEnd(t *testing.T) {
	env := setupQuoteEnv(t)
	orgID := snowflake.ID(1)
	ctx := context.Background()

	folderID, pumpID := seedQuoteFixtures(t, env, orgID)

	preview, err := env.svc.Simulate(ctx, orgID, quotedomain.SimulateRequest{
		OperationCode: "BAR-TH-171",
		FolderID:      folderID.String(),
		ProductIDs:    []string{pumpID.String()},
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if preview.Strategy != engine.StrategyCostPlus {
		t.Fatalf("expected cost-plus strategy, got %q", preview.Strategy)
	}
	if !preview.Subsidy.Equal(decimal.NewFromFloat(3345)) {
		t.Fatalf("expected subsidy 3345, got %s", preview.Subsidy)
	}

	// The thermostat is pulled in through the pump's compatibility link
	// even though it was not selected.
	var thermostatLines int
	for _, line := range preview.Lines {
		if line.Title == "Thermostat connecté" {
			thermostatLines++
			if line.Editable {
				t.Fatalf("thermostat line must not be editable")
			}
			if !line.UnitPrice.Equal(decimal.NewFromInt(249)) {
				t.Fatalf("thermostat must stay at listed price, got %s", line.UnitPrice)
			}
		}
	}
	if thermostatLines != 1 {
		t.Fatalf("expected exactly one thermostat line, got %d", thermostatLines)
	}

	// Customer-facing law: line totals reproduce subsidy + RAC to the cent.
	total := decimal.Zero
	for _, line := range preview.Lines {
		total = total.Add(line.TotalInclTax())
	}
	want := preview.Subsidy.Add(preview.RAC)
	if !total.Round(2).Equal(want.Round(2)) {
		t.Fatalf("line totals %s do not reproduce subsidy+rac %s", total.Round(2), want.Round(2))
	}

	var eventCount int64
	if err := env.db.Table("pricing_events").Where("org_id = ?", orgID).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected one outbox event, got %d", eventCount)
	}
}

func TestSimulateMissingValuation(t *testing.T) {
	env := setupQuoteEnv(t)
	orgID := snowflake.ID(7)
	ctx := context.Background()

	folder, err := env.folderSvc(t).Create(ctx, orgID, folderdomain.CreateFolderRequest{
		CustomerName:  "Martin",
		SurfaceM2:     100,
		PropertyType:  folderdomain.PropertyTypeHouse,
		ClimateZone:   folderdomain.ClimateZoneH1,
		IncomeTier:    folderdomain.IncomeTierModest,
		EmitterRegime: folderdomain.EmitterRegimeHigh,
	})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	pump, err := env.catalogSvc(t).Create(ctx, orgID, heatPumpRequest(nil))
	if err != nil {
		t.Fatalf("create pump: %v", err)
	}

	_, err = env.svc.Simulate(ctx, orgID, quotedomain.SimulateRequest{
		OperationCode: "BAR-TH-171",
		FolderID:      folder.ID.String(),
		ProductIDs:    []string{pump.ID.String()},
	})
	if !errors.Is(err, valuationdomain.ErrValuationNotConfigured) {
		t.Fatalf("expected valuation-not-configured, got %v", err)
	}
}

func TestSimulateRejectsBadInput(t *testing.T) {
	env := setupQuoteEnv(t)
	ctx := context.Background()

	_, err := env.svc.Simulate(ctx, 1, quotedomain.SimulateRequest{
		FolderID:   "1",
		ProductIDs: []string{"1"},
	})
	if !errors.Is(err, quotedomain.ErrInvalidOperationCode) {
		t.Fatalf("expected invalid operation code, got %v", err)
	}

	_, err = env.svc.Simulate(ctx, 1, quotedomain.SimulateRequest{
		OperationCode: "BAR-TH-171",
		FolderID:      "1",
	})
	if !errors.Is(err, quotedomain.ErrInvalidProductSelection) {
		t.Fatalf("expected invalid product selection, got %v", err)
	}

	negative := decimal.NewFromInt(-5)
	_, err = env.svc.Simulate(ctx, 1, quotedomain.SimulateRequest{
		OperationCode: "BAR-TH-171",
		FolderID:      "1",
		ProductIDs:    []string{"1"},
		TargetRAC:     &negative,
	})
	if !errors.Is(err, quotedomain.ErrInvalidTargetRAC) {
		t.Fatalf("expected invalid target rac, got %v", err)
	}
}

func seedQuoteFixtures(t *testing.T, env *quoteTestEnv, orgID snowflake.ID) (snowflake.ID, snowflake.ID) {
	t.Helper()
	ctx := context.Background()

	folder, err := env.folderSvc(t).Create(ctx, orgID, folderdomain.CreateFolderRequest{
		CustomerName:  "Durand",
		SurfaceM2:     100,
		PropertyType:  folderdomain.PropertyTypeHouse,
		ClimateZone:   folderdomain.ClimateZoneH1,
		IncomeTier:    folderdomain.IncomeTierModest,
		EmitterRegime: folderdomain.EmitterRegimeHigh,
	})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	thermostat, err := env.catalogSvc(t).Create(ctx, orgID, catalogdomain.CreateProductRequest{
		Category:  catalogdomain.CategoryThermostat,
		Brand:     "Netatmo",
		Reference: "THERM-CONNECT",
		Name:      "Thermostat connecté",
		SalePrice: decimal.NewFromInt(249),
	})
	if err != nil {
		t.Fatalf("create thermostat: %v", err)
	}

	pump, err := env.catalogSvc(t).Create(ctx, orgID, heatPumpRequest(&thermostat.ID))
	if err != nil {
		t.Fatalf("create pump: %v", err)
	}

	_, err = env.valuationSvc(t).Upsert(ctx, orgID, valuationdomain.UpsertValuationRequest{
		OperationCode: "BAR-TH-171",
		IncomeTier:    string(folderdomain.IncomeTierModest),
		BuybackPrice:  decimal.NewFromFloat(5.0),
	})
	if err != nil {
		t.Fatalf("upsert valuation: %v", err)
	}

	return folder.ID, pump.ID
}

func heatPumpRequest(thermostatID *snowflake.ID) catalogdomain.CreateProductRequest {
	etas55 := 145
	purchase := decimal.NewFromInt(5000)
	return catalogdomain.CreateProductRequest{
		Category:     catalogdomain.CategoryHeatPump,
		Brand:        "Atlantic",
		Reference:    "PAC-AW-8KW",
		Name:         "Pompe à chaleur air/eau 8 kW",
		SalePrice:    decimal.NewFromInt(8000),
		PurchaseCost: &purchase,
		HeatPump: &catalogdomain.HeatPumpDetail{
			EtasAt55:               &etas55,
			CompatibleThermostatID: thermostatID,
		},
	}
}

func (e *quoteTestEnv) folderSvc(t *testing.T) folderdomain.Service {
	t.Helper()
	return e.svc.folderSvc
}

func (e *quoteTestEnv) catalogSvc(t *testing.T) catalogdomain.Service {
	t.Helper()
	return e.svc.catalogSvc
}

func (e *quoteTestEnv) valuationSvc(t *testing.T) valuationdomain.Service {
	t.Helper()
	return e.svc.valuationSvc
}

func setupQuoteEnv(t *testing.T) *quoteTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()

	svc := &Service{
		log: log,
		settingsSvc: settingssvc.NewService(settingssvc.ServiceParam{
			DB: db, Log: log, GenID: node,
		}),
		folderSvc: foldersvc.NewService(foldersvc.ServiceParam{
			DB: db, Log: log, GenID: node,
		}),
		catalogSvc: catalogsvc.NewService(catalogsvc.ServiceParam{
			DB: db, Log: log, GenID: node,
		}),
		valuationSvc: valuationsvc.NewService(valuationsvc.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clock.SystemClock{},
		}),
		engine: engine.New(log),
		outbox: events.NewOutbox(db, node),
	}

	return &quoteTestEnv{db: db, svc: svc}
}
