package engine

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func intPtr(v int) *int { return &v }

func heatPumpProduct(id int64, etas35, etas55 *int, thermostatID *snowflake.ID) catalogdomain.Product {
	return catalogdomain.Product{
		ID:           snowflake.ID(id),
		Category:     catalogdomain.CategoryHeatPump,
		Brand:        "Atlantic",
		Reference:    "PAC-AW-11",
		Name:         "Air/water heat pump 11kW",
		SalePrice:    dec(8000),
		PurchaseCost: decPtr(5000),
		TaxRate:      dec(5.5),
		HeatPump: &catalogdomain.HeatPumpDetail{
			ProductID:              snowflake.ID(id),
			EtasAt35:               etas35,
			EtasAt55:               etas55,
			CompatibleThermostatID: thermostatID,
		},
	}
}

func laborProduct(id int64) catalogdomain.Product {
	return catalogdomain.Product{
		ID:        snowflake.ID(id),
		Category:  catalogdomain.CategoryLabor,
		Reference: "POSE-PAC",
		Name:      "Installation labor",
		SalePrice: dec(2000),
		TaxRate:   dec(5.5),
	}
}

func thermostatProduct(id int64) catalogdomain.Product {
	return catalogdomain.Product{
		ID:        snowflake.ID(id),
		Category:  catalogdomain.CategoryThermostat,
		Reference: "THERM-01",
		Name:      "Connected thermostat",
		SalePrice: dec(250),
		TaxRate:   dec(5.5),
	}
}

// houseContext is the canonical fixture: house, 100 m², zone H1, ETAS in the
// 140-169 band, buy-back 5.0 €/MWh, which yields a 3345.00 subsidy.
func houseContext() domain.Context {
	pump := heatPumpProduct(1, intPtr(175), intPtr(145), nil)
	return domain.Context{
		OrgID:         snowflake.ID(42),
		OperationCode: domain.OperationHeatPump,
		FolderID:      snowflake.ID(7),
		SurfaceM2:     100,
		PropertyType:  folderdomain.PropertyTypeHouse,
		ClimateZone:   folderdomain.ClimateZoneH1,
		IncomeTier:    folderdomain.IncomeTierModest,
		EmitterRegime: folderdomain.EmitterRegimeHigh,
		Products:      []catalogdomain.Product{pump},
		LaborProducts: []catalogdomain.Product{laborProduct(2)},
		BuybackPrice:  dec(5.0),
	}
}

func defaultSettings() settingsdomain.ModuleSettings {
	return settingsdomain.ModuleSettings{
		OrgID:         snowflake.ID(42),
		OperationCode: domain.OperationHeatPump,
		RoundingMode:  settingsdomain.RoundingModeNone,
		MinMargin:     dec(1000),
		FixedItems: []settingsdomain.FixedItem{
			{Title: "Administrative fees", Quantity: 1, UnitPrice: dec(100), TaxRate: dec(5.5)},
		},
	}
}
