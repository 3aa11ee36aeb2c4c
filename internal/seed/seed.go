package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

// DemoOrgID is the tenant the demo fixtures belong to. Local-only: real
// deployments provision tenants through their own onboarding.
const DemoOrgID snowflake.ID = 1

// EnsureDemoData loads a minimal demo catalog and valuation grid so a fresh
// local install can run a simulation end to end. All inserts are idempotent.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureValuations(ctx, tx, node); err != nil {
			return err
		}
		return ensureCatalog(ctx, tx, node)
	})
}

func ensureValuations(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	rows := []valuationdomain.OperationValuation{
		{OperationCode: "BAR-TH-171", IncomeTier: "very_modest", BuybackPrice: decimal.NewFromFloat(5.5)},
		{OperationCode: "BAR-TH-171", IncomeTier: "modest", BuybackPrice: decimal.NewFromFloat(5.0)},
		{OperationCode: "BAR-TH-171", IncomeTier: valuationdomain.TierStandard, BuybackPrice: decimal.NewFromFloat(4.5)},
	}
	for _, row := range rows {
		var count int64
		err := tx.WithContext(ctx).
			Model(&valuationdomain.OperationValuation{}).
			Where("org_id = ? AND operation_code = ? AND income_tier = ?", DemoOrgID, row.OperationCode, row.IncomeTier).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row.ID = node.Generate()
		row.OrgID = DemoOrgID
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureCatalog(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&catalogdomain.Product{}).
		Where("org_id = ?", DemoOrgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	thermostat := catalogdomain.Product{
		ID:        node.Generate(),
		OrgID:     DemoOrgID,
		Category:  catalogdomain.CategoryThermostat,
		Brand:     "Netatmo",
		Reference: "THERM-CONNECT",
		Name:      "Thermostat connecté",
		SalePrice: decimal.NewFromInt(249),
		TaxRate:   decimal.NewFromFloat(5.5),
	}
	if err := tx.WithContext(ctx).Create(&thermostat).Error; err != nil {
		return err
	}

	etas35, etas55 := 178, 142
	pump := catalogdomain.Product{
		ID:          node.Generate(),
		OrgID:       DemoOrgID,
		Category:    catalogdomain.CategoryHeatPump,
		Brand:       "Atlantic",
		Reference:   "PAC-AW-8KW",
		Name:        "Pompe à chaleur air/eau 8 kW",
		Description: "Monobloc réversible, R32",
		SalePrice:   decimal.NewFromInt(8990),
		TaxRate:     decimal.NewFromFloat(5.5),
	}
	if err := tx.WithContext(ctx).Create(&pump).Error; err != nil {
		return err
	}
	detail := catalogdomain.HeatPumpDetail{
		ID:                     node.Generate(),
		ProductID:              pump.ID,
		EtasAt35:               &etas35,
		EtasAt55:               &etas55,
		HeatingPowerKW:         8,
		CompatibleThermostatID: &thermostat.ID,
	}
	if err := tx.WithContext(ctx).Create(&detail).Error; err != nil {
		return err
	}

	labor := catalogdomain.Product{
		ID:        node.Generate(),
		OrgID:     DemoOrgID,
		Category:  catalogdomain.CategoryLabor,
		Reference: "POSE-PAC",
		Name:      "Forfait pose et mise en service",
		SalePrice: decimal.NewFromInt(1800),
		TaxRate:   decimal.NewFromFloat(5.5),
	}
	return tx.WithContext(ctx).Create(&labor).Error
}
