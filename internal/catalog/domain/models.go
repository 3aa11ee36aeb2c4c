package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ProductCategory groups catalog entries for pricing distribution.
type ProductCategory string

const (
	CategoryHeatPump   ProductCategory = "heat_pump"
	CategoryThermostat ProductCategory = "thermostat"
	CategoryLabor      ProductCategory = "labor"
	CategoryOther      ProductCategory = "other"
)

// Product is a catalog entry sellable on a quote.
type Product struct {
	ID           snowflake.ID     `json:"id" gorm:"primaryKey"`
	OrgID        snowflake.ID     `json:"organization_id" gorm:"column:org_id;not null;index"`
	Category     ProductCategory  `json:"category" gorm:"type:text;not null;index"`
	Brand        string           `json:"brand" gorm:"type:text"`
	Reference    string           `json:"reference" gorm:"type:text;not null;index"`
	Name         string           `json:"name" gorm:"type:text;not null"`
	Description  string           `json:"description" gorm:"type:text"`
	SalePrice    decimal.Decimal  `json:"sale_price" gorm:"type:numeric;not null"`
	PurchaseCost *decimal.Decimal `json:"purchase_cost,omitempty" gorm:"type:numeric"`
	TaxRate      decimal.Decimal  `json:"tax_rate" gorm:"type:numeric;not null;default:5.5"`
	HeatPump     *HeatPumpDetail  `json:"heat_pump,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// HeatPumpDetail carries the technical attributes of a heat pump product.
// The two ETAS ratings are given at the 35°C and 55°C reference emitter
// temperatures of the EN 14825 test points.
type HeatPumpDetail struct {
	ID                     snowflake.ID  `json:"id" gorm:"primaryKey"`
	ProductID              snowflake.ID  `json:"product_id" gorm:"not null;uniqueIndex"`
	EtasAt35               *int          `json:"etas_at_35,omitempty" gorm:"column:etas_at_35"`
	EtasAt55               *int          `json:"etas_at_55,omitempty" gorm:"column:etas_at_55"`
	HeatingPowerKW         float64       `json:"heating_power_kw"`
	CompatibleThermostatID *snowflake.ID `json:"compatible_thermostat_id,omitempty" gorm:"index"`
	CreatedAt              time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (HeatPumpDetail) TableName() string { return "heat_pump_details" }

// CostOfGoods returns the recorded purchase cost, defaulting to 70% of the
// sale price when none was entered by the tenant.
func (p Product) CostOfGoods() decimal.Decimal {
	if p.PurchaseCost != nil {
		return *p.PurchaseCost
	}
	return p.SalePrice.Mul(decimal.NewFromFloat(0.7))
}

// Etas returns the efficiency rating matching the emitter temperature regime:
// low-temperature emitters use the 35°C rating, others the 55°C rating, each
// falling back to the other when absent.
func (d *HeatPumpDetail) Etas(lowTemperature bool) int {
	if d == nil {
		return 0
	}
	first, second := d.EtasAt55, d.EtasAt35
	if lowTemperature {
		first, second = d.EtasAt35, d.EtasAt55
	}
	if first != nil {
		return *first
	}
	if second != nil {
		return *second
	}
	return 0
}
