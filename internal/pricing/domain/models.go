package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
)

// OperationHeatPump is the CEE operation code for air/water heat pump
// installations, the only operation carrying the mandatory-thermostat rule.
const OperationHeatPump = "BAR-TH-171"

// SubsidizedWorksTaxRate is the reduced VAT rate applied to subsidized
// energy-renovation works, in percent.
var SubsidizedWorksTaxRate = decimal.NewFromFloat(5.5)

// QuoteLine is one priced item of a quote. UnitPrice excludes tax; totals are
// derived, never stored. Editable lines may be repriced by distribution.
type QuoteLine struct {
	ProductID   *snowflake.ID   `json:"product_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Editable    bool            `json:"editable"`
}

// TotalExclTax returns quantity × unit price.
func (l QuoteLine) TotalExclTax() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TotalInclTax returns the tax-included line total.
func (l QuoteLine) TotalInclTax() decimal.Decimal {
	return l.TotalExclTax().Mul(taxFactor(l.TaxRate))
}

// Validate enforces the line invariants.
func (l QuoteLine) Validate() error {
	if l.Quantity < 1 {
		return ErrInvalidLineQuantity
	}
	if l.UnitPrice.IsNegative() {
		return ErrInvalidLineUnitPrice
	}
	if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidLineTaxRate
	}
	return nil
}

// Context is the immutable per-simulation input bundle. It is assembled once
// by the quote service with all collaborator data already resolved; the
// engine performs no I/O of its own.
type Context struct {
	OrgID         snowflake.ID
	OperationCode string
	FolderID      snowflake.ID
	ProductIDs    []snowflake.ID
	TargetRAC     *decimal.Decimal

	SurfaceM2     float64
	PropertyType  folderdomain.PropertyType
	ClimateZone   folderdomain.ClimateZone
	IncomeTier    folderdomain.IncomeTier
	EmitterRegime folderdomain.EmitterRegime

	Products      []catalogdomain.Product
	LaborProducts []catalogdomain.Product
	// CompatibleThermostat is the catalog entry discovered through the
	// selected heat pump's compatibility link, nil when the pump declares
	// none or the operation does not require one.
	CompatibleThermostat *catalogdomain.Product
	BuybackPrice         decimal.Decimal
}

// HeatPump returns the first selected heat pump product, nil when none was
// selected.
func (c Context) HeatPump() *catalogdomain.Product {
	for i := range c.Products {
		if c.Products[i].Category == catalogdomain.CategoryHeatPump {
			return &c.Products[i]
		}
	}
	return nil
}

// Etas returns the efficiency rating of the selected heat pump under the
// folder's emitter temperature regime, 0 when no rating is available.
func (c Context) Etas() int {
	pump := c.HeatPump()
	if pump == nil || pump.HeatPump == nil {
		return 0
	}
	return pump.HeatPump.Etas(c.EmitterRegime == folderdomain.EmitterRegimeLow)
}

// QuotePreview is the priced, auditable result of one simulation.
type QuotePreview struct {
	Lines                  []QuoteLine     `json:"lines"`
	Subsidy                decimal.Decimal `json:"subsidy"`
	RAC                    decimal.Decimal `json:"rac"`
	Margin                 decimal.Decimal `json:"margin"`
	MarginPercent          decimal.Decimal `json:"margin_percent"`
	Strategy               string          `json:"strategy"`
	Warnings               []string        `json:"warnings,omitempty"`
	PercentageDistribution bool            `json:"percentage_distribution"`
}

var (
	ErrInvalidLineQuantity  = errors.New("invalid_line_quantity")
	ErrInvalidLineUnitPrice = errors.New("invalid_line_unit_price")
	ErrInvalidLineTaxRate   = errors.New("invalid_line_tax_rate")
	ErrNoApplicableStrategy = errors.New("no_applicable_strategy")
)

func taxFactor(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
}

// TaxFactor exposes the incl/excl conversion factor for a percentage rate.
func TaxFactor(rate decimal.Decimal) decimal.Decimal { return taxFactor(rate) }
