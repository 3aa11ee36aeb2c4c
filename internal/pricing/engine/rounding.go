package engine

import (
	"github.com/shopspring/decimal"

	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
)

var (
	dec10   = decimal.NewFromInt(10)
	dec490  = decimal.NewFromInt(490)
	dec990  = decimal.NewFromInt(990)
	dec1000 = decimal.NewFromInt(1000)
)

// RoundToX90 rounds a non-negative amount down to the nearest commercial
// price point: 0 or a value ending in 490 or 990. Amounts below 490 collapse
// to 0. The function is idempotent and never rounds up.
func RoundToX90(amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero
	}
	thousands := amount.Div(dec1000).Floor().Mul(dec1000)
	switch {
	case amount.GreaterThanOrEqual(thousands.Add(dec990)):
		return thousands.Add(dec990)
	case amount.GreaterThanOrEqual(thousands.Add(dec490)):
		return thousands.Add(dec490)
	case thousands.IsZero():
		return decimal.Zero
	default:
		// previous thousand's 990 step
		return thousands.Sub(dec10)
	}
}

func applyRounding(mode settingsdomain.RoundingMode, amount decimal.Decimal) decimal.Decimal {
	switch mode {
	case settingsdomain.RoundingModeX90:
		return RoundToX90(amount)
	default:
		return amount
	}
}
