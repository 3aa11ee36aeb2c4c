package engine

import (
	"github.com/shopspring/decimal"

	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
)

// boostCoefficient is the coup-de-pouce bonification multiplier applied to
// every BAR-TH-171 cumac volume.
const boostCoefficient = 5

// etasBand maps an inclusive lower ETAS bound to a cumac base value. Bands
// are ordered ascending; a rating below the first bound yields 0.
type etasBand struct {
	minEtas int
	value   int64
}

var etasBaseByType = map[folderdomain.PropertyType][]etasBand{
	folderdomain.PropertyTypeHouse: {
		{110, 85600},
		{140, 111500},
		{170, 126800},
		{200, 142300},
	},
	folderdomain.PropertyTypeApartment: {
		{110, 63400},
		{140, 74200},
		{170, 84750},
		{200, 95100},
	},
}

// surfaceBand maps an inclusive lower surface bound (m²) to a usage factor.
type surfaceBand struct {
	minSurface float64
	factor     decimal.Decimal
}

var usageFactorByType = map[folderdomain.PropertyType][]surfaceBand{
	folderdomain.PropertyTypeHouse: {
		{0, decimal.NewFromFloat(0.7)},
		{70, decimal.NewFromInt(1)},
		{110, decimal.NewFromFloat(1.1)},
		{130, decimal.NewFromFloat(1.3)},
	},
	folderdomain.PropertyTypeApartment: {
		{0, decimal.NewFromFloat(0.6)},
		{45, decimal.NewFromFloat(0.8)},
		{70, decimal.NewFromInt(1)},
		{100, decimal.NewFromFloat(1.1)},
	},
}

var zoneFactors = map[folderdomain.ClimateZone]decimal.Decimal{
	folderdomain.ClimateZoneH1: decimal.NewFromFloat(1.2),
	folderdomain.ClimateZoneH2: decimal.NewFromInt(1),
	folderdomain.ClimateZoneH3: decimal.NewFromFloat(0.8),
}

// ComputePrime returns the CEE prime amount in euros, rounded to the cent:
//
//	base(type, etas) × usage(type, surface) × zone × buyback × boost / 1000
//
// The buy-back price must already be resolved by the caller; a missing
// valuation is that caller's configuration error, never a silent zero here.
// A rating below the lowest eligible band legitimately yields 0.
func ComputePrime(pctx domain.Context) decimal.Decimal {
	base := baseValue(pctx.PropertyType, pctx.Etas())
	if base.IsZero() {
		return decimal.Zero
	}
	return base.
		Mul(usageFactor(pctx.PropertyType, pctx.SurfaceM2)).
		Mul(zoneFactor(pctx.ClimateZone)).
		Mul(pctx.BuybackPrice).
		Mul(decimal.NewFromInt(boostCoefficient)).
		Div(dec1000).
		Round(2)
}

func baseValue(propertyType folderdomain.PropertyType, etas int) decimal.Decimal {
	bands, ok := etasBaseByType[propertyType]
	if !ok {
		return decimal.Zero
	}
	var value int64
	for _, band := range bands {
		if etas < band.minEtas {
			break
		}
		value = band.value
	}
	return decimal.NewFromInt(value)
}

func usageFactor(propertyType folderdomain.PropertyType, surface float64) decimal.Decimal {
	bands, ok := usageFactorByType[propertyType]
	if !ok {
		return decimal.NewFromInt(1)
	}
	factor := decimal.NewFromInt(1)
	for _, band := range bands {
		if surface < band.minSurface {
			break
		}
		factor = band.factor
	}
	return factor
}

func zoneFactor(zone folderdomain.ClimateZone) decimal.Decimal {
	if factor, ok := zoneFactors[zone]; ok {
		return factor
	}
	return decimal.NewFromInt(1)
}
