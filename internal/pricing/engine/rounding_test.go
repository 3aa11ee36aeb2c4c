package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundToX90(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{2100, 1990},
		{990, 990},
		{400, 0},
		{2490, 2490},
		{489.99, 0},
		{490, 490},
		{1000, 990},
		{1489, 990},
		{1490, 1490},
		{10990, 10990},
		{0, 0},
	}
	for _, tc := range cases {
		got := RoundToX90(decimal.NewFromFloat(tc.in))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("RoundToX90(%v) = %s, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRoundToX90Idempotent(t *testing.T) {
	for _, in := range []float64{0, 1, 489, 490, 999, 1240, 2100, 5490, 12990, 99999} {
		once := RoundToX90(decimal.NewFromFloat(in))
		twice := RoundToX90(once)
		if !once.Equal(twice) {
			t.Fatalf("RoundToX90 not idempotent at %v: %s then %s", in, once, twice)
		}
		if once.GreaterThan(decimal.NewFromFloat(in)) {
			t.Fatalf("RoundToX90(%v) = %s rounded up", in, once)
		}
	}
}

func TestApplyRoundingModeNone(t *testing.T) {
	amount := decimal.NewFromFloat(2100)
	if got := applyRounding("none", amount); !got.Equal(amount) {
		t.Fatalf("expected %s untouched, got %s", amount, got)
	}
	if got := applyRounding("x90", amount); !got.Equal(decimal.NewFromInt(1990)) {
		t.Fatalf("expected 1990, got %s", got)
	}
}
