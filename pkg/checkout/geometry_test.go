package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGeometryCalculator_VolumeFromDimensions(t *testing.T) {
	geom := NewGeometryCalculator()

	tests := []struct {
		name      string
		blank     int64
		slit      int64
		thickness int64
		expected  string
	}{
		{name: "standard_blank", blank: 1000, slit: 100, thickness: 10, expected: "0.001"},
		{name: "thin_sheet", blank: 500, slit: 200, thickness: 2, expected: "0.0002"},
		{name: "missing_blank", blank: 0, slit: 100, thickness: 10, expected: "0"},
		{name: "missing_slit", blank: 1000, slit: 0, thickness: 10, expected: "0"},
		{name: "missing_thickness", blank: 1000, slit: 100, thickness: 0, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			volume := geom.VolumeFromDimensions(
				decimal.NewFromInt(tt.blank),
				decimal.NewFromInt(tt.slit),
				decimal.NewFromInt(tt.thickness),
			)
			if volume.String() != tt.expected {
				t.Errorf("Expected volume %s, got %s", tt.expected, volume.String())
			}
		})
	}
}

func TestGeometryCalculator_DensityRoundTrip(t *testing.T) {
	geom := NewGeometryCalculator()
	tolerance := decimal.NewFromFloat(1e-4)

	tests := []struct {
		name      string
		quantity  string
		blank     int64
		slit      int64
		thickness int64
	}{
		{name: "whole_units", quantity: "12", blank: 1000, slit: 100, thickness: 10},
		{name: "fractional_units", quantity: "3.5", blank: 730, slit: 55, thickness: 3},
		{name: "small_blank", quantity: "0.25", blank: 42, slit: 7, thickness: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quantity, _ := decimal.NewFromString(tt.quantity)
			volume := geom.VolumeFromDimensions(
				decimal.NewFromInt(tt.blank),
				decimal.NewFromInt(tt.slit),
				decimal.NewFromInt(tt.thickness),
			)

			weight := geom.WeightFromQuantity(quantity, volume, WeightBase)
			back := geom.QuantityFromWeight(weight, volume, WeightBase)

			relative := back.Sub(quantity).Abs().Div(quantity)
			if relative.GreaterThan(tolerance) {
				t.Errorf("Round trip drifted: started %s, got back %s", quantity, back)
			}
		})
	}
}

func TestGeometryCalculator_ScaledWeightIsBaseOverThousand(t *testing.T) {
	geom := NewGeometryCalculator()
	quantity := decimal.NewFromFloat(4.2)
	volume := decimal.NewFromFloat(0.00073)

	base := geom.WeightFromQuantity(quantity, volume, WeightBase)
	scaled := geom.WeightFromQuantity(quantity, volume, WeightScaled)

	if !scaled.Equal(base.Div(decimal.NewFromInt(1000))) {
		t.Errorf("Expected scaled weight %s to be base %s / 1000", scaled, base)
	}
}

func TestGeometryCalculator_InapplicableInputsYieldZero(t *testing.T) {
	geom := NewGeometryCalculator()
	volume := decimal.NewFromFloat(0.001)

	if w := geom.WeightFromQuantity(decimal.Zero, volume, WeightBase); !w.IsZero() {
		t.Errorf("Expected zero weight for zero quantity, got %s", w)
	}
	if w := geom.WeightFromQuantity(decimal.NewFromInt(5), decimal.Zero, WeightBase); !w.IsZero() {
		t.Errorf("Expected zero weight for zero volume, got %s", w)
	}
	if q := geom.QuantityFromWeight(decimal.Zero, volume, WeightBase); !q.IsZero() {
		t.Errorf("Expected zero quantity for zero weight, got %s", q)
	}
	if q := geom.QuantityFromWeight(decimal.NewFromInt(5), decimal.Zero, WeightScaled); !q.IsZero() {
		t.Errorf("Expected zero quantity for zero volume, got %s", q)
	}
}

func TestFirstDigitRun(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{name: "first_of_several_runs", code: "COIL-450x2-L1200", expected: "450"},
		{name: "single_run", code: "L1200", expected: "1200"},
		{name: "no_digits", code: "NoDigitsHere", expected: "0"},
		{name: "empty", code: "", expected: "0"},
		{name: "digits_at_end", code: "BRACKET-A-75", expected: "75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			length := FirstDigitRun(tt.code)
			if length.String() != tt.expected {
				t.Errorf("FirstDigitRun(%q) = %s, expected %s", tt.code, length, tt.expected)
			}
		})
	}
}

func TestParseAmount_CoercesBadInputToZero(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "plain", value: "12.5", expected: "12.5"},
		{name: "padded", value: " 3 ", expected: "3"},
		{name: "malformed", value: "abc", expected: "0"},
		{name: "empty", value: "", expected: "0"},
		{name: "negative", value: "-4", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAmount(tt.value); got.String() != tt.expected {
				t.Errorf("parseAmount(%q) = %s, expected %s", tt.value, got, tt.expected)
			}
		})
	}
}
