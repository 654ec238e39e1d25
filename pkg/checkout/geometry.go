package checkout

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// SteelDensityKgM3 is the material density used for every quantity<->weight
// conversion, in kg/m³.
const SteelDensityKgM3 = 7865

var (
	density       = decimal.NewFromInt(SteelDensityKgM3)
	mmCubedPerM3  = decimal.NewFromInt(1_000_000_000)
	thousand      = decimal.NewFromInt(1000)
	digitRunRegex = regexp.MustCompile(`\d+`)
)

// LengthPolicy extracts a length in millimeters from a free-form item code.
// A zero result means no usable length and disables derived-weight
// calculation for that path.
type LengthPolicy func(code string) decimal.Decimal

// FirstDigitRun is the default extraction policy: the first maximal run of
// decimal digits in the code. Item codes can carry several numeric segments
// (thickness, length), so which run is semantically "length" is a property
// of the naming convention; swap the policy if yours differs.
func FirstDigitRun(code string) decimal.Decimal {
	match := digitRunRegex.FindString(code)
	if match == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// GeometryCalculator converts between discrete unit counts and mass using
// item geometry and the fixed material density
type GeometryCalculator struct {
	density decimal.Decimal
}

// NewGeometryCalculator creates a calculator with the standard steel density
func NewGeometryCalculator() *GeometryCalculator {
	return &GeometryCalculator{density: density}
}

// VolumeFromDimensions computes the volume in m³ of one blank from its three
// millimeter dimensions. Any missing dimension yields zero, meaning the
// calculation is not applicable rather than an error.
func (g *GeometryCalculator) VolumeFromDimensions(blankSize, slitSize, thickness decimal.Decimal) decimal.Decimal {
	if blankSize.Sign() <= 0 || slitSize.Sign() <= 0 || thickness.Sign() <= 0 {
		return decimal.Zero
	}
	return blankSize.Mul(slitSize).Mul(thickness).Div(mmCubedPerM3)
}

// VolumeFromLength computes the volume in m³ of one coil-derived unit,
// substituting an extracted length for the blank size
func (g *GeometryCalculator) VolumeFromLength(slitSize, thickness, length decimal.Decimal) decimal.Decimal {
	if slitSize.Sign() <= 0 || thickness.Sign() <= 0 || length.Sign() <= 0 {
		return decimal.Zero
	}
	return slitSize.Mul(thickness).Mul(length).Div(mmCubedPerM3)
}

// WeightFromQuantity converts a unit count to a weight in the given unit
// class. Zero volume or quantity yields zero.
func (g *GeometryCalculator) WeightFromQuantity(quantity, volume decimal.Decimal, class WeightClass) decimal.Decimal {
	if volume.Sign() <= 0 || quantity.Sign() <= 0 {
		return decimal.Zero
	}
	weightKg := quantity.Mul(volume).Mul(g.density)
	if class == WeightScaled {
		return weightKg.Div(thousand)
	}
	return weightKg
}

// QuantityFromWeight is the inverse of WeightFromQuantity
func (g *GeometryCalculator) QuantityFromWeight(weight, volume decimal.Decimal, class WeightClass) decimal.Decimal {
	if volume.Sign() <= 0 || weight.Sign() <= 0 {
		return decimal.Zero
	}
	weightKg := weight
	if class == WeightScaled {
		weightKg = weight.Mul(thousand)
	}
	return weightKg.Div(volume.Mul(g.density))
}

// parseAmount parses a form field value. Malformed or negative input is
// coerced to zero, never surfaced as an error; the positivity checks in the
// validation gate block submission instead.
func parseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}
