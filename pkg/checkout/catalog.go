package checkout

import (
	"context"
	"fmt"
)

// Identifiers of the two specially-classified weight units. Classification
// drives the conversion direction in every weight calculation.
const (
	baseWeightName     = "Kilograms"
	baseWeightSymbol   = "Kg"
	scaledWeightName   = "Tonnes"
	scaledWeightSymbol = "T"
)

// UnitSource fetches the unit master list
type UnitSource interface {
	FetchUnits(ctx context.Context) ([]Unit, error)
}

// UnitCatalog is the immutable unit master list for one form session
type UnitCatalog struct {
	units []Unit
	byID  map[int64]Unit
}

// NewUnitCatalog creates a catalog over an already-loaded unit list
func NewUnitCatalog(units []Unit) *UnitCatalog {
	byID := make(map[int64]Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return &UnitCatalog{units: units, byID: byID}
}

// LoadUnitCatalog fetches the unit master list once and builds the catalog.
// There is no retry: a failed load leaves the session without units and the
// form effectively non-submittable.
func LoadUnitCatalog(ctx context.Context, src UnitSource) (*UnitCatalog, error) {
	units, err := src.FetchUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	return NewUnitCatalog(units), nil
}

// Unit returns the unit with the given id
func (c *UnitCatalog) Unit(id int64) (Unit, bool) {
	u, ok := c.byID[id]
	return u, ok
}

// UnitsByType returns the loaded units of the given type
func (c *UnitCatalog) UnitsByType(t UnitType) []Unit {
	var filtered []Unit
	for _, u := range c.units {
		if u.Type == t {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// All returns every loaded unit
func (c *UnitCatalog) All() []Unit {
	return c.units
}

// Classify reports whether a weight unit is the base (kilograms) or scaled
// (tonnes) one, matched by name or symbol
func (c *UnitCatalog) Classify(u Unit) WeightClass {
	if u.Name == scaledWeightName || u.Symbol == scaledWeightSymbol {
		return WeightScaled
	}
	return WeightBase
}

// ClassifyID classifies the unit with the given id. Unknown or unset ids
// classify as base, matching the form's kilogram default.
func (c *UnitCatalog) ClassifyID(id int64) WeightClass {
	u, ok := c.byID[id]
	if !ok {
		return WeightBase
	}
	return c.Classify(u)
}

// DefaultNumberUnit returns the first NUMBER unit, used to seed the
// quantity unit selectors
func (c *UnitCatalog) DefaultNumberUnit() (Unit, bool) {
	for _, u := range c.units {
		if u.Type == UnitNumber {
			return u, true
		}
	}
	return Unit{}, false
}

// DefaultWeightUnit returns the kilogram unit, used to seed the weight
// unit selectors
func (c *UnitCatalog) DefaultWeightUnit() (Unit, bool) {
	for _, u := range c.units {
		if u.Type == UnitWeight && u.Name == baseWeightName {
			return u, true
		}
	}
	return Unit{}, false
}
