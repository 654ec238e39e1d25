package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Engine maintains the three quantity/weight pairs of a checkout form in
// mutual consistency as either side is edited. All derivation is synchronous
// arithmetic over the current form state: every handler computes from
// already-applied values and writes both sides of its pair in one step.
type Engine struct {
	item    ItemMetadata
	catalog *UnitCatalog
	geom    *GeometryCalculator
	state   FormState

	// One guard per pair. A handler entered while its pair is already
	// Calculating drops the edit instead of recursing.
	guards [3]PairState

	autoScrap bool
	observer  func(FieldChange)
}

// NewEngine creates a derivation engine for one checkout session. Unit
// selectors are seeded with the catalog defaults (first NUMBER unit,
// kilograms) and both dates with the current time.
func NewEngine(item ItemMetadata, catalog *UnitCatalog) *Engine {
	e := &Engine{
		item:      item,
		catalog:   catalog,
		geom:      NewGeometryCalculator(),
		autoScrap: true,
	}

	now := time.Now()
	e.state.CheckinDate = now
	e.state.CheckoutDate = now

	if numberUnit, ok := catalog.DefaultNumberUnit(); ok {
		e.state.Raw.QuantityUnitID = numberUnit.ID
		e.state.Product.QuantityUnitID = numberUnit.ID
		e.state.Scrap.QuantityUnitID = numberUnit.ID
	}
	if weightUnit, ok := catalog.DefaultWeightUnit(); ok {
		e.state.Raw.WeightUnitID = weightUnit.ID
		e.state.Product.WeightUnitID = weightUnit.ID
		e.state.Scrap.WeightUnitID = weightUnit.ID
		e.state.CustomTotalWeightUnitID = weightUnit.ID
	}

	return e
}

// State exposes the current form state. Mutate it only through the engine's
// handlers; the validation gate and submission adapter read it.
func (e *Engine) State() *FormState {
	return &e.state
}

// Item returns the stock item this engine operates on
func (e *Engine) Item() ItemMetadata {
	return e.item
}

// PairGuard reports the derivation state of one pair
func (e *Engine) PairGuard(p FieldPair) PairState {
	return e.guards[p]
}

// SetObserver registers a callback invoked for every applied field change
func (e *Engine) SetObserver(fn func(FieldChange)) {
	e.observer = fn
}

// SetAutoScrap toggles automatic scrap-from-difference derivation for
// non-coil items
func (e *Engine) SetAutoScrap(enabled bool) {
	e.autoScrap = enabled
}

// AutoScrap reports whether automatic scrap derivation is enabled
func (e *Engine) AutoScrap() bool {
	return e.autoScrap
}

func (e *Engine) notify(pair FieldPair, field, value string) {
	if e.observer != nil {
		e.observer(FieldChange{Pair: pair, Field: field, Value: value})
	}
}

func (e *Engine) setQuantity(pair FieldPair, value string) {
	e.state.Pair(pair).Quantity = value
	e.notify(pair, "quantity", value)
}

func (e *Engine) setWeight(pair FieldPair, value string) {
	e.state.Pair(pair).Weight = value
	e.notify(pair, "weight", value)
}

// dimensionVolume is the per-blank volume from the item's recorded
// dimensions, zero when any of them is missing
func (e *Engine) dimensionVolume() decimal.Decimal {
	return e.geom.VolumeFromDimensions(e.item.BlankSize, e.item.SlitSize, e.item.Thickness)
}

// lengthVolume is the coil-path volume using the length extracted from the
// selected product's name
func (e *Engine) lengthVolume() decimal.Decimal {
	return e.geom.VolumeFromLength(e.item.SlitSize, e.item.Thickness, e.state.ExtractedLength)
}

// lengthUsable reports whether the extracted-length calculation path is
// available for this coil
func (e *Engine) lengthUsable() bool {
	return e.item.SlitSize.Sign() > 0 &&
		e.item.Thickness.Sign() > 0 &&
		e.state.ExtractedLength.Sign() > 0
}

// perUnitWeight returns the weight in kg of one coil unit. For coils one
// discrete unit represents the entire coil, so the per-unit weight is the
// custom total weight normalized to kilograms; zero until a positive custom
// total weight is supplied.
func (e *Engine) perUnitWeight() decimal.Decimal {
	if e.item.ModelType != ModelCoil {
		return decimal.Zero
	}
	total := parseAmount(e.state.CustomTotalWeight)
	if total.Sign() <= 0 {
		return decimal.Zero
	}
	if e.catalog.ClassifyID(e.state.CustomTotalWeightUnitID) == WeightScaled {
		total = total.Mul(thousand)
	}
	return total
}

// SetRawQuantity stores an edited raw quantity and derives the raw weight
func (e *Engine) SetRawQuantity(value string) {
	if e.guards[PairRaw] == PairCalculating {
		return
	}
	e.guards[PairRaw] = PairCalculating

	quantity := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Raw.WeightUnitID)

	var weight decimal.Decimal
	if e.item.ModelType == ModelCoil {
		weightKg := quantity.Mul(e.perUnitWeight())
		weight = weightKg
		if class == WeightScaled {
			weight = weightKg.Div(thousand)
		}
	} else {
		weight = e.geom.WeightFromQuantity(quantity, e.dimensionVolume(), class)
	}

	e.setQuantity(PairRaw, value)
	e.setWeight(PairRaw, weight.StringFixed(6))
	e.guards[PairRaw] = PairIdle

	if e.item.ModelType != ModelCoil {
		e.autoScrapValues()
	}
}

// SetRawWeight stores an edited raw weight and derives the raw quantity.
// Coil edits also recompute the scrap weight, because raw weight feeds the
// conservation check.
func (e *Engine) SetRawWeight(value string) {
	if e.guards[PairRaw] == PairCalculating {
		return
	}
	e.guards[PairRaw] = PairCalculating

	weight := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Raw.WeightUnitID)

	if e.item.ModelType == ModelCoil {
		weightKg := weight
		if class == WeightScaled {
			weightKg = weight.Mul(thousand)
		}
		quantity := decimal.Zero
		if perUnit := e.perUnitWeight(); perUnit.Sign() > 0 {
			quantity = weightKg.Div(perUnit).Round(4)
		}
		e.setWeight(PairRaw, value)
		e.setQuantity(PairRaw, quantity.String())
		e.guards[PairRaw] = PairIdle
		e.CalculateScrapWeight()
		return
	}

	quantity := e.geom.QuantityFromWeight(weight, e.dimensionVolume(), class)
	e.setWeight(PairRaw, value)
	e.setQuantity(PairRaw, quantity.String())
	e.guards[PairRaw] = PairIdle
	e.autoScrapValues()
}

// SetProductQuantity stores an edited product quantity and derives the
// product weight. For coils the derivation uses the extracted-length volume;
// without a usable length only the edited field is stored.
func (e *Engine) SetProductQuantity(value string) {
	if e.guards[PairProduct] == PairCalculating {
		return
	}
	e.guards[PairProduct] = PairCalculating

	quantity := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Product.WeightUnitID)

	if e.item.ModelType == ModelCoil {
		if e.lengthUsable() {
			weight := e.geom.WeightFromQuantity(quantity, e.lengthVolume(), class)
			e.setQuantity(PairProduct, value)
			e.setWeight(PairProduct, weight.StringFixed(6))
		} else {
			e.setQuantity(PairProduct, value)
		}
		e.guards[PairProduct] = PairIdle
		return
	}

	weight := e.geom.WeightFromQuantity(quantity, e.dimensionVolume(), class)
	e.setQuantity(PairProduct, value)
	e.setWeight(PairProduct, weight.StringFixed(6))
	e.guards[PairProduct] = PairIdle
	e.autoScrapValues()
}

// SetProductWeight stores an edited product weight and derives the product
// quantity. Coil edits recompute the scrap weight from the just-updated
// values.
func (e *Engine) SetProductWeight(value string) {
	if e.guards[PairProduct] == PairCalculating {
		return
	}
	e.guards[PairProduct] = PairCalculating

	weight := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Product.WeightUnitID)

	if e.item.ModelType == ModelCoil {
		if e.lengthUsable() {
			quantity := e.geom.QuantityFromWeight(weight, e.lengthVolume(), class)
			e.setWeight(PairProduct, value)
			e.setQuantity(PairProduct, quantity.StringFixed(4))
		} else {
			e.setWeight(PairProduct, value)
		}
		e.guards[PairProduct] = PairIdle
		e.CalculateScrapWeight()
		return
	}

	quantity := e.geom.QuantityFromWeight(weight, e.dimensionVolume(), class)
	e.setWeight(PairProduct, value)
	e.setQuantity(PairProduct, quantity.String())
	e.guards[PairProduct] = PairIdle
	e.autoScrapValues()
}

// SetScrapQuantity stores an edited scrap quantity and derives the scrap
// weight where a calculation path exists
func (e *Engine) SetScrapQuantity(value string) {
	if e.guards[PairScrap] == PairCalculating {
		return
	}
	e.guards[PairScrap] = PairCalculating
	defer func() { e.guards[PairScrap] = PairIdle }()

	quantity := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Scrap.WeightUnitID)

	if e.item.ModelType == ModelCoil {
		if e.lengthUsable() {
			weight := e.geom.WeightFromQuantity(quantity, e.lengthVolume(), class)
			e.setQuantity(PairScrap, value)
			e.setWeight(PairScrap, weight.StringFixed(6))
		} else {
			e.setQuantity(PairScrap, value)
		}
		return
	}

	weight := e.geom.WeightFromQuantity(quantity, e.dimensionVolume(), class)
	e.setQuantity(PairScrap, value)
	e.setWeight(PairScrap, weight.StringFixed(6))
}

// SetScrapWeight stores an edited scrap weight and derives the scrap
// quantity where a calculation path exists
func (e *Engine) SetScrapWeight(value string) {
	if e.guards[PairScrap] == PairCalculating {
		return
	}
	e.guards[PairScrap] = PairCalculating
	defer func() { e.guards[PairScrap] = PairIdle }()

	weight := parseAmount(value)
	class := e.catalog.ClassifyID(e.state.Scrap.WeightUnitID)

	if e.item.ModelType == ModelCoil {
		if e.lengthUsable() {
			quantity := e.geom.QuantityFromWeight(weight, e.lengthVolume(), class)
			e.setWeight(PairScrap, value)
			e.setQuantity(PairScrap, quantity.StringFixed(4))
		} else {
			e.setWeight(PairScrap, value)
		}
		return
	}

	quantity := e.geom.QuantityFromWeight(weight, e.dimensionVolume(), class)
	e.setWeight(PairScrap, value)
	e.setQuantity(PairScrap, quantity.String())
}

// autoScrapValues derives scrap as the raw-minus-product difference for both
// quantity and weight, floored at zero. Bypassed entirely for coils, which
// use CalculateScrapWeight instead.
func (e *Engine) autoScrapValues() {
	if !e.autoScrap || e.item.ModelType == ModelCoil {
		return
	}

	rawWeight := parseAmount(e.state.Raw.Weight)
	productWeight := parseAmount(e.state.Product.Weight)
	rawQuantity := parseAmount(e.state.Raw.Quantity)
	productQuantity := parseAmount(e.state.Product.Quantity)

	scrapWeight := decimal.Max(decimal.Zero, rawWeight.Sub(productWeight))
	scrapQuantity := decimal.Max(decimal.Zero, rawQuantity.Sub(productQuantity))

	e.setWeight(PairScrap, scrapWeight.StringFixed(6))
	e.setQuantity(PairScrap, scrapQuantity.StringFixed(4))
}

// CalculateScrapWeight recomputes the coil scrap weight as the difference
// between the current raw and product weights. It reads the form state after
// the triggering handler has written its values, so the subtraction always
// uses post-update values.
func (e *Engine) CalculateScrapWeight() {
	if e.item.ModelType != ModelCoil {
		return
	}
	if e.guards[PairScrap] == PairCalculating {
		return
	}
	e.guards[PairScrap] = PairCalculating
	defer func() { e.guards[PairScrap] = PairIdle }()

	rawWeight := parseAmount(e.state.Raw.Weight)
	productWeight := parseAmount(e.state.Product.Weight)
	scrapWeight := decimal.Max(decimal.Zero, rawWeight.Sub(productWeight))

	e.setWeight(PairScrap, scrapWeight.StringFixed(6))
}

// SetQuantityUnit changes a quantity unit selector
func (e *Engine) SetQuantityUnit(pair FieldPair, unitID int64) {
	e.state.Pair(pair).QuantityUnitID = unitID
}

// SetWeightUnit changes a weight unit selector and re-derives the paired
// quantity under the new unit classification
func (e *Engine) SetWeightUnit(pair FieldPair, unitID int64) {
	e.state.Pair(pair).WeightUnitID = unitID

	switch pair {
	case PairRaw:
		if e.state.Raw.Weight != "" {
			e.SetRawWeight(e.state.Raw.Weight)
		}
	case PairProduct:
		if e.state.Product.Weight != "" {
			e.SetProductWeight(e.state.Product.Weight)
		}
	case PairScrap:
		if e.state.Scrap.Weight != "" {
			e.SetScrapWeight(e.state.Scrap.Weight)
		}
	}
}

// SetCustomTotalWeight stores the coil's custom total weight and re-derives
// the raw quantity if a raw weight has been entered
func (e *Engine) SetCustomTotalWeight(value string) {
	e.state.CustomTotalWeight = value
	if e.state.Raw.Weight != "" {
		e.SetRawWeight(e.state.Raw.Weight)
	}
}

// SetCustomTotalWeightUnit selects the unit of the custom total weight
func (e *Engine) SetCustomTotalWeightUnit(unitID int64) {
	e.state.CustomTotalWeightUnitID = unitID
}

// SetExtractedLength stores the length extracted from the selected product's
// name. Zero disables the extracted-length calculation path.
func (e *Engine) SetExtractedLength(length decimal.Decimal) {
	e.state.ExtractedLength = length
}

// SetCoilForSlitting switches the form into the coil-slitting mode, which
// shrinks the required-field set
func (e *Engine) SetCoilForSlitting(slitting bool) {
	e.state.CoilForSlitting = slitting
}

// SetSelectedProduct stores the chosen downstream product
func (e *Engine) SetSelectedProduct(id int64) {
	e.state.SelectedProductID = id
}

// SetSelectedSequence stores the chosen process sequence
func (e *Engine) SetSelectedSequence(id int64) {
	e.state.SelectedSequenceID = id
}

// SetSelectedStep stores the chosen process step
func (e *Engine) SetSelectedStep(id int64) {
	e.state.SelectedStepID = id
}

// SetCheckinRemarks stores the check-in remark text
func (e *Engine) SetCheckinRemarks(remarks string) {
	e.state.CheckinRemarks = remarks
}

// SetCheckoutRemarks stores the check-out remark text
func (e *Engine) SetCheckoutRemarks(remarks string) {
	e.state.CheckoutRemarks = remarks
}

// SetCheckinDate stores the check-in date
func (e *Engine) SetCheckinDate(t time.Time) {
	e.state.CheckinDate = t
}

// SetCheckoutDate stores the check-out date
func (e *Engine) SetCheckoutDate(t time.Time) {
	e.state.CheckoutDate = t
}
