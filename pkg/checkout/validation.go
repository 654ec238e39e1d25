package checkout

import (
	"github.com/shopspring/decimal"
)

// ValidationGate decides whether the current form state may be submitted.
// It is a pure read over the form state: it returns a single verdict and
// does not enumerate which check failed.
type ValidationGate struct{}

// NewValidationGate creates a validation gate
func NewValidationGate() *ValidationGate {
	return &ValidationGate{}
}

// IsSubmittable reports whether the form can be submitted. The slitting mode
// applies when a coil has been flagged for slitting; it reduces the required
// fields to the raw pair plus a valid custom total weight. The standard mode
// additionally enforces conservation of mass (raw weight equals product plus
// scrap weight, compared at three decimals) and, for non-coil items, exact
// conservation of quantity.
func (g *ValidationGate) IsSubmittable(item ItemMetadata, state *FormState, steps []Step) bool {
	if item.ModelType == ModelCoil && state.CoilForSlitting {
		return g.slittingValid(state)
	}
	return g.standardValid(item, state, steps)
}

func (g *ValidationGate) slittingValid(state *FormState) bool {
	if state.Raw.Quantity == "" || state.Raw.Weight == "" {
		return false
	}
	return g.customWeightValid(state)
}

func (g *ValidationGate) standardValid(item ItemMetadata, state *FormState, steps []Step) bool {
	required := []string{
		state.Raw.Quantity,
		state.Raw.Weight,
		state.Product.Quantity,
		state.Product.Weight,
		state.Scrap.Weight,
		state.CheckinRemarks,
		state.CheckoutRemarks,
	}
	if item.ModelType != ModelCoil {
		required = append(required, state.Scrap.Quantity)
	}
	for _, field := range required {
		if field == "" {
			return false
		}
	}

	if item.ModelType == ModelCoil && !g.customWeightValid(state) {
		return false
	}

	rawWeight := parseAmount(state.Raw.Weight)
	productWeight := parseAmount(state.Product.Weight)
	scrapWeight := parseAmount(state.Scrap.Weight)

	if rawWeight.Sign() <= 0 {
		return false
	}

	// Conservation of mass, compared at three decimals to absorb the
	// rounding of derived fields
	outputWeight := productWeight.Add(scrapWeight).Round(3)
	if !outputWeight.Equal(rawWeight.Round(3)) {
		return false
	}

	// Quantity conservation is exact and only applies to discrete items
	if item.ModelType != ModelCoil {
		rawQuantity := parseAmount(state.Raw.Quantity)
		productQuantity := parseAmount(state.Product.Quantity)
		scrapQuantity := parseAmount(state.Scrap.Quantity)
		if !rawQuantity.Equal(productQuantity.Add(scrapQuantity)) {
			return false
		}
	}

	if state.SelectedProductID == 0 {
		return false
	}
	if len(steps) == 0 || state.SelectedStepID == 0 {
		return false
	}

	return true
}

func (g *ValidationGate) customWeightValid(state *FormState) bool {
	custom, err := decimal.NewFromString(state.CustomTotalWeight)
	if err != nil {
		return false
	}
	return custom.Sign() > 0 && state.CustomTotalWeightUnitID != 0
}
