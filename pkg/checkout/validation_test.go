package checkout

import "testing"

var testSteps = []Step{{ID: 31, Name: "Blank"}, {ID: 32, Name: "Form"}}

func TestValidationGate_StandardValid(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestRawMaterial()

	if !gate.IsSubmittable(item, validStandardState(), testSteps) {
		t.Error("Expected a fully populated balanced form to be submittable")
	}
}

func TestValidationGate_RequiredFields(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestRawMaterial()

	tests := []struct {
		name  string
		mutate func(*FormState)
	}{
		{"missing raw quantity", func(s *FormState) { s.Raw.Quantity = "" }},
		{"missing raw weight", func(s *FormState) { s.Raw.Weight = "" }},
		{"missing product quantity", func(s *FormState) { s.Product.Quantity = "" }},
		{"missing product weight", func(s *FormState) { s.Product.Weight = "" }},
		{"missing scrap quantity", func(s *FormState) { s.Scrap.Quantity = "" }},
		{"missing scrap weight", func(s *FormState) { s.Scrap.Weight = "" }},
		{"missing checkin remarks", func(s *FormState) { s.CheckinRemarks = "" }},
		{"missing checkout remarks", func(s *FormState) { s.CheckoutRemarks = "" }},
		{"no product selected", func(s *FormState) { s.SelectedProductID = 0 }},
		{"no step selected", func(s *FormState) { s.SelectedStepID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := validStandardState()
			tt.mutate(state)
			if gate.IsSubmittable(item, state, testSteps) {
				t.Error("Expected incomplete form rejected")
			}
		})
	}
}

func TestValidationGate_NoStepsAvailable(t *testing.T) {
	gate := NewValidationGate()

	if gate.IsSubmittable(NewTestRawMaterial(), validStandardState(), nil) {
		t.Error("Expected rejection when the selected step has no backing list")
	}
}

func TestValidationGate_ZeroRawWeight(t *testing.T) {
	gate := NewValidationGate()
	state := validStandardState()
	state.Raw.Weight = "0"
	state.Product.Weight = "0"
	state.Scrap.Weight = "0"

	if gate.IsSubmittable(NewTestRawMaterial(), state, testSteps) {
		t.Error("Expected zero raw weight rejected even when balanced")
	}
}

func TestValidationGate_ConservationOfMass(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestRawMaterial()

	state := validStandardState()
	state.Scrap.Weight = "2.500"
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected weight imbalance rejected")
	}

	// Differences below the third decimal are absorbed by the rounding
	state = validStandardState()
	state.Raw.Weight = "10.0004"
	if !gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected sub-millikilogram drift accepted")
	}

	state = validStandardState()
	state.Raw.Weight = "10.002"
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected drift at the third decimal rejected")
	}
}

func TestValidationGate_QuantityConservationExact(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestRawMaterial()

	state := validStandardState()
	state.Scrap.Quantity = "3.0001"
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected quantity imbalance rejected for discrete items")
	}

	// Equality is numeric, not textual
	state = validStandardState()
	state.Raw.Quantity = "10.0"
	state.Product.Quantity = "7.00"
	if !gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected numerically equal quantities accepted")
	}
}

func TestValidationGate_CoilStandard(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestCoil()

	state := validStandardState()
	state.Scrap.Quantity = ""
	state.CustomTotalWeight = "500"
	state.CustomTotalWeightUnitID = 2
	if !gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected coil form submittable without a scrap quantity")
	}

	// Coil quantities are fractional and need not balance
	state.Raw.Quantity = "1"
	state.Product.Quantity = "0.4"
	if !gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected coil quantity imbalance tolerated")
	}

	state.CustomTotalWeight = ""
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected coil form rejected without a custom total weight")
	}

	state.CustomTotalWeight = "-1"
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected negative custom total weight rejected")
	}

	state.CustomTotalWeight = "500"
	state.CustomTotalWeightUnitID = 0
	if gate.IsSubmittable(item, state, testSteps) {
		t.Error("Expected coil form rejected without a custom weight unit")
	}
}

func TestValidationGate_CoilSlitting(t *testing.T) {
	gate := NewValidationGate()
	item := NewTestCoil()

	state := &FormState{CoilForSlitting: true}
	state.Raw.Quantity = "0.5"
	state.Raw.Weight = "250"
	state.CustomTotalWeight = "500"
	state.CustomTotalWeightUnitID = 2

	if !gate.IsSubmittable(item, state, nil) {
		t.Error("Expected slitting form submittable from the raw pair alone")
	}

	state.Raw.Weight = ""
	if gate.IsSubmittable(item, state, nil) {
		t.Error("Expected slitting form rejected without a raw weight")
	}

	state.Raw.Weight = "250"
	state.CustomTotalWeight = "abc"
	if gate.IsSubmittable(item, state, nil) {
		t.Error("Expected slitting form rejected with a malformed custom weight")
	}
}

func TestValidationGate_SlittingFlagIgnoredForNonCoil(t *testing.T) {
	gate := NewValidationGate()

	state := validStandardState()
	state.CoilForSlitting = true
	// Non-coil items always validate under the standard rules
	if !gate.IsSubmittable(NewTestRawMaterial(), state, testSteps) {
		t.Error("Expected standard rules applied to non-coil items")
	}
	state.CheckoutRemarks = ""
	if gate.IsSubmittable(NewTestRawMaterial(), state, testSteps) {
		t.Error("Expected standard required fields still enforced")
	}
}
