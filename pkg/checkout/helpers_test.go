package checkout

import (
	"context"
	"sync"
)

// fakeInventoryAPI implements InventoryAPI against canned data, counting
// submission calls so at-most-once behavior can be asserted
type fakeInventoryAPI struct {
	units     []Unit
	unitsErr  error
	products  []ProductRef
	sequences []Sequence
	steps     []Step

	mu            sync.Mutex
	stockOutCalls int
	stockOutErr   error
	lastStockOut  StockOutRequest
	// blockStockOut, when set, holds SimpleStockOut until the channel is
	// closed, simulating an in-flight request
	blockStockOut chan struct{}

	productCheckoutCalls   int
	productCheckoutErr     error
	productCheckoutMessage string
	lastProductCheckout    ProductCheckoutRequest
}

func newFakeAPI() *fakeInventoryAPI {
	return &fakeInventoryAPI{
		units: NewTestCatalog().All(),
		products: []ProductRef{
			{ID: 11, ItemName: "BRACKET-250-A"},
			{ID: 12, ItemName: "NoDigitsHere"},
		},
		sequences: []Sequence{{ID: 21, Name: "Stamping"}},
		steps:     []Step{{ID: 31, Name: "Blank"}, {ID: 32, Name: "Form"}},
	}
}

func (f *fakeInventoryAPI) FetchUnits(ctx context.Context) ([]Unit, error) {
	if f.unitsErr != nil {
		return nil, f.unitsErr
	}
	return f.units, nil
}

func (f *fakeInventoryAPI) SearchProducts(ctx context.Context, item ItemMetadata) ([]ProductRef, error) {
	return f.products, nil
}

func (f *fakeInventoryAPI) GetSequences(ctx context.Context, productID int64, item ItemMetadata) ([]Sequence, error) {
	return f.sequences, nil
}

func (f *fakeInventoryAPI) GetSteps(ctx context.Context, sequenceID int64) ([]Step, error) {
	return f.steps, nil
}

func (f *fakeInventoryAPI) SimpleStockOut(ctx context.Context, req StockOutRequest) error {
	if f.blockStockOut != nil {
		<-f.blockStockOut
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockOutCalls++
	f.lastStockOut = req
	return f.stockOutErr
}

func (f *fakeInventoryAPI) ProductCheckout(ctx context.Context, req ProductCheckoutRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCheckoutCalls++
	f.lastProductCheckout = req
	if f.productCheckoutErr != nil {
		return "", f.productCheckoutErr
	}
	return f.productCheckoutMessage, nil
}

func (f *fakeInventoryAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stockOutCalls
}

// validStandardState builds a form state that passes the standard gate for
// the test raw material: 10 kg in, 7 kg product, 3 kg scrap, quantities
// conserved exactly
func validStandardState() *FormState {
	return &FormState{
		Raw:               PairValues{Quantity: "10", QuantityUnitID: 1, Weight: "10.000", WeightUnitID: 2},
		Product:           PairValues{Quantity: "7", QuantityUnitID: 1, Weight: "7.000", WeightUnitID: 2},
		Scrap:             PairValues{Quantity: "3", QuantityUnitID: 1, Weight: "3.000", WeightUnitID: 2},
		SelectedProductID: 11,
		SelectedStepID:    31,
		CheckinRemarks:    "stock out",
		CheckoutRemarks:   "to stamping",
	}
}
