package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/steeltrace/stockout/pkg/checkout"
	"github.com/steeltrace/stockout/pkg/infrastructure/events"
)

func main() {
	ctx := context.Background()

	// An in-memory backend standing in for the live inventory API
	api := newDemoBackend()
	store := events.NewInMemoryEventStore()

	// A steel blank: 1000 x 100 x 10 mm, so one blank weighs
	// 0.001 m³ * 7865 kg/m³ = 7.865 kg
	item := checkout.ItemMetadata{
		ID:        101,
		ModelType: checkout.ModelRawMaterial,
		ItemName:  "BLANK-1000x100x10",
		BlankSize: decimal.NewFromInt(1000),
		SlitSize:  decimal.NewFromInt(100),
		Thickness: decimal.NewFromInt(10),
	}

	session, err := checkout.NewSession(ctx, item, api, checkout.SessionOptions{
		Events: store,
		Callbacks: checkout.SubmissionCallbacks{
			OnClose: func() { fmt.Println("  form closed") },
		},
	})
	if err != nil {
		fmt.Printf("failed to open session: %v\n", err)
		return
	}

	fmt.Println("Checking out", item.ItemName)
	fmt.Println()

	// Each edit derives its counterpart field synchronously
	engine := session.Engine()
	engine.SetRawQuantity("10")
	engine.SetProductQuantity("7")

	state := session.State()
	fmt.Println("After entering quantities:")
	fmt.Printf("  raw:     %s pcs = %s kg\n", state.Raw.Quantity, state.Raw.Weight)
	fmt.Printf("  product: %s pcs = %s kg\n", state.Product.Quantity, state.Product.Weight)
	fmt.Printf("  scrap:   %s pcs = %s kg (derived)\n", state.Scrap.Quantity, state.Scrap.Weight)
	fmt.Println()

	engine.SetCheckinRemarks("stock out for stamping")
	engine.SetCheckoutRemarks("line 2")

	// Select the downstream product, its sequence and step
	if err := session.SelectProduct(ctx, 11); err != nil {
		fmt.Printf("product selection failed: %v\n", err)
		return
	}
	if err := session.SelectSequence(ctx, 21); err != nil {
		fmt.Printf("sequence selection failed: %v\n", err)
		return
	}
	session.SelectStep(31)

	fmt.Printf("Submittable: %v\n", session.IsSubmittable())

	if err := session.Submit(ctx); err != nil {
		fmt.Printf("submission failed: %v\n", err)
		return
	}
	fmt.Println("Checkout submitted")

	// A second attempt is rejected by the one-shot latch
	if err := session.Submit(ctx); err != nil {
		fmt.Printf("second attempt: %v\n", err)
	}
	fmt.Println()

	// The audit trail recorded the whole session
	audit, _ := store.ReadEvents(session.ID().String(), 1)
	fmt.Printf("Audit trail (%d events):\n", len(audit))
	for _, event := range audit {
		fmt.Printf("  %3d %s\n", event.Version(), event.Type())
	}
}

// demoBackend implements checkout.InventoryAPI from fixed data
type demoBackend struct {
	units     []checkout.Unit
	products  []checkout.ProductRef
	sequences []checkout.Sequence
	steps     []checkout.Step
}

func newDemoBackend() *demoBackend {
	return &demoBackend{
		units: []checkout.Unit{
			{ID: 1, Name: "Pieces", Symbol: "Pcs", Type: checkout.UnitNumber},
			{ID: 2, Name: "Kilograms", Symbol: "Kg", Type: checkout.UnitWeight},
			{ID: 3, Name: "Tonnes", Symbol: "T", Type: checkout.UnitWeight},
		},
		products:  []checkout.ProductRef{{ID: 11, ItemName: "BRACKET-250-A"}},
		sequences: []checkout.Sequence{{ID: 21, Name: "Stamping"}},
		steps:     []checkout.Step{{ID: 31, Name: "Blank"}, {ID: 32, Name: "Form"}},
	}
}

func (b *demoBackend) FetchUnits(ctx context.Context) ([]checkout.Unit, error) {
	return b.units, nil
}

func (b *demoBackend) SearchProducts(ctx context.Context, item checkout.ItemMetadata) ([]checkout.ProductRef, error) {
	return b.products, nil
}

func (b *demoBackend) GetSequences(ctx context.Context, productID int64, item checkout.ItemMetadata) ([]checkout.Sequence, error) {
	return b.sequences, nil
}

func (b *demoBackend) GetSteps(ctx context.Context, sequenceID int64) ([]checkout.Step, error) {
	return b.steps, nil
}

func (b *demoBackend) SimpleStockOut(ctx context.Context, req checkout.StockOutRequest) error {
	fmt.Println("  posting stock_out_data to the backend...")
	return nil
}
