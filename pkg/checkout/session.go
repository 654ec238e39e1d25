package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/steeltrace/stockout/pkg/infrastructure/events"
)

// InventoryAPI is everything a checkout session needs from the inventory
// backend
type InventoryAPI interface {
	UnitSource
	StockOutAPI
	SearchProducts(ctx context.Context, item ItemMetadata) ([]ProductRef, error)
	GetSequences(ctx context.Context, productID int64, item ItemMetadata) ([]Sequence, error)
	GetSteps(ctx context.Context, sequenceID int64) ([]Step, error)
}

// SessionOptions configures optional session behavior
type SessionOptions struct {
	// LengthPolicy overrides the default FirstDigitRun extraction
	LengthPolicy LengthPolicy
	// Events receives the session's audit trail when set
	Events *events.InMemoryEventStore
	// Callbacks are invoked after a successful submission
	Callbacks SubmissionCallbacks
}

// Session ties one checkout form lifecycle together: it loads the unit
// catalog, owns the derivation engine and validation gate, tracks the
// product/sequence/step selections, and drives the one-shot submission.
// Sessions are created fresh per opened form and discarded afterwards.
type Session struct {
	id      uuid.UUID
	item    ItemMetadata
	api     InventoryAPI
	catalog *UnitCatalog
	engine  *Engine
	gate    *ValidationGate
	adapter *SubmissionAdapter

	lengthPolicy LengthPolicy
	events       *events.InMemoryEventStore

	products            []ProductRef
	productsErr         error
	sequences           []Sequence
	steps               []Step
	selectedProductName string
}

// NewSession opens a checkout session for the given stock item. The unit
// master list is fetched once here; a failed load aborts the session since
// the form cannot function without units. The product search result is also
// fetched, but a failure there only marks the product dropdown as errored.
func NewSession(ctx context.Context, item ItemMetadata, api InventoryAPI, opts SessionOptions) (*Session, error) {
	catalog, err := LoadUnitCatalog(ctx, api)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:           uuid.New(),
		item:         item,
		api:          api,
		catalog:      catalog,
		gate:         NewValidationGate(),
		lengthPolicy: opts.LengthPolicy,
		events:       opts.Events,
	}
	if s.lengthPolicy == nil {
		s.lengthPolicy = FirstDigitRun
	}

	s.engine = NewEngine(item, catalog)
	s.engine.SetObserver(s.recordFieldChange)
	s.adapter = NewSubmissionAdapter(api, opts.Callbacks)

	s.record(events.UnitCatalogLoadedEvent, events.UnitCatalogLoaded{
		UnitCount: len(catalog.All()),
	})

	s.products, s.productsErr = api.SearchProducts(ctx, item)

	return s, nil
}

// ID returns the session identity, also the audit event stream id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Item returns the stock item this session checks out
func (s *Session) Item() ItemMetadata {
	return s.item
}

// Catalog returns the loaded unit catalog
func (s *Session) Catalog() *UnitCatalog {
	return s.catalog
}

// Engine returns the derivation engine handling the form's field edits
func (s *Session) Engine() *Engine {
	return s.engine
}

// State returns the current form state
func (s *Session) State() *FormState {
	return s.engine.State()
}

// Products returns the downstream products available for this item
func (s *Session) Products() ([]ProductRef, error) {
	return s.products, s.productsErr
}

// Sequences returns the process sequences of the selected product
func (s *Session) Sequences() []Sequence {
	return s.sequences
}

// Steps returns the steps of the selected sequence
func (s *Session) Steps() []Step {
	return s.steps
}

// SelectedProductName returns the item name of the selected product
func (s *Session) SelectedProductName() string {
	return s.selectedProductName
}

// SelectProduct chooses a downstream product, loads its process sequences
// and, for coil items, runs the length policy over the product's name. A
// name without digits stores length zero, which disables the derived-weight
// path rather than failing.
func (s *Session) SelectProduct(ctx context.Context, productID int64) error {
	var product *ProductRef
	for i := range s.products {
		if s.products[i].ID == productID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		return fmt.Errorf("product %d not in search results", productID)
	}

	s.engine.SetSelectedProduct(productID)
	s.selectedProductName = product.ItemName

	if s.item.ModelType == ModelCoil {
		length := s.lengthPolicy(product.ItemName)
		s.engine.SetExtractedLength(length)
	}

	s.record(events.ProductSelectedEvent, events.ProductSelected{
		ProductID:       productID,
		ItemName:        product.ItemName,
		ExtractedLength: s.engine.State().ExtractedLength.String(),
	})

	sequences, err := s.api.GetSequences(ctx, productID, s.item)
	if err != nil {
		return fmt.Errorf("failed to load sequences: %w", err)
	}
	s.sequences = sequences
	return nil
}

// SelectSequence chooses a process sequence and loads its steps
func (s *Session) SelectSequence(ctx context.Context, sequenceID int64) error {
	s.engine.SetSelectedSequence(sequenceID)

	steps, err := s.api.GetSteps(ctx, sequenceID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}
	s.steps = steps

	s.record(events.SequenceSelectedEvent, events.SequenceSelected{
		SequenceID: sequenceID,
		StepCount:  len(steps),
	})
	return nil
}

// SelectStep chooses a process step
func (s *Session) SelectStep(stepID int64) {
	s.engine.SetSelectedStep(stepID)
}

// IsSubmittable reports the validation gate's verdict on the current state
func (s *Session) IsSubmittable() bool {
	return s.gate.IsSubmittable(s.item, s.engine.State(), s.steps)
}

// Submission returns the session's submission adapter
func (s *Session) Submission() *SubmissionAdapter {
	return s.adapter
}

// Submit validates the current form state and performs the one-shot
// submission
func (s *Session) Submit(ctx context.Context) error {
	if !s.IsSubmittable() {
		return fmt.Errorf("form is not submittable")
	}

	err := s.adapter.Submit(ctx, s.item, s.engine.State(), s.steps)
	if err != nil {
		s.record(events.SubmissionFailedEvent, events.SubmissionFailed{
			Message: err.Error(),
		})
		return err
	}

	s.record(events.CheckoutSubmittedEvent, events.CheckoutSubmitted{
		ItemID:    s.item.ID,
		ModelType: string(s.item.ModelType),
		Slitting:  s.engine.State().CoilForSlitting,
	})
	return nil
}

func (s *Session) recordFieldChange(change FieldChange) {
	s.record(events.FieldDerivedEvent, events.FieldDerived{
		Pair:  change.Pair.String(),
		Field: change.Field,
		Value: change.Value,
	})
}

func (s *Session) record(eventType string, data interface{}) {
	if s.events == nil {
		return
	}
	_ = s.events.AppendEvent(s.id.String(), events.NewEvent(eventType, s.id.String(), data))
}
