package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAlreadySubmitted is returned when a submission is attempted after the
// session's single attempt has been consumed, or while one is in flight.
var ErrAlreadySubmitted = errors.New("checkout already submitted")

// SubmissionState is the at-most-once submission latch
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionInFlight
	SubmissionConsumed
)

// String method for SubmissionState enum
func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "Idle"
	case SubmissionInFlight:
		return "InFlight"
	case SubmissionConsumed:
		return "Consumed"
	default:
		return "Unknown"
	}
}

// StockOutRequest is the wire envelope for a stock-out transaction
type StockOutRequest struct {
	StockOutData any `json:"stock_out_data"`
}

// StandardStockOut is the payload for a normal checkout, consuming raw or
// coil stock into product plus scrap. The scrap-quantity pair is present
// only for non-coil items.
type StandardStockOut struct {
	CheckinDate              time.Time `json:"checkin_date"`
	CheckoutDate             time.Time `json:"checkout_date"`
	ModelType                ModelType `json:"model_type"`
	ItemID                   int64     `json:"item_id"`
	ProcessStepID            int64     `json:"process_step_id"`
	WeightUnitID             int64     `json:"weight_unit_id"`
	Weight                   float64   `json:"weight"`
	Quantity                 float64   `json:"quantity"`
	QuantityUnitID           int64     `json:"quantity_unit_id"`
	CheckoutRemarks          string    `json:"checkout_remarks"`
	CheckinRemarks           string    `json:"checkin_remarks"`
	CheckinScrapWeight       float64   `json:"checkin_scrap_weight"`
	CheckinScrapWeightUnitID int64     `json:"checkin_scrap_weight_unit_id"`
	ProductID                int64     `json:"product_id"`
	ProductQuantity          float64   `json:"product_quantity"`
	ProductQuantityUnitID    int64     `json:"product_quantity_unit_id"`
	ProductWeight            float64   `json:"product_weight"`
	ProductWeightUnitID      int64     `json:"product_weight_unit_id"`

	CheckinScrapQuantity       *float64 `json:"checkin_scrap_quantity,omitempty"`
	CheckinScrapQuantityUnitID *int64   `json:"checkin_scrap_quantity_unit_id,omitempty"`
}

// SlittingStockOut is the payload for a coil sent out purely for slitting.
// Product and scrap derivation do not apply; those fields are serialized as
// explicit nulls.
type SlittingStockOut struct {
	CheckinDate     time.Time `json:"checkin_date"`
	CheckoutDate    time.Time `json:"checkout_date"`
	ModelType       ModelType `json:"model_type"`
	ItemID          int64     `json:"item_id"`
	WeightUnitID    int64     `json:"weight_unit_id"`
	Weight          float64   `json:"weight"`
	Quantity        float64   `json:"quantity"`
	QuantityUnitID  int64     `json:"quantity_unit_id"`
	CheckoutRemarks string    `json:"checkout_remarks"`
	CheckinRemarks  string    `json:"checkin_remarks"`

	ProcessStepID              *int64   `json:"process_step_id"`
	ProductID                  *int64   `json:"product_id"`
	ProductQuantity            *float64 `json:"product_quantity"`
	ProductQuantityUnitID      *int64   `json:"product_quantity_unit_id"`
	ProductWeight              *float64 `json:"product_weight"`
	ProductWeightUnitID        *int64   `json:"product_weight_unit_id"`
	CheckinScrapWeight         *float64 `json:"checkin_scrap_weight"`
	CheckinScrapWeightUnitID   *int64   `json:"checkin_scrap_weight_unit_id"`
	CheckinScrapQuantity       *float64 `json:"checkin_scrap_quantity"`
	CheckinScrapQuantityUnitID *int64   `json:"checkin_scrap_quantity_unit_id"`
}

// StockOutAPI posts stock-out transactions to the inventory backend
type StockOutAPI interface {
	SimpleStockOut(ctx context.Context, req StockOutRequest) error
}

// SubmissionCallbacks are invoked after a successful submission: OnClose
// closes the hosting form, OnRefresh tells the surrounding view to reload
// its data. Either may be nil.
type SubmissionCallbacks struct {
	OnClose   func()
	OnRefresh func()
}

// SubmissionAdapter maps a validated form state onto the wire payload and
// drives the at-most-once submission guard. The latch is consumed by failed
// attempts too, which prevents resubmission storms at the cost of making a
// transient failure require a fresh form; Reset re-arms the latch for
// callers that want retry semantics.
type SubmissionAdapter struct {
	api       StockOutAPI
	callbacks SubmissionCallbacks

	mu        sync.Mutex
	state     SubmissionState
	lastError string
}

// NewSubmissionAdapter creates a submission adapter for one form session
func NewSubmissionAdapter(api StockOutAPI, callbacks SubmissionCallbacks) *SubmissionAdapter {
	return &SubmissionAdapter{api: api, callbacks: callbacks}
}

// State reports the latch state
func (a *SubmissionAdapter) State() SubmissionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// LastError returns the stored message of the last failed attempt
func (a *SubmissionAdapter) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// Reset re-arms the submission latch and clears the stored error
func (a *SubmissionAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = SubmissionIdle
	a.lastError = ""
}

// Submit performs the single network call for this form session. Calls made
// while an attempt is in flight, or after the attempt has been consumed,
// return ErrAlreadySubmitted without touching the network.
func (a *SubmissionAdapter) Submit(ctx context.Context, item ItemMetadata, state *FormState, steps []Step) error {
	a.mu.Lock()
	if a.state != SubmissionIdle {
		a.mu.Unlock()
		return ErrAlreadySubmitted
	}
	a.state = SubmissionInFlight
	a.mu.Unlock()

	var payload any
	if item.ModelType == ModelCoil && state.CoilForSlitting {
		payload = buildSlittingStockOut(item, state)
	} else {
		payload = buildStandardStockOut(item, state, steps)
	}

	err := a.api.SimpleStockOut(ctx, StockOutRequest{StockOutData: payload})

	a.mu.Lock()
	a.state = SubmissionConsumed
	if err != nil {
		a.lastError = err.Error()
	}
	a.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to submit checkout: %w", err)
	}

	if a.callbacks.OnClose != nil {
		a.callbacks.OnClose()
	}
	if a.callbacks.OnRefresh != nil {
		a.callbacks.OnRefresh()
	}
	return nil
}

func buildSlittingStockOut(item ItemMetadata, state *FormState) SlittingStockOut {
	checkoutRemarks := state.CheckoutRemarks
	if checkoutRemarks == "" {
		checkoutRemarks = state.CheckinRemarks
	}

	return SlittingStockOut{
		CheckinDate:     midnight(state.CheckinDate),
		CheckoutDate:    midnight(state.CheckoutDate),
		ModelType:       ModelCoil,
		ItemID:          item.ID,
		WeightUnitID:    state.Raw.WeightUnitID,
		Weight:          amountFloat(state.Raw.Weight),
		Quantity:        amountFloat(state.Raw.Quantity),
		QuantityUnitID:  state.Raw.QuantityUnitID,
		CheckoutRemarks: checkoutRemarks,
		CheckinRemarks:  state.CheckinRemarks,
	}
}

func buildStandardStockOut(item ItemMetadata, state *FormState, steps []Step) StandardStockOut {
	modelType := ModelRawMaterial
	if item.ModelType == ModelCoil {
		modelType = ModelCoil
	}

	// The backend resolves the process step from the head of the loaded
	// step list for the selected sequence
	var processStepID int64
	if len(steps) > 0 {
		processStepID = steps[0].ID
	}

	payload := StandardStockOut{
		CheckinDate:              midnight(state.CheckinDate),
		CheckoutDate:             midnight(state.CheckoutDate),
		ModelType:                modelType,
		ItemID:                   item.ID,
		ProcessStepID:            processStepID,
		WeightUnitID:             state.Raw.WeightUnitID,
		Weight:                   amountFloat(state.Raw.Weight),
		Quantity:                 amountFloat(state.Raw.Quantity),
		QuantityUnitID:           state.Raw.QuantityUnitID,
		CheckoutRemarks:          state.CheckoutRemarks,
		CheckinRemarks:           state.CheckinRemarks,
		CheckinScrapWeight:       amountFloat(state.Scrap.Weight),
		CheckinScrapWeightUnitID: state.Scrap.WeightUnitID,
		ProductID:                state.SelectedProductID,
		ProductQuantity:          amountFloat(state.Product.Quantity),
		ProductQuantityUnitID:    state.Product.QuantityUnitID,
		ProductWeight:            amountFloat(state.Product.Weight),
		ProductWeightUnitID:      state.Product.WeightUnitID,
	}

	if item.ModelType != ModelCoil {
		scrapQuantity := amountFloat(state.Scrap.Quantity)
		scrapQuantityUnitID := state.Scrap.QuantityUnitID
		payload.CheckinScrapQuantity = &scrapQuantity
		payload.CheckinScrapQuantityUnitID = &scrapQuantityUnitID
	}

	return payload
}

// midnight zeroes the time of day before serialization
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func amountFloat(value string) float64 {
	return parseAmount(value).InexactFloat64()
}
