package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/steeltrace/stockout/pkg/checkout"
)

// Scenario is an offline description of one checkout form session: the
// stock item, the backend data the form would fetch, and the sequence of
// edits the operator performs
type Scenario struct {
	Item      checkout.ItemMetadata `json:"item"`
	Units     []checkout.Unit       `json:"units,omitempty"`
	Products  []checkout.ProductRef `json:"products"`
	Sequences []checkout.Sequence   `json:"sequences"`
	Steps     []checkout.Step       `json:"steps"`
	Edits     []Edit                `json:"edits"`
}

// Edit is one scripted form interaction
type Edit struct {
	Action string `json:"action"`
	Value  string `json:"value"`
	ID     int64  `json:"id,omitempty"`
}

// LoadScenario reads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if scenario.Item.ID == 0 {
		return nil, fmt.Errorf("scenario has no item")
	}
	if scenario.Item.ModelType == "" {
		scenario.Item.ModelType = checkout.ModelRawMaterial
	}
	if len(scenario.Units) == 0 {
		scenario.Units = defaultUnits()
	}

	return &scenario, nil
}

// defaultUnits is the unit master list used when a scenario does not embed
// its own
func defaultUnits() []checkout.Unit {
	return []checkout.Unit{
		{ID: 1, Name: "Pieces", Symbol: "Pcs", Type: checkout.UnitNumber},
		{ID: 2, Name: "Kilograms", Symbol: "Kg", Type: checkout.UnitWeight},
		{ID: 3, Name: "Tonnes", Symbol: "T", Type: checkout.UnitWeight},
		{ID: 4, Name: "Millimeters", Symbol: "mm", Type: checkout.UnitDistance},
	}
}

// Apply runs one scripted edit against the session
func (e Edit) Apply(ctx context.Context, session *checkout.Session) error {
	engine := session.Engine()

	switch e.Action {
	case "raw_quantity":
		engine.SetRawQuantity(e.Value)
	case "raw_weight":
		engine.SetRawWeight(e.Value)
	case "product_quantity":
		engine.SetProductQuantity(e.Value)
	case "product_weight":
		engine.SetProductWeight(e.Value)
	case "scrap_quantity":
		engine.SetScrapQuantity(e.Value)
	case "scrap_weight":
		engine.SetScrapWeight(e.Value)
	case "raw_quantity_unit":
		engine.SetQuantityUnit(checkout.PairRaw, e.ID)
	case "product_quantity_unit":
		engine.SetQuantityUnit(checkout.PairProduct, e.ID)
	case "scrap_quantity_unit":
		engine.SetQuantityUnit(checkout.PairScrap, e.ID)
	case "raw_weight_unit":
		engine.SetWeightUnit(checkout.PairRaw, e.ID)
	case "product_weight_unit":
		engine.SetWeightUnit(checkout.PairProduct, e.ID)
	case "scrap_weight_unit":
		engine.SetWeightUnit(checkout.PairScrap, e.ID)
	case "custom_total_weight":
		engine.SetCustomTotalWeight(e.Value)
	case "custom_total_weight_unit":
		engine.SetCustomTotalWeightUnit(e.ID)
	case "coil_for_slitting":
		engine.SetCoilForSlitting(e.Value == "true")
	case "checkin_remarks":
		engine.SetCheckinRemarks(e.Value)
	case "checkout_remarks":
		engine.SetCheckoutRemarks(e.Value)
	case "select_product":
		return session.SelectProduct(ctx, e.ID)
	case "select_sequence":
		return session.SelectSequence(ctx, e.ID)
	case "select_step":
		session.SelectStep(e.ID)
	default:
		return fmt.Errorf("unknown edit action %q", e.Action)
	}
	return nil
}

// scenarioAPI serves a session from the scenario's embedded data. Stock-out
// calls are forwarded to live when set, otherwise recorded locally.
type scenarioAPI struct {
	scenario *Scenario
	live     checkout.StockOutAPI

	submitted []checkout.StockOutRequest
}

func newScenarioAPI(scenario *Scenario, live checkout.StockOutAPI) *scenarioAPI {
	return &scenarioAPI{scenario: scenario, live: live}
}

func (a *scenarioAPI) FetchUnits(ctx context.Context) ([]checkout.Unit, error) {
	return a.scenario.Units, nil
}

func (a *scenarioAPI) SearchProducts(ctx context.Context, item checkout.ItemMetadata) ([]checkout.ProductRef, error) {
	return a.scenario.Products, nil
}

func (a *scenarioAPI) GetSequences(ctx context.Context, productID int64, item checkout.ItemMetadata) ([]checkout.Sequence, error) {
	return a.scenario.Sequences, nil
}

func (a *scenarioAPI) GetSteps(ctx context.Context, sequenceID int64) ([]checkout.Step, error) {
	return a.scenario.Steps, nil
}

func (a *scenarioAPI) SimpleStockOut(ctx context.Context, req checkout.StockOutRequest) error {
	a.submitted = append(a.submitted, req)
	if a.live != nil {
		return a.live.SimpleStockOut(ctx, req)
	}
	return nil
}
