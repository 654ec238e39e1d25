package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/steeltrace/stockout/pkg/checkout"
	"github.com/steeltrace/stockout/pkg/infrastructure/events"
)

// replayResult bundles everything a scenario replay produces for printing
type replayResult struct {
	Session     *checkout.Session
	Audit       []events.Event
	Submitted   bool
	SubmitError error
	Verbose     bool
}

// printUnits writes the unit master list in the requested format
func printUnits(units []checkout.Unit, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(units)
	}

	fmt.Printf("%-5s %-20s %-8s %s\n", "ID", "NAME", "SYMBOL", "TYPE")
	for _, unit := range units {
		fmt.Printf("%-5d %-20s %-8s %s\n", unit.ID, unit.Name, unit.Symbol, unit.Type)
	}
	return nil
}

// jsonPair is the serialized form of one quantity/weight tuple
type jsonPair struct {
	Quantity       string `json:"quantity"`
	QuantityUnitID int64  `json:"quantity_unit_id"`
	Weight         string `json:"weight"`
	WeightUnitID   int64  `json:"weight_unit_id"`
}

// jsonReplay is the serialized replay result
type jsonReplay struct {
	ItemID          int64    `json:"item_id"`
	ModelType       string   `json:"model_type"`
	Raw             jsonPair `json:"raw"`
	Product         jsonPair `json:"product"`
	Scrap           jsonPair `json:"scrap"`
	SelectedProduct string   `json:"selected_product,omitempty"`
	ExtractedLength string   `json:"extracted_length,omitempty"`
	CoilForSlitting bool     `json:"coil_for_slitting,omitempty"`
	Submittable     bool     `json:"submittable"`
	Submitted       bool     `json:"submitted"`
	SubmitError     string   `json:"submit_error,omitempty"`
	AuditEvents     int      `json:"audit_events"`
}

func toJSONPair(values checkout.PairValues) jsonPair {
	return jsonPair{
		Quantity:       values.Quantity,
		QuantityUnitID: values.QuantityUnitID,
		Weight:         values.Weight,
		WeightUnitID:   values.WeightUnitID,
	}
}

// printReplay writes the replayed form state, verdict and audit summary
func printReplay(result replayResult, format string) error {
	session := result.Session
	state := session.State()
	item := session.Item()

	if format == "json" {
		out := jsonReplay{
			ItemID:          item.ID,
			ModelType:       string(item.ModelType),
			Raw:             toJSONPair(state.Raw),
			Product:         toJSONPair(state.Product),
			Scrap:           toJSONPair(state.Scrap),
			SelectedProduct: session.SelectedProductName(),
			CoilForSlitting: state.CoilForSlitting,
			Submittable:     session.IsSubmittable(),
			Submitted:       result.Submitted,
			AuditEvents:     len(result.Audit),
		}
		if !state.ExtractedLength.IsZero() {
			out.ExtractedLength = state.ExtractedLength.String()
		}
		if result.SubmitError != nil {
			out.SubmitError = result.SubmitError.Error()
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Printf("Item %d (%s)\n\n", item.ID, item.ModelType)

	fmt.Printf("%-9s %-14s %-6s %-14s %s\n", "PAIR", "QUANTITY", "UNIT", "WEIGHT", "UNIT")
	printPairRow(session, "raw", state.Raw)
	printPairRow(session, "product", state.Product)
	printPairRow(session, "scrap", state.Scrap)
	fmt.Println()

	if session.SelectedProductName() != "" {
		fmt.Printf("Selected product: %s\n", session.SelectedProductName())
	}
	if !state.ExtractedLength.IsZero() {
		fmt.Printf("Extracted length: %s mm\n", state.ExtractedLength)
	}
	if state.CustomTotalWeight != "" {
		fmt.Printf("Custom total weight: %s\n", state.CustomTotalWeight)
	}
	if state.CoilForSlitting {
		fmt.Println("Mode: coil for slitting")
	}

	fmt.Printf("Submittable: %v\n", session.IsSubmittable())
	if result.Submitted {
		fmt.Println("Submitted: yes")
	} else if result.SubmitError != nil {
		fmt.Printf("Submitted: no (%v)\n", result.SubmitError)
	}

	if result.Verbose {
		fmt.Printf("\nAudit trail (%d events):\n", len(result.Audit))
		for _, event := range result.Audit {
			fmt.Printf("  %3d %s\n", event.Version(), event.Type())
		}
	} else {
		fmt.Printf("Audit events: %d\n", len(result.Audit))
	}

	return nil
}

func printPairRow(session *checkout.Session, name string, values checkout.PairValues) {
	fmt.Printf("%-9s %-14s %-6s %-14s %s\n",
		name,
		orDash(values.Quantity), unitSymbol(session, values.QuantityUnitID),
		orDash(values.Weight), unitSymbol(session, values.WeightUnitID))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func unitSymbol(session *checkout.Session, unitID int64) string {
	if unit, ok := session.Catalog().Unit(unitID); ok {
		return unit.Symbol
	}
	return "-"
}
