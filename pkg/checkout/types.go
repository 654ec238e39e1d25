package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitType classifies a measurement unit by physical dimension
type UnitType string

const (
	UnitNumber   UnitType = "NUMBER"
	UnitWeight   UnitType = "WEIGHT"
	UnitDistance UnitType = "DISTANCE"
)

// Unit is a single row of the unit master list. The set is loaded once per
// form session and never mutated afterwards.
type Unit struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Symbol string   `json:"symbol"`
	Type   UnitType `json:"type"`
}

// WeightClass distinguishes the base weight unit (kilograms) from the
// scaled one (tonnes, factor 1000)
type WeightClass int

const (
	WeightBase WeightClass = iota
	WeightScaled
)

// String method for WeightClass enum
func (c WeightClass) String() string {
	switch c {
	case WeightBase:
		return "Base"
	case WeightScaled:
		return "Scaled"
	default:
		return "Unknown"
	}
}

// ModelType identifies the kind of stock item being checked out
type ModelType string

const (
	ModelRawMaterial ModelType = "raw_material"
	ModelCoil        ModelType = "coil"
	ModelProduct     ModelType = "product"
)

// ItemMetadata describes the stock item a checkout session operates on.
// It is supplied by the inventory backend and read-only to the engine.
// Zero dimensions mean "not recorded"; geometry calculations involving
// them are skipped rather than failed.
type ItemMetadata struct {
	ID            int64           `json:"id"`
	ModelType     ModelType       `json:"model_type"`
	ItemName      string          `json:"item_name"`
	BlankSize     decimal.Decimal `json:"blank_size"`
	SlitSize      decimal.Decimal `json:"slit_size"`
	Thickness     decimal.Decimal `json:"thickness"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	UsedQuantity  decimal.Decimal `json:"used_quantity"`
	TotalWeight   decimal.Decimal `json:"total_weight"`
	UsedWeight    decimal.Decimal `json:"used_weight"`
}

// FieldPair names one of the three linked quantity/weight pairs
type FieldPair int

const (
	PairRaw FieldPair = iota
	PairProduct
	PairScrap
)

// String method for FieldPair enum
func (p FieldPair) String() string {
	switch p {
	case PairRaw:
		return "raw"
	case PairProduct:
		return "product"
	case PairScrap:
		return "scrap"
	default:
		return "Unknown"
	}
}

// PairState is the per-pair derivation guard. An edit arriving while the
// pair is Calculating is dropped to break the quantity<->weight update cycle.
type PairState int

const (
	PairIdle PairState = iota
	PairCalculating
)

// String method for PairState enum
func (s PairState) String() string {
	switch s {
	case PairIdle:
		return "Idle"
	case PairCalculating:
		return "Calculating"
	default:
		return "Unknown"
	}
}

// PairValues holds one quantity/weight tuple of the form. Values keep the
// exact strings shown in the form fields: user input is stored as entered,
// derived values as formatted by the engine.
type PairValues struct {
	Quantity       string
	QuantityUnitID int64
	Weight         string
	WeightUnitID   int64
}

// FormState is the mutable aggregate a checkout session owns. It is created
// fresh per session, mutated only through the derivation engine's handlers,
// and discarded after submission or close.
type FormState struct {
	Raw     PairValues
	Product PairValues
	Scrap   PairValues

	SelectedProductID  int64
	SelectedSequenceID int64
	SelectedStepID     int64

	CheckinRemarks  string
	CheckoutRemarks string
	CheckinDate     time.Time
	CheckoutDate    time.Time

	// Coil-only fields
	CustomTotalWeight       string
	CustomTotalWeightUnitID int64
	ExtractedLength         decimal.Decimal
	CoilForSlitting         bool
}

// Pair returns a pointer to the named tuple
func (s *FormState) Pair(p FieldPair) *PairValues {
	switch p {
	case PairRaw:
		return &s.Raw
	case PairProduct:
		return &s.Product
	default:
		return &s.Scrap
	}
}

// ProductRef is a downstream product offered for the item being checked out
type ProductRef struct {
	ID       int64  `json:"id"`
	ItemName string `json:"item_name"`
}

// Sequence is a process sequence defined for a product
type Sequence struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Step is a single process step within a sequence
type Step struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FieldChange reports one applied mutation so callers can keep an audit
// trail of how the form reached its current state
type FieldChange struct {
	Pair  FieldPair
	Field string
	Value string
}
