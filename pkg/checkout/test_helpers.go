package checkout

import (
	"github.com/shopspring/decimal"
)

// NewTestCatalog creates a unit catalog with the standard master-list rows
// used across tests
func NewTestCatalog() *UnitCatalog {
	return NewUnitCatalog([]Unit{
		{ID: 1, Name: "Pieces", Symbol: "Pcs", Type: UnitNumber},
		{ID: 2, Name: "Kilograms", Symbol: "Kg", Type: UnitWeight},
		{ID: 3, Name: "Tonnes", Symbol: "T", Type: UnitWeight},
		{ID: 4, Name: "Millimeters", Symbol: "mm", Type: UnitDistance},
	})
}

// NewTestRawMaterial creates a raw-material item whose blank volume is
// exactly 0.001 m³ (1000 x 100 x 10 mm), so one unit weighs 7.865 kg
func NewTestRawMaterial() ItemMetadata {
	return ItemMetadata{
		ID:        101,
		ModelType: ModelRawMaterial,
		ItemName:  "CR-SHEET-1000",
		BlankSize: decimal.NewFromInt(1000),
		SlitSize:  decimal.NewFromInt(100),
		Thickness: decimal.NewFromInt(10),
	}
}

// NewTestCoil creates a coil item with slit and thickness recorded but no
// blank size; coil weight derivation depends on a custom total weight or an
// extracted product length
func NewTestCoil() ItemMetadata {
	return ItemMetadata{
		ID:        202,
		ModelType: ModelCoil,
		ItemName:  "HR-COIL-2MM",
		SlitSize:  decimal.NewFromInt(100),
		Thickness: decimal.NewFromInt(10),
	}
}
