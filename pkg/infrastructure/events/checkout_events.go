package events

const (
	UnitCatalogLoadedEvent = "checkout.units.loaded"
	ProductSelectedEvent   = "checkout.product.selected"
	SequenceSelectedEvent  = "checkout.sequence.selected"
	FieldDerivedEvent      = "checkout.field.derived"
	CheckoutSubmittedEvent = "checkout.submitted"
	SubmissionFailedEvent  = "checkout.submission.failed"
)

type UnitCatalogLoaded struct {
	UnitCount int `json:"unit_count"`
}

type ProductSelected struct {
	ProductID       int64  `json:"product_id"`
	ItemName        string `json:"item_name"`
	ExtractedLength string `json:"extracted_length"`
}

type SequenceSelected struct {
	SequenceID int64 `json:"sequence_id"`
	StepCount  int   `json:"step_count"`
}

type FieldDerived struct {
	Pair  string `json:"pair"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type CheckoutSubmitted struct {
	ItemID    int64  `json:"item_id"`
	ModelType string `json:"model_type"`
	Slitting  bool   `json:"slitting"`
}

type SubmissionFailed struct {
	Message string `json:"message"`
}
