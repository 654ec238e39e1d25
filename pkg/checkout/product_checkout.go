package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ProductCheckoutRequest is the wire envelope for a finished-product checkout
type ProductCheckoutRequest struct {
	ProductCheckoutData ProductCheckoutData `json:"product_checkout_data"`
}

// ProductCheckoutData is the payload of the finished-product checkout flow,
// the simpler sibling of the stock-out transaction with no raw or scrap
// derivation
type ProductCheckoutData struct {
	ProductID       int64   `json:"product_id"`
	Quantity        float64 `json:"quantity"`
	Weight          float64 `json:"weight"`
	QuantityUnitID  *int64  `json:"quantity_unit_id"`
	WeightUnitID    *int64  `json:"weight_unit_id"`
	CheckoutDate    string  `json:"checkout_date"`
	CheckoutRemarks string  `json:"checkout_remarks"`
}

// ProductCheckoutAPI posts finished-product checkouts. The returned string
// is the backend's success message.
type ProductCheckoutAPI interface {
	ProductCheckout(ctx context.Context, req ProductCheckoutRequest) (string, error)
}

// ProductSubmission drives the finished-product checkout with the same
// at-most-once latch as the stock-out adapter
type ProductSubmission struct {
	api       ProductCheckoutAPI
	onSuccess func()

	mu             sync.Mutex
	state          SubmissionState
	lastError      string
	successMessage string
}

// NewProductSubmission creates a product checkout submitter. onSuccess may
// be nil.
func NewProductSubmission(api ProductCheckoutAPI, onSuccess func()) *ProductSubmission {
	return &ProductSubmission{api: api, onSuccess: onSuccess}
}

// State reports the latch state
func (p *ProductSubmission) State() SubmissionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastError returns the stored message of the last failed attempt
func (p *ProductSubmission) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// SuccessMessage returns the backend's message from a successful attempt
func (p *ProductSubmission) SuccessMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.successMessage
}

// Reset re-arms the latch and clears the stored messages
func (p *ProductSubmission) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = SubmissionIdle
	p.lastError = ""
	p.successMessage = ""
}

// Submit checks out a finished product, reading the product pair, checkout
// date and remarks from the form state
func (p *ProductSubmission) Submit(ctx context.Context, product ProductRef, state *FormState) error {
	p.mu.Lock()
	if p.state != SubmissionIdle {
		p.mu.Unlock()
		return ErrAlreadySubmitted
	}
	p.state = SubmissionInFlight
	p.mu.Unlock()

	checkoutDate := state.CheckoutDate
	if checkoutDate.IsZero() {
		checkoutDate = time.Now()
	}

	req := ProductCheckoutRequest{
		ProductCheckoutData: ProductCheckoutData{
			ProductID:       product.ID,
			Quantity:        amountFloat(state.Product.Quantity),
			Weight:          amountFloat(state.Product.Weight),
			QuantityUnitID:  optionalID(state.Product.QuantityUnitID),
			WeightUnitID:    optionalID(state.Product.WeightUnitID),
			CheckoutDate:    checkoutDate.Format("2006-01-02"),
			CheckoutRemarks: state.CheckoutRemarks,
		},
	}

	message, err := p.api.ProductCheckout(ctx, req)

	p.mu.Lock()
	if err != nil {
		// Unlike the stock-out latch, a failed product checkout stays
		// retryable
		p.state = SubmissionIdle
		p.lastError = err.Error()
	} else {
		p.state = SubmissionConsumed
		p.successMessage = message
	}
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to checkout product: %w", err)
	}
	if p.onSuccess != nil {
		p.onSuccess()
	}
	return nil
}

// optionalID maps an unset unit selector to a JSON null
func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
