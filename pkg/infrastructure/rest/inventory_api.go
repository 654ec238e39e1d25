package rest

import (
	"context"
	"fmt"

	"github.com/steeltrace/stockout/pkg/checkout"
)

// FetchUnits loads the unit master list
func (c *Client) FetchUnits(ctx context.Context) ([]checkout.Unit, error) {
	var units []checkout.Unit
	if err := c.Get(ctx, "/master/units/", &units); err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}
	return units, nil
}

// SearchProducts returns the downstream products available for the item
// being checked out
func (c *Client) SearchProducts(ctx context.Context, item checkout.ItemMetadata) ([]checkout.ProductRef, error) {
	endpoint := fmt.Sprintf("/inventory/search/products/?q=&%s=%d&is_dropdown=true",
		itemParam(item), item.ID)

	var products []checkout.ProductRef
	if err := c.Get(ctx, endpoint, &products); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetSequences returns the process sequences defined for a product on the
// given source item
func (c *Client) GetSequences(ctx context.Context, productID int64, item checkout.ItemMetadata) ([]checkout.Sequence, error) {
	endpoint := fmt.Sprintf("/process/get/sequence/?id=%d&%s=%d",
		productID, itemParam(item), item.ID)

	var data struct {
		Sequences []checkout.Sequence `json:"sequences"`
	}
	if err := c.Get(ctx, endpoint, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch sequences: %w", err)
	}
	return data.Sequences, nil
}

// GetSteps returns the steps of a process sequence
func (c *Client) GetSteps(ctx context.Context, sequenceID int64) ([]checkout.Step, error) {
	endpoint := fmt.Sprintf("/process/get/steps/?id=%d", sequenceID)

	var data struct {
		Steps []checkout.Step `json:"steps"`
	}
	if err := c.Get(ctx, endpoint, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch steps: %w", err)
	}
	return data.Steps, nil
}

// SimpleStockOut posts a stock-out transaction
func (c *Client) SimpleStockOut(ctx context.Context, req checkout.StockOutRequest) error {
	if _, err := c.Post(ctx, "/inventory/simple-stock-out/", req, nil); err != nil {
		return err
	}
	return nil
}

// ProductCheckout posts a finished-product checkout and returns the
// backend's success message
func (c *Client) ProductCheckout(ctx context.Context, req checkout.ProductCheckoutRequest) (string, error) {
	return c.Post(ctx, "/inventory/product/checkout/", req, nil)
}

// itemParam selects the query parameter keyed by the item's model type
func itemParam(item checkout.ItemMetadata) string {
	if item.ModelType == checkout.ModelCoil {
		return "coil_id"
	}
	return "raw_material_id"
}
