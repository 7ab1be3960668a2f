// Package pricing fans out customer-specific price lookups against the
// backend price calculation endpoint.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

const (
	maxProducts = 20

	// maxInFlight caps concurrent upstream price calls per request.
	maxInFlight = 10
)

type priceClient interface {
	FinalPrice(ctx context.Context, adminToken string, productID, customerID int64, q nopapi.PriceQuery) (float64, error)
}

type adminTokenSource interface {
	AdminToken(ctx context.Context) (string, error)
}

// Options mirrors the optional parameters of the upstream price calculation.
type Options struct {
	Quantity         int
	IncludeDiscounts bool
	AdditionalCharge float64
}

// Fetcher resolves final prices for batches of products.
type Fetcher struct {
	client priceClient
	creds  adminTokenSource
}

func NewFetcher(client priceClient, creds adminTokenSource) *Fetcher {
	return &Fetcher{client: client, creds: creds}
}

// Prices fetches the final price of each product for one customer. Lookups
// run concurrently; a failed lookup lands in the failures map without
// touching its siblings. Every requested id appears in exactly one of the
// two maps. Only acquiring the admin token fails the call as a whole.
func (f *Fetcher) Prices(ctx context.Context, customerID int64, productIDs []int64, opts Options) (map[int64]float64, map[int64]string, error) {
	if len(productIDs) == 0 {
		return nil, nil, model.NewValidationError("product_ids", "at least one product id required")
	}
	if len(productIDs) > maxProducts {
		return nil, nil, model.NewValidationError("product_ids", fmt.Sprintf("at most %d product ids per request", maxProducts))
	}
	if opts.Quantity < 1 {
		opts.Quantity = 1
	}

	token, err := f.creds.AdminToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	q := nopapi.PriceQuery{
		Quantity:         opts.Quantity,
		IncludeDiscounts: opts.IncludeDiscounts,
		AdditionalCharge: opts.AdditionalCharge,
	}

	prices := make(map[int64]float64, len(productIDs))
	failures := make(map[int64]string)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			price, err := f.client.FinalPrice(ctx, token, id, customerID, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Isolated: one bad product never sinks the batch.
				slog.Warn("price lookup failed", "product_id", id, "error", err)
				failures[id] = err.Error()
				return nil
			}
			prices[id] = model.RoundAmount(price)
			return nil
		})
	}
	g.Wait()

	return prices, failures, nil
}
