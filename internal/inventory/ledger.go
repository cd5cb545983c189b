package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hariansyahfajrin/mart-api/internal/catalog"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Item struct {
	ProductID string
	Quantity  int
}

// ProductStore is the slice of the catalog the ledger needs.
type ProductStore interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
	SetQuantity(ctx context.Context, id string, qty int) error
}

// Ledger keeps product stock counts consistent with outstanding order demand.
type Ledger struct {
	Products ProductStore
	Log      *zap.Logger
}

// Reserve decrements stock for every line item. Lines referencing the same
// product are summed, and every product is validated against its total
// demand before any quantity is written, so a failing item never leaves
// earlier items half-applied.
func (l *Ledger) Reserve(ctx context.Context, items []Item) error {
	demand := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := demand[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		demand[it.ProductID] += it.Quantity
	}

	loaded := make(map[string]*catalog.Product, len(order))
	for _, id := range order {
		p, err := l.Products.Get(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrProductNotFound, id)
			}
			return fmt.Errorf("load product %s: %w", id, err)
		}
		if p.Quantity < demand[id] {
			return fmt.Errorf("%w: product %s has %d, need %d",
				ErrInsufficientStock, id, p.Quantity, demand[id])
		}
		loaded[id] = p
	}

	for _, id := range order {
		if err := l.Products.SetQuantity(ctx, id, loaded[id].Quantity-demand[id]); err != nil {
			return fmt.Errorf("decrement product %s: %w", id, err)
		}
	}
	return nil
}

// Release increments stock for every line item. Products that no longer
// exist are skipped.
func (l *Ledger) Release(ctx context.Context, items []Item) error {
	for _, it := range items {
		p, err := l.Products.Get(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				l.Log.Warn("release: product gone, skipping",
					zap.String("product_id", it.ProductID), zap.Int("qty", it.Quantity))
				continue
			}
			return fmt.Errorf("load product %s: %w", it.ProductID, err)
		}
		if err := l.Products.SetQuantity(ctx, it.ProductID, p.Quantity+it.Quantity); err != nil {
			return fmt.Errorf("increment product %s: %w", it.ProductID, err)
		}
	}
	return nil
}
