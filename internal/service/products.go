package service

import (
	"context"
	"fmt"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// CatalogProductLookup resolves products from the static catalog by the
// purchased entity id of an item.
type CatalogProductLookup struct {
	products map[string]model.Product
}

// NewCatalogProductLookup indexes products by id.
func NewCatalogProductLookup(products []model.Product) (*CatalogProductLookup, error) {
	index := make(map[string]model.Product, len(products))
	for _, product := range products {
		if _, dup := index[product.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", model.ErrValidation, product.ID)
		}
		if err := model.ValidateRules(product.Packaging); err != nil {
			return nil, fmt.Errorf("product %s: %w", product.ID, err)
		}
		index[product.ID] = product
	}
	return &CatalogProductLookup{products: index}, nil
}

// PurchasedEntity implements ProductLookup.
func (l *CatalogProductLookup) PurchasedEntity(ctx context.Context, item model.ShipmentItem) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	product, ok := l.products[item.PurchasedEntityID]
	if !ok {
		return nil, nil
	}
	product.Packaging = append([]model.PackagingRule(nil), product.Packaging...)
	return &product, nil
}
