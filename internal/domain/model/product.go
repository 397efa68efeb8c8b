package model

import (
	"fmt"
	"sort"
)

// PackagingRule packs between Min and Max units of a product into one
// package of PackageTypeID.
type PackagingRule struct {
	PackageTypeID string `json:"package_type" example:"big_box"`
	Min           int    `json:"min" example:"10"`
	Max           int    `json:"max" example:"20"`
}

// Validate checks a single rule.
func (r PackagingRule) Validate() error {
	if r.PackageTypeID == "" {
		return fmt.Errorf("%w: packaging rule requires a package type", ErrValidation)
	}
	if r.Min < 1 {
		return fmt.Errorf("%w: packaging rule minimum must be at least 1, got %d", ErrValidation, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: packaging rule minimum %d is greater than maximum %d", ErrValidation, r.Min, r.Max)
	}
	return nil
}

// ValidateRules validates every rule.
func ValidateRules(rules []PackagingRule) error {
	for idx, rule := range rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", idx, err)
		}
	}
	return nil
}

// SortRules returns a copy ordered by Max, largest first. Equal maxima keep
// their configured order.
func SortRules(rules []PackagingRule) []PackagingRule {
	sorted := make([]PackagingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Max > sorted[j].Max
	})
	return sorted
}

// Product is the purchasable entity a shipment item refers to.
type Product struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku,omitempty"`
	Title     string          `json:"title"`
	Price     Money           `json:"price"`
	Weight    *Weight         `json:"weight,omitempty"`
	Packaging []PackagingRule `json:"packaging,omitempty"`
}

// Packageable reports whether rule-based packaging can handle the product.
func (p *Product) Packageable() bool {
	return p != nil && p.Weight != nil && len(p.Packaging) > 0
}
