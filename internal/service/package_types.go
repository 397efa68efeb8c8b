package service

import (
	"fmt"
	"sort"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// PackageTypeManager is the read-only registry of package types. It is built
// once at startup and safe for concurrent use.
type PackageTypeManager struct {
	types map[string]model.PackageType
	order []string
}

// NewPackageTypeManager builds the registry. The built-in custom box is added
// when types does not define it.
func NewPackageTypeManager(types []model.PackageType) (*PackageTypeManager, error) {
	m := &PackageTypeManager{types: make(map[string]model.PackageType, len(types)+1)}
	for _, pt := range types {
		if pt.ID == "" {
			return nil, fmt.Errorf("%w: package type without id", model.ErrValidation)
		}
		if _, dup := m.types[pt.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate package type %q", model.ErrValidation, pt.ID)
		}
		pt.ShippingMethods = append([]string(nil), pt.ShippingMethods...)
		m.types[pt.ID] = pt
		m.order = append(m.order, pt.ID)
	}
	if _, ok := m.types[model.DefaultPackageTypeID]; !ok {
		m.types[model.DefaultPackageTypeID] = model.DefaultPackageType()
		m.order = append(m.order, model.DefaultPackageTypeID)
	}
	return m, nil
}

// GetDefinitions returns the definition of every package type keyed by id.
func (m *PackageTypeManager) GetDefinitions() map[string]model.PackageTypeDefinition {
	defs := make(map[string]model.PackageTypeDefinition, len(m.types))
	for id, pt := range m.types {
		defs[id] = pt.Definition()
	}
	return defs
}

// GetDefinitionsByShippingMethod returns the definitions available to methodID.
func (m *PackageTypeManager) GetDefinitionsByShippingMethod(methodID string) map[string]model.PackageTypeDefinition {
	defs := make(map[string]model.PackageTypeDefinition)
	for id, pt := range m.types {
		if pt.AvailableFor(methodID) {
			defs[id] = pt.Definition()
		}
	}
	return defs
}

// CreateInstance returns a copy of the package type with the given id.
func (m *PackageTypeManager) CreateInstance(id string) (model.PackageType, error) {
	pt, ok := m.types[id]
	if !ok {
		return model.PackageType{}, fmt.Errorf("%w: package type %q", model.ErrNotFound, id)
	}
	pt.ShippingMethods = append([]string(nil), pt.ShippingMethods...)
	return pt, nil
}

// List returns every package type in configuration order.
func (m *PackageTypeManager) List() []model.PackageType {
	out := make([]model.PackageType, 0, len(m.order))
	for _, id := range m.order {
		pt, _ := m.CreateInstance(id)
		out = append(out, pt)
	}
	return out
}

// IDs returns the sorted package type ids.
func (m *PackageTypeManager) IDs() []string {
	ids := append([]string(nil), m.order...)
	sort.Strings(ids)
	return ids
}
