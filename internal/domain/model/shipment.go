package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultShipmentType is the shipment bundle used when none is given.
const DefaultShipmentType = "default"

// Shipment states.
const (
	ShipmentStateDraft    = "draft"
	ShipmentStateReady    = "ready"
	ShipmentStateShipped  = "shipped"
	ShipmentStateCanceled = "canceled"
)

// ShipmentData holds the packaging work state of a shipment.
//
// UnpackagedItems is nil until first seeded; an empty, non-nil slice means
// every item is packaged.
type ShipmentData struct {
	UnpackagedItems []ShipmentItem         `json:"unpackaged_items" bson:"unpackaged_items"`
	PackagedItems   []ShipmentItem         `json:"packaged_items,omitempty" bson:"packaged_items,omitempty"`
	NeedsRepackage  bool                   `json:"needs_repackage" bson:"needs_repackage"`
	Extra           map[string]interface{} `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Shipment is the aggregate root for one order's shipment. Packages are
// hydrated by the service layer and persisted separately; PackageIDs is the
// persisted reference list.
type Shipment struct {
	ID               string         `json:"id" bson:"_id"`
	OrderID          string         `json:"order_id" bson:"order_id"`
	Type             string         `json:"type" bson:"type"`
	Title            string         `json:"title" bson:"title"`
	Items            []ShipmentItem `json:"items" bson:"items"`
	Packages         []*Package     `json:"packages" bson:"-"`
	PackageIDs       []string       `json:"package_ids" bson:"package_ids"`
	PackageType      *PackageType   `json:"package_type,omitempty" bson:"package_type,omitempty"`
	ShippingMethodID string         `json:"shipping_method_id,omitempty" bson:"shipping_method_id,omitempty"`
	ShippingService  string         `json:"shipping_service,omitempty" bson:"shipping_service,omitempty"`
	Amount           *Money         `json:"amount" bson:"amount"`
	Weight           *Weight        `json:"weight" bson:"weight"`
	TrackingCode     string         `json:"tracking_code,omitempty" bson:"tracking_code,omitempty"`
	State            string         `json:"state" bson:"state"`
	Data             ShipmentData   `json:"data" bson:"data"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// ProposedShipment is what the order side proposes before a shipment exists.
type ProposedShipment struct {
	OrderID          string
	Type             string
	Title            string
	Items            []ShipmentItem
	PackageTypeID    string
	ShippingMethodID string
}

// NewShipment creates an empty draft shipment for orderID.
func NewShipment(orderID, shipmentType string) *Shipment {
	if shipmentType == "" {
		shipmentType = DefaultShipmentType
	}
	now := time.Now().UTC()
	return &Shipment{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		Type:       shipmentType,
		Items:      []ShipmentItem{},
		Packages:   []*Package{},
		PackageIDs: []string{},
		State:      ShipmentStateDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PopulateFromProposed copies the proposal onto the shipment. packageType is
// the resolved proposal package type and may be nil.
func (s *Shipment) PopulateFromProposed(p ProposedShipment, packageType *PackageType) error {
	proposedType := p.Type
	if proposedType == "" {
		proposedType = DefaultShipmentType
	}
	if proposedType != s.Type {
		return fmt.Errorf("%w: proposed shipment type %q does not match shipment type %q", ErrInvalidArgument, proposedType, s.Type)
	}
	s.OrderID = p.OrderID
	s.Title = p.Title
	s.ShippingMethodID = p.ShippingMethodID
	s.PackageType = packageType
	return s.SetItems(p.Items)
}

// Validate enforces the fields required before a shipment can be saved.
func (s *Shipment) Validate() error {
	if s.OrderID == "" {
		return fmt.Errorf("%w: shipment requires an order id", ErrValidation)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: shipment requires at least one item", ErrValidation)
	}
	return nil
}

// SetItems replaces the items and recomputes weight and amount. The
// unpackaged pool is seeded the first time items become non-empty.
func (s *Shipment) SetItems(items []ShipmentItem) error {
	weight, value, err := sumItems(items)
	if err != nil {
		return err
	}
	if weight, err = addTare(weight, s.PackageType); err != nil {
		return err
	}
	if items == nil {
		items = []ShipmentItem{}
	}
	s.Items = items
	s.Weight = weight
	if s.ShippingService == "" {
		s.Amount = value
	}
	if s.Data.UnpackagedItems == nil && len(items) > 0 {
		s.Data.UnpackagedItems = cloneItems(items)
	}
	s.touch()
	return nil
}

// AddItem appends an item and recomputes aggregates.
func (s *Shipment) AddItem(item ShipmentItem) error {
	return s.SetItems(append(cloneItems(s.Items), item))
}

// RemoveItem removes the item addressed by key and recomputes aggregates.
func (s *Shipment) RemoveItem(key string) (ShipmentItem, error) {
	idx := indexOfItem(s.Items, key)
	if idx < 0 {
		return ShipmentItem{}, fmt.Errorf("%w: item %s in shipment %s", ErrNotFound, key, s.ID)
	}
	removed := s.Items[idx]
	items := make([]ShipmentItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	if err := s.SetItems(items); err != nil {
		return ShipmentItem{}, err
	}
	return removed, nil
}

// Recalculate recomputes weight and amount from the current items.
func (s *Shipment) Recalculate() error {
	return s.SetItems(s.Items)
}

// SetPackageType sets the shipment-level package type and recomputes weight.
func (s *Shipment) SetPackageType(pt PackageType) error {
	previous := s.PackageType
	s.PackageType = &pt
	if err := s.Recalculate(); err != nil {
		s.PackageType = previous
		return err
	}
	return nil
}

// TotalDeclaredValue sums the declared value of every item.
func (s *Shipment) TotalDeclaredValue() (*Money, error) {
	_, value, err := sumItems(s.Items)
	return value, err
}

// AddPackage attaches pkg to the shipment.
func (s *Shipment) AddPackage(pkg *Package) {
	pkg.ShipmentID = s.ID
	s.Packages = append(s.Packages, pkg)
	s.PackageIDs = append(s.PackageIDs, pkg.ID)
	s.touch()
}

// SetPackages replaces the attached packages.
func (s *Shipment) SetPackages(packages []*Package) {
	s.Packages = make([]*Package, 0, len(packages))
	s.PackageIDs = make([]string, 0, len(packages))
	for _, pkg := range packages {
		pkg.ShipmentID = s.ID
		s.Packages = append(s.Packages, pkg)
		s.PackageIDs = append(s.PackageIDs, pkg.ID)
	}
	s.touch()
}

// HasPackages reports whether any package references exist.
func (s *Shipment) HasPackages() bool {
	return len(s.PackageIDs) > 0 || len(s.Packages) > 0
}

// HasOrderItem reports whether any item belongs to orderItemID.
func (s *Shipment) HasOrderItem(orderItemID string) bool {
	for _, item := range s.Items {
		if item.OrderItemID == orderItemID {
			return true
		}
	}
	return false
}

// SetUnpackagedItems replaces the packaging work queue.
func (s *Shipment) SetUnpackagedItems(items []ShipmentItem) {
	if items == nil {
		items = []ShipmentItem{}
	}
	s.Data.UnpackagedItems = items
}

// AppendPackagedItems records items that were placed into packages.
func (s *Shipment) AppendPackagedItems(items ...ShipmentItem) {
	s.Data.PackagedItems = append(s.Data.PackagedItems, items...)
}

// SeedUnpackagedItems fills the work queue from items when it was never seeded.
func (s *Shipment) SeedUnpackagedItems() {
	if s.Data.UnpackagedItems == nil {
		s.Data.UnpackagedItems = cloneItems(s.Items)
	}
}

// ResetPackagingData drops every package and makes all items unpackaged
// again. It returns the dropped package ids so the caller can delete them.
func (s *Shipment) ResetPackagingData() []string {
	removed := append([]string(nil), s.PackageIDs...)
	for _, pkg := range s.Packages {
		if !containsString(removed, pkg.ID) {
			removed = append(removed, pkg.ID)
		}
	}
	s.Packages = []*Package{}
	s.PackageIDs = []string{}
	s.Data.UnpackagedItems = cloneItems(s.Items)
	if s.Data.UnpackagedItems == nil {
		s.Data.UnpackagedItems = []ShipmentItem{}
	}
	s.Data.PackagedItems = nil
	s.Data.NeedsRepackage = false
	s.touch()
	return removed
}

// SelectRate applies a rate: the service id and its amount.
func (s *Shipment) SelectRate(rate ShippingRate) {
	s.ShippingMethodID = rate.ShippingMethodID
	s.ShippingService = rate.Service.ID
	amount := rate.Amount
	s.Amount = &amount
	s.touch()
}

// Clone returns a deep copy, including hydrated packages.
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = cloneItems(s.Items)
	if s.PackageIDs != nil {
		c.PackageIDs = append(make([]string, 0, len(s.PackageIDs)), s.PackageIDs...)
	}
	if s.Packages != nil {
		c.Packages = make([]*Package, len(s.Packages))
		for i, pkg := range s.Packages {
			c.Packages[i] = pkg.Clone()
		}
	}
	if s.PackageType != nil {
		pt := *s.PackageType
		c.PackageType = &pt
	}
	if s.Amount != nil {
		a := *s.Amount
		c.Amount = &a
	}
	if s.Weight != nil {
		w := *s.Weight
		c.Weight = &w
	}
	c.Data.UnpackagedItems = cloneItems(s.Data.UnpackagedItems)
	c.Data.PackagedItems = cloneItems(s.Data.PackagedItems)
	if s.Data.Extra != nil {
		c.Data.Extra = make(map[string]interface{}, len(s.Data.Extra))
		for k, v := range s.Data.Extra {
			c.Data.Extra[k] = v
		}
	}
	return &c
}

func (s *Shipment) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
