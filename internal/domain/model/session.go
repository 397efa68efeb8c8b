package model

import (
	"fmt"
	"strconv"
	"time"
)

// NewShipmentID is the shipment segment used before a shipment is saved.
const NewShipmentID = "new"

// UnpackagedArea is the container id of the unpackaged pool in the builder.
const UnpackagedArea = "shipment-item-area"

// SessionKey scopes a builder session to an order, a shipment and the acting user.
type SessionKey struct {
	OrderID    string
	ShipmentID string
	UserID     string
}

// Collection returns the transient store collection for the key.
func (k SessionKey) Collection() string {
	shipmentID := k.ShipmentID
	if shipmentID == "" {
		shipmentID = NewShipmentID
	}
	return "shipment_builder.order." + k.OrderID + ".shipment." + shipmentID
}

// Name returns the per-user entry name within the collection.
func (k SessionKey) Name() string {
	return "user." + k.UserID
}

// String implements fmt.Stringer.
func (k SessionKey) String() string {
	return k.Collection() + "/" + k.Name()
}

// IsNew reports whether the session edits a shipment that does not exist yet.
func (k SessionKey) IsNew() bool {
	return k.ShipmentID == "" || k.ShipmentID == NewShipmentID
}

// BuilderSession is the staged state of an interactive packaging edit. The
// unpackaged pool is Shipment.Data.UnpackagedItems and Packages is the only
// package list; Shipment.Packages stays empty while the session is open.
type BuilderSession struct {
	OrderID    string     `json:"order_id"`
	ShipmentID string     `json:"shipment_id"`
	UserID     string     `json:"user_id"`
	Shipment   *Shipment  `json:"shipment"`
	Packages   []*Package `json:"packages"`
	Version    int64      `json:"version"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Container identifies either the unpackaged pool or a package by index.
type Container struct {
	Pool  bool
	Index int
}

// ParseContainer parses a move endpoint segment.
func ParseContainer(segment string) (Container, error) {
	if segment == UnpackagedArea {
		return Container{Pool: true}, nil
	}
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return Container{}, fmt.Errorf("%w: container %q", ErrInvalidArgument, segment)
	}
	return Container{Index: idx}, nil
}

// Unpackaged returns the pool contents.
func (s *BuilderSession) Unpackaged() []ShipmentItem {
	return s.Shipment.Data.UnpackagedItems
}

// Package returns the package at index.
func (s *BuilderSession) Package(index int) (*Package, error) {
	if index < 0 || index >= len(s.Packages) {
		return nil, fmt.Errorf("%w: package index %d", ErrNotFound, index)
	}
	return s.Packages[index], nil
}

// take removes the item addressed by key from c.
func (s *BuilderSession) take(c Container, key string) (ShipmentItem, error) {
	if c.Pool {
		pool := s.Shipment.Data.UnpackagedItems
		idx := indexOfItem(pool, key)
		if idx < 0 {
			return ShipmentItem{}, fmt.Errorf("%w: item %s in unpackaged items", ErrNotFound, key)
		}
		item := pool[idx]
		rest := make([]ShipmentItem, 0, len(pool)-1)
		rest = append(rest, pool[:idx]...)
		rest = append(rest, pool[idx+1:]...)
		s.Shipment.SetUnpackagedItems(rest)
		return item, nil
	}
	pkg, err := s.Package(c.Index)
	if err != nil {
		return ShipmentItem{}, err
	}
	return pkg.RemoveItem(key)
}

// put adds item to c.
func (s *BuilderSession) put(c Container, item ShipmentItem) error {
	if c.Pool {
		s.Shipment.SetUnpackagedItems(append(cloneItems(s.Shipment.Data.UnpackagedItems), item))
		return nil
	}
	pkg, err := s.Package(c.Index)
	if err != nil {
		return err
	}
	return pkg.AddItem(item)
}

// MoveItem moves one item between containers. Both affected packages are
// recomputed. On error the session may be partially modified and must be
// discarded by the caller.
func (s *BuilderSession) MoveItem(key string, from, to Container) error {
	if !to.Pool {
		if _, err := s.Package(to.Index); err != nil {
			return err
		}
	}
	if from == to {
		if from.Pool {
			if indexOfItem(s.Shipment.Data.UnpackagedItems, key) < 0 {
				return fmt.Errorf("%w: item %s in unpackaged items", ErrNotFound, key)
			}
			return nil
		}
		pkg, err := s.Package(from.Index)
		if err != nil {
			return err
		}
		if !pkg.HasItem(key) {
			return fmt.Errorf("%w: item %s in package %d", ErrNotFound, key, from.Index)
		}
		return nil
	}
	item, err := s.take(from, key)
	if err != nil {
		return err
	}
	return s.put(to, item)
}

// AddPackage appends an empty package.
func (s *BuilderSession) AddPackage(pkg *Package) {
	pkg.ShipmentID = s.Shipment.ID
	s.Packages = append(s.Packages, pkg)
}

// RemovePackage drops the package at index and returns its items to the pool.
func (s *BuilderSession) RemovePackage(index int) (*Package, error) {
	pkg, err := s.Package(index)
	if err != nil {
		return nil, err
	}
	if len(pkg.Items) > 0 {
		s.Shipment.SetUnpackagedItems(append(cloneItems(s.Shipment.Data.UnpackagedItems), pkg.Items...))
	}
	rest := make([]*Package, 0, len(s.Packages)-1)
	rest = append(rest, s.Packages[:index]...)
	rest = append(rest, s.Packages[index+1:]...)
	s.Packages = rest
	return pkg, nil
}

// PackagedItems returns every item currently placed in a package.
func (s *BuilderSession) PackagedItems() []ShipmentItem {
	var items []ShipmentItem
	for _, pkg := range s.Packages {
		items = append(items, pkg.Items...)
	}
	return items
}
