// Package model defines the domain entities of the shipment packaging service.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types recorded for shipments and builder sessions.
const (
	ActionShipmentCreated   = "shipment_created"
	ActionShipmentPackaged  = "shipment_packaged"
	ActionShipmentItems     = "shipment_items_updated"
	ActionShipmentDeleted   = "shipment_deleted"
	ActionNeedsRepackage    = "shipment_needs_repackage"
	ActionRateSelected      = "rate_selected"
	ActionBuilderOpened     = "builder_opened"
	ActionBuilderMove       = "builder_move"
	ActionBuilderAddPackage = "builder_add_package"
	ActionBuilderRemove     = "builder_remove_package"
	ActionBuilderCommitted  = "builder_committed"
	ActionBuilderDiscarded  = "builder_discarded"
)

// LogEntry is one stored line of the audit trail: either an HTTP request
// or a domain action. Fields holds action specific values.
type LogEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path       string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	UserID     string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	OrderID    string                 `bson:"order_id,omitempty" json:"order_id,omitempty"`
	ShipmentID string                 `bson:"shipment_id,omitempty" json:"shipment_id,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// LogQueryOptions narrows a trail query. Zero values match everything.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	ActionType string
	OrderID    string
	ShipmentID string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// LogPage is a window of a query plus the count of all matching entries.
type LogPage struct {
	Entries []LogEntry `json:"entries"`
	Total   int64      `json:"total"`
}
