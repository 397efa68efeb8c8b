package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// AuditEvent is a shipment or builder action recorded in the shipment history.
type AuditEvent struct {
	Action     string
	Message    string
	OrderID    string
	ShipmentID string
	Err        error
	Fields     map[string]interface{}
}

// Audit queues ev for the history of its shipment, stamped with the request
// and the acting user. A nil logger drops it.
func Audit(al *AsyncLogger, c *gin.Context, ev AuditEvent) {
	if al == nil {
		return
	}

	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      "info",
		Message:    ev.Message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		UserID:     GetUserID(c),
		ActionType: ev.Action,
		OrderID:    ev.OrderID,
		ShipmentID: ev.ShipmentID,
		Fields:     ev.Fields,
	}
	if ev.Err != nil {
		entry.Level = "error"
		entry.Error = ev.Err.Error()
	}
	al.Log(entry)
}
