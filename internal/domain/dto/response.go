package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// Machine-readable error codes carried in ErrorResponse.Error.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeConflict       = "conflict"
	ErrCodeTimeout        = "timeout"
	// ErrCodeUnavailable is returned while a store breaker is open.
	ErrCodeUnavailable = "service_unavailable"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:          ErrCodeInvalidRequest,
	http.StatusUnauthorized:        ErrCodeUnauthorized,
	http.StatusForbidden:           ErrCodeForbidden,
	http.StatusNotFound:            ErrCodeNotFound,
	http.StatusRequestTimeout:      ErrCodeTimeout,
	http.StatusConflict:            ErrCodeConflict,
	http.StatusTooManyRequests:     ErrCodeRateLimit,
	http.StatusServiceUnavailable:  ErrCodeUnavailable,
	http.StatusGatewayTimeout:      ErrCodeTimeout,
	http.StatusUnprocessableEntity: ErrCodeInvalidRequest,
}

// SuccessResponse is the envelope of every 2xx body.
// @Description Envelope of a successful call
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"3f7c2a9e-5d1b-4c8e-9a0f-1b2c3d4e5f60"`
	Timestamp time.Time   `json:"timestamp" example:"2026-02-09T08:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the envelope of every error body.
// @Description Envelope of a failed call
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"quantity must be positive"`
	// Details maps a field path to what it failed on.
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"3f7c2a9e-5d1b-4c8e-9a0f-1b2c3d4e5f60"`
	Timestamp time.Time         `json:"timestamp" example:"2026-02-09T08:00:00Z"`
} // @name ErrorResponse

// NewError stamps an error body with the current UTC time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID returns a copy tagged with requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetails returns a copy carrying details. Empty maps are dropped.
func (e ErrorResponse) WithDetails(details map[string]string) ErrorResponse {
	if len(details) > 0 {
		e.Details = details
	}
	return e
}

// ErrCodeFromStatus maps an HTTP status to its error code. Unmapped
// statuses are reported as internal errors.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// PackagerResponse describes an enabled packager of a shipping method.
type PackagerResponse struct {
	ID    string `json:"id" example:"all_in_one"`
	Label string `json:"label" example:"Default: All items in one package"`
} // @name PackagerResponse

// ShippingMethodResponse describes a configured shipping method.
type ShippingMethodResponse struct {
	ID                 string                  `json:"id" example:"flat_rate"`
	Label              string                  `json:"label" example:"Flat rate"`
	DefaultPackageType string                  `json:"default_package_type" example:"custom_box"`
	Services           []model.ShippingService `json:"services"`
	Packagers          []PackagerResponse      `json:"packagers"`
} // @name ShippingMethodResponse

// RepackageMarkResponse reports how many shipments were flagged.
type RepackageMarkResponse struct {
	Shipments int `json:"shipments" example:"1"`
} // @name RepackageMarkResponse

// ShipmentHistoryResponse is the audit trail of a shipment.
type ShipmentHistoryResponse struct {
	ShipmentID string           `json:"shipment_id"`
	Total      int64            `json:"total"`
	Entries    []model.LogEntry `json:"entries"`
} // @name ShipmentHistoryResponse
