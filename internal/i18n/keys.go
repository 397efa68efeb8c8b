package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	// ErrKeyUserRequired is returned when no acting user can be resolved.
	ErrKeyUserRequired = "error.user_required"
	ErrKeyNotFound     = "error.not_found"
	// ErrKeySessionNotFound covers missing and expired builder sessions.
	ErrKeySessionNotFound   = "error.session_not_found"
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict covers currency mismatches and aggregate inconsistencies.
	ErrKeyConflict           = "error.conflict"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyServiceUnavailable = "error.service_unavailable"
)

// Success message translation keys.
const (
	SuccessKeyShipmentDeleted  = "success.shipment_deleted"
	SuccessKeySessionDiscarded = "success.session_discarded"
)
