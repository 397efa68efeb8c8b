package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/guttosm/shipment-packaging/internal/circuitbreaker"
	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/logger"
)

// errorMapping is the HTTP rendering of a domain error.
type errorMapping struct {
	status int
	code   string
	key    string
}

// ErrorHandler renders the last error recorded with c.Error when the handler
// did not write a response itself. Domain errors are matched with errors.Is.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		ginErr := c.Errors.Last()
		mapping := classifyError(ginErr)
		requestID := GetRequestID(c)

		log := logger.Ctx(c.Request.Context())
		event := log.Warn()
		if mapping.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Err(ginErr.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", mapping.status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}

		message := i18n.GetTranslator().Translate(mapping.key, i18n.GetLocale(c))
		resp := dto.NewError(mapping.code, message).
			WithRequestID(requestID).
			WithDetails(errorDetails(ginErr.Err, mapping.status))
		c.AbortWithStatusJSON(mapping.status, resp)
	}
}

func classifyError(ginErr *gin.Error) errorMapping {
	err := ginErr.Err
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &validationErrs), errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		ginErr.IsType(gin.ErrorTypeBind):
		return errorMapping{http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody}
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidArgument):
		return errorMapping{http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest}
	case errors.Is(err, model.ErrSessionNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeySessionNotFound}
	case errors.Is(err, model.ErrNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyNotFound}
	case errors.Is(err, model.ErrCurrencyMismatch), errors.Is(err, model.ErrConsistency):
		return errorMapping{http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyConflict}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout}
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return errorMapping{http.StatusServiceUnavailable, dto.ErrCodeUnavailable, i18n.ErrKeyServiceUnavailable}
	default:
		return errorMapping{http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError}
	}
}

// errorDetails explains client errors. Validator failures are keyed by the
// field path, other client errors carry the error text under "reason".
// Server errors never leak their text.
func errorDetails(err error, status int) map[string]string {
	if status >= http.StatusInternalServerError {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			details[fieldPath(fe)] = fieldMessage(fe)
		}
		return details
	}
	return map[string]string{"reason": err.Error()}
}

// fieldPath drops the root struct name from the validator namespace, so
// "ProposedShipmentRequest.items[0].quantity" becomes "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
}
