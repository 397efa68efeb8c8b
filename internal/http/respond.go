package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/middleware"
)

// Validator is implemented by requests with checks beyond struct tags.
type Validator interface {
	Validate() error
}

// bindJSON decodes the body into a new T and runs its Validate method when
// it has one. Failures are recorded as gin bind errors, which the error
// handler renders as 400, so callers only need to return.
func bindJSON[T any](c *gin.Context) (*T, error) {
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return nil, err
		}
	}
	return req, nil
}

// responder writes the API envelopes for one request.
type responder struct {
	c *gin.Context
}

func respond(c *gin.Context) responder {
	return responder{c: c}
}

func (r responder) send(status int, data interface{}) {
	r.c.JSON(status, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(r.c),
		Timestamp: time.Now().UTC(),
	})
}

func (r responder) ok(data interface{}) {
	r.send(http.StatusOK, data)
}

func (r responder) created(data interface{}) {
	r.send(http.StatusCreated, data)
}

// fail hands a domain error to the error handler, which picks the status.
func (r responder) fail(err error) {
	_ = r.c.Error(err)
	r.c.Abort()
}

// failWith writes the error envelope directly. err is recorded for the
// access log and never rendered.
func (r responder) failWith(status int, messageKey string, err error) {
	if err != nil {
		_ = r.c.Error(err)
	}
	r.c.AbortWithStatusJSON(status,
		dto.NewError(dto.ErrCodeFromStatus(status), translate(r.c, messageKey)).
			WithRequestID(middleware.GetRequestID(r.c)))
}

func translate(c *gin.Context, key string) string {
	return i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
}
