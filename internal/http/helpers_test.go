package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/config"
	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/service"
)

const (
	testUserID  = "packer-1"
	testOrderID = "order-1"
)

const proposalBody = `{
	"shipping_method_id": "flat_rate",
	"title": "Shipment #1",
	"items": [{
		"order_item_id": "42",
		"purchased_entity_id": "sku-mug",
		"title": "Coffee mug",
		"quantity": 2,
		"weight": {"number": "700", "unit": "g"},
		"declared_value": {"number": "24.00", "currency_code": "USD"}
	}]
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testCatalog(t *testing.T) *service.Catalog {
	t.Helper()
	cfg, err := config.LoadCatalog("")
	require.NoError(t, err)
	catalog, err := service.BuildCatalog(cfg, service.NewFlatRateCalculator())
	require.NoError(t, err)
	return catalog
}

// newTestRouter builds the full router. The default catalog is used unless
// cfg already carries one.
func newTestRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()
	if cfg.PackageTypes == nil || cfg.ShippingMethods == nil {
		catalog := testCatalog(t)
		cfg.PackageTypes = catalog.PackageTypes
		cfg.ShippingMethods = catalog.Methods
	}
	return NewRouter(NewHealthHandler(), cfg)
}

// serve sends a request as testUserID unless headers set X-User-ID.
func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.UserIDHeader, testUserID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NotEmpty(t, envelope.RequestID)
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
