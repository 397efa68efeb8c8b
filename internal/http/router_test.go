package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/mocks"
	"github.com/guttosm/shipment-packaging/internal/service"
)

func TestNewRouter_InfrastructureRoutes(t *testing.T) {
	router := newTestRouter(t, DefaultRouterConfig())

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "liveness", path: "/healthz", expectedStatus: http.StatusOK},
		{name: "readiness", path: "/readyz", expectedStatus: http.StatusOK},
		{name: "metrics", path: "/metrics", expectedStatus: http.StatusOK},
		{name: "unknown route", path: "/api/nothing-here", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_SwaggerBasicAuth(t *testing.T) {
	router := newTestRouter(t, RouterConfig{SwaggerUser: "docs", SwaggerPass: "secret"})

	w := serve(router, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("docs", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusUnauthorized, w.Code)
}

func TestNewRouter_JWTIdentity(t *testing.T) {
	tests := []struct {
		name           string
		authorization  string
		setupMocks     func(*mocks.MockTokenService, *mocks.MockBuilderService)
		expectedStatus int
	}{
		{
			name:           "missing token",
			setupMocks:     func(*mocks.MockTokenService, *mocks.MockBuilderService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:          "invalid token",
			authorization: "Bearer forged",
			setupMocks: func(tokens *mocks.MockTokenService, _ *mocks.MockBuilderService) {
				tokens.On("Validate", "forged").Return(nil, service.ErrInvalidToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:          "token user scopes the session",
			authorization: "Bearer good",
			setupMocks: func(tokens *mocks.MockTokenService, builder *mocks.MockBuilderService) {
				tokens.On("Validate", "good").Return(&dto.Claims{UserID: "packer-9"}, nil)
				key := model.SessionKey{OrderID: testOrderID, ShipmentID: "ship-1", UserID: "packer-9"}
				builder.On("Get", mock.Anything, key).Return(testSession("ship-1"), nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mocks.MockTokenService{}
			builder := &mocks.MockBuilderService{}
			tt.setupMocks(tokens, builder)
			router := newTestRouter(t, RouterConfig{
				EnableAuth:     true,
				TokenService:   tokens,
				BuilderService: builder,
			})

			// X-User-ID is ignored once tokens are required.
			headers := map[string]string{}
			if tt.authorization != "" {
				headers["Authorization"] = tt.authorization
			}
			w := serve(router, http.MethodGet, "/api/shipment_builder/order-1/ship-1", "", headers)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			tokens.AssertExpectations(t)
			builder.AssertExpectations(t)
		})
	}
}

func TestNewRouter_IdempotentCreate(t *testing.T) {
	shipments := &mocks.MockShipmentService{}
	shipments.On("Create", mock.Anything, mock.Anything).Return(testShipment(), nil).Once()
	router := newTestRouter(t, RouterConfig{
		ShipmentService:   shipments,
		EnableIdempotency: true,
		IdempotencyStore:  middleware.NewIdempotencyStore(16, time.Minute),
	})
	headers := map[string]string{middleware.IdempotencyKeyHeader: "create-1"}

	first := serve(router, http.MethodPost, "/api/orders/order-1/shipments", proposalBody, headers)
	second := serve(router, http.MethodPost, "/api/orders/order-1/shipments", proposalBody, headers)

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	shipments.AssertNumberOfCalls(t, "Create", 1)
}

func TestNewRouter_RateLimit(t *testing.T) {
	router := newTestRouter(t, RouterConfig{
		RateLimit:       1,
		RateWindow:      time.Minute,
		ShipmentService: &mocks.MockShipmentService{},
	})

	first := serve(router, http.MethodGet, "/api/package-types", "", nil)
	second := serve(router, http.MethodGet, "/api/package-types", "", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestNewRouter_CORS(t *testing.T) {
	router := newTestRouter(t, RouterConfig{CORSOrigins: []string{"https://warehouse.example.com"}})

	tests := []struct {
		name       string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{
			name:       "configured origin",
			origin:     "https://warehouse.example.com",
			wantStatus: http.StatusNoContent,
			wantAllow:  "https://warehouse.example.com",
		},
		{
			name:       "unknown origin",
			origin:     "https://elsewhere.example.com",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodOptions, "/api/shipments", "", map[string]string{
				"Origin":                        tt.origin,
				"Access-Control-Request-Method": http.MethodPost,
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewRouter_CORSExposesRateLimitHeaders(t *testing.T) {
	router := newTestRouter(t, RouterConfig{
		RateLimit:   5,
		RateWindow:  time.Minute,
		CORSOrigins: []string{"https://warehouse.example.com"},
	})

	w := serve(router, http.MethodGet, "/healthz", "", map[string]string{"Origin": "https://warehouse.example.com"})

	require.Equal(t, http.StatusOK, w.Code)
	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "x-ratelimit-remaining")
	assert.Contains(t, exposed, "x-request-id")
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}
