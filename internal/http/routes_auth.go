package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// AuthRoutes registers the token endpoint behind API key authentication.
type AuthRoutes struct {
	handler *AuthHandler
	apiKeys map[string]bool
}

// NewAuthRoutes creates a new AuthRoutes instance.
func NewAuthRoutes(tokens service.TokenService, apiKeys map[string]bool, audit *middleware.AsyncLogger) *AuthRoutes {
	return &AuthRoutes{
		handler: NewAuthHandler(tokens, audit),
		apiKeys: apiKeys,
	}
}

// RegisterRoutes implements RouteGroup.
func (r *AuthRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth", middleware.APIKeyAuth(r.apiKeys))
	auth.POST("/token", r.handler.IssueToken)
}
