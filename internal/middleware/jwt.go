package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// Context keys set by the identity middleware.
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextClaims   = "user_claims"
)

// UserIDHeader carries the acting user when token authentication is disabled.
const UserIDHeader = "X-User-ID"

// JWTAuth validates the bearer token and stores the acting user in the
// context. Builder sessions are scoped by that user.
func JWTAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}
		if strings.TrimSpace(tokenString) == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// HeaderIdentity trusts the X-User-ID header. It is used when token
// authentication is disabled, so the builder still has a user to scope
// sessions by.
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			abortUnauthorized(c, i18n.ErrKeyUserRequired)
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextClaims, &dto.Claims{UserID: userID})
		c.Next()
	}
}

// GetUserID returns the acting user, or "" when none was resolved.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func abortUnauthorized(c *gin.Context, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(GetRequestID(c)))
}
