package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// AuthHandler issues acting-user tokens.
type AuthHandler struct {
	tokens service.TokenService
	audit  *middleware.AsyncLogger
}

// NewAuthHandler creates a new authentication handler. audit may be nil.
func NewAuthHandler(tokens service.TokenService, audit *middleware.AsyncLogger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		audit:  audit,
	}
}

// IssueToken handles POST /api/auth/token requests.
//
// @Summary      Issue token
// @Description  Signs a JWT for the acting user. Builder sessions are scoped by the user id carried in the token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        X-API-Key header string false "API key (required when API keys are configured)"
// @Param        request body dto.IssueTokenRequest true "Acting user"
// @Success      201 {object} dto.SuccessResponse{data=dto.TokenResponse} "Token issued"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid API key"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	out := respond(c)

	req, err := bindJSON[dto.IssueTokenRequest](c)
	if err != nil {
		return
	}

	token, err := h.tokens.Issue(req.UserID, req.Name)
	if err != nil {
		out.failWith(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:  "token_issued",
		Message: "Token issued",
		Fields:  map[string]interface{}{"subject": req.UserID},
	})
	out.created(token)
}
