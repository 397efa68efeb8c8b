package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/i18n"
	"github.com/guttosm/shipment-packaging/internal/middleware"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// BuilderHandler serves the staged packaging editor. Sessions are scoped by
// order, shipment and the acting user.
type BuilderHandler struct {
	builder service.BuilderService
	audit   *middleware.AsyncLogger
}

// NewBuilderHandler creates a new builder handler. audit may be nil.
func NewBuilderHandler(builder service.BuilderService, audit *middleware.AsyncLogger) *BuilderHandler {
	return &BuilderHandler{builder: builder, audit: audit}
}

func sessionKey(c *gin.Context) model.SessionKey {
	return model.SessionKey{
		OrderID:    c.Param("order"),
		ShipmentID: c.Param("shipment"),
		UserID:     middleware.GetUserID(c),
	}
}

// Open handles POST /api/shipment_builder/:order/:shipment/open.
//
// @Summary      Open builder session
// @Description  Returns the caller's session for the shipment, creating it when absent. Use "new" as the shipment id together with a proposed shipment body to stage a shipment that does not exist yet.
// @Tags         Builder
// @Accept       json
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Param        request body dto.ProposedShipmentRequest false "Proposed shipment (new shipments only)"
// @Success      200 {object} dto.SuccessResponse{data=model.BuilderSession} "Session"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing proposal"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment}/open [post]
func (h *BuilderHandler) Open(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	var seed *model.ProposedShipment
	if key.IsNew() && c.Request.ContentLength != 0 {
		req, err := bindJSON[dto.ProposedShipmentRequest](c)
		if err != nil {
			return
		}
		proposal, err := req.ToModel(key.OrderID)
		if err != nil {
			out.fail(err)
			return
		}
		seed = &proposal
	}

	session, err := h.builder.Open(c.Request.Context(), key, seed)
	if err != nil {
		h.auditFailure(c, model.ActionBuilderOpened, key, err)
		out.fail(err)
		return
	}
	h.auditSession(c, model.ActionBuilderOpened, "Builder session opened", session, nil)
	out.ok(session)
}

// GetSession handles GET /api/shipment_builder/:order/:shipment.
//
// @Summary      Get builder session
// @Tags         Builder
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Success      200 {object} dto.SuccessResponse{data=model.BuilderSession} "Session"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment} [get]
func (h *BuilderHandler) GetSession(c *gin.Context) {
	out := respond(c)
	session, err := h.builder.Get(c.Request.Context(), sessionKey(c))
	if err != nil {
		out.fail(err)
		return
	}
	out.ok(session)
}

// AddPackage handles POST /api/shipment_builder/:order/:shipment/packages.
//
// @Summary      Add package
// @Description  Appends an empty package. Without a package type the shipping method default is used.
// @Tags         Builder
// @Accept       json
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Param        request body dto.AddPackageRequest false "Package type"
// @Success      200 {object} dto.SuccessResponse{data=model.BuilderSession} "Session"
// @Failure      404 {object} dto.ErrorResponse "Session or package type not found"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment}/packages [post]
func (h *BuilderHandler) AddPackage(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	var packageTypeID string
	if c.Request.ContentLength != 0 {
		req, err := bindJSON[dto.AddPackageRequest](c)
		if err != nil {
			return
		}
		packageTypeID = req.PackageTypeID
	}

	session, err := h.builder.AddPackage(c.Request.Context(), key, packageTypeID)
	if err != nil {
		h.auditFailure(c, model.ActionBuilderAddPackage, key, err)
		out.fail(err)
		return
	}
	h.auditSession(c, model.ActionBuilderAddPackage, "Package added", session, map[string]interface{}{
		"package_type": packageTypeID,
		"packages":     len(session.Packages),
	})
	out.ok(session)
}

// RemovePackage handles DELETE /api/shipment_builder/:order/:shipment/packages/:index.
//
// @Summary      Remove package
// @Description  Removes the package at the index. Its items go back to the unpackaged items.
// @Tags         Builder
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Param        index path int true "Package index"
// @Success      200 {object} dto.SuccessResponse{data=model.BuilderSession} "Session"
// @Failure      400 {object} dto.ErrorResponse "Invalid index"
// @Failure      404 {object} dto.ErrorResponse "Session or package not found"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment}/packages/{index} [delete]
func (h *BuilderHandler) RemovePackage(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		out.fail(fmt.Errorf("%w: package index %q", model.ErrInvalidArgument, c.Param("index")))
		return
	}

	session, err := h.builder.RemovePackage(c.Request.Context(), key, index)
	if err != nil {
		h.auditFailure(c, model.ActionBuilderRemove, key, err)
		out.fail(err)
		return
	}
	h.auditSession(c, model.ActionBuilderRemove, "Package removed", session, map[string]interface{}{
		"index": index,
	})
	out.ok(session)
}

// MoveItem handles POST /api/shipment_builder/move/:order/:shipment/:item/:from/:to.
//
// @Summary      Move item
// @Description  Moves an item between the unpackaged items (shipment-item-area) and packages addressed by index.
// @Tags         Builder
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Param        item path string true "Item id"
// @Param        from path string true "Source: shipment-item-area or package index"
// @Param        to path string true "Target: shipment-item-area or package index"
// @Success      200 {object} dto.SuccessResponse{data=model.BuilderSession} "Session"
// @Failure      400 {object} dto.ErrorResponse "Invalid container"
// @Failure      404 {object} dto.ErrorResponse "Session, item or package not found"
// @Failure      409 {object} dto.ErrorResponse "Item currency differs from the package"
// @Security     BearerAuth
// @Router       /api/shipment_builder/move/{order}/{shipment}/{item}/{from}/{to} [post]
func (h *BuilderHandler) MoveItem(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	from, err := model.ParseContainer(c.Param("from"))
	if err != nil {
		out.fail(err)
		return
	}
	to, err := model.ParseContainer(c.Param("to"))
	if err != nil {
		out.fail(err)
		return
	}

	itemKey := c.Param("item")
	session, err := h.builder.MoveItem(c.Request.Context(), key, itemKey, from, to)
	if err != nil {
		h.auditFailure(c, model.ActionBuilderMove, key, err)
		out.fail(err)
		return
	}
	h.auditSession(c, model.ActionBuilderMove, "Item moved", session, map[string]interface{}{
		"item": itemKey,
		"from": c.Param("from"),
		"to":   c.Param("to"),
	})
	out.ok(session)
}

// Commit handles POST /api/shipment_builder/:order/:shipment/commit.
//
// @Summary      Commit builder session
// @Description  Persists the staged packages and closes the session. Quantities per order item must match the shipment items.
// @Tags         Builder
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Success      200 {object} dto.SuccessResponse{data=model.Shipment} "Saved shipment"
// @Failure      404 {object} dto.ErrorResponse "Session not found"
// @Failure      409 {object} dto.ErrorResponse "Staged packages do not account for the shipment items"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment}/commit [post]
func (h *BuilderHandler) Commit(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	shipment, err := h.builder.Commit(c.Request.Context(), key)
	if err != nil {
		h.auditFailure(c, model.ActionBuilderCommitted, key, err)
		out.fail(err)
		return
	}
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionBuilderCommitted,
		Message:    "Builder session committed",
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
		Fields:     map[string]interface{}{"packages": len(shipment.Packages)},
	})
	out.ok(shipment)
}

// Discard handles DELETE /api/shipment_builder/:order/:shipment.
//
// @Summary      Discard builder session
// @Tags         Builder
// @Produce      json
// @Param        order path string true "Order id"
// @Param        shipment path string true "Shipment id or new"
// @Success      200 {object} dto.SuccessResponse "Session discarded"
// @Security     BearerAuth
// @Router       /api/shipment_builder/{order}/{shipment} [delete]
func (h *BuilderHandler) Discard(c *gin.Context) {
	out := respond(c)
	key := sessionKey(c)

	if err := h.builder.Discard(c.Request.Context(), key); err != nil {
		out.fail(err)
		return
	}
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionBuilderDiscarded,
		Message:    "Builder session discarded",
		OrderID:    key.OrderID,
		ShipmentID: key.ShipmentID,
	})
	out.ok(gin.H{"message": translate(c, i18n.SuccessKeySessionDiscarded)})
}

func (h *BuilderHandler) auditSession(c *gin.Context, action, message string, session *model.BuilderSession, fields map[string]interface{}) {
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     action,
		Message:    message,
		OrderID:    session.OrderID,
		ShipmentID: session.Shipment.ID,
		Fields:     fields,
	})
}

func (h *BuilderHandler) auditFailure(c *gin.Context, action string, key model.SessionKey, err error) {
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     action,
		Message:    "Builder action failed",
		OrderID:    key.OrderID,
		ShipmentID: key.ShipmentID,
		Err:        err,
	})
}
