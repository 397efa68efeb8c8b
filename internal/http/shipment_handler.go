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

// ShipmentHandler serves the shipment and packaging routes.
type ShipmentHandler struct {
	shipments service.ShipmentService
	logs      service.LoggingService
	audit     *middleware.AsyncLogger
}

// NewShipmentHandler creates a new shipment handler. logs and audit may be
// nil, in which case the history endpoint returns an empty trail.
func NewShipmentHandler(shipments service.ShipmentService, logs service.LoggingService, audit *middleware.AsyncLogger) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: shipments,
		logs:      logs,
		audit:     audit,
	}
}

// CreateShipment handles POST /api/orders/:order/shipments.
//
// @Summary      Create shipment
// @Description  Creates a shipment for the order and packages it with the packager chain of its shipping method. Supports idempotency via Idempotency-Key header.
// @Tags         Shipments
// @Accept       json
// @Produce      json
// @Param        order path string true "Order id"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.ProposedShipmentRequest true "Proposed shipment"
// @Success      201 {object} dto.SuccessResponse{data=model.Shipment} "Shipment created"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Unknown shipping method or package type"
// @Failure      409 {object} dto.ErrorResponse "Items use different currencies"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/orders/{order}/shipments [post]
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	out := respond(c)
	orderID := c.Param("order")

	req, err := bindJSON[dto.ProposedShipmentRequest](c)
	if err != nil {
		return
	}
	proposal, err := req.ToModel(orderID)
	if err != nil {
		out.fail(err)
		return
	}

	shipment, err := h.shipments.Create(c.Request.Context(), proposal)
	if err != nil {
		h.auditFailure(c, model.ActionShipmentCreated, orderID, "", err)
		out.fail(err)
		return
	}

	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionShipmentCreated,
		Message:    "Shipment created",
		OrderID:    orderID,
		ShipmentID: shipment.ID,
		Fields: map[string]interface{}{
			"packages":   len(shipment.Packages),
			"unpackaged": len(shipment.Data.UnpackagedItems),
		},
	})
	out.created(shipment)
}

// ListOrderShipments handles GET /api/orders/:order/shipments.
//
// @Summary      List order shipments
// @Tags         Shipments
// @Produce      json
// @Param        order path string true "Order id"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Shipment} "Shipments of the order"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/orders/{order}/shipments [get]
func (h *ShipmentHandler) ListOrderShipments(c *gin.Context) {
	out := respond(c)
	shipments, err := h.shipments.ListByOrder(c.Request.Context(), c.Param("order"))
	if err != nil {
		out.fail(err)
		return
	}
	if shipments == nil {
		shipments = []*model.Shipment{}
	}
	out.ok(shipments)
}

// GetShipment handles GET /api/shipments/:shipment.
//
// @Summary      Get shipment
// @Tags         Shipments
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Success      200 {object} dto.SuccessResponse{data=model.Shipment} "Shipment with packages"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment} [get]
func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	out := respond(c)
	shipment, err := h.shipments.Get(c.Request.Context(), c.Param("shipment"))
	if err != nil {
		out.fail(err)
		return
	}
	out.ok(shipment)
}

// UpdateItems handles PUT /api/shipments/:shipment/items.
//
// @Summary      Replace shipment items
// @Description  Replaces the items of a shipment. Existing packages are discarded and the shipment is left unpackaged.
// @Tags         Shipments
// @Accept       json
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Param        request body dto.UpdateItemsRequest true "New items"
// @Success      200 {object} dto.SuccessResponse{data=model.Shipment} "Updated shipment"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Failure      409 {object} dto.ErrorResponse "Items use different currencies"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment}/items [put]
func (h *ShipmentHandler) UpdateItems(c *gin.Context) {
	out := respond(c)
	shipmentID := c.Param("shipment")

	req, err := bindJSON[dto.UpdateItemsRequest](c)
	if err != nil {
		return
	}
	items, err := dto.ItemsToModel(req.Items)
	if err != nil {
		out.fail(err)
		return
	}

	shipment, err := h.shipments.UpdateItems(c.Request.Context(), shipmentID, items)
	if err != nil {
		h.auditFailure(c, model.ActionShipmentItems, "", shipmentID, err)
		out.fail(err)
		return
	}

	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionShipmentItems,
		Message:    "Shipment items replaced",
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
		Fields:     map[string]interface{}{"items": len(items)},
	})
	out.ok(shipment)
}

// Repackage handles POST /api/shipments/:shipment/package.
//
// @Summary      Repackage shipment
// @Description  Drops the current packages and runs the packager chain of the shipping method again.
// @Tags         Shipments
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Success      200 {object} dto.SuccessResponse{data=model.Shipment} "Repackaged shipment"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment}/package [post]
func (h *ShipmentHandler) Repackage(c *gin.Context) {
	out := respond(c)
	shipmentID := c.Param("shipment")

	shipment, err := h.shipments.Repackage(c.Request.Context(), shipmentID)
	if err != nil {
		h.auditFailure(c, model.ActionShipmentPackaged, "", shipmentID, err)
		out.fail(err)
		return
	}

	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionShipmentPackaged,
		Message:    "Shipment repackaged",
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
		Fields: map[string]interface{}{
			"packages":   len(shipment.Packages),
			"unpackaged": len(shipment.Data.UnpackagedItems),
		},
	})
	out.ok(shipment)
}

// CalculateRates handles GET /api/shipments/:shipment/rates.
//
// @Summary      Calculate rates
// @Tags         Rates
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Success      200 {object} dto.SuccessResponse{data=[]model.ShippingRate} "Rates per service"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment}/rates [get]
func (h *ShipmentHandler) CalculateRates(c *gin.Context) {
	out := respond(c)
	rates, err := h.shipments.CalculateRates(c.Request.Context(), c.Param("shipment"))
	if err != nil {
		out.fail(err)
		return
	}
	out.ok(rates)
}

// SelectRate handles POST /api/shipments/:shipment/rates/select.
//
// @Summary      Select rate
// @Description  Applies the rate of a service to the shipment. The shipment amount is fixed from then on.
// @Tags         Rates
// @Accept       json
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Param        request body dto.SelectRateRequest true "Service to select"
// @Success      200 {object} dto.SuccessResponse{data=model.Shipment} "Shipment with the selected rate"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Shipment or service not found"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment}/rates/select [post]
func (h *ShipmentHandler) SelectRate(c *gin.Context) {
	out := respond(c)
	shipmentID := c.Param("shipment")

	req, err := bindJSON[dto.SelectRateRequest](c)
	if err != nil {
		return
	}

	shipment, err := h.shipments.SelectRate(c.Request.Context(), shipmentID, req.Service)
	if err != nil {
		h.auditFailure(c, model.ActionRateSelected, "", shipmentID, err)
		out.fail(err)
		return
	}

	fields := map[string]interface{}{"service": shipment.ShippingService}
	if shipment.Amount != nil {
		fields["amount"] = shipment.Amount.String()
	}
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionRateSelected,
		Message:    "Shipping rate selected",
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
		Fields:     fields,
	})
	out.ok(shipment)
}

// DeleteShipment handles DELETE /api/shipments/:shipment.
//
// @Summary      Delete shipment
// @Description  Deletes the shipment and its packages.
// @Tags         Shipments
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Success      200 {object} dto.SuccessResponse "Shipment deleted"
// @Failure      404 {object} dto.ErrorResponse "Shipment not found"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment} [delete]
func (h *ShipmentHandler) DeleteShipment(c *gin.Context) {
	out := respond(c)
	shipmentID := c.Param("shipment")

	if err := h.shipments.Delete(c.Request.Context(), shipmentID); err != nil {
		h.auditFailure(c, model.ActionShipmentDeleted, "", shipmentID, err)
		out.fail(err)
		return
	}

	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     model.ActionShipmentDeleted,
		Message:    "Shipment deleted",
		ShipmentID: shipmentID,
	})
	out.ok(gin.H{"message": translate(c, i18n.SuccessKeyShipmentDeleted)})
}

// QuantityChanged handles POST /api/orders/:order/items/:item/quantity-changed.
//
// @Summary      Order item quantity changed
// @Description  Flags the packaged shipments of the order that contain the order item for repackaging.
// @Tags         Shipments
// @Produce      json
// @Param        order path string true "Order id"
// @Param        item path string true "Order item id"
// @Success      200 {object} dto.SuccessResponse{data=dto.RepackageMarkResponse} "Number of flagged shipments"
// @Security     BearerAuth
// @Router       /api/orders/{order}/items/{item}/quantity-changed [post]
func (h *ShipmentHandler) QuantityChanged(c *gin.Context) {
	out := respond(c)
	orderID := c.Param("order")
	orderItemID := c.Param("item")

	marked, err := h.shipments.MarkNeedsRepackage(c.Request.Context(), orderID, orderItemID)
	if err != nil {
		out.fail(err)
		return
	}

	if marked > 0 {
		middleware.Audit(h.audit, c, middleware.AuditEvent{
			Action:  model.ActionNeedsRepackage,
			Message: "Shipments flagged for repackaging",
			OrderID: orderID,
			Fields: map[string]interface{}{
				"order_item_id": orderItemID,
				"shipments":     marked,
			},
		})
	}
	out.ok(dto.RepackageMarkResponse{Shipments: marked})
}

// History handles GET /api/shipments/:shipment/history.
//
// @Summary      Shipment history
// @Description  Returns the audit trail of shipment and builder actions, newest first.
// @Tags         Shipments
// @Produce      json
// @Param        shipment path string true "Shipment id"
// @Param        limit query int false "Maximum entries (default 50, max 500)"
// @Param        skip query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=dto.ShipmentHistoryResponse} "Audit trail"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid paging"
// @Security     BearerAuth
// @Router       /api/shipments/{shipment}/history [get]
func (h *ShipmentHandler) History(c *gin.Context) {
	out := respond(c)
	shipmentID := c.Param("shipment")

	limit, skip, err := paging(c)
	if err != nil {
		out.fail(err)
		return
	}

	resp := dto.ShipmentHistoryResponse{ShipmentID: shipmentID, Entries: []model.LogEntry{}}
	if h.logs == nil {
		out.ok(resp)
		return
	}

	page, err := h.logs.ShipmentHistory(c.Request.Context(), shipmentID, limit, skip)
	if err != nil {
		out.fail(err)
		return
	}
	resp.Entries = page.Entries
	resp.Total = page.Total
	out.ok(resp)
}

func (h *ShipmentHandler) auditFailure(c *gin.Context, action, orderID, shipmentID string, err error) {
	middleware.Audit(h.audit, c, middleware.AuditEvent{
		Action:     action,
		Message:    "Shipment action failed",
		OrderID:    orderID,
		ShipmentID: shipmentID,
		Err:        err,
	})
}

// paging reads the limit and skip query parameters. A missing limit is
// returned as 0 and resolved to the default by the logging service.
func paging(c *gin.Context) (limit, skip int, err error) {
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, invalidQuery("limit", raw)
		}
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, invalidQuery("skip", raw)
		}
	}
	return limit, skip, nil
}

func invalidQuery(name, raw string) error {
	return fmt.Errorf("%w: query parameter %s=%q", model.ErrInvalidArgument, name, raw)
}
