package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/shipment-packaging/internal/domain/dto"
	"github.com/guttosm/shipment-packaging/internal/service"
)

// CatalogHandler exposes the configured package types and shipping methods.
type CatalogHandler struct {
	packageTypes *service.PackageTypeManager
	methods      *service.ShippingMethodRegistry
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(packageTypes *service.PackageTypeManager, methods *service.ShippingMethodRegistry) *CatalogHandler {
	return &CatalogHandler{packageTypes: packageTypes, methods: methods}
}

// ListPackageTypes handles GET /api/package-types.
//
// @Summary      List package types
// @Description  Returns the package type definitions keyed by id, optionally restricted to one shipping method. Types without a shipping method restriction are always included.
// @Tags         Catalog
// @Produce      json
// @Param        shipping_method query string false "Shipping method id"
// @Success      200 {object} dto.SuccessResponse{data=map[string]model.PackageTypeDefinition} "Package type definitions"
// @Security     BearerAuth
// @Router       /api/package-types [get]
func (h *CatalogHandler) ListPackageTypes(c *gin.Context) {
	out := respond(c)
	if methodID := c.Query("shipping_method"); methodID != "" {
		out.ok(h.packageTypes.GetDefinitionsByShippingMethod(methodID))
		return
	}
	out.ok(h.packageTypes.GetDefinitions())
}

// ListShippingMethods handles GET /api/shipping-methods.
//
// @Summary      List shipping methods
// @Description  Returns each shipping method with its services and enabled packagers in execution order.
// @Tags         Catalog
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]dto.ShippingMethodResponse} "Shipping methods"
// @Security     BearerAuth
// @Router       /api/shipping-methods [get]
func (h *CatalogHandler) ListShippingMethods(c *gin.Context) {
	methods := h.methods.List()
	resp := make([]dto.ShippingMethodResponse, 0, len(methods))
	for _, m := range methods {
		resp = append(resp, shippingMethodResponse(m))
	}
	respond(c).ok(resp)
}

func shippingMethodResponse(m *service.ShippingMethod) dto.ShippingMethodResponse {
	out := dto.ShippingMethodResponse{
		ID:                 m.ID(),
		Label:              m.Label(),
		DefaultPackageType: m.DefaultPackageType().ID,
	}
	for _, s := range m.Services() {
		out.Services = append(out.Services, s.Service)
	}
	for _, p := range m.Packagers() {
		out.Packagers = append(out.Packagers, dto.PackagerResponse{ID: p.ID(), Label: p.Label()})
	}
	return out
}
