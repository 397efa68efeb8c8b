package http

import (
	"github.com/gin-gonic/gin"
)

// ShipmentRoutes registers the catalog and shipment routes.
type ShipmentRoutes struct {
	catalog   *CatalogHandler
	shipments *ShipmentHandler
}

// NewShipmentRoutes creates a new ShipmentRoutes instance.
func NewShipmentRoutes(catalog *CatalogHandler, shipments *ShipmentHandler) *ShipmentRoutes {
	return &ShipmentRoutes{catalog: catalog, shipments: shipments}
}

// RegisterRoutes implements RouteGroup.
func (r *ShipmentRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/package-types", r.catalog.ListPackageTypes)
	rg.GET("/shipping-methods", r.catalog.ListShippingMethods)

	orders := rg.Group("/orders/:order")
	{
		orders.POST("/shipments", r.shipments.CreateShipment)
		orders.GET("/shipments", r.shipments.ListOrderShipments)
		orders.POST("/items/:item/quantity-changed", r.shipments.QuantityChanged)
	}

	shipments := rg.Group("/shipments/:shipment")
	{
		shipments.GET("", r.shipments.GetShipment)
		shipments.DELETE("", r.shipments.DeleteShipment)
		shipments.PUT("/items", r.shipments.UpdateItems)
		shipments.POST("/package", r.shipments.Repackage)
		shipments.GET("/rates", r.shipments.CalculateRates)
		shipments.POST("/rates/select", r.shipments.SelectRate)
		shipments.GET("/history", r.shipments.History)
	}
}
