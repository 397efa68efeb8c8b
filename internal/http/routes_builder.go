package http

import (
	"github.com/gin-gonic/gin"
)

// BuilderRoutes registers the staged packaging editor.
type BuilderRoutes struct {
	handler *BuilderHandler
}

// NewBuilderRoutes creates a new BuilderRoutes instance.
func NewBuilderRoutes(handler *BuilderHandler) *BuilderRoutes {
	return &BuilderRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup. The move route keeps its
// move/order/shipment/item/from/to segment order.
func (r *BuilderRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	b := rg.Group("/shipment_builder")
	b.POST("/move/:order/:shipment/:item/:from/:to", r.handler.MoveItem)

	session := b.Group("/:order/:shipment")
	{
		session.GET("", r.handler.GetSession)
		session.DELETE("", r.handler.Discard)
		session.POST("/open", r.handler.Open)
		session.POST("/packages", r.handler.AddPackage)
		session.DELETE("/packages/:index", r.handler.RemovePackage)
		session.POST("/commit", r.handler.Commit)
	}
}
