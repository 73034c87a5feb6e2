package lens

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("lens.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(router *gin.Engine, service *Service) {
	v1 := router.Group("/v1")
	v1.POST("/lenses", service.createLensHandler)
	v1.GET("/lenses", service.listLensesHandler)
	v1.GET("/lenses/:id", service.getLensHandler)
}
