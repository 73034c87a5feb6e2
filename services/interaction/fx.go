package interaction

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("interaction.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(router *gin.Engine, service *Service) {
	v1 := router.Group("/v1")
	v1.POST("/interactions", service.trackHandler)
	v1.GET("/interactions", service.listHandler)
}
