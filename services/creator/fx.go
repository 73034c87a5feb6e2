package creator

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("creator.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(router *gin.Engine, service *Service) {
	v1 := router.Group("/v1")
	v1.PUT("/creators/:name/address", service.upsertAddressHandler)
	v1.GET("/creators", service.listHandler)
}
