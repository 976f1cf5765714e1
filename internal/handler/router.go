package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/searchapi/prodsearch/internal/middleware"
)

type RouterDeps struct {
	Search         *SearchHandler
	Demo           *DemoHandler
	SearchRateWait time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	searchGroup := api.Group("")
	if deps.SearchRateWait > 0 {
		searchGroup.Use(middleware.RateLimit(deps.SearchRateWait))
	}
	searchGroup.POST("/search", deps.Search.Search)

	api.GET("/", deps.Demo.Info)
	api.GET("/health", deps.Demo.Health)
	api.GET("/demo", deps.Demo.Demo)
	api.POST("/add", deps.Demo.Add)
	api.PUT("/", deps.Demo.Update)
	api.DELETE("/", deps.Demo.Delete)
}
