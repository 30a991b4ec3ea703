package routes

import (
	"github.com/Kariqs/neon-store-api/controllers"
	"github.com/Kariqs/neon-store-api/metrics"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/metrics", gin.WrapH(metrics.Handler()))
}
