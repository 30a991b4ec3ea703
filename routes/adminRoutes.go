package routes

import (
	"github.com/Kariqs/neon-store-api/controllers"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine, jwtSecret string, c *controllers.AdminController) {
	admin := server.Group("/admin", middlewares.RequireAuth(jwtSecret), middlewares.RequireRole("admin", "operator"))
	{
		admin.GET("/checkouts/pending", c.GetPendingCheckouts)
		admin.POST("/checkouts/reconcile", c.ReconcileCheckouts)
	}
}
