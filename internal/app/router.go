package app

import (
	"studynova_backend/docs"
	"studynova_backend/internal/config"
	"studynova_backend/internal/middleware"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.IdentityMiddleware(cfg))
	{
		api.GET("/health", c.health.HealthCheck)

		solutions := api.Group("/solutions")
		{
			solutions.GET("", c.solution.List)
			solutions.POST("", c.solution.CreateOrTrack)

			// stats 必须注册在 :id 之前，否则会被当成解答 ID
			solutions.GET("/stats", c.solution.Stats)

			solutions.GET("/:id", c.solution.Get)
			solutions.GET("/:id/content", c.solution.GetContent)
			solutions.POST("/:id/content",
				middleware.RequireUser(),
				middleware.RoleMiddleware(model.Admin),
				c.solution.AddContent)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/explain", c.ai.Explain)
			ai.POST("/help", c.ai.Help)
			ai.GET("/help", c.ai.History)
		}

		api.GET("/progress", c.progress.Get)
	}
}
