package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/baanlist-dev/baanlist/internal/handlers"
	"github.com/baanlist-dev/baanlist/internal/middleware"
	"github.com/baanlist-dev/baanlist/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Link"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Crawler-facing routes
	r.GET("/sitemap.xml", handlers.Sitemap)
	r.GET("/properties/:id", handlers.LegacyPropertyRedirect)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/dashboard", middleware.AuthMiddleware(), handlers.DashboardSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", handlers.ListProjects)
			projects.GET("/:slug", handlers.GetProject)
			projects.GET("/:slug/:type", handlers.GetProject)
			projects.GET("/:slug/:type/:room", handlers.ShowListing)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", handlers.ListProperties)
			properties.GET("/:id", handlers.GetProperty)
		}

		dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
		{
			dashboard.GET("/properties", handlers.DashboardProperties)
			dashboard.POST("/properties", handlers.CreateProperty)
			dashboard.PUT("/properties/:id", handlers.UpdateProperty)
			dashboard.DELETE("/properties/:id", handlers.DeleteProperty)
		}
	}

	return r
}
