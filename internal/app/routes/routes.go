package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yigit/regwizard/internal/app/controllers"
	"github.com/yigit/regwizard/internal/app/models/dto"
	"github.com/yigit/regwizard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	pageController *controllers.PageController,
	formController *controllers.FormController,
	sessionMiddleware *middleware.SessionMiddleware,
	gatherer prometheus.Gatherer,
) {
	// --- HTML wizard ---
	router.GET("/", pageController.Show)
	router.POST("/", pageController.Post)

	// API version group
	v1 := router.Group("/api/v1")

	v1.POST("/validate", middleware.ValidateJSON[dto.ValidateRequest](), formController.Validate)
	v1.POST("/sessions", formController.CreateSession)

	sessions := v1.Group("/sessions/:token")
	sessions.Use(sessionMiddleware.RequireSession())
	{
		sessions.GET("", formController.GetSession)
		sessions.PATCH("/fields", middleware.ValidateJSON[dto.EditFieldRequest](), formController.EditField)
		sessions.POST("/next", formController.Next)
		sessions.POST("/back", formController.Back)
		sessions.POST("/submit", formController.Submit)
		sessions.POST("/reset", formController.Reset)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
