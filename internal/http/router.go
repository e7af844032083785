package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, adminAuth gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Citizen-facing endpoints are open; only the admin surface is gated.
	public := router.Group("/api/v1")
	{
		public.POST("/feedback", handler.submitFeedback)
		public.GET("/feedback", handler.listFeedback)
		public.GET("/feedback/track", handler.trackFeedback)
		public.GET("/categories", handler.listCategories)

		public.GET("/services", handler.listServices)
		public.GET("/services/:id", handler.getService)

		public.GET("/contacts", handler.listContacts)
		public.GET("/contacts/:id", handler.getDepartment)
		public.GET("/emergency", handler.listEmergencyContacts)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(adminAuth)
	{
		admin.PUT("/feedback/:id/status", handler.updateFeedbackStatus)
		admin.POST("/feedback/bulk-status", handler.bulkFeedbackStatus)
		admin.POST("/categories", handler.createCategory)

		admin.POST("/services", handler.createService)
		admin.PUT("/services/:id", handler.updateService)

		admin.POST("/departments", handler.createDepartment)
		admin.PUT("/departments/:id", handler.updateDepartment)
		admin.POST("/departments/:id/contacts", handler.createContact)
		admin.POST("/emergency-contacts", handler.createEmergencyContact)
	}

	return router
}
