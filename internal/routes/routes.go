package routes

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"school-clinic-server/internal/chatbot"
	"school-clinic-server/internal/config"
	"school-clinic-server/internal/handlers"
	"school-clinic-server/internal/middleware"
	"school-clinic-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, llm chatbot.Generator) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	chatHandler := handlers.NewChatHandler(chatbot.NewPipeline(db, llm, cfg.ChatHistoryLimit))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.GET("/profile", authHandler.GetProfile)

		// Appointment routes; list/delete differentiate by role inside the handler
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleStudent), appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleSuperAdmin), appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		// Conversational booking assistant
		private.POST("/chat", chatHandler.Chat)

		// User management (super admin only)
		superAdmin := middleware.RoleAuthMiddleware(models.RoleSuperAdmin)
		private.POST("/admin/create-user", superAdmin, userHandler.CreateUser)
		private.GET("/users", superAdmin, userHandler.GetUsers)
		private.DELETE("/users/:id", superAdmin, userHandler.DeleteUser)
	}

	// Pre-built dashboard assets
	setupStatic(router, cfg.StaticDir)

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

// setupStatic serves the pre-built HTML/CSS/JS dashboard pages.
func setupStatic(router *gin.Engine, dir string) {
	pages := map[string]string{
		"/":                  "index.html",
		"/register":          "register.html",
		"/student-dashboard": "student-dashboard.html",
		"/admin-dashboard":   "admin-dashboard.html",
	}
	for route, file := range pages {
		router.StaticFile(route, filepath.Join(dir, file))
	}

	for _, file := range []string{
		"style.css", "dashboard.css",
		"main.js", "login.js", "register.js",
		"student-dashboard.js", "admin-dashboard.js",
	} {
		router.StaticFile("/"+file, filepath.Join(dir, file))
	}

	router.Static("/images", filepath.Join(dir, "images"))
}
