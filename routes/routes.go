package routes

import (
	"time"

	"slotwise/config"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration, login and logout.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	api.Use(middleware.RateLimitMiddleware(config.AppConfig.AuthRequestsPerMin))
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
		api.POST("/logout", middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache), hb.Auth.Logout)
	}
}

// RegisterUserRoutes registers user account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("", hb.Users.Create)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache))
		protected.GET("/me", hb.Users.Me)
		protected.POST("/change-password", hb.Users.ChangePassword)
		protected.GET("/:id", hb.Users.Get)
		protected.PUT("/:id", hb.Users.Update)

		admin := protected.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		admin.GET("", hb.Users.List)
		admin.GET("/paginated", hb.Users.Page)
		admin.DELETE("/:id", hb.Users.Delete)
	}
}

// RegisterProviderRoutes registers provider profile and search endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache))
	{
		api.GET("", hb.Providers.List)
		api.GET("/paginated", hb.Providers.Page)
		api.GET("/search", hb.Providers.Search(models.SearchAll, "q"))
		api.GET("/search/paginated", hb.Providers.SearchPage(models.SearchAll, "q"))
		api.GET("/search/service", hb.Providers.Search(models.SearchServiceName, "serviceName"))
		api.GET("/search/service/paginated", hb.Providers.SearchPage(models.SearchServiceName, "serviceName"))
		api.GET("/search/city", hb.Providers.Search(models.SearchCity, "city"))
		api.GET("/search/city/paginated", hb.Providers.SearchPage(models.SearchCity, "city"))
		api.GET("/search/description", hb.Providers.Search(models.SearchDescription, "description"))
		api.GET("/search/description/paginated", hb.Providers.SearchPage(models.SearchDescription, "description"))
		api.GET("/username/:username", hb.Providers.GetByUsername)

		provider := api.Group("")
		provider.Use(middleware.RequireRoles(models.RoleProvider))
		provider.POST("", hb.Providers.Create)
		provider.GET("/me", hb.Providers.Mine)
		provider.POST("/me/image", hb.Providers.UploadImage)
		provider.PUT("/:id", hb.Providers.Update)

		api.GET("/:id", hb.Providers.Get)
		api.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), hb.Providers.Delete)
	}
}

// RegisterAvailabilityRoutes registers slot management endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availabilities")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache))
	{
		api.GET("", middleware.RequireRoles(models.RoleAdmin), hb.Availabilities.List)
		api.GET("/provider/:providerId", hb.Availabilities.ListForProvider)
		api.GET("/:id", hb.Availabilities.Get)

		provider := api.Group("")
		provider.Use(middleware.RequireRoles(models.RoleProvider))
		provider.POST("", hb.Availabilities.Create)
		provider.POST("/bulk", hb.Availabilities.CreateBulk)
		provider.GET("/my-availabilities", hb.Availabilities.Mine)
		provider.PUT("/:id", hb.Availabilities.Update)
		provider.PUT("/:id/book", hb.Availabilities.Hold)
		provider.DELETE("/:id", hb.Availabilities.Delete)
	}
}

// RegisterAppointmentRoutes registers booking and status endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache))
	{
		// Role checks for booking and participants live in the service.
		api.POST("", hb.Appointments.Book)
		api.GET("/user/:userId", hb.Appointments.ForUser)
		api.GET("/user/:userId/paginated", hb.Appointments.ForUserPage)
		api.GET("/provider/:providerId", hb.Appointments.ForProvider)
		api.GET("/provider/:providerId/paginated", hb.Appointments.ForProviderPage)
		api.GET("/my-appointments", middleware.RequireRoles(models.RoleProvider), hb.Appointments.Mine)
		api.GET("/my-appointments/paginated", middleware.RequireRoles(models.RoleProvider), hb.Appointments.MinePage)
		api.GET("/:id", hb.Appointments.Get)
		api.PUT("/:id/status", hb.Appointments.UpdateStatus)
		api.PUT("/:id/cancel", hb.Appointments.Cancel)
		api.PUT("/:id/confirm", hb.Appointments.Confirm)

		admin := api.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		admin.GET("", hb.Appointments.List)
		admin.GET("/paginated", hb.Appointments.Page)
		admin.DELETE("/:id", hb.Appointments.Delete)
	}
}

// RegisterDashboardRoutes registers the statistics endpoint.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dashboard")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.TokenCache))
	api.GET("/stats", hb.Dashboard.Stats)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Check)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Location"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig(config.AppConfig.AllowedOrigins)))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
