// File: slotwise/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	userRepoPkg "slotwise/database/repository/user"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/appointment"
	"slotwise/services/availability"
	"slotwise/services/dashboard"
	"slotwise/services/provider"
	"slotwise/services/tasks"
	"slotwise/services/user"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitAuthCache()
	utils.RegisterValidators()
	tokenCache := utils.NewRedisTokenCache(utils.GetAuthCacheClient())

	// repositories.
	db := database.DB()
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	provRepo := providerRepo.NewMongoProviderRepo(db)
	slotRepo := availabilityRepo.NewMongoAvailabilityRepo(db)
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)

	taskClient := asynq.NewClient(cron.RedisOpt())

	// services.
	userService := &user.DefaultUserService{
		Repo:           userRepo,
		Providers:      provRepo,
		Availabilities: slotRepo,
		Appointments:   apptRepo,
		Cache:          tokenCache,
		TokenTTL:       config.AppConfig.JWTExpiry,
	}
	providerService, err := provider.NewDefaultProviderService(provRepo, userRepo, slotRepo, apptRepo, utils.ImageStorage())
	if err != nil {
		logger.Fatal("main: provider service", zap.Error(err))
	}
	availabilityService, err := availability.NewDefaultAvailabilityService(slotRepo, provRepo, apptRepo)
	if err != nil {
		logger.Fatal("main: availability service", zap.Error(err))
	}
	appointmentService, err := appointment.NewDefaultAppointmentService(
		apptRepo, slotRepo, provRepo,
		tasks.NewAsynqScheduler(taskClient),
		config.AppConfig.AutoCompleteAppointments,
	)
	if err != nil {
		logger.Fatal("main: appointment service", zap.Error(err))
	}
	dashboardService := &dashboard.DefaultDashboardService{
		Users:        userRepo,
		Providers:    provRepo,
		Appointments: apptRepo,
	}

	// background work.
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	utils.StartHealthMonitor(bgCtx, 60*time.Second, utils.GetAuthCacheClient(), database.MongoClient)

	var worker *cron.CompletionWorker
	if config.AppConfig.AutoCompleteAppointments {
		worker = cron.NewCompletionWorker(appointmentService)
		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("main: appointments will not auto-complete", zap.Error(err))
			}
		}()
	}

	// Create the Gin router.
	router := gin.New()
	var trusted []string
	if len(config.AppConfig.TrustedProxies) > 0 {
		trusted = config.AppConfig.TrustedProxies
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		logger.Fatal("main: trusted proxies", zap.Error(err))
	}
	router.Use(middleware.RequestLogger())
	router.Use(gin.Logger())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Recovery())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:       userRepo,
		TokenCache:     tokenCache,
		Auth:           handlers.NewAuthHandler(userService),
		Users:          handlers.NewUserHandler(userService),
		Providers:      handlers.NewProviderHandler(providerService),
		Availabilities: handlers.NewAvailabilityHandler(availabilityService),
		Appointments:   handlers.NewAppointmentHandler(appointmentService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Health:         handlers.NewHealthHandler(),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8081"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stopBackground()
	if worker != nil {
		worker.Shutdown()
	}
	if err := taskClient.Close(); err != nil {
		logger.Warn("main: closing task client", zap.Error(err))
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: closing database", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
