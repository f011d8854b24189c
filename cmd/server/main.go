package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"talenthub/internal/ai"
	"talenthub/internal/config"
	"talenthub/internal/domain"
	"talenthub/internal/handler"
	"talenthub/internal/ingest"
	"talenthub/internal/middleware"
	"talenthub/internal/repository"
	"talenthub/internal/service"
	"talenthub/pkg/blob"
	"talenthub/pkg/database"
	"talenthub/pkg/redis"
)

func main() {
	cfg := config.Load()

	if cfg.Environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	jobRepo := repository.NewJobRepository(db)
	profileRepo := repository.NewCandidateProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)

	// Outbound adapters
	storage := blob.NewStorage(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	analyzer := ai.NewClient(cfg.OpenRouterAPIKey,
		ai.WithBaseURL(cfg.OpenRouterBaseURL),
		ai.WithModel(cfg.OpenRouterModel))
	ingestor := ingest.NewIngestor(storage, profileRepo)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret)
	jobService := service.NewJobService(jobRepo, companyRepo, appRepo, profileRepo)
	appService := service.NewApplicationService(appRepo, jobRepo, userRepo, companyRepo, profileRepo)
	resumeService := service.NewResumeService(ingestor, analyzer, jobRepo)
	profileService := service.NewProfileService(profileRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)
	appHandler := handler.NewApplicationHandler(appService)
	resumeHandler := handler.NewResumeHandler(resumeService)
	profileHandler := handler.NewProfileHandler(profileService)

	router := setupRouter(cfg, authService, authHandler, jobHandler, appHandler, resumeHandler, profileHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server startup failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func setupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	jobHandler *handler.JobHandler,
	appHandler *handler.ApplicationHandler,
	resumeHandler *handler.ResumeHandler,
	profileHandler *handler.ProfileHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))

	authRequired := middleware.AuthMiddleware(authService)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", jobHandler.List)
			jobs.GET("/:id", jobHandler.Get)
			jobs.GET("/:id/match", authRequired, middleware.RequireRole(domain.RoleJobseeker), jobHandler.MatchPreview)
			jobs.POST("", authRequired, jobHandler.Create)
			jobs.PUT("/:id", authRequired, jobHandler.Update)
			jobs.DELETE("/:id", authRequired, jobHandler.Delete)
		}

		api.GET("/companies/:id/jobs", authRequired, jobHandler.ListCompany)

		applications := api.Group("/applications", authRequired)
		{
			applications.POST("", appHandler.Apply)
			applications.GET("", appHandler.List)
			applications.GET("/analytics", appHandler.Analytics)
			applications.GET("/:id", appHandler.Get)
			applications.PATCH("/:id/status", appHandler.UpdateStatus)
		}

		api.POST("/resume/analyze", authRequired, resumeHandler.Analyze)

		profile := api.Group("/profile", authRequired)
		{
			profile.GET("", profileHandler.Get)
			profile.PUT("", profileHandler.Update)
		}
	}

	return router
}
