package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobprep/interview/internal/backend"
	"jobprep/interview/internal/config"
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/jobs"
	"jobprep/interview/internal/llm"
	_ "jobprep/interview/internal/llm/gemini"
	"jobprep/interview/internal/metrics"
	"jobprep/interview/internal/prompts"
	"jobprep/interview/internal/results"
	"jobprep/interview/internal/resume"
	"jobprep/interview/internal/routers"
	"jobprep/interview/internal/scoring"
	"jobprep/interview/internal/session"
	"jobprep/interview/internal/store"
	"jobprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux,
	interviewHandler *handlers.InterviewHandler,
	coachHandler *handlers.CoachHandler,
	resumeHandler *handlers.ResumeHandler,
	jobsHandler *handlers.JobsHandler,
	applicationHandler *handlers.ApplicationHandler,
	healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler)
	routers.CoachRoutes(router, coachHandler)
	routers.ResumeRoutes(router, resumeHandler)
	routers.JobsRoutes(router, jobsHandler)
	routers.ApplicationRoutes(router, applicationHandler)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func main() {
	_ = godotenv.Load()

	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("backend", cfg.BackendBaseURL))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	// upstream AI service client
	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, logger)

	// redis-backed profile store
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	kv := store.NewRedisStore(redisClient)

	// report persistence is optional; without a database the service
	// still runs, it just keeps no report history
	var resultsStore *results.Store
	var exporterJob *jobs.ReportExporterJob
	db, err := initDatabase()
	if err != nil {
		logger.Error("Failed to initialize database, report history will be disabled", zap.Error(err))
	} else {
		resultsStore, err = results.NewStore(db)
		if err != nil {
			logger.Error("Failed to initialize results store, report history will be disabled", zap.Error(err))
			resultsStore = nil
		}
	}

	if resultsStore != nil {
		exporterConfig := &jobs.ExporterConfig{
			Schedule:      cfg.ExportSchedule,
			ExportDir:     cfg.ExportDir,
			ExportEnabled: cfg.ExportEnabled,
		}
		exporterJob = jobs.NewReportExporterJob(resultsStore, exporterConfig)
		if exporterConfig.ExportEnabled {
			if err := exporterJob.Start(); err != nil {
				logger.Error("Failed to start report exporter job", zap.Error(err))
			} else {
				logger.Info("Report exporter job started", zap.String("schedule", exporterConfig.Schedule))
			}
		}
	}

	pipeline := scoring.NewPipeline(backendClient, kv, resultsStore, logger)
	manager := session.NewManager(backendClient, pipeline, backendClient, logger)
	manager.StartReaper(cfg.SessionTTL)

	interviewHandler := handlers.NewInterviewHandler(manager, resultsStore, kv, logger)
	coachHandler := handlers.NewCoachHandler(manager, backendClient, backendClient, logger)
	resumeHandler := handlers.NewResumeHandler(
		resume.NewParser(aiProvider, promptManager, logger),
		resume.NewImprover(aiProvider, promptManager),
		logger)
	jobsHandler := handlers.NewJobsHandler(backendClient, logger)
	applicationHandler := handlers.NewApplicationHandler(kv, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, cfg)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))

	registerRoutes(router, interviewHandler, coachHandler, resumeHandler, jobsHandler, applicationHandler, healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	if exporterJob != nil {
		exporterJob.Stop()
		logger.Info("Report exporter job stopped")
	}

	manager.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
