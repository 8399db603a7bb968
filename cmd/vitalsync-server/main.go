package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalsync/vitalsync/internal/config"
	"github.com/vitalsync/vitalsync/internal/domain/billing"
	"github.com/vitalsync/vitalsync/internal/domain/exams"
	"github.com/vitalsync/vitalsync/internal/domain/identity"
	"github.com/vitalsync/vitalsync/internal/domain/insights"
	"github.com/vitalsync/vitalsync/internal/domain/profile"
	"github.com/vitalsync/vitalsync/internal/domain/tracking"
	"github.com/vitalsync/vitalsync/internal/platform/auth"
	"github.com/vitalsync/vitalsync/internal/platform/db"
	"github.com/vitalsync/vitalsync/internal/platform/middleware"
	"github.com/vitalsync/vitalsync/internal/platform/payments"
	"github.com/vitalsync/vitalsync/internal/platform/storage"
)

// devUserID is injected by DevAuthMiddleware so the API is usable
// without registering during local development.
var devUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitalsync-server",
		Short: "VitalSync health tracking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Upload storage
	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to prepare upload storage")
	}

	// Payment gateway; nil means billing endpoints report unconfigured.
	var gateway payments.Gateway
	if cfg.BillingEnabled() {
		gateway = payments.NewStripeGateway(cfg.StripeSecretKey)
		logger.Info().Msg("stripe billing enabled")
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set; billing is disabled")
	}

	jwtSecret := []byte(cfg.JWTSecret)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("1M", "12M"))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(jwtSecret, devUserID))
	} else {
		e.Use(auth.JWTMiddleware(jwtSecret))
	}

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// -- Domain wiring --

	userRepo := identity.NewUserRepoPG(pool)
	identitySvc := identity.NewService(userRepo)
	identityHandler := identity.NewHandler(identitySvc, jwtSecret, cfg.IsProduction())
	identityHandler.RegisterRoutes(apiV1)

	if cfg.IsDev() {
		if _, err := identitySvc.EnsureDevUser(ctx, devUserID); err != nil {
			logger.Fatal().Err(err).Msg("seeding dev user")
		}
		logger.Info().Str("user_id", devUserID.String()).Msg("dev user ready")
	}

	profileSvc := profile.NewService(profile.NewProfileRepoPG(pool), profile.NewPlanRepoPG(pool), logger)
	profileHandler := profile.NewHandler(profileSvc)
	profileHandler.RegisterRoutes(apiV1)

	insightRepo := insights.NewInsightRepoPG(pool)
	insightSvc := insights.NewService(insightRepo, profileSvc)
	insightHandler := insights.NewHandler(insightSvc)
	insightHandler.RegisterRoutes(apiV1)

	jobRepo := exams.NewJobRepoPG(pool)
	examSvc := exams.NewService(
		exams.NewExamRepoPG(pool),
		exams.NewDetailRepoPG(pool),
		jobRepo,
		insightSvc,
		store,
		logger,
	)
	examHandler := exams.NewHandler(examSvc)
	examHandler.RegisterRoutes(apiV1)

	trackingSvc := tracking.NewService(
		tracking.NewActivityRepoPG(pool),
		tracking.NewSleepRepoPG(pool),
		tracking.NewWaterRepoPG(pool),
		tracking.NewMealRepoPG(pool),
		logger,
	)
	trackingHandler := tracking.NewHandler(trackingSvc)
	trackingHandler.RegisterRoutes(apiV1)

	billingSvc := billing.NewService(userRepo, gateway, cfg.StripePriceID, logger)
	billingHandler := billing.NewHandler(billingSvc)
	billingHandler.RegisterRoutes(apiV1)

	// Background analysis worker
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	worker := exams.NewWorker(jobRepo, examSvc, time.Duration(cfg.AnalysisDelayMS)*time.Millisecond, logger)
	go worker.Start(workerCtx)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
