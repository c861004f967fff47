package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cardwatch/reporting-api/internal/config"
	"github.com/cardwatch/reporting-api/internal/domain/chat"
	"github.com/cardwatch/reporting-api/internal/domain/dashboard"
	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
	"github.com/cardwatch/reporting-api/internal/domain/patient"
	"github.com/cardwatch/reporting-api/internal/domain/report"
	"github.com/cardwatch/reporting-api/internal/platform/ai"
	"github.com/cardwatch/reporting-api/internal/platform/db"
	"github.com/cardwatch/reporting-api/internal/platform/middleware"
	"github.com/cardwatch/reporting-api/internal/platform/render"
	"github.com/cardwatch/reporting-api/internal/platform/reportstore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reporting-server",
		Short: "CardWatch Reporting API Server",
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
		Short: "Start the reporting API server",
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

			count, err := db.NewMigrator(pool).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			statuses, err := db.NewMigrator(pool).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
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
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	// Report generation blocks on the AI call and the PDF subprocess; cap
	// the whole request a bit above their combined timeouts.
	requestTimeout := time.Duration(cfg.AITimeoutSeconds+cfg.PDFTimeoutSeconds+30) * time.Second
	e.Use(middleware.RequestTimeout(requestTimeout))

	// Platform services
	store, err := reportstore.New(cfg.ReportsDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize report store")
	}

	htmlRenderer, err := render.NewHTMLRenderer(cfg.ReportTemplate)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize html renderer")
	}

	var pdfRenderer render.Renderer
	if r := render.NewCommandRenderer(cfg.PDFRendererCmd, time.Duration(cfg.PDFTimeoutSeconds)*time.Second, logger); r != nil {
		pdfRenderer = r
	} else {
		logger.Warn().Msg("no pdf renderer configured, reports degrade to html")
	}

	var aiClient *ai.Client
	if cfg.AIConfigured() {
		aiClient = ai.NewClient(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIDeployment, cfg.AIAPIVersion,
			time.Duration(cfg.AITimeoutSeconds)*time.Second, logger)
	} else {
		logger.Warn().Msg("ai endpoint not configured, narratives degrade to placeholder")
		aiClient = ai.NewClient("", "", "", "", time.Duration(cfg.AITimeoutSeconds)*time.Second, logger)
	}

	// Repositories
	patientRepo := patient.NewRepoPG(pool)
	allergyRepo := patient.NewAllergyRepoPG(pool)
	txRepo := nutrition.NewTransactionRepoPG(pool)
	refRepo := nutrition.NewReferenceRepoPG(pool)
	targetRepo := nutrition.NewTargetRepoPG(pool)

	// Services
	patientSvc := patient.NewService(patientRepo, allergyRepo)
	collector := dashboard.NewCollector(patientRepo, allergyRepo, txRepo, refRepo, targetRepo, logger)
	dashboardSvc := dashboard.NewService(collector, aiClient, logger)
	reportSvc := report.NewService(dashboardSvc, htmlRenderer, pdfRenderer, store, logger)
	chatSvc := chat.NewService(collector, aiClient, logger)

	// Routes
	patient.NewHandler(patientSvc).RegisterRoutes(e)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(e)
	report.NewHandler(reportSvc).RegisterRoutes(e)
	reportstore.NewHandler(store).RegisterRoutes(e)
	chat.NewHandler(chatSvc).RegisterRoutes(e)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "CardWatch Reporting API is active"})
	})
	e.GET("/health", db.HealthHandler(pool))

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
