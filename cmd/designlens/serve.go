package designlens

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/analyzer"
	"github.com/kamilpajak/designlens/internal/api"
	"github.com/kamilpajak/designlens/internal/auth"
	"github.com/kamilpajak/designlens/internal/database"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/logging"
	"github.com/kamilpajak/designlens/internal/quality"
	"github.com/kamilpajak/designlens/internal/screenshot"
	"github.com/kamilpajak/designlens/internal/variations"
	"github.com/kamilpajak/designlens/pkg/models"
)

var serveMigrateOnly bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the HTTP API: analyses are created over SSE-streamed POST
requests and stored in Postgres. Requires DATABASE_URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrateOnly, "migrate", false, "Run migrations and exit")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Init(cfg.Debug)
	logger := logging.For("server")

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	logger.Info().Msg("running database migrations")
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if serveMigrateOnly {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var verifier *auth.Verifier
	if cfg.AuthEnabled() {
		verifier, err = auth.NewVerifier(auth.Config{
			Issuer:   cfg.AuthIssuer,
			JWKSURL:  cfg.AuthJWKSURL,
			Audience: cfg.AuthAudience,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize auth: %w", err)
		}
		logger.Info().Str("issuer", cfg.AuthIssuer).Msg("bearer token verification enabled")
	} else {
		logger.Warn().Msg("no auth configured, API is open")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	generateVariations := func(ctx context.Context, doc *models.Document, patterns []variations.Pattern, emitter llm.ProgressEmitter) []variations.Variation {
		g := variations.New(client, quality.New(client), cfg.AttemptBudget, emitter)
		return g.Generate(ctx, doc, patterns)
	}

	analyze := func(ctx context.Context, url string, emitter llm.ProgressEmitter) (*models.Document, error) {
		capture, err := screenshot.CaptureWithSegments(url, screenshot.Options{
			Width:     cfg.ScreenshotWidth,
			Height:    cfg.ScreenshotHeight,
			TimeoutMS: float64(cfg.ScreenshotTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("capture failed: %w", err)
		}
		a := analyzer.New(client, emitter, cfg.MaxRetries)
		return a.Run(ctx, analyzer.Params{
			URL:        url,
			Screenshot: capture.FullPage,
			Segments:   capture.Segments,
		})
	}

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: api.NewServer(api.Config{
			DB:           db,
			AuthVerifier: verifier,
			Analyze:      analyze,
			Variations:   generateVariations,
		}),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
