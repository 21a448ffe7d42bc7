package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"catimporter/backend/internal/catapi"
	"catimporter/backend/internal/config"
	"catimporter/backend/internal/database"
	"catimporter/backend/internal/handler"
	"catimporter/backend/internal/logging"
	"catimporter/backend/internal/service"
	"catimporter/backend/internal/store"

	// Swagger imports
	_ "catimporter/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type application struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *gorm.DB
	svc    *service.CatService
}

// setup loads configuration, connects to the database and wires the service.
func setup(cmd *cli.Command) (*application, error) {
	cfg, envFileFound, err := config.Load(cmd.String("env-dir"))
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel, os.Stdout)
	if !envFileFound {
		logger.Warn().Msg(".env file not found, loading from environment variables")
	}
	if cfg.CatAPIKey == "" {
		logger.Warn().Msg("CAT_API_KEY is empty, upstream requests are sent without a key")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	client := catapi.NewClient(cfg.CatAPIBaseURL, cfg.CatAPIKey, cfg.CatAPITimeout)
	svc := service.NewCatService(store.New(db), client, logger)

	return &application{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (a *application) close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Error().Err(err).Msg("failed to close database")
	}
}

// @title           Cat Importer API
// @version         1.0
// @description     Imports cat images and breed temperaments from TheCatAPI and serves them with tag filtering.
// @host            localhost:8080
// @BasePath        /api/v1
func serve(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	if app.cfg.LogLevel != "debug" && app.cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(app.svc, app.logger)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpServer := &http.Server{
		Addr:              app.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info().Str("address", app.cfg.HTTPAddr).Msg("Server is running")
		app.logger.Info().Msgf("Swagger UI is available at http://localhost%s/swagger/index.html", app.cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		app.logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error().Err(err).Msg("HTTP server shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	app.logger.Info().Msg("Server stopped successfully")
	return nil
}

func fetch(ctx context.Context, cmd *cli.Command) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	result, err := app.svc.FetchAndSave(ctx, int(cmd.Int("count")))
	if err != nil {
		return err
	}

	fmt.Printf("%d cats fetched: %d saved, %d skipped, %d new tags\n",
		result.Fetched, result.Created, result.Skipped, result.NewTags)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "catimporter",
		Usage:  "Import cats from TheCatAPI and serve them over HTTP",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-dir",
				Usage:   "Directory containing the .env file",
				Value:   ".",
				Sources: cli.EnvVars("APP_ENV_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "fetch",
				Usage:  "Fetch and import one batch of cats, then exit",
				Action: fetch,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of cats to fetch",
						Value:   service.DefaultFetchCount,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "catimporter: %v\n", err)
		os.Exit(1)
	}
}
