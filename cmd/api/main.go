package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"commodity-forecast/internal/api"
	"commodity-forecast/internal/config"
	"commodity-forecast/internal/data"
	"commodity-forecast/internal/forecast"
	"commodity-forecast/internal/logging"
	"commodity-forecast/internal/metrics"
	"commodity-forecast/internal/regressor"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine; real deployments set the environment directly.
	envErr := godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to init logger")
	}
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment variables")
	}

	store, err := data.LoadFile(cfg.Dataset.Path, cfg.Dataset.LoadOptions())
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("failed to load dataset")
	}
	logger.Info().
		Str("path", cfg.Dataset.Path).
		Int("observations", store.Len()).
		Int("markets", len(store.Markets())).
		Msg("dataset loaded")

	model, err := regressor.Load(cfg.Model.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Model.Path).Msg("failed to load model")
	}
	logger.Info().Str("path", cfg.Model.Path).Str("model", model.Name()).Msg("model loaded")

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
		rec.SetObservations(store.Len())
		model = rec.Instrument(model)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Service:     forecast.NewService(store, model, cfg.Forecast.MaxHorizon),
		Store:       store,
		Logger:      logger,
		Metrics:     rec,
		MetricsPath: cfg.Metrics.Path,
		CORS:        api.CORSOptions(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("environment", cfg.Environment).Msg("starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
