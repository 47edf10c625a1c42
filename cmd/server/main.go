package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"poiharvest/internal/config"
	"poiharvest/internal/modules/stores/application/handler"
	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/application/usecase"
	"poiharvest/internal/modules/stores/infrastructure"
	transport "poiharvest/internal/modules/stores/interface"
	"poiharvest/internal/platform/broker"
	"poiharvest/internal/shared/auth"
	"poiharvest/internal/shared/logging"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", cfg.Kafka.Topics))

	validator, err := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)
	if err != nil {
		slog.Error("jwt setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	if !validator.Configured() {
		slog.Warn("no JWT key configured, harvest trigger and feature feed will reject every request")
	}

	sources := buildSources(cfg.Harvest)
	slog.Info("sources registered", slog.Any("sources", sources.Names()))

	hub := infrastructure.NewHub()

	var publisher port.FeaturePublisher
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Publish {
		kafkaPublisher := broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.BatchTimeout)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}
	harvestUC := usecase.NewHarvestUseCase(sources, publisher, hub)

	registry := infrastructure.NewHandlerRegistry()
	registry.Register(&handler.HarvestRequestedHandler{UseCase: harvestUC})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumers := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics)

	if cfg.Harvest.Interval > 0 {
		go runSchedule(ctx, harvestUC, cfg.Harvest.Interval, cfg.Harvest.Timeout)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	transport.Routes{
		Harvest:        harvestUC,
		Hub:            hub,
		Validator:      validator,
		HarvestRole:    cfg.Security.HarvestRole,
		HarvestTimeout: cfg.Harvest.Timeout,
	}.Register(e)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
	consumers.Wait()
}

func buildSources(cfg config.HarvestConfig) *infrastructure.SourceRegistry {
	opts := infrastructure.ClientOptions{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		UserAgent: cfg.UserAgent,
	}
	client := func(name, fallback string) *infrastructure.RESTClient {
		return infrastructure.NewRESTClient(cfg.BaseURL(name, fallback), opts)
	}

	all := []port.Source{
		infrastructure.NewTriDVASource(client(infrastructure.TriDVASourceName, infrastructure.TriDVABaseURL)),
		infrastructure.NewMercatorSource(client(infrastructure.MercatorSourceName, infrastructure.MercatorBaseURL)),
		infrastructure.NewTelekomSource(client(infrastructure.TelekomSourceName, infrastructure.TelekomBaseURL)),
		infrastructure.NewTusSource(client(infrastructure.TusSourceName, infrastructure.TusBaseURL)),
	}
	registry := infrastructure.NewSourceRegistry()
	for _, source := range all {
		if cfg.Enabled(source.Name()) {
			registry.Register(source)
		}
	}
	return registry
}

// runSchedule harvests every source once per interval, starting immediately.
func runSchedule(ctx context.Context, harvestUC *usecase.HarvestUseCase, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		results := harvestUC.RunAll(runCtx)
		cancel()
		for _, result := range results {
			slog.Info("scheduled harvest", slog.String("source", result.Source), slog.Int("accepted", result.Accepted), slog.Int("rejected", result.Rejected), slog.String("error", result.Error))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	file, err := logging.OpenDailyFile(cfg.Directory, time.Now())
	if err != nil {
		return nil, nil, err
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
