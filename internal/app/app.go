package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/avstrong/hotelhub/internal/booking"
	"github.com/avstrong/hotelhub/internal/config"
	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/idgen/random"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/metrics"
	"github.com/avstrong/hotelhub/internal/migration"
	"github.com/avstrong/hotelhub/internal/search"
	"github.com/avstrong/hotelhub/internal/storage/memory"
	"github.com/avstrong/hotelhub/internal/transport/web"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

//nolint:funlen // linear wiring
func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l := logger.New(logger.Options{ //nolint:exhaustruct
		ServiceName: "hotelhub",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	registry := prometheus.NewRegistry()

	storage := memory.New(memory.Config{L: l})
	idGen := random.New()

	catalog := hotel.NewCatalog(l, storage, idGen)

	index := search.New(search.Config{
		L:            l,
		Storage:      storage,
		CacheTTL:     cfg.Search.CacheTTL,
		DefaultLimit: cfg.Search.DefaultLimit,
		Metrics:      metrics.NewSearchMetrics(registry),
	})

	bookManager := booking.New(booking.Config{ //nolint:exhaustruct
		L:               l,
		Storage:         storage,
		IDGenerator:     idGen,
		RateLimitMax:    cfg.Booking.RateLimitMax,
		RateLimitWindow: cfg.Booking.RateLimitWindow,
		Metrics:         metrics.NewBookingMetrics(registry),
	})

	if cfg.Seed.SampleData {
		if err := migration.Up(ctx, l, catalog, index); err != nil {
			return fmt.Errorf("up sample-data migration: %w", err)
		}

		l.LogInfo("Sample-data migration has been applied")
	}

	webConf := web.Conf{
		L:                  l,
		ServerLogger:       log.Default(),
		Host:               cfg.App.Host,
		Port:               cfg.App.Port,
		ReadHeaderTimeout:  cfg.App.ReadHeaderTimeout,
		LivenessEndpoint:   cfg.App.LivenessEndpoint,
		SearchDefaultLimit: cfg.Search.DefaultLimit,
		SearchMaxLimit:     cfg.Search.MaxLimit,
		MetricsRegistry:    registry,
	}

	srv, err := web.New(ctx, webConf, catalog, bookManager, index)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
