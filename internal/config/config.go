package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "HOTELHUB"

type Config struct {
	App     AppConfig
	Booking BookingConfig
	Search  SearchConfig
	Seed    SeedConfig
}

type AppConfig struct {
	Host              string        `envconfig:"HOTELHUB_APP_HOST" default:"localhost"`
	Port              string        `envconfig:"HOTELHUB_APP_PORT" default:"8092"`
	LogLevel          string        `envconfig:"HOTELHUB_LOG_LEVEL" default:"info"`
	LogFormat         string        `envconfig:"HOTELHUB_LOG_FORMAT" default:"json"`
	ReadHeaderTimeout time.Duration `envconfig:"HOTELHUB_READ_HEADER_TIMEOUT" default:"20s"`
	LivenessEndpoint  string        `envconfig:"HOTELHUB_LIVENESS_ENDPOINT" default:"/health"`
	ShutdownTimeout   time.Duration `envconfig:"HOTELHUB_SHUTDOWN_TIMEOUT" default:"4s"`
}

type BookingConfig struct {
	// RateLimitMax booking attempts per guest email within RateLimitWindow.
	RateLimitMax    int           `envconfig:"HOTELHUB_BOOKING_RATE_LIMIT_MAX" default:"5"`
	RateLimitWindow time.Duration `envconfig:"HOTELHUB_BOOKING_RATE_LIMIT_WINDOW" default:"60s"`
}

type SearchConfig struct {
	CacheTTL     time.Duration `envconfig:"HOTELHUB_SEARCH_CACHE_TTL" default:"60s"`
	DefaultLimit int           `envconfig:"HOTELHUB_SEARCH_DEFAULT_LIMIT" default:"50"`
	MaxLimit     int           `envconfig:"HOTELHUB_SEARCH_MAX_LIMIT" default:"1000"`
}

type SeedConfig struct {
	SampleData bool `envconfig:"HOTELHUB_SEED_SAMPLE_DATA" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parse config from env: %w", err)
	}

	return &cfg, nil
}
