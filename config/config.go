package config

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr       string `long:"http-addr" env:"HTTP_ADDR" default:":8080" description:"address the HTTP API listens on"`
	PostgresURL    string `long:"postgres-url" env:"POSTGRES_URL" description:"Postgres connection string"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"Jaeger collector endpoint, tracing export is disabled when empty"`
	LogLevel       string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"logrus level"`
	SeedDemoData   bool   `long:"seed-demo-data" env:"SEED_DEMO_DATA" description:"insert the demo show on start"`
	ServiceName    string `long:"service-name" env:"SERVICE_NAME" default:"tickets"`
}

// Parse reads the configuration from args, falling back to environment variables and defaults.
func Parse(args []string) (Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, err
	}

	if cfg.PostgresURL == "" {
		return Config{}, fmt.Errorf("postgres url is required")
	}
	if cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("redis address is required")
	}

	return cfg, nil
}

func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}
