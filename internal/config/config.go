package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"marketplace"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Search    SearchConfig
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"127.0.0.1"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type DBConfig struct {
	URL string `env:"DATABASE_URL,required,notEmpty"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required,notEmpty"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type SearchConfig struct {
	URL      string `env:"ES_URL"`
	User     string `env:"ES_USER"`
	Password string `env:"ES_PASSWORD"`
	Index    string `env:"ES_INDEX" envDefault:"products"`
}

func (c SearchConfig) Enabled() bool { return c.URL != "" }

type ReconcileConfig struct {
	Schedule string `env:"RECONCILE_SCHEDULE"`
}

func (c ReconcileConfig) Enabled() bool { return c.Schedule != "" }

// Load reads .env when present and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("config_notice", "reason", ".env file not found, using system environment variables")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("parse config: SERVER_PORT %d out of range", c.Server.Port)
	}
	if c.JWT.TTL < 0 {
		return errors.New("parse config: JWT_TTL must not be negative")
	}
	return nil
}
