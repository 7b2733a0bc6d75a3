package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ServiceGateway = "gateway"
	ServiceServer  = "server"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectRetries  int           `mapstructure:"connect_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type GatewayConfig struct {
	ServerURL          string        `mapstructure:"server_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	BreakerMaxFailures int           `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerWindow      time.Duration `mapstructure:"breaker_window"`
	CORSOrigins        []string      `mapstructure:"cors_origins"`
}

type RateLimitConfig struct {
	RPS          float64       `mapstructure:"rps"`
	Burst        int           `mapstructure:"burst"`
	PerUserLimit int           `mapstructure:"per_user_limit"`
	Window       time.Duration `mapstructure:"window"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration for the given service from defaults, an optional
// config.yaml (./config or .), a .env file and the environment, in increasing
// order of precedence.
func Load(service string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, service)
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(service); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("app.name", "shareit-"+service)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")

	port := 9090
	if service == ServiceGateway {
		port = 8080
	}
	v.SetDefault("http.port", port)
	v.SetDefault("http.mode", "release")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "program")
	v.SetDefault("database.password", "test")
	v.SetDefault("database.name", "shareit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "shareit.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.connect_retries", 10)
	v.SetDefault("database.retry_delay", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("gateway.server_url", "http://localhost:9090")
	v.SetDefault("gateway.timeout", 10*time.Second)
	v.SetDefault("gateway.breaker_max_failures", 5)
	v.SetDefault("gateway.breaker_timeout", 30*time.Second)
	v.SetDefault("gateway.breaker_window", 60*time.Second)
	v.SetDefault("gateway.cors_origins", []string{"*"})

	v.SetDefault("rate_limit.rps", 100.0)
	v.SetDefault("rate_limit.burst", 200)
	v.SetDefault("rate_limit.per_user_limit", 0)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// bindLegacyEnv keeps the short variable names used by the deployment
// manifests (DB_HOST rather than DATABASE_HOST and so on).
func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		"database.driver":      "DB_DRIVER",
		"database.host":        "DB_HOST",
		"database.port":        "DB_PORT",
		"database.user":        "DB_USER",
		"database.password":    "DB_PASSWORD",
		"database.name":        "DB_NAME",
		"database.sslmode":     "DB_SSLMODE",
		"database.sqlite_path": "DB_SQLITE_PATH",
		"gateway.server_url":   "SHAREIT_SERVER_URL",
		"gateway.cors_origins": "CORS_ORIGINS",
		"logging.level":        "LOG_LEVEL",
		"logging.format":       "LOG_FORMAT",
	}
	for key, env := range legacy {
		_ = v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

func (c *Config) validate(service string) error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	switch c.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("http.mode must be debug, release or test, got %q", c.HTTP.Mode)
	}
	switch service {
	case ServiceServer:
		switch c.Database.Driver {
		case "postgres", "sqlite":
		default:
			return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
		}
	case ServiceGateway:
		if strings.TrimSpace(c.Gateway.ServerURL) == "" {
			return errors.New("gateway.server_url is required")
		}
		c.Gateway.ServerURL = strings.TrimRight(c.Gateway.ServerURL, "/")
	}
	return nil
}
