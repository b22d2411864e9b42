package config

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Backend    BackendConfig    `yaml:"backend" mapstructure:"backend"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	History    HistoryConfig    `yaml:"history" mapstructure:"history"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Materials  MaterialsConfig  `yaml:"materials" mapstructure:"materials"`
	Recommend  RecommendConfig  `yaml:"recommend" mapstructure:"recommend"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BackendConfig configures the supplier backend API client.
type BackendConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	Email          string  `yaml:"email" mapstructure:"email"`
	Password       string  `yaml:"password" mapstructure:"password"`
	Token          string  `yaml:"token" mapstructure:"token"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// StoreConfig selects the key-value backend that holds local state.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "memory", "sqlite", "postgres" or "redis"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// HistoryConfig configures the analysis history list.
type HistoryConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	Capacity int    `yaml:"capacity" mapstructure:"capacity"`
}

// RedisConfig configures the redis store driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// MaterialsConfig configures the material source index.
type MaterialsConfig struct {
	OverridePath string `yaml:"override_path" mapstructure:"override_path"`
}

// RecommendConfig configures recommendation ranking.
type RecommendConfig struct {
	Limit int  `yaml:"limit" mapstructure:"limit"`
	Local bool `yaml:"local" mapstructure:"local"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// MonitoringConfig configures upstream health alerting.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	MinRequests          int     `yaml:"min_requests" mapstructure:"min_requests"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SOURCING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.email", "")
	v.SetDefault("backend.password", "")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.rate_limit_rps", 5.0)
	v.SetDefault("backend.rate_limit_burst", 5)
	v.SetDefault("backend.timeout_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sourcing.db")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("history.key", "analysis_history")
	v.SetDefault("history.capacity", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "sourcing")
	v.SetDefault("materials.override_path", "")
	v.SetDefault("recommend.limit", 5)
	v.SetDefault("recommend.local", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.failure_rate_threshold", 0.25)
	v.SetDefault("monitoring.min_requests", 5)
	v.SetDefault("monitoring.check_interval_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "backend" (any command that talks to the API), "store" and "serve".
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "backend":
		if err := c.validateBackend(&missing); err != nil {
			return err
		}
	case "store":
		c.validateStore(&missing)
	case "serve":
		if err := c.validateBackend(&missing); err != nil {
			return err
		}
		c.validateStore(&missing)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return eris.Errorf("config: server.port must be 1-65535, got %d", c.Server.Port)
		}
		if t := c.Monitoring.FailureRateThreshold; t < 0 || t > 1 {
			return eris.Errorf("config: monitoring.failure_rate_threshold must be 0-1, got %.2f", t)
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: missing required fields for %s: %s", mode, strings.Join(missing, ", "))
	}
	if c.Recommend.Limit < 0 {
		return eris.Errorf("config: recommend.limit must not be negative, got %d", c.Recommend.Limit)
	}
	if c.History.Capacity < 0 || c.History.Capacity > maxHistoryCapacity {
		return eris.Errorf("config: history.capacity must be 0-%d, got %d", maxHistoryCapacity, c.History.Capacity)
	}
	return nil
}

// maxHistoryCapacity mirrors history.DefaultCapacity, the upper bound of
// the analysis history.
const maxHistoryCapacity = 5

func (c *Config) validateBackend(missing *[]string) error {
	if c.Backend.BaseURL == "" {
		*missing = append(*missing, "backend.base_url")
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return eris.Errorf("config: backend.base_url is not an absolute URL: %q", c.Backend.BaseURL)
	}
	if c.Backend.Token == "" && (c.Backend.Email == "" || c.Backend.Password == "") {
		*missing = append(*missing, "backend.token or backend.email+backend.password")
	}
	if c.Backend.RateLimitRPS < 0 {
		return eris.Errorf("config: backend.rate_limit_rps must not be negative, got %.2f", c.Backend.RateLimitRPS)
	}
	return nil
}

func (c *Config) validateStore(missing *[]string) {
	switch c.Store.Driver {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			*missing = append(*missing, "redis.addr")
		}
	default:
		if c.Store.DatabaseURL == "" {
			*missing = append(*missing, "store.database_url")
		}
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
