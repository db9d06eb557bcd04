// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. SHOP_BOT_TOKEN.
const EnvPrefix = "SHOP"

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token" validate:"required"`
	Workers  int     `yaml:"workers" validate:"gte=1,lte=256"` // update workers
	Queue    int     `yaml:"queue" validate:"gte=1"`           // pending updates buffer
	AdminIDs []int64 `yaml:"admin_ids"`
	Locale   string  `yaml:"locale" validate:"required"`
}

type LogConfig struct {
	Level    string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format   string `yaml:"format" validate:"oneof=json console"`
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// DatabaseConfig: an empty URL runs the bot on the in-memory store.
type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"omitempty,url"`
	MaxConns int32  `yaml:"max_conns" validate:"gte=1"`
	Migrate  bool   `yaml:"migrate"`
}

// RedisConfig: an empty URL keeps conversation state in memory.
type RedisConfig struct {
	URL      string        `yaml:"url" validate:"omitempty,hostname_port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit" validate:"gte=0"` // 0 disables
	Window time.Duration `yaml:"window"`
}

// HTTPConfig: Port 0 disables the admin API.
type HTTPConfig struct {
	Port      int           `yaml:"port" validate:"gte=0,lte=65535"`
	JWTSecret string        `yaml:"jwt_secret" validate:"required_unless=Port 0,omitempty,min=16"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	HTTP      HTTPConfig      `yaml:"http"`

	Runtime RuntimeConfig `yaml:"-"`
}

// envOverlay lists the settings that may come from the environment.
type envOverlay struct {
	BotToken       string  `envconfig:"BOT_TOKEN"`
	AdminIDs       []int64 `envconfig:"ADMIN_IDS"`
	DatabaseURL    string  `envconfig:"DATABASE_URL"`
	RedisURL       string  `envconfig:"REDIS_URL"`
	RedisPassword  string  `envconfig:"REDIS_PASSWORD"`
	AdminJWTSecret string  `envconfig:"ADMIN_JWT_SECRET"`
	LogLevel       string  `envconfig:"LOG_LEVEL"`
}

// LoadConfig parses -config and -dev flags and loads the file they name.
func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	return Load(configPath, dev)
}

// Load reads the YAML file, loads an optional .env, overlays SHOP_*
// environment variables, fills defaults and validates the result.
func Load(path string, dev bool) (*Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && dev:
		// dev runs may rely on the environment alone
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var env envOverlay
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	env.apply(&cfg)

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (e envOverlay) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Bot.Token, e.BotToken)
	set(&cfg.Database.URL, e.DatabaseURL)
	set(&cfg.Redis.URL, e.RedisURL)
	set(&cfg.Redis.Password, e.RedisPassword)
	set(&cfg.HTTP.JWTSecret, e.AdminJWTSecret)
	set(&cfg.Log.Level, e.LogLevel)
	if len(e.AdminIDs) > 0 {
		cfg.Bot.AdminIDs = e.AdminIDs
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Queue <= 0 {
		cfg.Bot.Queue = 100
	}
	if cfg.Bot.Locale == "" {
		cfg.Bot.Locale = "ru"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Redis.CacheTTL <= 0 {
		cfg.Redis.CacheTTL = 10 * time.Minute
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.HTTP.TokenTTL <= 0 {
		cfg.HTTP.TokenTTL = 12 * time.Hour
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
