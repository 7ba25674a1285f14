// Package config loads the server configuration once at startup.
//
// Values come, in increasing priority, from built-in defaults, an optional
// YAML file and environment variables. Environment variables use the
// BILLSPLITTER_ prefix with dots replaced by underscores, for example
// BILLSPLITTER_OCR_GEMINI_API_KEY. A .env file in the working directory is
// loaded into the environment first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// OCR providers.
const (
	ProviderGemini     = "gemini"
	ProviderLiteLLM    = "litellm"
	ProviderReceiptAPI = "receiptapi"
	ProviderNone       = "none"
)

// Cache drivers.
const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Config holds all configuration for the server.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	OCR    OCRConfig    `mapstructure:"ocr"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	CORSAllowHosts []string      `mapstructure:"cors_allow_hosts"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// LogConfig controls log level and output format ("text" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRConfig selects and configures the receipt OCR provider.
type OCRConfig struct {
	Provider   string           `mapstructure:"provider"`
	Timeout    time.Duration    `mapstructure:"timeout"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	LiteLLM    LiteLLMConfig    `mapstructure:"litellm"`
	ReceiptAPI ReceiptAPIConfig `mapstructure:"receiptapi"`
}

// GeminiConfig configures the Google Gemini provider.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`

	// BaseURL overrides the Gemini API endpoint. Empty uses Google's.
	BaseURL string `mapstructure:"base_url"`
}

// LiteLLMConfig configures an OpenAI-compatible chat completions endpoint,
// typically a LiteLLM proxy.
type LiteLLMConfig struct {
	Model   string `mapstructure:"model"`
	APIBase string `mapstructure:"api_base"`
	APIKey  string `mapstructure:"api_key"`
}

// ReceiptAPIConfig configures a dedicated receipt OCR HTTP service.
type ReceiptAPIConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// CacheConfig configures the OCR result cache.
type CacheConfig struct {
	Driver     string        `mapstructure:"driver"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	RedisAddr  string        `mapstructure:"redis_addr"`
	TTL        time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allow_hosts", []string{})
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.provider", ProviderNone)
	v.SetDefault("ocr.timeout", 45*time.Second)
	v.SetDefault("ocr.gemini.api_key", "")
	v.SetDefault("ocr.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ocr.gemini.base_url", "")
	v.SetDefault("ocr.litellm.model", "")
	v.SetDefault("ocr.litellm.api_base", "")
	v.SetDefault("ocr.litellm.api_key", "")
	v.SetDefault("ocr.receiptapi.url", "")
	v.SetDefault("ocr.receiptapi.api_key", "")

	v.SetDefault("cache.driver", CacheNone)
	v.SetDefault("cache.sqlite_path", "./data/ocr-cache.db")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", 7*24*time.Hour)
}

// Load reads configuration from the optional file at configPath and from
// the environment. An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BILLSPLITTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.OCR.Provider = strings.ToLower(cfg.OCR.Provider)
	cfg.Cache.Driver = strings.ToLower(cfg.Cache.Driver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected OCR provider and cache driver have what
// they need.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}

	switch c.OCR.Provider {
	case ProviderNone:
	case ProviderGemini:
		if c.OCR.Gemini.APIKey == "" {
			errs = append(errs, errors.New("ocr.gemini.api_key is required for the gemini provider"))
		}
	case ProviderLiteLLM:
		if c.OCR.LiteLLM.Model == "" {
			errs = append(errs, errors.New("ocr.litellm.model is required for the litellm provider"))
		}
		if c.OCR.LiteLLM.APIBase == "" {
			errs = append(errs, errors.New("ocr.litellm.api_base is required for the litellm provider"))
		}
	case ProviderReceiptAPI:
		if c.OCR.ReceiptAPI.URL == "" {
			errs = append(errs, errors.New("ocr.receiptapi.url is required for the receiptapi provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ocr.provider %q", c.OCR.Provider))
	}

	switch c.Cache.Driver {
	case CacheNone:
	case CacheSQLite:
		if c.Cache.SQLitePath == "" {
			errs = append(errs, errors.New("cache.sqlite_path is required for the sqlite cache"))
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.driver %q", c.Cache.Driver))
	}

	return errors.Join(errs...)
}
