package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"marketSignals/internal/adapters/logger" // Import the logger package for LogLevel
	"marketSignals/internal/ports"
)

// Price sources.
const (
	SourceLocal  = "local"  // In-process provider behind the pricing service
	SourceRemote = "remote" // Separate pricing service over HTTP
)

// Bar providers for the local price source.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderBinance      = "binance"
	ProviderArchive      = "archive"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	// HTTP
	HTTPAddr         string
	CORSAllowOrigins []string
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Price source
	PriceSource  string
	PriceSvcURL  string
	FetchTimeout time.Duration
	Provider     string

	// Alpha Vantage
	AlphaVantageAPIKey     string
	AlphaVantageBaseURL    string
	AlphaVantageOutputSize string

	// Binance API
	APIKey     string
	SecretKey  string
	IsTestnet  bool
	KlineLimit int

	// Database
	DBPath string

	// Cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Warm-up
	WarmSymbols []string
	WarmCron    string

	// Logging
	LogLevel   logger.LogLevel
	LogConsole bool
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment and validates it.
// All problems are reported together.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// HTTP
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8000")
	cfg.CORSAllowOrigins = getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"})
	cfg.RateLimitEnabled = getEnvAsBool("RATE_LIMIT_ENABLED", true)

	cfg.RateLimitRPS, err = getEnvAsFloatRequired("RATE_LIMIT_RPS", 5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_RPS: %v", err))
	} else if cfg.RateLimitRPS <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive")
	}

	cfg.RateLimitBurst, err = getEnvAsIntRequired("RATE_LIMIT_BURST", 15)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_BURST: %v", err))
	} else if cfg.RateLimitBurst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive")
	}

	// Price source
	cfg.PriceSource = strings.ToLower(getEnv("PRICE_SOURCE", SourceLocal))
	cfg.PriceSvcURL = getEnv("PRICE_SVC_URL", "")
	switch cfg.PriceSource {
	case SourceLocal:
	case SourceRemote:
		if cfg.PriceSvcURL == "" {
			errs = append(errs, "PRICE_SVC_URL must be set when PRICE_SOURCE=remote")
		}
	default:
		errs = append(errs, fmt.Sprintf("PRICE_SOURCE must be %q or %q, got %q", SourceLocal, SourceRemote, cfg.PriceSource))
	}

	timeoutSeconds, err := getEnvAsIntRequired("FETCH_TIMEOUT_SECONDS", 20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FETCH_TIMEOUT_SECONDS: %v", err))
	} else if timeoutSeconds <= 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must be positive")
	}
	cfg.FetchTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.Provider = strings.ToLower(getEnv("PROVIDER", ProviderAlphaVantage))
	switch cfg.Provider {
	case ProviderAlphaVantage, ProviderBinance, ProviderArchive:
	default:
		errs = append(errs, fmt.Sprintf("PROVIDER must be one of %s, %s, %s; got %q", ProviderAlphaVantage, ProviderBinance, ProviderArchive, cfg.Provider))
	}

	// Alpha Vantage
	cfg.AlphaVantageAPIKey = getEnv("ALPHAVANTAGE_API_KEY", "")
	cfg.AlphaVantageBaseURL = getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co")
	cfg.AlphaVantageOutputSize = getEnv("ALPHAVANTAGE_OUTPUT_SIZE", "compact")
	if cfg.PriceSource == SourceLocal && cfg.Provider == ProviderAlphaVantage && cfg.AlphaVantageAPIKey == "" {
		errs = append(errs, "ALPHAVANTAGE_API_KEY must be set for PROVIDER=alphavantage")
	}
	if cfg.AlphaVantageOutputSize != "compact" && cfg.AlphaVantageOutputSize != "full" {
		errs = append(errs, "ALPHAVANTAGE_OUTPUT_SIZE must be compact or full")
	}

	// Binance API (klines are public, keys are optional)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)
	cfg.KlineLimit, err = getEnvAsIntRequired("BINANCE_KLINE_LIMIT", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BINANCE_KLINE_LIMIT: %v", err))
	} else if cfg.KlineLimit <= 0 || cfg.KlineLimit > 1500 {
		errs = append(errs, "BINANCE_KLINE_LIMIT must be between 1 and 1500")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/bars.db")

	// Cache
	cfg.CacheBackend = strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory))
	switch cfg.CacheBackend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	default:
		errs = append(errs, fmt.Sprintf("CACHE_BACKEND must be one of %s, %s, %s; got %q", CacheMemory, CacheRedis, CacheNone, cfg.CacheBackend))
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsIntRequired("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REDIS_DB: %v", err))
	}

	ttlSeconds, err := getEnvAsIntRequired("CACHE_TTL_SECONDS", 60)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CACHE_TTL_SECONDS: %v", err))
	} else if ttlSeconds <= 0 {
		errs = append(errs, "CACHE_TTL_SECONDS must be positive")
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	// Warm-up
	cfg.WarmSymbols = getEnvAsList("WARM_SYMBOLS", nil)
	cfg.WarmCron = getEnv("WARM_CRON", "0 */5 * * * *")
	if len(cfg.WarmSymbols) > 0 && cfg.PriceSource == SourceRemote {
		errs = append(errs, "WARM_SYMBOLS requires PRICE_SOURCE=local")
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogConsole = strings.EqualFold(getEnv("LOG_FORMAT", "json"), "console")

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s: %w", strings.Join(errs, "; "), ports.ErrConfigurationError)
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
