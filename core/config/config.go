package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel    OTelConfig
	OpenAI  OpenAIConfig
	Queue   QueueConfig
	Tracker TrackerConfig
	Shop    ShopConfig
	Browser BrowserConfig
	Write   WriteConfig
	Naver   NaverConfig
	X       XConfig
	Env     string
	Port    string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type QueueConfig struct {
	RedisURL       string
	RedisStream    string
	RedisGroup     string
	RedisDLQStream string
	RedisConsumer  string
}

// TrackerConfig points at the external reporting service that receives
// content records and tracking log entries. Redirect links for published
// content are built from the same host.
type TrackerConfig struct {
	BaseURL string
	Source  string
	Timeout time.Duration
}

type ShopConfig struct {
	BaseURL string
	Timeout time.Duration
}

type BrowserConfig struct {
	Headless   bool
	NavTimeout time.Duration
	SessionDir string
}

type WriteConfig struct {
	Engine             string // "graph" or "sequential"
	MaxAttempts        int
	RelevanceThreshold float64
	TrendLimit         int
	ProductLimit       int
	TrendGeo           string
}

// NaverConfig holds fallback blog credentials used when a job's channel
// carries none of its own.
type NaverConfig struct {
	LoginID string
	LoginPw string
	BlogID  string
}

// XConfig holds fallback OAuth1 credentials for the social adapter.
type XConfig struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the background worker
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("WRITER_ENV", "development") == "development" {
		// Try service-specific env file first, fall back to .env
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:  getEnv("WRITER_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "writer"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Queue: QueueConfig{
			RedisURL:       getEnv("REDIS_URL", ""),
			RedisStream:    getEnv("REDIS_STREAM", "write_jobs"),
			RedisGroup:     getEnv("REDIS_CONSUMER_GROUP", "write_group"),
			RedisDLQStream: getEnv("REDIS_DLQ_STREAM", "write_jobs_dlq"),
			RedisConsumer:  getEnv("REDIS_CONSUMER_NAME", "api-server"),
		},
		Tracker: TrackerConfig{
			BaseURL: getEnv("TRACKER_BASE_URL", ""),
			Source:  getEnv("TRACKER_SOURCE", "writer"),
			Timeout: getEnvDuration("TRACKER_TIMEOUT", 10*time.Second),
		},
		Shop: ShopConfig{
			BaseURL: getEnv("SHOP_BASE_URL", "https://ssadagu.kr"),
			Timeout: getEnvDuration("SHOP_TIMEOUT", 15*time.Second),
		},
		Browser: BrowserConfig{
			Headless:   getEnvBool("BROWSER_HEADLESS", true),
			NavTimeout: getEnvDuration("BROWSER_NAV_TIMEOUT", 30*time.Second),
			SessionDir: getEnv("BROWSER_SESSION_DIR", ".sessions"),
		},
		Write: WriteConfig{
			Engine:             getEnv("WRITE_ENGINE", "graph"),
			MaxAttempts:        getEnvInt("WRITE_MAX_ATTEMPTS", 5),
			RelevanceThreshold: getEnvFloat("WRITE_RELEVANCE_THRESHOLD", 0.8),
			TrendLimit:         getEnvInt("WRITE_TREND_LIMIT", 20),
			ProductLimit:       getEnvInt("WRITE_PRODUCT_LIMIT", 20),
			TrendGeo:           getEnv("WRITE_TREND_GEO", "KR"),
		},
		Naver: NaverConfig{
			LoginID: getEnv("NAVER_LOGIN_ID", ""),
			LoginPw: getEnv("NAVER_LOGIN_PW", ""),
			BlogID:  getEnv("NAVER_BLOG_ID", ""),
		},
		X: XConfig{
			APIKey:            getEnv("X_API_KEY", ""),
			APIKeySecret:      getEnv("X_API_KEY_SECRET", ""),
			AccessToken:       getEnv("X_ACCESS_TOKEN", ""),
			AccessTokenSecret: getEnv("X_ACCESS_TOKEN_SECRET", ""),
		},
	}

	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c QueueConfig) Enabled() bool {
	return c.RedisURL != ""
}

func (c TrackerConfig) Enabled() bool {
	return c.BaseURL != ""
}

func (c NaverConfig) Enabled() bool {
	return c.LoginID != "" && c.LoginPw != ""
}

func (c XConfig) Enabled() bool {
	return c.APIKey != "" && c.APIKeySecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
