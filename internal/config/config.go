package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/assistant-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`

	// Session storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"sessions.db"`

	// Postgres configuration, used when STORAGE_DRIVER=postgres
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	IndexCfg IndexConfig `envPrefix:"INDEX_"`
	LLMCfg   LLMConfig   `envPrefix:"LLM_"`

	QueryCfg     QueryConfig     `envPrefix:"QUERY_"`
	KnowledgeCfg KnowledgeConfig `envPrefix:"KNOWLEDGE_"`

	// Optional YAML file overriding the intent and scenario keyword lists
	VocabularyPath string `env:"VOCABULARY_PATH"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	TracingCfg TracingConfig `envPrefix:"TRACING_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// IndexConfig points at the Chroma document index
type IndexConfig struct {
	HTTPClientConfig
	Collection    string               `env:"COLLECTION" envDefault:"knowledge_base"`
	LabelCacheTTL time.Duration        `env:"LABEL_CACHE_TTL" envDefault:"5m"` // 0 disables the cache
	ScanPageSize  int                  `env:"SCAN_PAGE_SIZE" envDefault:"500"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConfig configures the OpenAI-compatible generator and embedder
type LLMConfig struct {
	APIKey         string        `env:"API_KEY"`
	BaseURL        string        `env:"BASE_URL"`
	ChatModel      string        `env:"CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	Temperature    float64       `env:"TEMPERATURE" envDefault:"0.7"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"2"`
}

// QueryConfig tunes the query pipeline
type QueryConfig struct {
	MemoryMessages     int `env:"MEMORY_MESSAGES" envDefault:"5"`
	SimilarityTopK     int `env:"SIMILARITY_TOP_K" envDefault:"10"`
	ProductLabelLimit  int `env:"PRODUCT_LABEL_LIMIT" envDefault:"15"`
	FallbackLabelLimit int `env:"FALLBACK_LABEL_LIMIT" envDefault:"10"`
	FallbackMinSources int `env:"FALLBACK_MIN_SOURCES" envDefault:"3"`
	DefaultMaxResults  int `env:"DEFAULT_MAX_RESULTS" envDefault:"5"`
	// Prepend conversation memory to the similarity query text
	InjectMemoryIntoRetrieval bool `env:"INJECT_MEMORY_INTO_RETRIEVAL" envDefault:"false"`
	// Generate the plain retrieval answer first and regenerate after classification
	RegenerateAfterClassify bool `env:"REGENERATE_AFTER_CLASSIFY" envDefault:"false"`
}

// KnowledgeConfig drives knowledge base ingestion
type KnowledgeConfig struct {
	Path          string `env:"PATH" envDefault:"knowledges"`
	ChunkSize     int    `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap  int    `env:"CHUNK_OVERLAP" envDefault:"200"`
	ReloadOnStart bool   `env:"RELOAD_ON_START" envDefault:"false"`
}

type TracingConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"assistant-backend"`
	PrettyPrint bool   `env:"PRETTY_PRINT" envDefault:"false"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int           `env:"MAX_CONCURRENT_USERS" envDefault:"50"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8001"`

	// Chroma deployments may expect X-Chroma-Token instead of a bearer token
	TokenHeader string `env:"TOKEN_HEADER" envDefault:"Authorization"`
}

// LoadConfig reads .env.<environment> if present, then the process environment
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	return Parse(environment)
}

// Parse builds the configuration from the process environment only
func Parse(environment string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageDriver {
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			errors = append(errors, "SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", StorageSQLite, StoragePostgres, cfg.StorageDriver))
	}

	if !cfg.EnableMocks && cfg.LLMCfg.APIKey == "" {
		errors = append(errors, "LLM_API_KEY is required unless ENABLE_MOCKS=true")
	}

	if cfg.LLMCfg.Temperature < 0 || cfg.LLMCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %g", cfg.LLMCfg.Temperature))
	}

	q := cfg.QueryCfg
	if q.MemoryMessages < 0 {
		errors = append(errors, fmt.Sprintf("QUERY_MEMORY_MESSAGES must be non-negative, got %d", q.MemoryMessages))
	}
	for name, v := range map[string]int{
		"QUERY_SIMILARITY_TOP_K":     q.SimilarityTopK,
		"QUERY_PRODUCT_LABEL_LIMIT":  q.ProductLabelLimit,
		"QUERY_FALLBACK_LABEL_LIMIT": q.FallbackLabelLimit,
		"QUERY_DEFAULT_MAX_RESULTS":  q.DefaultMaxResults,
	} {
		if v < 1 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got %d", name, v))
		}
	}

	if cfg.KnowledgeCfg.ChunkOverlap < 0 || cfg.KnowledgeCfg.ChunkOverlap >= cfg.KnowledgeCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf(
			"KNOWLEDGE_CHUNK_OVERLAP must be between 0 and KNOWLEDGE_CHUNK_SIZE(%d), got %d",
			cfg.KnowledgeCfg.ChunkSize, cfg.KnowledgeCfg.ChunkOverlap,
		))
	}

	if cfg.IndexCfg.ScanPageSize < 1 {
		errors = append(errors, fmt.Sprintf("INDEX_SCAN_PAGE_SIZE must be positive, got %d", cfg.IndexCfg.ScanPageSize))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot binary needs
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
