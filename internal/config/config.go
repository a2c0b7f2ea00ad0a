package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Scoring strategies selectable per candidate class.
const (
	StrategyHeuristic = "heuristic"
	StrategySemantic  = "semantic"
)

// Embedding providers.
const (
	EmbeddingProviderHuggingFace = "huggingface"
	EmbeddingProviderGenAI       = "genai"
)

const defaultHuggingFaceURL = "https://router.huggingface.co/pipeline/feature-extraction/BAAI/bge-base-en-v1.5"

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret string

	// Application
	AppEnv             string
	AppPort            string
	LogLevel           string
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitPerUser  int
	RateLimitWindowS  int
	RequestTimeoutSec int

	// Embeddings
	EmbeddingProvider    string
	HuggingFaceToken     string
	HuggingFaceURL       string
	GenAIAPIKey          string
	GenAIEmbedModel      string
	EmbedTimeoutSeconds  int
	EmbedConcurrency     int
	EmbedCacheSize       int
	EmbedBreakerFailures uint32

	// Matching
	CommunityStrategy     string
	EventStrategy         string
	MaxSemanticCandidates int
	Thresholds            Thresholds
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "matcher"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "value_matcher"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:             getEnv("APP_ENV", "development"),
		AppPort:            getEnv("APP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RateLimitPerUser:  getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitWindowS:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SECONDS", 60),

		EmbeddingProvider:    strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingProviderHuggingFace)),
		HuggingFaceToken:     getEnv("HUGGINGFACE_TOKEN", ""),
		HuggingFaceURL:       getEnv("HUGGINGFACE_API_URL", defaultHuggingFaceURL),
		GenAIAPIKey:          getEnv("GENAI_API_KEY", ""),
		GenAIEmbedModel:      getEnv("GENAI_EMBED_MODEL", "gemini-embedding-001"),
		EmbedTimeoutSeconds:  getEnvInt("EMBED_TIMEOUT_SECONDS", 10),
		EmbedConcurrency:     getEnvInt("EMBED_CONCURRENCY", 4),
		EmbedCacheSize:       getEnvInt("EMBED_CACHE_SIZE", 1000),
		EmbedBreakerFailures: uint32(getEnvInt("EMBED_BREAKER_FAILURES", 5)),

		CommunityStrategy:     strings.ToLower(getEnv("MATCH_COMMUNITY_STRATEGY", StrategyHeuristic)),
		EventStrategy:         strings.ToLower(getEnv("MATCH_EVENT_STRATEGY", StrategySemantic)),
		MaxSemanticCandidates: getEnvInt("MATCH_MAX_SEMANTIC_CANDIDATES", 50),
		Thresholds:            LoadThresholds(),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if !validStrategy(c.CommunityStrategy) {
		return fmt.Errorf("MATCH_COMMUNITY_STRATEGY must be %q or %q", StrategyHeuristic, StrategySemantic)
	}
	if !validStrategy(c.EventStrategy) {
		return fmt.Errorf("MATCH_EVENT_STRATEGY must be %q or %q", StrategyHeuristic, StrategySemantic)
	}
	if c.EmbeddingProvider != EmbeddingProviderHuggingFace && c.EmbeddingProvider != EmbeddingProviderGenAI {
		return fmt.Errorf("EMBEDDING_PROVIDER must be %q or %q", EmbeddingProviderHuggingFace, EmbeddingProviderGenAI)
	}
	if c.EmbedConcurrency < 1 {
		return fmt.Errorf("EMBED_CONCURRENCY must be at least 1")
	}
	if c.MaxSemanticCandidates < 1 {
		return fmt.Errorf("MATCH_MAX_SEMANTIC_CANDIDATES must be at least 1")
	}
	return c.Thresholds.Validate()
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	if c.UsesSemantic() && !c.EmbeddingConfigured() {
		return fmt.Errorf("embedding credentials for provider %q must be set in production", c.EmbeddingProvider)
	}

	return nil
}

// UsesSemantic reports whether any candidate class is ranked with embeddings.
func (c *Config) UsesSemantic() bool {
	return c.CommunityStrategy == StrategySemantic || c.EventStrategy == StrategySemantic
}

// EmbeddingConfigured reports whether the selected provider has credentials.
func (c *Config) EmbeddingConfigured() bool {
	switch c.EmbeddingProvider {
	case EmbeddingProviderGenAI:
		return c.GenAIAPIKey != ""
	default:
		return c.HuggingFaceToken != ""
	}
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetEmbedTimeout() time.Duration {
	return time.Duration(c.EmbedTimeoutSeconds) * time.Second
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowS) * time.Second
}

func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func validStrategy(s string) bool {
	return s == StrategyHeuristic || s == StrategySemantic
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
