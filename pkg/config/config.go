package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config application configuration
type Config struct {
	// Server
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	// LLM client (optional narrative composition)
	LLM LLMConfig `yaml:"llm"`

	// Web search providers
	Search SearchConfig `yaml:"search"`

	// Workflow preset selected at boot
	WorkflowPreset string `yaml:"workflow_preset"`

	// Request queue
	Queue QueueConfig `yaml:"queue"`

	// NPPES provider registry
	NPPES NPPESConfig `yaml:"nppes"`
}

// LLMConfig OpenAI or Azure OpenAI client configuration
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"` // off keeps synthesis fully deterministic
	Provider    string  `yaml:"provider"` // openai or azure
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Endpoint    string  `yaml:"endpoint"`   // azure endpoint
	Deployment  string  `yaml:"deployment"` // azure deployment name
	APIVersion  string  `yaml:"api_version"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout"` // seconds
}

// SearchConfig web search provider configuration
type SearchConfig struct {
	Provider        string `yaml:"provider"` // duckduckgo or tavily
	DuckDuckGoURL   string `yaml:"duckduckgo_url"`
	TavilyAPIKey    string `yaml:"tavily_api_key"`
	TavilyURL       string `yaml:"tavily_url"`
	TavilyDepth     string `yaml:"tavily_depth"`
	Timeout         int    `yaml:"timeout"`       // seconds per provider call
	RateLimitMS     int    `yaml:"rate_limit_ms"` // minimum gap between provider calls
	FallbackEnabled bool   `yaml:"fallback_enabled"`
}

// QueueConfig request queue configuration
type QueueConfig struct {
	MaxWorkers     int `yaml:"max_workers"`
	QueueSize      int `yaml:"queue_size"`
	RequestTimeout int `yaml:"request_timeout"` // seconds
	QueueTimeout   int `yaml:"queue_timeout"`   // seconds
}

// NPPESConfig NPI registry client configuration
type NPPESConfig struct {
	BaseURL string `yaml:"base_url"`
	Version string `yaml:"version"`
	Timeout int    `yaml:"timeout"` // seconds
}

// LoadConfig loads configuration from the environment, with .env support.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		LLM: LLMConfig{
			Enabled:     getEnvBool("SYNTHESIS_LLM_ENABLED", false),
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Endpoint:    getEnv("AZURE_OPENAI_ENDPOINT", ""),
			Deployment:  getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
			APIVersion:  getEnv("AZURE_OPENAI_API_VERSION", "2023-08-01-preview"),
			Model:       getEnv("LLM_MODEL", "gpt-4"),
			Temperature: getEnvFloat32("LLM_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2000),
			Timeout:     getEnvInt("LLM_TIMEOUT", 60),
		},

		Search: SearchConfig{
			Provider:        getEnv("SEARCH_PROVIDER", "duckduckgo"),
			DuckDuckGoURL:   getEnv("DUCKDUCKGO_BASE_URL", "https://api.duckduckgo.com"),
			TavilyAPIKey:    getEnv("TAVILY_API_KEY", ""),
			TavilyURL:       getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
			TavilyDepth:     getEnv("TAVILY_SEARCH_DEPTH", "advanced"),
			Timeout:         getEnvInt("SEARCH_TIMEOUT", 10),
			RateLimitMS:     getEnvInt("SEARCH_RATE_LIMIT_MS", 1000),
			FallbackEnabled: getEnvBool("SEARCH_FALLBACK_ENABLED", true),
		},

		WorkflowPreset: getEnv("WORKFLOW_PRESET", "default"),

		Queue: QueueConfig{
			MaxWorkers:     getEnvInt("QUEUE_MAX_WORKERS", 3),
			QueueSize:      getEnvInt("QUEUE_SIZE", 100),
			RequestTimeout: getEnvInt("QUEUE_REQUEST_TIMEOUT", 120),
			QueueTimeout:   getEnvInt("QUEUE_TIMEOUT", 10),
		},

		NPPES: NPPESConfig{
			BaseURL: getEnv("NPPES_BASE_URL", "https://npiregistry.cms.hhs.gov/api/"),
			Version: getEnv("NPPES_API_VERSION", "2.1"),
			Timeout: getEnvInt("NPPES_TIMEOUT", 10),
		},
	}

	return config, nil
}

// getEnv returns the environment value or the default when unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment value or the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat32 returns a float environment value or the default.
func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

// getEnvBool returns a boolean environment value or the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
