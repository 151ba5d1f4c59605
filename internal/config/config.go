package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingSearchURL = errors.New("SEARCH_API_URL is required")
	ErrMissingSearchKey = errors.New("SEARCH_API_KEY is required")
	ErrMissingLLMKey    = errors.New("OPENROUTER_API_KEY is required when summarization is enabled")
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrInvalidTransport = errors.New("transport must be stdio or http")
)

type Config struct {
	Search  SearchConfig
	LLM     LLMConfig
	Digest  DigestConfig
	Report  ReportConfig
	Server  ServerConfig
	Metrics MetricsConfig
	Log     LogConfig
}

type SearchConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

type LLMConfig struct {
	Provider   string
	OpenRouter OpenRouterConfig
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type DigestConfig struct {
	Summarize bool
	MaxTokens int
}

type ReportConfig struct {
	WebhookURL string
}

type ServerConfig struct {
	Transport string
	Addr      string
}

type MetricsConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Search: SearchConfig{
			APIKey:   os.Getenv("SEARCH_API_KEY"),
			BaseURL:  os.Getenv("SEARCH_API_URL"),
			PageSize: getEnvIntOrDefault("SEARCH_PAGE_SIZE", 5),
			Timeout:  time.Duration(getEnvIntOrDefault("SEARCH_TIMEOUT_SEC", 10)) * time.Second,
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "openrouter"),
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
				Timeout: time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 60)) * time.Second,
			},
		},
		Digest: DigestConfig{
			Summarize: getEnvBoolOrDefault("SUMMARIZE_ENABLED", true),
			MaxTokens: getEnvIntOrDefault("SUMMARIZE_MAX_TOKENS", 1024),
		},
		Report: ReportConfig{
			WebhookURL: os.Getenv("ERROR_WEBHOOK_URL"),
		},
		Server: ServerConfig{
			Transport: getEnvOrDefault("MCP_TRANSPORT", "stdio"),
			Addr:      getEnvOrDefault("MCP_LISTEN_ADDR", ":8080"),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Search.BaseURL == "" {
		return ErrMissingSearchURL
	}
	if c.Search.APIKey == "" {
		return ErrMissingSearchKey
	}
	if c.Search.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.Digest.Summarize && c.LLM.Provider == "openrouter" && c.LLM.OpenRouter.APIKey == "" {
		return ErrMissingLLMKey
	}
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return ErrInvalidTransport
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
