package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr         string
	SessionTTL       time.Duration
	ContextWindow    int
	MaxTurns         int
	LLMProvider      string
	LLMModel         string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	AnthropicBaseURL string
	AnthropicAPIKey  string
	LLMTemperature   float64
	LLMMaxTokens     int
	LLMTimeout       time.Duration
	DBDSN            string
	StorePath        string
	MQTTBrokerURL    string
	MQTTClientID     string
	MQTTUsername     string
	MQTTPassword     string
	MQTTTopicPrefix  string
}

// Load reads the environment. DB_DSN, STORE_PATH and MQTT_BROKER_URL are
// optional: empty values disable the archive, SQLite store and event
// notifier respectively.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:         getenvDefault("AUTOBOT_HTTP_ADDR", ":9020"),
		SessionTTL:       time.Duration(getenvIntDefault("SESSION_TTL_SECONDS", 86400)) * time.Second,
		ContextWindow:    getenvIntDefault("CONTEXT_WINDOW", 10),
		MaxTurns:         getenvIntDefault("MAX_TURNS", 10),
		LLMProvider:      getenvDefault("LLM_PROVIDER", "openai"),
		LLMModel:         getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicBaseURL: getenvDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		LLMTemperature:   getenvFloatDefault("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:     getenvIntDefault("LLM_MAX_TOKENS", 800),
		LLMTimeout:       time.Duration(getenvIntDefault("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		DBDSN:            os.Getenv("DB_DSN"),
		StorePath:        os.Getenv("STORE_PATH"),
		MQTTBrokerURL:    os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:     getenvDefault("MQTT_CLIENT_ID", "autobot"),
		MQTTUsername:     os.Getenv("MQTT_USERNAME"),
		MQTTPassword:     os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix:  getenvDefault("MQTT_TOPIC_PREFIX", "autobot"),
	}

	cfg.OpenAIBaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	cfg.AnthropicBaseURL = strings.TrimRight(cfg.AnthropicBaseURL, "/")

	if cfg.MaxTurns <= 0 {
		return Config{}, fmt.Errorf("MAX_TURNS must be positive")
	}
	if cfg.ContextWindow <= 0 {
		return Config{}, fmt.Errorf("CONTEXT_WINDOW must be positive")
	}

	return cfg, nil
}

// RequireLLMKey validates that the selected provider has credentials.
// Binaries that never call the delegated analyzer skip it.
func (c Config) RequireLLMKey() error {
	if c.LLMProvider == "openai" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
	}
	if c.LLMProvider == "claude" && c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=claude")
	}
	return nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}

func getenvFloatDefault(key string, val float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return val
	}
	return f
}
