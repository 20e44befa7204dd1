package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port              int
	NatsURL           string
	NatsToken         string
	DatabaseURL       string
	LogLevel          string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIMaxTokens   int
	OpenAITemperature float64
	BridgeURL         string
	BridgeAPIKey      string
	APIToken          string
}

func Load() Config {
	return Config{
		Port:              envInt("REKINDLE_PORT", 8960),
		NatsURL:           envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:         envStr("NATS_TOKEN", ""),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		OpenAIModel:       envStr("REKINDLE_MODEL", "gpt-4o-mini"),
		OpenAIMaxTokens:   envInt("REKINDLE_MAX_TOKENS", 1000),
		OpenAITemperature: envFloat("REKINDLE_TEMPERATURE", 0.8),
		BridgeURL:         envStr("IMESSAGE_BRIDGE_URL", ""),
		BridgeAPIKey:      envStr("IMESSAGE_BRIDGE_API_KEY", ""),
		APIToken:          envStr("REKINDLE_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
