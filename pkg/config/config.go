package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Upstream UpstreamConfig
	Map      MapConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Upstream marketing API settings
type UpstreamConfig struct {
	DataURL            string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
	SinkURL            string
	SinkSecret         string
}

// Bubble-map rendering settings
type MapConfig struct {
	MinRadius    float64
	MaxRadius    float64
	LowColor     string
	HighColor    string
	DefaultColor string
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			DataURL:            getEnv("MARKETING_DATA_URL", ""),
			RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", "30s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
			SinkURL:            getEnv("SINK_URL", ""),
			SinkSecret:         getEnv("SINK_SECRET", ""),
		},
		Map: MapConfig{
			MinRadius:    getFloatEnv("MAP_MIN_RADIUS", 8),
			MaxRadius:    getFloatEnv("MAP_MAX_RADIUS", 40),
			LowColor:     getEnv("MAP_LOW_COLOR", "#93C5FD"),
			HighColor:    getEnv("MAP_HIGH_COLOR", "#1D4ED8"),
			DefaultColor: getEnv("MAP_DEFAULT_COLOR", "#3B82F6"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
