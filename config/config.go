package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppPort   string
	LogLevel  string
	LogFormat string

	QuoteBaseURL string
	QuoteTimeout time.Duration
	QuoteRetries int

	NewsURL     string
	NewsTimeout time.Duration

	GeminiKey       string
	GeminiModel     string
	GeminiBaseURL   string
	AdvisoryTimeout time.Duration

	SnapshotTTL     time.Duration
	FallbackTTL     time.Duration
	RefreshInterval time.Duration

	DisplayTZ    string
	OverlapStart int
	OverlapEnd   int

	CrossPolicy   string
	MinSpread     float64
	RSIOverbought float64
	RSIOversold   float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment directly")
	}

	return &Config{
		AppPort:   getEnv("APP_PORT", "3000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		QuoteBaseURL: getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
		QuoteTimeout: getDuration("QUOTE_TIMEOUT", 3*time.Second),
		QuoteRetries: getInt("QUOTE_RETRIES", 1),

		NewsURL:     getEnv("NEWS_URL", "https://www.forexfactory.com/calendar?day=today"),
		NewsTimeout: getDuration("NEWS_TIMEOUT", 1500*time.Millisecond),

		GeminiKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AdvisoryTimeout: getDuration("ADVISORY_TIMEOUT", 3*time.Second),

		SnapshotTTL:     getDuration("SNAPSHOT_TTL", 10*time.Minute),
		FallbackTTL:     getDuration("SNAPSHOT_FALLBACK_TTL", 30*time.Second),
		RefreshInterval: getDuration("REFRESH_INTERVAL", 0),

		DisplayTZ:    getEnv("DISPLAY_TZ", "Africa/Lagos"),
		OverlapStart: getInt("OVERLAP_START", 14),
		OverlapEnd:   getInt("OVERLAP_END", 17),

		CrossPolicy:   getEnv("CROSS_POLICY", "wait"),
		MinSpread:     getFloat("MIN_SPREAD", 0),
		RSIOverbought: getFloat("RSI_OVERBOUGHT", 70),
		RSIOversold:   getFloat("RSI_OVERSOLD", 30),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", fallback).Msg("invalid number, using default")
		return fallback
	}
	return v
}

// Accepts Go durations ("1500ms", "10m") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	log.Warn().Str("key", key).Str("value", raw).Stringer("default", fallback).Msg("invalid duration, using default")
	return fallback
}
