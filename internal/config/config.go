package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GroqConfig holds the settings for the external chat-completion API.
// It is injected into the recommendation service; service code never
// reads the environment directly.
type GroqConfig struct {
	APIURL      string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

type Config struct {
	HTTPAddr     string
	MongoURI     string
	DatabaseName string
	RedisAddr    string

	// Timeout applied to each Mongo round trip.
	MongoTimeout time.Duration

	LogLevel string

	Groq GroqConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.MongoURI = getEnv("MONGODB_URI", "")
	cfg.DatabaseName = getEnv("DATABASE_NAME", "product_explorer")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.MongoTimeout = getDuration("MONGO_TIMEOUT", 10*time.Second)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.Groq.APIURL = getEnv("GROQ_API_URL", "")
	cfg.Groq.Model = getEnv("GROQ_MODEL", "llama3-8b-8192")
	cfg.Groq.APIKey = getEnv("GROQ_API_KEY", "")
	cfg.Groq.Temperature = getFloat("GROQ_TEMPERATURE", 0.5)
	cfg.Groq.MaxTokens = getInt("GROQ_MAX_TOKENS", 1024)

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing MONGODB_URI")
	}

	return cfg, nil
}

// Configured reports whether the recommendation API can be called at all.
func (g GroqConfig) Configured() bool {
	return g.APIURL != "" && g.APIKey != ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
