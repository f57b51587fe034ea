// Package config loads application configuration from environment
// variables. Unlike earlier iterations nothing here is fatal: the
// database, Redis and the language-model API key are all optional and
// the application degrades to in-process storage, in-process sessions
// and the offline analyzer when they are absent.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. String fields left
// empty mean the corresponding collaborator is not configured.
type Config struct {
	Env  string // application environment ("dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username (empty -> in-memory storage only)
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	BcryptCost      int           // bcrypt cost for password hashing
	SessionTTL      time.Duration // lifetime of a login session
	GeminiAPIKey    string        // language model API key (empty -> offline analyzer)
	GeminiModel     string        // language model name
	AnalyzerTimeout time.Duration // hard timeout for one generation call
}

// Load reads configuration from the environment, applying defaults that
// let the service start with no environment at all.
func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: getenv("APP_PORT", "8080"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: os.Getenv("DB_HOST"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: getenv("DB_NAME", "clinical_assistant"),

		BcryptCost:      envInt("BCRYPT_COST", 12),
		SessionTTL:      envDur("SESSION_TTL", 12*time.Hour),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		AnalyzerTimeout: envDur("ANALYZER_TIMEOUT", 30*time.Second),
	}
}

// DatabaseConfigured reports whether enough settings are present to try
// the durable backend at all.
func (c Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBUser != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
