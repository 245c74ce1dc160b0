package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port          string
	DBFile        string // Path to the JSON email database file
	ExportDir     string // Directory holding exported raw message JSON files
	Version       string
	LogLevel      string
	OpenAIKey     string
	OpenAITimeout int    // OpenAI API timeout in seconds
	FetchLimit    int    // Default number of messages fetched per ingestion run
	VIPDomain     string // Sender domain that always ranks high priority
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:          getEnv("PORT", "8080"),
		DBFile:        getEnv("DB_FILE", "emails.json"),
		ExportDir:     getEnv("MAILBOX_EXPORT_DIR", "messages"),
		Version:       getEnv("VERSION", "1.0.0"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAITimeout: getEnvInt("OPENAI_TIMEOUT", 60),
		FetchLimit:    getEnvInt("FETCH_LIMIT", 10),
		VIPDomain:     getEnv("VIP_DOMAIN", "importantclient.com"),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "mailsift").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
