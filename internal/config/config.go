package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names the health probe reports on.
const (
	EnvDatabaseURL        = "DATABASE_URL"
	EnvAuthPublishableKey = "AUTH_PUBLISHABLE_KEY"
	EnvAuthSecretKey      = "AUTH_SECRET_KEY"
)

// RequiredEnv must be present for the service to be healthy.
var RequiredEnv = []string{EnvAuthPublishableKey, EnvAuthSecretKey, EnvDatabaseURL}

// OptionalEnv is reported when present but never affects health.
var OptionalEnv = []string{"ARCJET_KEY", "RESEND_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY"}

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string

	// Identity provider
	AuthSecretKey      string
	AuthPublishableKey string
	AuthIssuer         string

	// Operations
	MetricsAPIKey string

	// DecimalZeroQuirk keeps zero balances/amounts in their decimal string
	// form on the wire, matching the legacy serializer.
	DecimalZeroQuirk bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "wealth"),
		DBPassword:     getEnv("DB_PASSWORD", "wealth"),
		DBName:         getEnv("DB_NAME", "wealth"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// Identity provider
		AuthSecretKey:      os.Getenv(EnvAuthSecretKey),
		AuthPublishableKey: os.Getenv(EnvAuthPublishableKey),
		AuthIssuer:         os.Getenv("AUTH_ISSUER"),

		MetricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}

	config.DatabaseURL = os.Getenv(EnvDatabaseURL)
	if config.DatabaseURL == "" {
		config.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName, config.DBSSLMode)
	}

	quirk := getEnv("DECIMAL_ZERO_QUIRK", "false")
	parsed, err := strconv.ParseBool(quirk)
	if err != nil {
		log.Printf("Warning: invalid DECIMAL_ZERO_QUIRK value '%s', falling back to false\n", quirk)
		parsed = false
	}
	config.DecimalZeroQuirk = parsed

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
