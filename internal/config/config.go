package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Duration sources accepted by DURATION_SOURCE.
const (
	DurationSourceClient = "client"
	DurationSourceServer = "server"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultMaxUploadBytes caps a single decoded recording at 50 MiB.
const DefaultMaxUploadBytes int64 = 50 * 1024 * 1024

// Config holds application configuration
type Config struct {
	Env string

	// Server
	Port              string
	CORSAllowedOrigin string
	AdminAPIKey       string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Audio storage
	AudioUploadDir string
	AudioURLPrefix string
	MaxUploadBytes int64
	DurationSource string
	FFProbePath    string

	// BackfillSchedule is a cron spec; empty disables the periodic job.
	BackfillSchedule string

	// DefaultUserID stands in for an authenticated user until auth exists.
	DefaultUserID string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env: getEnv("ENV", "development"),

		Port:              getEnv("PORT", "3002"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),

		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "intabyu"),
		DBPassword: getEnv("DB_PASSWORD", "intabyu"),
		DBName:     getEnv("DB_NAME", "intabyu"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "data/intabyu.db"),

		AudioUploadDir: getEnv("AUDIO_UPLOAD_DIR", "audio-uploads"),
		AudioURLPrefix: getEnv("AUDIO_URL_PREFIX", "/audio-uploads"),
		DurationSource: getEnv("DURATION_SOURCE", DurationSourceClient),
		FFProbePath:    getEnv("FFPROBE_PATH", "ffprobe"),

		BackfillSchedule: getEnv("BACKFILL_SCHEDULE", ""),

		DefaultUserID: getEnv("DEFAULT_USER_ID", "6"),
	}

	maxStr := getEnv("MAX_UPLOAD_BYTES", "")
	config.MaxUploadBytes = DefaultMaxUploadBytes
	if maxStr != "" {
		n, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("Warning: invalid MAX_UPLOAD_BYTES value '%s', falling back to %d\n", maxStr, DefaultMaxUploadBytes)
		} else {
			config.MaxUploadBytes = n
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be %s or %s", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	switch c.DurationSource {
	case DurationSourceClient, DurationSourceServer:
	default:
		return fmt.Errorf("invalid DURATION_SOURCE %q: must be %s or %s", c.DurationSource, DurationSourceClient, DurationSourceServer)
	}
	if c.AudioUploadDir == "" {
		return fmt.Errorf("AUDIO_UPLOAD_DIR must not be empty")
	}
	if c.DefaultUserID == "" {
		return fmt.Errorf("DEFAULT_USER_ID must not be empty")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
