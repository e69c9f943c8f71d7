package config

import (
	"fmt"
	"log"
	"strconv"

	"github.com/joho/godotenv"
)

// ClientConfig configures the terminal practice client.
type ClientConfig struct {
	Env string

	APIBaseURL  string
	AdminAPIKey string
	UserID      string

	// RecordDevice is the ALSA capture device; empty means the default.
	RecordDevice   string
	MaxRecordBytes int64

	// RedisAddr enables the offline mirror when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoadClient loads the practice client configuration from .env and the environment.
func LoadClient() (*ClientConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &ClientConfig{
		Env:           getEnv("ENV", "development"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:3002"),
		AdminAPIKey:   getEnv("ADMIN_API_KEY", ""),
		UserID:        getEnv("DEFAULT_USER_ID", "6"),
		RecordDevice:  getEnv("RECORD_DEVICE", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	cfg.MaxRecordBytes = DefaultMaxUploadBytes
	if s := getEnv("MAX_UPLOAD_BYTES", ""); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("Warning: invalid MAX_UPLOAD_BYTES value '%s', falling back to %d\n", s, DefaultMaxUploadBytes)
		} else {
			cfg.MaxRecordBytes = n
		}
	}

	if s := getEnv("REDIS_DB", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q", s)
		}
		cfg.RedisDB = n
	}
	return cfg, nil
}
