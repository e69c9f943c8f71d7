package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DURATION_SOURCE", "MAX_UPLOAD_BYTES", "DEFAULT_USER_ID", "AUDIO_UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "3002" {
		t.Errorf("expected port 3002, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected max upload %d, got %d", DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	}
	if cfg.DefaultUserID != "6" {
		t.Errorf("expected default user 6, got %s", cfg.DefaultUserID)
	}
	if cfg.AudioURLPrefix != "/audio-uploads" {
		t.Errorf("expected /audio-uploads prefix, got %s", cfg.AudioURLPrefix)
	}
}

func TestLoadInvalidMaxUploadFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected fallback to %d, got %d", DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	}
}

func TestLoadRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "driver", key: "DB_DRIVER", value: "mysql"},
		{name: "duration_source", key: "DURATION_SOURCE", value: "guess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "DEFAULT_USER_ID", "REDIS_ADDR", "REDIS_DB", "MAX_UPLOAD_BYTES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3002" {
		t.Errorf("expected local API, got %s", cfg.APIBaseURL)
	}
	if cfg.UserID != "6" {
		t.Errorf("expected user 6, got %s", cfg.UserID)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected mirror disabled, got %s", cfg.RedisAddr)
	}
	if cfg.MaxRecordBytes != DefaultMaxUploadBytes {
		t.Errorf("expected max %d, got %d", DefaultMaxUploadBytes, cfg.MaxRecordBytes)
	}

	t.Setenv("REDIS_DB", "-1")
	if _, err := LoadClient(); err == nil {
		t.Error("expected error for negative REDIS_DB")
	}
}
