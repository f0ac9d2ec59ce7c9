package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid memory backend config",
			config: Config{
				DataBackend: "memory",
				Viewer:      "demo",
				Timeout:     15 * time.Second,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr: false,
		},
		{
			name: "valid rpc backend config",
			config: Config{
				DataBackend: "rpc",
				APIBaseURL:  "https://api.example.com/prod",
				AuthToken:   "token-123",
				Timeout:     15 * time.Second,
				LogLevel:    "debug",
				LogFormat:   "json",
			},
			wantErr: false,
		},
		{
			name: "rpc backend without base URL",
			config: Config{
				DataBackend: "rpc",
				AuthToken:   "token-123",
				Timeout:     15 * time.Second,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "API_BASE_URL is required",
		},
		{
			name: "rpc backend without token",
			config: Config{
				DataBackend: "rpc",
				APIBaseURL:  "https://api.example.com/prod",
				Timeout:     15 * time.Second,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "AUTH_TOKEN is required",
		},
		{
			name: "bad base URL scheme",
			config: Config{
				DataBackend: "rpc",
				APIBaseURL:  "ftp://api.example.com",
				AuthToken:   "token-123",
				Timeout:     15 * time.Second,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name: "unknown backend",
			config: Config{
				DataBackend: "dynamo",
				Timeout:     15 * time.Second,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "invalid data backend 'dynamo'",
		},
		{
			name: "timeout too small",
			config: Config{
				DataBackend: "memory",
				Timeout:     100 * time.Millisecond,
				LogLevel:    "info",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name: "bad log level",
			config: Config{
				DataBackend: "memory",
				Timeout:     15 * time.Second,
				LogLevel:    "verbose",
				LogFormat:   "text",
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("error %q does not contain %q", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATA_BACKEND", "rpc")
	t.Setenv("API_BASE_URL", "https://api.example.com/prod")
	t.Setenv("AUTH_TOKEN", "token-123")
	t.Setenv("API_TIMEOUT", "30s")

	cfg := Load()
	if cfg.DataBackend != "rpc" || cfg.APIBaseURL != "https://api.example.com/prod" {
		t.Errorf("env override not applied: %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}
