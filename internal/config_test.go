package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ChatURL() != "http://localhost:8000/chat" {
		t.Errorf("ChatURL() = %q", cfg.ChatURL())
	}
	if cfg.UploadURL() != "http://localhost:8000/upload/pdf" {
		t.Errorf("UploadURL() = %q", cfg.UploadURL())
	}
	if cfg.Backend.UploadField != "pdf" {
		t.Errorf("UploadField = %q, want pdf", cfg.Backend.UploadField)
	}
	if cfg.Backend.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Backend.Timeout)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `backend:
  url: http://rag.internal:9000/api/
  chat_path: ask
  timeout: 15s
downloads:
  dir: /tmp/citations
upload:
  max_size: 1024
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("DOCCHAT_BACKEND_UPLOAD_PATH", "/ingest")

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if got := cfg.ChatURL(); got != "http://rag.internal:9000/api/ask" {
		t.Errorf("ChatURL() = %q", got)
	}
	if got := cfg.UploadURL(); got != "http://rag.internal:9000/api/ingest" {
		t.Errorf("UploadURL() = %q", got)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Backend.Timeout)
	}
	if cfg.Downloads.Dir != "/tmp/citations" {
		t.Errorf("Downloads.Dir = %q", cfg.Downloads.Dir)
	}
	if cfg.Upload.MaxSize != 1024 {
		t.Errorf("Upload.MaxSize = %d", cfg.Upload.MaxSize)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadConfig() should fail for a missing explicit config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "https", mutate: func(c *Config) { c.Backend.URL = "https://example.com" }, wantErr: false},
		{name: "bad scheme", mutate: func(c *Config) { c.Backend.URL = "ftp://example.com" }, wantErr: true},
		{name: "empty field", mutate: func(c *Config) { c.Backend.UploadField = "" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Backend.Timeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
