package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// TestNewConfig documents the defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Workers is the CPU count", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != runtime.NumCPU() {
			t.Errorf("expected Workers to be %d, got %d", runtime.NumCPU(), cfg.Workers)
		}
	})

	t.Run("default Overlap is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.Overlap != 100 {
			t.Errorf("expected Overlap to be 100, got %d", cfg.Overlap)
		}
	})

	t.Run("default ResultPath is result", func(t *testing.T) {
		t.Parallel()
		if cfg.ResultPath != "result" {
			t.Errorf("expected ResultPath to be 'result', got '%s'", cfg.ResultPath)
		}
	})

	t.Run("default Oracle is descrypt", func(t *testing.T) {
		t.Parallel()
		if cfg.Oracle != "descrypt" {
			t.Errorf("expected Oracle to be 'descrypt', got '%s'", cfg.Oracle)
		}
	})

	t.Run("default Bus is local", func(t *testing.T) {
		t.Parallel()
		if cfg.Bus != "local" {
			t.Errorf("expected Bus to be 'local', got '%s'", cfg.Bus)
		}
	})

	t.Run("history is saved under the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %s, got %s", XDGDataDir(), cfg.DBDir)
		}
		if filepath.Base(cfg.DBPath()) != DBFileName {
			t.Errorf("unexpected DBPath %s", cfg.DBPath())
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate checks one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: ErrInvalidWorkers},
		{name: "negative overlap", modify: func(c *Config) { c.Overlap = -1 }, wantErr: ErrInvalidOverlap},
		{name: "empty result path", modify: func(c *Config) { c.ResultPath = "" }, wantErr: ErrEmptyResultPath},
		{name: "empty oracle", modify: func(c *Config) { c.Oracle = "" }, wantErr: ErrEmptyOracle},
		{name: "unknown bus", modify: func(c *Config) { c.Bus = "mpi" }, wantErr: ErrInvalidBus},
		{name: "redis bus without address", modify: func(c *Config) { c.Bus = "redis"; c.RedisAddr = "" }, wantErr: ErrEmptyRedisAddr},
		{name: "zero publish timeout", modify: func(c *Config) { c.PublishTimeout = 0 }, wantErr: ErrInvalidPublishTimeout},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "json and markdown together", modify: func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, wantErr: ErrConflictingReportFormats},
		{name: "history without directory", modify: func(c *Config) { c.DBDir = "" }, wantErr: ErrEmptyDBDir},
		{name: "redis bus with address", modify: func(c *Config) { c.Bus = "redis" }, wantErr: nil},
		{name: "no history and no directory", modify: func(c *Config) { c.SaveToDB = false; c.DBDir = "" }, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("workers: [1, 2\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("values are applied over defaults", func(t *testing.T) {
		t.Parallel()

		content := `workers: 6
overlap: 256
result: out/result.txt
oracle: sha3
bus: redis
log_format: json
no_history: true
redis:
  addr: redis.internal:6380
  password: pw
  db: 2
  publish_timeout: 2s
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		f.Apply(cfg)

		if cfg.Workers != 6 || cfg.Overlap != 256 || cfg.ResultPath != "out/result.txt" {
			t.Errorf("unexpected search values %+v", cfg)
		}
		if cfg.Oracle != "sha3" || cfg.Bus != "redis" || cfg.LogFormat != "json" {
			t.Errorf("unexpected oracle/bus/log values %+v", cfg)
		}
		if cfg.SaveToDB {
			t.Error("expected history to be disabled")
		}
		if cfg.RedisAddr != "redis.internal:6380" || cfg.RedisPassword != "pw" || cfg.RedisDB != 2 {
			t.Errorf("unexpected redis values %+v", cfg)
		}
		if cfg.PublishTimeout != 2*time.Second {
			t.Errorf("expected publish timeout 2s, got %v", cfg.PublishTimeout)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		f.Apply(cfg)
		if *cfg != *NewConfig() {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("workers: 2\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})
}
