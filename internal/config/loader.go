package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name.
const DefaultConfigFile = ".pwdfinder"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file. Unset fields keep their defaults.
type File struct {
	Workers    int    `yaml:"workers,omitempty"`
	Overlap    int64  `yaml:"overlap,omitempty"`
	Result     string `yaml:"result,omitempty"`
	Oracle     string `yaml:"oracle,omitempty"`
	Bus        string `yaml:"bus,omitempty"`
	LogFormat  string `yaml:"log_format,omitempty"`
	NoHistory  bool   `yaml:"no_history,omitempty"`
	HistoryDir string `yaml:"history_dir,omitempty"`

	Redis RedisFile `yaml:"redis,omitempty"`
}

// RedisFile is the redis section of the configuration file.
type RedisFile struct {
	Addr           string        `yaml:"addr,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	DB             int           `yaml:"db,omitempty"`
	PublishTimeout time.Duration `yaml:"publish_timeout,omitempty"`
}

// LoadConfigFile parses the YAML file at path.
// It returns ErrConfigNotFound if the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the set fields of f into c.
func (f *File) Apply(c *Config) {
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.Overlap != 0 {
		c.Overlap = f.Overlap
	}
	if f.Result != "" {
		c.ResultPath = f.Result
	}
	if f.Oracle != "" {
		c.Oracle = f.Oracle
	}
	if f.Bus != "" {
		c.Bus = f.Bus
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
	if f.NoHistory {
		c.SaveToDB = false
	}
	if f.HistoryDir != "" {
		c.DBDir = f.HistoryDir
	}
	if f.Redis.Addr != "" {
		c.RedisAddr = f.Redis.Addr
	}
	if f.Redis.Password != "" {
		c.RedisPassword = f.Redis.Password
	}
	if f.Redis.DB != 0 {
		c.RedisDB = f.Redis.DB
	}
	if f.Redis.PublishTimeout != 0 {
		c.PublishTimeout = f.Redis.PublishTimeout
	}
}

// FindConfigFile searches for the configuration file in this order:
//  1. configPath, if not empty
//  2. .pwdfinder in the current directory
//  3. .pwdfinder in the home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
