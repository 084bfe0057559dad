package config

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "pwdfinder"

	// DefaultOverlap is the number of bytes each worker reads past its
	// nominal range to find the end of its last line.
	DefaultOverlap = 100

	// DefaultResultPath is the plain-text result store.
	DefaultResultPath = "result"

	// DefaultOracle is the hash function of the target.
	DefaultOracle = "descrypt"

	// DefaultBus is the in-process cancellation transport.
	DefaultBus = "local"

	// DefaultRedisAddr is used by the redis bus when no address is given.
	DefaultRedisAddr = "127.0.0.1:6379"

	// DefaultPublishTimeout bounds one cancellation publish on the redis bus.
	DefaultPublishTimeout = 5 * time.Second

	// DefaultLogFormat is slog's text format.
	DefaultLogFormat = "text"

	// DBFileName is the history database inside DBDir.
	DBFileName = "history.db"
)

// Config holds every option of a search run. It is built from defaults,
// the configuration file and the command line, in that order.
type Config struct {
	// Dictionary is the word list path.
	Dictionary string

	// TargetHash is the hash to recover a password for.
	TargetHash string

	// Workers is the size of the worker pool. One partition per worker.
	Workers int

	// Overlap is the boundary look-ahead in bytes.
	Overlap int64

	// ResultPath is the plain-text result store, truncated at start.
	ResultPath string

	// Oracle names the registered hash function.
	Oracle string

	// Bus is the cancellation transport: "local" or "redis".
	Bus string

	// RedisAddr, RedisPassword and RedisDB configure the redis bus.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PublishTimeout bounds one publish on the redis bus.
	PublishTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is an explicit configuration file. When empty, the
	// file is searched for by FindConfigFile.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the job report format.
	// Both false means the human-readable report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the job report to a file instead of stdout.
	ReportFile string

	// SaveToDB records the job in the history database under DBDir.
	SaveToDB bool
	DBDir    string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Workers:        runtime.NumCPU(),
		Overlap:        DefaultOverlap,
		ResultPath:     DefaultResultPath,
		Oracle:         DefaultOracle,
		Bus:            DefaultBus,
		RedisAddr:      DefaultRedisAddr,
		PublishTimeout: DefaultPublishTimeout,
		LogFormat:      DefaultLogFormat,
		SaveToDB:       true,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for pwdfinder.
// On Linux: ~/.local/share/pwdfinder
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pwdfinder.
// On Linux: ~/.config/pwdfinder
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DBPath returns the history database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DBDir, DBFileName)
}

// Validate checks the configuration and returns the first problem found.
// Argument presence is checked by the command, not here.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Overlap <= 0 {
		return ErrInvalidOverlap
	}
	if c.ResultPath == "" {
		return ErrEmptyResultPath
	}
	if c.Oracle == "" {
		return ErrEmptyOracle
	}
	switch c.Bus {
	case "local":
	case "redis":
		if c.RedisAddr == "" {
			return ErrEmptyRedisAddr
		}
	default:
		return ErrInvalidBus
	}
	if c.PublishTimeout <= 0 {
		return ErrInvalidPublishTimeout
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.SaveToDB && c.DBDir == "" {
		return ErrEmptyDBDir
	}
	return nil
}
