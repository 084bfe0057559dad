package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidOverlap is returned when the overlap is not positive.
	ErrInvalidOverlap = errors.New("invalid overlap: must be positive")

	// ErrEmptyResultPath is returned when no result store path is set.
	ErrEmptyResultPath = errors.New("result path must not be empty")

	// ErrEmptyOracle is returned when no oracle name is set.
	ErrEmptyOracle = errors.New("oracle must not be empty")

	// ErrInvalidBus is returned for a bus other than local or redis.
	ErrInvalidBus = errors.New("invalid bus: must be local or redis")

	// ErrEmptyRedisAddr is returned when the redis bus has no address.
	ErrEmptyRedisAddr = errors.New("redis bus requires an address")

	// ErrInvalidPublishTimeout is returned when the publish timeout is not positive.
	ErrInvalidPublishTimeout = errors.New("invalid publish timeout: must be positive")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyDBDir is returned when history is enabled without a directory.
	ErrEmptyDBDir = errors.New("history database directory must not be empty")
)
