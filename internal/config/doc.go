// Package config holds the run configuration of pwdfinder and loads the
// optional .pwdfinder YAML file. Command-line flags override file values.
package config
