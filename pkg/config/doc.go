// Package config provides configuration management for flip.
//
// It wraps the configuration of other packages to provide a single API for
// loading, validating and writing the YAML configuration file. Files are
// validated against a JSON schema generated from the Go types before they
// are decoded, so errors point at the offending line.
package config
