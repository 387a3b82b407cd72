// Package config loads the YAML configuration for the lines job.
//
// ${VAR} references are expanded from the environment before parsing, and
// LoadEnv can populate the environment from .env files first.
package config
