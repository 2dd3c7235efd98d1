// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml on top of built-in defaults and
// validated using struct tags. A .env file and NEXUSPOINT_* environment
// variables override the file for the settings that differ per machine.
package config
