package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no explicit path is given.
var DefaultPaths = []string{"config.yml", "./nexuspoint/config.yml"}

// Environment variables that override the file.
const (
	EnvGeocoderEnabled   = "NEXUSPOINT_GEOCODER_ENABLED"
	EnvGeocoderURL       = "NEXUSPOINT_GEOCODER_URL"
	EnvGeocoderUserAgent = "NEXUSPOINT_GEOCODER_USER_AGENT"
	EnvTimezoneEnabled   = "NEXUSPOINT_TIMEZONE_ENABLED"
	EnvMetricsTextfile   = "NEXUSPOINT_METRICS_TEXTFILE"
)

// Load reads .env (if present), then the YAML file at path on top of the
// defaults, applies environment overrides and validates the result.
// With an empty path the DefaultPaths are tried and a missing file is not an error.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Default()
	data, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrInvalid wraps every error Validate returns.
var ErrInvalid = errors.New("invalid config")

// Validate checks cfg against its struct tags.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	// Nominatim rejects anonymous clients
	if cfg.Geocoder.Enabled && (cfg.Geocoder.BaseURL == "" || cfg.Geocoder.UserAgent == "") {
		return fmt.Errorf("%w: geocoder requires baseURL and userAgent when enabled", ErrInvalid)
	}
	return nil
}

func readConfig(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return data, nil
	}
	for _, p := range DefaultPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", p, err)
		}
	}
	return nil, nil
}

func applyEnv(cfg *AppConfig) error {
	if v, ok := os.LookupEnv(EnvGeocoderEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGeocoderEnabled, err)
		}
		cfg.Geocoder.Enabled = b
	}
	if v := os.Getenv(EnvGeocoderURL); v != "" {
		cfg.Geocoder.BaseURL = v
	}
	if v := os.Getenv(EnvGeocoderUserAgent); v != "" {
		cfg.Geocoder.UserAgent = v
	}
	if v, ok := os.LookupEnv(EnvTimezoneEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimezoneEnabled, err)
		}
		cfg.Timezone.Enabled = b
	}
	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		cfg.Metrics.Textfile = v
	}
	return nil
}
