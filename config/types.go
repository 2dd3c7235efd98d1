package config

import "time"

// MatchConfig contains the correlation thresholds and filters
type MatchConfig struct {
	TimeMinutes    int     `yaml:"timeMinutes" validate:"gte=0"`
	DistanceMeters float64 `yaml:"distanceMeters" validate:"gte=0"`
	MinYear        int     `yaml:"minYear" validate:"omitempty,gte=1,lte=9999"`
	MaxYear        int     `yaml:"maxYear" validate:"omitempty,gte=1,lte=9999,gtefield=MinYear"`
	Workers        int     `yaml:"workers" validate:"gte=0"`
}

// GeocoderConfig contains reverse-geocoding (Nominatim) configuration
type GeocoderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	BaseURL   string        `yaml:"baseURL" validate:"omitempty,url"`
	UserAgent string        `yaml:"userAgent"`
	Language  string        `yaml:"language"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	Retries   int           `yaml:"retries" validate:"gte=0"`
	RetryWait time.Duration `yaml:"retryWait" validate:"gte=0"`
	Delay     time.Duration `yaml:"delay" validate:"gte=0"` // politeness pause before each lookup
}

// TimezoneConfig toggles local-time conversion of the reported timestamps
type TimezoneConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HTTPConfig applies to sources given as http(s) URLs
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	UserAgent string        `yaml:"userAgent"`
}

// ReportConfig selects the report rendering
type ReportConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig contains the Prometheus textfile output path (empty disables it)
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Match    MatchConfig    `yaml:"match"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Timezone TimezoneConfig `yaml:"timezone"`
	HTTP     HTTPConfig     `yaml:"http"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		Match: MatchConfig{
			TimeMinutes:    2,
			DistanceMeters: 100,
		},
		Geocoder: GeocoderConfig{
			Enabled:   true,
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "nexuspoint",
			Language:  "en",
			Timeout:   10 * time.Second,
			Retries:   2,
			RetryWait: 2 * time.Second,
			Delay:     time.Second,
		},
		Timezone: TimezoneConfig{Enabled: true},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "nexuspoint",
		},
		Report: ReportConfig{Format: "text"},
	}
}
