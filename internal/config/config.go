// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"slicesim/internal/device"
)

// Duration wraps time.Duration so YAML values like "2s" decode directly.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the wrapped time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Range bounds a uniformly drawn metric value.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SeedGroup describes devices added at startup.
type SeedGroup struct {
	DeviceType string `yaml:"device_type"`
	SliceType  string `yaml:"slice_type"`
	Count      int    `yaml:"count"`
}

// User is an API account with a role of "admin" or "viewer".
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Auth configures the v1 API token issuance.
type Auth struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"token_ttl"`
	Users    []User   `yaml:"users"`
}

// Greptime configures the optional time-series sink.
type Greptime struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
}

// Alerts holds thresholds evaluated against every persisted snapshot.
type Alerts struct {
	HighLoad     float64 `yaml:"high_load"`
	LatencySpike float64 `yaml:"latency_spike"`
}

// Config is the root configuration for the simulator and its hosting layer.
type Config struct {
	TickInterval     Duration                    `yaml:"tick_interval"`
	CapacityMbps     float64                     `yaml:"capacity_mbps"`
	HistoryLength    int                         `yaml:"history_length"`
	HubBuffer        int                         `yaml:"hub_buffer"`
	ListenAddr       string                      `yaml:"listen_addr"`
	LatencyRanges    map[string]Range            `yaml:"latency_ranges"`
	ThroughputRanges map[string]map[string]Range `yaml:"throughput_ranges"`
	SeedDevices      []SeedGroup                 `yaml:"seed_devices"`
	Auth             Auth                        `yaml:"auth"`
	StoreDSN         string                      `yaml:"store_dsn"`
	Greptime         Greptime                    `yaml:"greptime"`
	Alerts           Alerts                      `yaml:"alerts"`
}

// Defaults applied by Load when fields are absent.
const (
	defaultTickInterval  = 2 * time.Second
	defaultListenAddr    = ":8080"
	defaultHistoryLength = 100
)

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with built-in values, used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = Duration(defaultTickInterval)
	}
	if c.CapacityMbps <= 0 {
		c.CapacityMbps = 10000
	}
	if c.HistoryLength <= 0 {
		c.HistoryLength = defaultHistoryLength
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.Alerts.HighLoad <= 0 {
		c.Alerts.HighLoad = 90
	}
	if c.Alerts.LatencySpike <= 0 {
		c.Alerts.LatencySpike = 150
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = Duration(30 * time.Minute)
	}
}

// Profiles converts the configured ranges into generator profiles. Ranges not
// present in the config fall back to the built-in defaults.
func (c *Config) Profiles() device.Profiles {
	profiles := device.DefaultProfiles()
	for slice, r := range c.LatencyRanges {
		profiles.Latency[device.SliceType(slice)] = device.Range{Min: r.Min, Max: r.Max}
	}
	for dt, bySlice := range c.ThroughputRanges {
		m, ok := profiles.Throughput[device.DeviceType(dt)]
		if !ok {
			m = make(map[device.SliceType]device.Range)
			profiles.Throughput[device.DeviceType(dt)] = m
		}
		for slice, r := range bySlice {
			m[device.SliceType(slice)] = device.Range{Min: r.Min, Max: r.Max}
		}
	}
	return profiles
}
