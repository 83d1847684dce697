package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// Default configuration constants
const (
	DefaultFrequency     = 2437 // MHz, Wi-Fi channel 6
	DefaultMinRSSI       = -100 // dBm
	DefaultScanInterval  = 10 * time.Millisecond
	DefaultScanDuration  = 2 * time.Second
	DefaultWorkers       = 1
	DefaultStatsInterval = 30 * time.Second
	DefaultLogDir        = "./logs"
	DefaultLogFormat     = "text"
)

// Config holds application configuration
type Config struct {
	PcapFile     string
	Interface    string
	Monitor      bool
	Frequency    int
	MinRSSI      int
	Repeat       bool
	ScanInterval time.Duration
	ScanDuration time.Duration
	ReplaySpeed  float64
	Workers      int

	LogDir           string
	LogRotateUTC     bool
	LogRetentionDays int // 0 keeps every file
	DBPath           string
	MetricsAddr      string
	Quiet            bool

	LogFormat     string
	StatsInterval time.Duration
	Verbose       bool
	ShowVersion   bool
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Frequency:     DefaultFrequency,
		MinRSSI:       DefaultMinRSSI,
		Repeat:        false,
		ScanInterval:  DefaultScanInterval,
		ScanDuration:  DefaultScanDuration,
		Workers:       DefaultWorkers,
		LogDir:        DefaultLogDir,
		LogRotateUTC:  true,
		LogFormat:     DefaultLogFormat,
		StatsInterval: DefaultStatsInterval,
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.PcapFile == "" && c.Interface == "" {
		return errors.New("no capture source: set a pcap file or an interface")
	}
	if c.PcapFile != "" && c.Interface != "" {
		return errors.New("pcap file and interface are mutually exclusive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ScanInterval < 0 {
		return fmt.Errorf("scan interval must not be negative, got %s", c.ScanInterval)
	}
	if c.LogRetentionDays < 0 {
		return fmt.Errorf("log retention must not be negative, got %d", c.LogRetentionDays)
	}
	if c.ReplaySpeed < 0 {
		return fmt.Errorf("replay speed must not be negative, got %g", c.ReplaySpeed)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// fileConfig is the YAML layout of a configuration file. Absent keys stay
// nil and leave the base configuration untouched.
type fileConfig struct {
	Pcap          *string  `json:"pcap,omitempty"`
	Interface     *string  `json:"interface,omitempty"`
	Monitor       *bool    `json:"monitor,omitempty"`
	Frequency     *int     `json:"frequency,omitempty"`
	MinRSSI       *int     `json:"min_rssi,omitempty"`
	Repeat        *bool    `json:"repeat,omitempty"`
	ScanInterval  *string  `json:"scan_interval,omitempty"`
	ScanDuration  *string  `json:"scan_duration,omitempty"`
	ReplaySpeed   *float64 `json:"replay_speed,omitempty"`
	Workers       *int     `json:"workers,omitempty"`
	LogDir        *string  `json:"log_dir,omitempty"`
	UTC           *bool    `json:"utc,omitempty"`
	LogRetention  *int     `json:"log_retention_days,omitempty"`
	DB            *string  `json:"db,omitempty"`
	MetricsAddr   *string  `json:"metrics_addr,omitempty"`
	Quiet         *bool    `json:"quiet,omitempty"`
	LogFormat     *string  `json:"log_format,omitempty"`
	StatsInterval *string  `json:"stats_interval,omitempty"`
	Verbose       *bool    `json:"verbose,omitempty"`
}

// LoadConfig overlays the YAML file at path onto base
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c := base
	setString(&c.PcapFile, fc.Pcap)
	setString(&c.Interface, fc.Interface)
	setBool(&c.Monitor, fc.Monitor)
	setInt(&c.Frequency, fc.Frequency)
	setInt(&c.MinRSSI, fc.MinRSSI)
	setBool(&c.Repeat, fc.Repeat)
	setInt(&c.Workers, fc.Workers)
	setString(&c.LogDir, fc.LogDir)
	setBool(&c.LogRotateUTC, fc.UTC)
	setInt(&c.LogRetentionDays, fc.LogRetention)
	setString(&c.DBPath, fc.DB)
	setString(&c.MetricsAddr, fc.MetricsAddr)
	setBool(&c.Quiet, fc.Quiet)
	setString(&c.LogFormat, fc.LogFormat)
	setBool(&c.Verbose, fc.Verbose)
	if fc.ReplaySpeed != nil {
		c.ReplaySpeed = *fc.ReplaySpeed
	}

	durations := []struct {
		key   string
		value *string
		dst   *time.Duration
	}{
		{"scan_interval", fc.ScanInterval, &c.ScanInterval},
		{"scan_duration", fc.ScanDuration, &c.ScanDuration},
		{"stats_interval", fc.StatsInterval, &c.StatsInterval},
	}
	for _, d := range durations {
		if d.value == nil {
			continue
		}
		v, err := time.ParseDuration(*d.value)
		if err != nil {
			return base, fmt.Errorf("invalid %s in %s: %w", d.key, path, err)
		}
		*d.dst = v
	}

	return c, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
