// Package config loads uwb.report settings. Values are layered: built-in
// defaults, then an optional JSON or YAML file, then environment variables
// (optionally seeded from a .env file), then command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/uwb.report/internal/collector"
	"github.com/banshee-data/uwb.report/internal/plots"
	"github.com/banshee-data/uwb.report/internal/serialmux"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

// DefaultSerialPort is the USB CDC device the ranging board enumerates as.
const DefaultSerialPort = "/dev/cu.usbmodem1201"

// maxFileSize bounds config files.
const maxFileSize = 1 * 1024 * 1024

// Config is the on-disk configuration. Every field is optional; nil means
// "use the default", and the Get* methods apply those defaults.
type Config struct {
	// Serial collector
	SerialPort    *string `json:"serial_port,omitempty" yaml:"serial_port,omitempty"`
	BaudRate      *int    `json:"baud_rate,omitempty" yaml:"baud_rate,omitempty"`
	DataBits      *int    `json:"data_bits,omitempty" yaml:"data_bits,omitempty"`
	StopBits      *int    `json:"stop_bits,omitempty" yaml:"stop_bits,omitempty"`
	Parity        *string `json:"parity,omitempty" yaml:"parity,omitempty"`
	SampleCount   *int    `json:"sample_count,omitempty" yaml:"sample_count,omitempty"`
	ProgressEvery *int    `json:"progress_every,omitempty" yaml:"progress_every,omitempty"`
	OutputDir     *string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Analysis outputs
	SummaryFile    *string `json:"summary_file,omitempty" yaml:"summary_file,omitempty"`
	PlotsDir       *string `json:"plots_dir,omitempty" yaml:"plots_dir,omitempty"`
	SaturationFile *string `json:"saturation_file,omitempty" yaml:"saturation_file,omitempty"`
}

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// LoadConfig reads a .json, .yaml or .yml config file. Fields omitted from
// the file keep their defaults, so partial configs are safe.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(cleanPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.SampleCount != nil && *c.SampleCount < 0 {
		return fmt.Errorf("sample_count must be non-negative, got %d", *c.SampleCount)
	}
	if c.ProgressEvery != nil && *c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be non-negative, got %d", *c.ProgressEvery)
	}
	if _, err := c.PortOptions().Normalize(); err != nil {
		return fmt.Errorf("serial options: %w", err)
	}
	for name, v := range map[string]*string{
		"summary_file":    c.SummaryFile,
		"plots_dir":       c.PlotsDir,
		"saturation_file": c.SaturationFile,
	} {
		if v == nil {
			continue
		}
		if *v == "" || strings.ContainsRune(*v, filepath.Separator) || *v == "." || *v == ".." {
			return fmt.Errorf("%s must be a plain file or directory name, got %q", name, *v)
		}
	}
	return nil
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// GetSerialPort returns the serial device path.
func (c *Config) GetSerialPort() string {
	if c.SerialPort == nil || *c.SerialPort == "" {
		return DefaultSerialPort
	}
	return *c.SerialPort
}

// GetSampleCount returns the number of samples per collection session.
func (c *Config) GetSampleCount() int {
	if c.SampleCount == nil || *c.SampleCount == 0 {
		return collector.DefaultSampleCount
	}
	return *c.SampleCount
}

// GetProgressEvery returns the progress line interval in samples.
func (c *Config) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return collector.DefaultProgressEvery
	}
	return *c.ProgressEvery
}

// GetOutputDir returns where the logger writes experiment logs.
func (c *Config) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "."
	}
	return *c.OutputDir
}

func (c *Config) GetSummaryFile() string {
	if c.SummaryFile == nil {
		return uwb.DefaultSummaryFile
	}
	return *c.SummaryFile
}

func (c *Config) GetPlotsDir() string {
	if c.PlotsDir == nil {
		return plots.DefaultDir
	}
	return *c.PlotsDir
}

func (c *Config) GetSaturationFile() string {
	if c.SaturationFile == nil {
		return plots.DefaultSaturationFile
	}
	return *c.SaturationFile
}

// PortOptions returns the serial options; unset fields stay zero so
// serialmux applies its defaults.
func (c *Config) PortOptions() serialmux.PortOptions {
	var o serialmux.PortOptions
	if c.BaudRate != nil {
		o.BaudRate = *c.BaudRate
	}
	if c.DataBits != nil {
		o.DataBits = *c.DataBits
	}
	if c.StopBits != nil {
		o.StopBits = *c.StopBits
	}
	if c.Parity != nil {
		o.Parity = *c.Parity
	}
	return o
}

// CollectorConfig is the resolved configuration of the serial logger.
type CollectorConfig struct {
	Port          string
	Options       serialmux.PortOptions
	SampleCount   int
	OutputDir     string
	ProgressEvery int
}

// CollectorConfig resolves the logger settings with defaults applied.
func (c *Config) CollectorConfig() (CollectorConfig, error) {
	opts, err := c.PortOptions().Normalize()
	if err != nil {
		return CollectorConfig{}, err
	}
	return CollectorConfig{
		Port:          c.GetSerialPort(),
		Options:       opts,
		SampleCount:   c.GetSampleCount(),
		OutputDir:     c.GetOutputDir(),
		ProgressEvery: c.GetProgressEvery(),
	}, nil
}

// Session returns the per-session collection bounds.
func (cc CollectorConfig) Session() collector.Config {
	return collector.Config{SampleCount: cc.SampleCount, ProgressEvery: cc.ProgressEvery}
}
