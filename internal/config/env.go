package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvSerialPort  = "UWB_SERIAL_PORT"
	EnvBaudRate    = "UWB_BAUD_RATE"
	EnvSampleCount = "UWB_SAMPLE_COUNT"
	EnvOutputDir   = "UWB_OUTPUT_DIR"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment backed by the
// variables in dotenvPath. Real environment variables win over the file,
// matching godotenv.Load. A missing file is not an error.
func EnvLookup(dotenvPath string) (LookupFunc, error) {
	vars, err := godotenv.Read(dotenvPath)
	if errors.Is(err, fs.ErrNotExist) {
		vars = nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from UWB_* environment variables. Empty
// values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvSerialPort); ok && v != "" {
		c.SerialPort = ptrString(v)
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.OutputDir = ptrString(v)
	}
	for key, dst := range map[string]**int{
		EnvBaudRate:    &c.BaudRate,
		EnvSampleCount: &c.SampleCount,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = ptrInt(n)
	}
	return c.Validate()
}
