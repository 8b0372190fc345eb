// Package config describes a simulated system and loads it from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Target kinds.
const (
	KindMemory = "memory"
	KindDSP    = "dsp"
)

// Config describes a simulation.
type Config struct {
	LogLevel string `yaml:"log_level"`

	NumTargets int      `yaml:"num_targets"`
	RegionSize uint64   `yaml:"region_size"`
	Targets    []string `yaml:"targets"`

	Core   CoreConfig   `yaml:"core"`
	Memory MemoryConfig `yaml:"memory"`
	DSP    DSPConfig    `yaml:"dsp"`

	DriverInterval Duration        `yaml:"driver_interval"`
	Programs       []ProgramConfig `yaml:"programs"`
	Revocations    []Revocation    `yaml:"revocations,omitempty"`

	TraceDB string        `yaml:"trace_db,omitempty"`
	Monitor MonitorConfig `yaml:"monitor"`
	Report  bool          `yaml:"report"`
}

// CoreConfig configures the initiator.
type CoreConfig struct {
	RequestDelay     Duration `yaml:"request_delay"`
	EndResponseDelay Duration `yaml:"end_response_delay"`
	DMI              bool     `yaml:"dmi"`
}

// MemoryConfig configures every memory target.
type MemoryConfig struct {
	Latency        Duration `yaml:"latency"`
	DMILatency     Duration `yaml:"dmi_latency"`
	DMI            bool     `yaml:"dmi"`
	SyncCompletion bool     `yaml:"sync_completion"`
}

// DSPConfig configures every DSP target.
type DSPConfig struct {
	EndRequestDelay Duration `yaml:"end_request_delay"`
	ProcessingDelay Duration `yaml:"processing_delay"`
	ComputeLatency  Duration `yaml:"compute_latency"`
}

// ProgramConfig runs a canned program against one target.
type ProgramConfig struct {
	Name   string `yaml:"name"`
	Target int    `yaml:"target"`
}

// Revocation makes a memory target revoke direct access to [Start, End] of
// its local address space at a given time.
type Revocation struct {
	At     Duration `yaml:"at"`
	Target int      `yaml:"target"`
	Start  uint64   `yaml:"start"`
	End    uint64   `yaml:"end"`
}

// MonitorConfig configures the HTTP monitor.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// Load reads a config file. Fields missing from the file keep their default
// values. Unknown fields are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML config on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	c := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Marshal writes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return buf.Bytes(), nil
}

// TargetBase returns the global address where the target's region starts.
func (c *Config) TargetBase(index int) uint64 {
	return uint64(index) * c.RegionSize
}
