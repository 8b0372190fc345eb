package config

import (
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/splitbus/workload"
)

// Validate checks that the config describes a system that can be built.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.NumTargets <= 0 {
		return fmt.Errorf("num_targets must be positive, got %d", c.NumTargets)
	}

	if c.RegionSize == 0 || c.RegionSize%4 != 0 {
		return fmt.Errorf("region_size must be a positive multiple of 4, got %d",
			c.RegionSize)
	}

	if len(c.Targets) != c.NumTargets {
		return fmt.Errorf("targets lists %d kinds for %d targets",
			len(c.Targets), c.NumTargets)
	}

	for i, kind := range c.Targets {
		switch kind {
		case KindMemory:
		case KindDSP:
			if c.RegionSize < 20 {
				return fmt.Errorf("target %d: a DSP needs a region of at least 20 bytes", i)
			}
		default:
			return fmt.Errorf("target %d: unknown kind %q; valid: memory, dsp", i, kind)
		}
	}

	if c.DriverInterval == 0 {
		return fmt.Errorf("driver_interval must be positive")
	}

	for i, p := range c.Programs {
		if !slices.Contains(workload.ProgramNames(), p.Name) {
			return fmt.Errorf("programs[%d]: unknown program %q; valid: %s",
				i, p.Name, strings.Join(workload.ProgramNames(), ", "))
		}

		if err := c.checkTarget(p.Target); err != nil {
			return fmt.Errorf("programs[%d]: %w", i, err)
		}
	}

	for i, r := range c.Revocations {
		if err := c.checkRevocation(r); err != nil {
			return fmt.Errorf("revocations[%d]: %w", i, err)
		}
	}

	if c.Monitor.Port < 0 || c.Monitor.Port > 65535 {
		return fmt.Errorf("monitor.port out of range: %d", c.Monitor.Port)
	}

	return nil
}

func (c *Config) checkTarget(index int) error {
	if index < 0 || index >= c.NumTargets {
		return fmt.Errorf("target %d out of range [0, %d)", index, c.NumTargets)
	}

	return nil
}

func (c *Config) checkRevocation(r Revocation) error {
	if err := c.checkTarget(r.Target); err != nil {
		return err
	}

	if c.Targets[r.Target] != KindMemory {
		return fmt.Errorf("target %d is not a memory", r.Target)
	}

	if r.Start > r.End || r.End >= c.RegionSize {
		return fmt.Errorf("range [%d, %d] is not inside the region", r.Start, r.End)
	}

	return nil
}
