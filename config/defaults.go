package config

import "github.com/sarchlab/splitbus/sim"

// Default returns the configuration of the reference platform: a DSP and
// three memories behind a router with four 256-byte regions.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		NumTargets: 4,
		RegionSize: 256,
		Targets:    []string{KindDSP, KindMemory, KindMemory, KindMemory},
		Core: CoreConfig{
			RequestDelay:     Duration(1 * sim.NS),
			EndResponseDelay: Duration(1 * sim.NS),
			DMI:              true,
		},
		Memory: MemoryConfig{
			Latency:    Duration(10 * sim.NS),
			DMILatency: Duration(1 * sim.NS),
			DMI:        true,
		},
		DSP: DSPConfig{
			EndRequestDelay: Duration(1 * sim.NS),
			ProcessingDelay: Duration(50 * sim.NS),
			ComputeLatency:  Duration(20 * sim.NS),
		},
		DriverInterval: Duration(10 * sim.NS),
		Programs: []ProgramConfig{
			{Name: "registers", Target: 0},
			{Name: "scan", Target: 1},
			{Name: "compute", Target: 0},
		},
	}
}
