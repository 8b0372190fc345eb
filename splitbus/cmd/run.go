package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/config"
	"github.com/sarchlab/splitbus/platform"
	"github.com/sarchlab/splitbus/sim"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation.",
		Long: "`run` builds the platform described by the configuration, " +
			"runs the programs on it and prints a summary.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logEvents, _ := cmd.Flags().GetBool("log-events")

			if unique, _ := cmd.Flags().GetBool("unique-ids"); unique {
				sim.UseParallelIDGenerator()
			}

			return run(cmd, cfg, logEvents)
		},
	}

	f := runCmd.Flags()
	f.String("config", "", "YAML configuration file (env "+EnvConfig+")")
	f.String("log", "", "log level (env "+EnvLogLevel+")")
	f.String("trace-db", "", "write transactions into this SQLite file")
	f.Bool("monitor", false, "serve the HTTP monitor while running")
	f.Int("port", 0, "monitor port, 0 picks a free one")
	f.Bool("open-browser", false, "open the monitor in a browser")
	f.Bool("dmi", true, "let the core use direct memory access")
	f.Bool("sync-memory", false, "memories complete requests in one call")
	f.StringSlice("programs", nil,
		"programs to run as name[@target], e.g. scan@1")
	f.Bool("report", false, "print every completion")
	f.Bool("log-events", false, "log every event at trace level")
	f.Bool("unique-ids", false,
		"use globally unique transaction ids instead of sequential ones")

	return runCmd
}

func run(cmd *cobra.Command, cfg *config.Config, logEvents bool) (err error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	log.SetLevel(level)

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		violation, ok := r.(*bus.ProtocolError)
		if !ok {
			panic(r)
		}

		log.WithError(violation).Error("simulation aborted")
		err = violation
	}()

	b := platform.MakeBuilder().
		WithConfig(cfg).
		WithReportOutput(cmd.OutOrStdout())
	if logEvents {
		b = b.WithEventLogging()
	}

	p, err := b.Build()
	if err != nil {
		return err
	}

	summary, err := p.Run()
	if err != nil {
		return err
	}

	summary.Write(cmd.OutOrStdout())

	return nil
}

// loadConfig reads the configuration file and applies the flags the user
// set on top of it.
func loadConfig(f *pflag.FlagSet) (*config.Config, error) {
	path, _ := f.GetString("config")
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := config.Default()
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if f.Changed("log") {
		cfg.LogLevel, _ = f.GetString("log")
	}

	if f.Changed("trace-db") {
		cfg.TraceDB, _ = f.GetString("trace-db")
	}

	if f.Changed("monitor") {
		cfg.Monitor.Enabled, _ = f.GetBool("monitor")
	}

	if f.Changed("port") {
		cfg.Monitor.Port, _ = f.GetInt("port")
	}

	if f.Changed("open-browser") {
		cfg.Monitor.OpenBrowser, _ = f.GetBool("open-browser")
	}

	if f.Changed("dmi") {
		dmi, _ := f.GetBool("dmi")
		cfg.Core.DMI = dmi
		cfg.Memory.DMI = dmi
	}

	if f.Changed("sync-memory") {
		cfg.Memory.SyncCompletion, _ = f.GetBool("sync-memory")
	}

	if f.Changed("report") {
		cfg.Report, _ = f.GetBool("report")
	}

	if f.Changed("programs") {
		specs, _ := f.GetStringSlice("programs")

		programs, err := parsePrograms(specs)
		if err != nil {
			return nil, err
		}

		cfg.Programs = programs
	}

	return cfg, nil
}

func parsePrograms(specs []string) ([]config.ProgramConfig, error) {
	programs := make([]config.ProgramConfig, 0, len(specs))

	for _, spec := range specs {
		name, target, found := strings.Cut(spec, "@")

		p := config.ProgramConfig{Name: name}

		if found {
			index, err := strconv.Atoi(target)
			if err != nil {
				return nil, fmt.Errorf("program %q: bad target: %w", spec, err)
			}

			p.Target = index
		}

		programs = append(programs, p)
	}

	return programs, nil
}
