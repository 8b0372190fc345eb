// Package cmd provides the command-line interface of splitbus.
package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Environment variables that can replace the flags of the same meaning.
const (
	EnvConfig   = "SPLITBUS_CONFIG"
	EnvLogLevel = "SPLITBUS_LOG_LEVEL"
)

// newRootCmd creates the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splitbus",
		Short: "Simulates split-phase bus transactions.",
		Long: `splitbus simulates a core that talks to memories and DSPs ` +
			`through a router using a four-phase request/response protocol ` +
			`with direct memory access. Settings come from a YAML file, a ` +
			`.env file and flags, in increasing priority.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(), newDefaultsCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	loadDotEnv(".env")

	err := newRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("cannot read .env file")
	}
}
