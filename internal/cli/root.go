// Package cli implements the hederad command line.
package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goHederad/internal/config"
	"github.com/LeJamon/goHederad/internal/di"
)

// Version is the hederad release, overridden at link time.
var Version = "0.1.0-dev"

type globalFlags struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the hederad command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hederad",
		Short: "hederad - custom fee assessment for token transfers",
		Long: `hederad expands token transfers into the full set of balance changes they
imply once every custom fee of the transferred tokens has been charged.

Fee schedules and account aliases are kept in a local store that the assess
command and the JSON-RPC server read from.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newVersionCommand(),
		newServerCommand(flags),
		newAssessCommand(flags),
		newSchedulesCommand(flags),
		newAliasesCommand(flags),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --conf, or defaults and
// environment when the flag is empty.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
		if err := cfg.Log.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newProvider wires the services of cfg. Metrics register with reg.
func newProvider(cfg *config.Config, reg prometheus.Registerer) (*di.Provider, error) {
	p := di.NewProvider(di.New(), cfg, reg)
	if err := p.RegisterAll(); err != nil {
		return nil, fmt.Errorf("failed to register services: %w", err)
	}
	return p, nil
}
