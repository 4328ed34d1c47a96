// Root command for the quanta CLI.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/internal/paths"
	"github.com/mesh-intelligence/quanta/pkg/quanta"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// Loaded in PersistentPreRunE and shared by all subcommands.
var (
	cliConfig *cliSettings
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "quanta",
	Short:   "Quanta builds and runs quantum circuits",
	Long:    "Quanta constructs quantum circuits, dispatches them to simulator\nor hardware backends, and runs variational algorithms on top.",
	Version: quanta.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}

		cliConfig, err = loadConfig(configDir)
		if err != nil {
			return err
		}

		logger = zap.NewNop()
		if flagVerbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.quanta-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(vqeCmd)
	rootCmd.AddCommand(groverCmd)
	rootCmd.AddCommand(historyCmd)
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > QUANTA_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cliConfig.DataDir)
}
