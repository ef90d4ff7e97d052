// Root command for the shorewrap CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/coastalkit/shorewrap/internal/paths"
	"github.com/coastalkit/shorewrap/pkg/shorewrap"
)

// Global flag values.
var (
	flagConfigDir   string
	flagProjectRoot string
	flagEngineBin   string
)

// Values loaded from the tool's config.yaml. Set by PersistentPreRunE so
// all subcommands can use them.
var (
	cfgProjectRoot string
	cfgEngineBin   string
)

var rootCmd = &cobra.Command{
	Use:     "shorewrap",
	Short:   "Shorewrap drives the ShorelineS coastal-morphology model",
	Version: shorewrap.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadToolConfig(configDir)
		if err != nil {
			return err
		}

		cfgProjectRoot = cfg.GetString(cfgKeyProjectRoot)
		cfgEngineBin = cfg.GetString(cfgKeyEngineBin)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagProjectRoot, "project-root", "", "modelling project root holding the model functions")
	rootCmd.PersistentFlags().StringVar(&flagEngineBin, "engine-bin", "", "engine executable (default: matlab on PATH)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(extractCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > SHOREWRAP_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveProjectRoot returns the project root following the precedence
// chain: --project-root flag > config.yaml project_root > env > CWD.
func resolveProjectRoot() (string, error) {
	return paths.ResolveProjectRoot(flagProjectRoot, cfgProjectRoot)
}

// resolveEngineBin returns the engine executable: --engine-bin flag >
// config.yaml engine_bin > empty (engine default).
func resolveEngineBin() string {
	if flagEngineBin != "" {
		return flagEngineBin
	}
	return cfgEngineBin
}
