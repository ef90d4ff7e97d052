// Run command: execute one model run from a YAML configuration.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coastalkit/shorewrap/pkg/shorewrap"
)

var (
	flagRunTimeout time.Duration
	flagRunSave    string
)

var runCmd = &cobra.Command{
	Use:   "run <config.yaml>",
	Short: "Run a ShorelineS simulation from a YAML configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if flagRunTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, flagRunTimeout)
			defer cancel()
		}

		projectRoot, err := resolveProjectRoot()
		if err != nil {
			return fmt.Errorf("resolve project root: %w", err)
		}

		state, output, err := shorewrap.Run(ctx, args[0], shorewrap.Options{
			EngineBinary: resolveEngineBin(),
			ProjectRoot:  projectRoot,
			SavePath:     flagRunSave,
		})
		if err != nil {
			return err
		}

		fmt.Printf("run complete: state fields %d, output fields %d\n",
			len(state.FieldNames()), len(output.FieldNames()))
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&flagRunTimeout, "timeout", 0, "abort the model call after this duration (0 = no timeout)")
	runCmd.Flags().StringVar(&flagRunSave, "save", "", "copy the result container to this path before the session closes")
}
