// Extract command: turn a persisted result container into a coastline table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastalkit/shorewrap/internal/store"
	"github.com/coastalkit/shorewrap/pkg/extract"
	"github.com/coastalkit/shorewrap/pkg/matfile"
	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

var (
	flagExtractConfig string
	flagExtractCSV    string
	flagExtractDB     string
	flagExtractName   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <results.mat>",
	Short: "Extract a time-indexed coastline table from a result container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runconfig.Load(flagExtractConfig)
		if err != nil {
			return err
		}
		cfg = runconfig.NormalizeDates(cfg)

		rec, err := matfile.Load(args[0])
		if err != nil {
			return err
		}

		axis, err := extract.TimeAxisFromRecord(rec, cfg)
		if err != nil {
			return err
		}

		tbl, err := extract.BuildTable(extract.Coastline(rec), axis)
		if err != nil {
			return err
		}

		fmt.Printf("extracted %d rows over %d snapshots\n", tbl.Len(), axis.Len())

		if flagExtractCSV != "" {
			f, err := os.Create(flagExtractCSV)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			defer f.Close()
			if err := tbl.WriteCSV(f); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}

		if flagExtractDB != "" {
			db, err := store.Open(flagExtractDB)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.SaveTable(cmd.Context(), flagExtractName, tbl)
			if err != nil {
				return err
			}
			fmt.Printf("saved table %s\n", id)
		}

		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&flagExtractConfig, "config", "", "run configuration the container was produced with (required)")
	extractCmd.Flags().StringVar(&flagExtractCSV, "csv", "", "write the table to this CSV file")
	extractCmd.Flags().StringVar(&flagExtractDB, "db", "", "persist the table to this SQLite database")
	extractCmd.Flags().StringVar(&flagExtractName, "name", "coastline", "table name used when persisting")
	_ = extractCmd.MarkFlagRequired("config")
}
