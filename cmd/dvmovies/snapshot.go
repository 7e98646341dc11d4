package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amaumene/dvmovies/internal/boxoffice"
	"github.com/amaumene/dvmovies/internal/config"
)

var (
	snapshotIn  string
	snapshotOut string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Work with the daily box-office snapshot",
}

var snapshotConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a box-office .xlsx export into the JSON snapshot format",
	RunE: func(cmd *cobra.Command, _ []string) error {
		snap, err := boxoffice.Load(snapshotIn)
		if err != nil {
			return err
		}
		if err := boxoffice.WriteJSON(snapshotOut, snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d titles to %s\n", snap.Len(), snapshotOut)
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the titles of a snapshot file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := snapshotIn
		if path == "" {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path = cfg.BoxOfficePath
		}
		if path == "" {
			return fmt.Errorf("no snapshot file: pass --in or set BOXOFFICE_PATH")
		}

		snap, err := boxoffice.Load(path)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(snap.Titles())
	},
}

func init() {
	snapshotConvertCmd.Flags().StringVar(&snapshotIn, "in", "", "box-office .xlsx export")
	snapshotConvertCmd.Flags().StringVar(&snapshotOut, "out", "", "JSON snapshot to write")
	_ = snapshotConvertCmd.MarkFlagRequired("in")
	_ = snapshotConvertCmd.MarkFlagRequired("out")

	snapshotShowCmd.Flags().StringVar(&snapshotIn, "in", "", "snapshot file (default BOXOFFICE_PATH)")

	snapshotCmd.AddCommand(snapshotConvertCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

