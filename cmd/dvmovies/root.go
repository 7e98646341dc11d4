package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amaumene/dvmovies/internal/constants"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dvmovies",
	Short: "Movie catalog service backed by a Dataverse installation",
	Long: `dvmovies mirrors movie metadata from a Dataverse installation, keeps a
local movie table and sorts the catalog into onscreen, upcoming and ended
movies using the daily box-office snapshot.`,
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_FILE or ./config.json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
}
