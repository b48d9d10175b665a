package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/valog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of valog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "valog version %s\n", valog.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
