package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aretw0/valog"
	"github.com/aretw0/valog/pkg/core"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the next build would do",
	Long: `Status lists the sources, reconciles them against the cache and the
rendered pages, and prints the resulting plan as JSON. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, err := loadSite()
		if err != nil {
			return err
		}

		b, err := valog.New(cfg, opts...)
		if err != nil {
			return err
		}

		plan, err := b.Plan(cmd.Context())
		if err != nil {
			return err
		}

		out := struct {
			State any       `json:"state"`
			Plan  core.Plan `json:"plan"`
		}{
			State: b.State(),
			Plan:  plan,
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
