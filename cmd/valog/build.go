package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/valog"
	"github.com/aretw0/valog/pkg/git"
)

var (
	commit bool
	push   bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render new and changed articles and rebuild the home page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, err := loadSite()
		if err != nil {
			return err
		}

		report, err := valog.Build(cmd.Context(), cfg, opts...)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Regenerated %d, deleted %d, unchanged %d.\n",
			len(report.Regenerated), len(report.Deleted), report.Unchanged)
		if len(report.Failed) > 0 {
			fmt.Fprintf(out, "Failed: %s\n", strings.Join(report.Failed, ", "))
		}

		if !commit && !push {
			return nil
		}

		client := git.NewClient(cfg.Root, slog.Default())
		msg := git.FormatCommitMessage("chore", "site", "rebuild",
			fmt.Sprintf("regenerated: %d\ndeleted: %d\nrun: %s", len(report.Regenerated), len(report.Deleted), report.RunID))
		res, err := client.Publish(cmd.Context(), msg, push, publishPaths(cfg)...)
		if err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}
		switch {
		case res.Pushed:
			fmt.Fprintln(out, "Committed and pushed.")
		case res.Committed:
			fmt.Fprintln(out, "Committed.")
		default:
			fmt.Fprintln(out, "Nothing to commit.")
		}
		return nil
	},
}

// publishPaths are the generated outputs, relative to the site root.
func publishPaths(cfg *valog.Config) []string {
	return []string{cfg.Paths.Docs, cfg.Paths.Backups, cfg.Paths.Snapshot}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&commit, "commit", false, "Commit the generated site")
	buildCmd.Flags().BoolVar(&push, "push", false, "Commit and push the generated site")
}
