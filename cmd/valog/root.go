package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/valog"
)

var (
	verbose    bool
	logFormat  string
	configPath string
	rootDir    string
	envFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valog",
	Short: "An incremental static blog generator for GitHub issues and text files",
	Long: `VaLog renders the open issues of a GitHub repository and/or a directory
of text files into a static site. Only new or changed articles are rendered
on each run; pages of removed articles are deleted.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if logFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVarP(&configPath, "config", "c", "", "Path to config.yml (default: <root>/config.yml)")
	flags.StringVar(&rootDir, "root", "", "Site root (default: nearest directory with config.yml or .git)")
	flags.StringVar(&envFile, "env", ".env", "Dotenv file with REPO and GITHUB_TOKEN, relative to the root")
}

// loadSite resolves the root and configuration shared by every command.
func loadSite() (*valog.Config, []valog.Option, error) {
	root := rootDir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		if found, err := valog.FindSiteRoot(cwd); err == nil {
			root = found
		} else {
			root = cwd
		}
	}

	path := configPath
	if path == "" {
		path = filepath.Join(root, "config.yml")
	}

	cfg, err := valog.LoadConfig(path, root)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("configuration loaded", "config", path, "root", root, "mode", cfg.DataSource.Mode)

	opts := []valog.Option{
		valog.WithLogger(slog.Default()),
		valog.WithEnvFile(envFile),
	}
	return cfg, opts, nil
}
