package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/config"
	"github.com/sznuper/bettertiles/internal/layout"
	"github.com/sznuper/bettertiles/internal/livestatus"
	"github.com/sznuper/bettertiles/internal/painter"
	"github.com/sznuper/bettertiles/internal/view"
)

var (
	cfgFile  string
	logLevel string
	userName string
)

var rootCmd = &cobra.Command{
	Use:           "bettertiles",
	Short:         "Status tiles and host group painters for a monitoring console",
	Long:          "bettertiles renders monitoring views as grouped status tiles. Rows come from a Livestatus socket; host group tiles are coloured by their worst unacknowledged service state.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&userName, "user", "", "render as this user (overrides user.name)")
	registerOptionFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogger logs text to a terminal and JSON everywhere else.
func setupLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// runtime is everything a command needs to render views.
type runtime struct {
	cfg      *config.Config
	path     string
	client   *livestatus.Client
	painters *painter.Registry
	layouts  *layout.Registry
	views    *view.Runner
	logger   *slog.Logger
}

func loadRuntime(cmd *cobra.Command, logger *slog.Logger) (*runtime, error) {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyOptionFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if userName != "" {
		cfg.User.Name = userName
	}
	return newRuntime(cfg, path, logger)
}

func newRuntime(cfg *config.Config, path string, logger *slog.Logger) (*runtime, error) {
	addr, err := livestatus.ParseAddress(cfg.Livestatus.Address)
	if err != nil {
		return nil, err
	}
	client := livestatus.NewClient(addr, cfg.Livestatus.Timeout.Duration)

	painters := painter.Builtin(client, logger)
	layouts := layout.Builtin()
	views, err := view.New(cfg, client, painters, layouts, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded", "path", path, "views", len(cfg.Views), "livestatus", cfg.Livestatus.Address)
	return &runtime{
		cfg:      cfg,
		path:     path,
		client:   client,
		painters: painters,
		layouts:  layouts,
		views:    views,
		logger:   logger,
	}, nil
}
