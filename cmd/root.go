// Package cmd implements the videodl command line using Cobra. Without a
// subcommand it opens the desktop window.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/config"
	"github.com/ytget/videodl/internal/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Application identity
const (
	AppID   = "com.ytget.videodl"
	AppName = "videodl"
)

// Global flags
var (
	flagConfig   string
	flagLogLevel string
)

// cfg and zlog are ready once PersistentPreRunE has run
var (
	cfg  *config.Config
	zlog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "videodl",
	Short: "Download videos and playlists through yt-dlp",
	Long: `videodl wraps yt-dlp with format policies, site-specific request rules
and a loopback endpoint for the browser extension.
Run without a subcommand to open the desktop window.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
	RunE: guiRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/videodl/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug | info | warn | error")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration (defaults < file < env < flags) and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagLogLevel != "" {
		if !logger.ValidLevel(flagLogLevel) {
			return fmt.Errorf("invalid log level %q", flagLogLevel)
		}
		cfg.Logging.Level = flagLogLevel
	}

	zlog, err = logger.New(cfg.LoggerOptions())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	zlog.Debug("configuration loaded",
		zap.String("ytdlp", cfg.Tools.YTDLPPath),
		zap.String("ffmpeg", cfg.Tools.FFmpegPath),
		zap.Bool("bridge", cfg.Bridge.Enabled))
	return nil
}
