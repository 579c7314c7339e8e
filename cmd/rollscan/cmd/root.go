// Package cmd implements the rollscan command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rollscan/rollscan/internal/config"
)

var (
	globalConfig *config.Config
	cfgFile      string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "rollscan",
	Short: "Extract voter records from scanned electoral rolls",
	Long: `rollscan locates voter boxes on scanned electoral-roll pages,
suppresses the background watermark, recognizes each box's serial
number, EPIC code, and detail block, and assembles validated voter
records.

Examples:
  rollscan extract roll.pdf -o voters.csv
  rollscan extract page1.png page2.png -o voters.xlsx
  rollscan serve --port 8080`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if v, _ := cmd.PersistentFlags().GetBool("version"); v {
			fmt.Fprintln(cmd.OutOrStdout(), "rollscan version", version)
			return nil
		}
		return cmd.Help()
	},
}

// version is stamped at build time via -ldflags.
var version = "dev"

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand exposes the root command for tests.
func GetRootCommand() *cobra.Command { return rootCmd }

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME/.rollscan, /etc/rollscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("version", false,
		"print version information and exit")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if globalConfig == nil {
			initConfig()
		}
		setupLogging(globalConfig)
	}
}

func initConfig() {
	loader := config.NewLoader()
	loader.SetConfigFile(cfgFile)

	cfg, err := loader.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	globalConfig = cfg
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
