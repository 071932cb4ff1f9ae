// Package commands implements the CLI commands for newsrelay.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/newsrelay/internal/config"
	"github.com/jmylchreest/newsrelay/internal/logger"
)

var (
	cfgFile string
	envFile string
	// initErr carries a config file problem from OnInitialize to the command.
	initErr error
)

var rootCmd = &cobra.Command{
	Use:   "newsrelay",
	Short: "Relay news listings to a Telegram chat",
	Long: `newsrelay watches a news listing page and posts every new article to a
Telegram chat, oldest first, reformatted for Telegram's HTML subset.

The title of the newest delivered article is kept as a watermark, so each
run only sends what appeared since the last successful one.

Examples:
  # Seed the watermark from the current listing, then sync once
  newsrelay state init
  TELEGRAM_BOT_TOKEN=123:abc newsrelay run

  # Preview what would be sent
  newsrelay run --dry-run --format yaml

  # Keep running, checking every 15 minutes
  newsrelay watch --schedule "@every 15m"`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.newsrelay.yaml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "log as JSON")
	flags.String("log-file", "", "also write logs to this file (rotated)")

	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log.json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("log.file", flags.Lookup("log-file"))
}

func initConfig() {
	if err := config.LoadDotenv(envFile); err != nil {
		initErr = err
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".newsrelay")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config must exist
		if cfgFile != "" || !errors.As(err, &notFound) {
			initErr = fmt.Errorf("reading config: %w", err)
		}
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	opts := logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log.json"),
	}
	if path := viper.GetString("log.file"); path != "" {
		opts.File = &logger.FileOptions{Path: path}
	}
	logger.Init(opts)

	if initErr != nil {
		return initErr
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}

// loadConfig decodes and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("newsrelay failed", "error", err)
	}
	_ = logger.Close()
	return err
}
