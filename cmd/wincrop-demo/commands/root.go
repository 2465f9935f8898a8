package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirides/wincrop/internal/config"
	"github.com/kirides/wincrop/internal/logger"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "wincrop-demo",
		Short: "Crop-aware window capture for Windows",
		Long: `wincrop-demo selects a window and captures its content while
staying resilient to occlusion, transparency and full-screen-exclusive
apps by switching between a whole-screen capturer and a per-window
capturer as conditions change.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("allow-uwp-capture", false, "enable the TopOfMeWorker and allow capturing UWP windows")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("allow_uwp_window_capture", rootCmd.PersistentFlags().Lookup("allow-uwp-capture"))
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if viper.IsSet("log_level") {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("allow_uwp_window_capture") && viper.GetBool("allow_uwp_window_capture") {
		cfg.AllowUWPWindowCapture = true
	}
	if viper.IsSet("use_dxgi_screen_capture") && viper.GetBool("use_dxgi_screen_capture") {
		cfg.UseDXGIScreenCapture = true
	}
	logger.Init(cfg.LogLevel, true)
	return cfg
}
