package cmd

import (
	"fmt"
	"os"

	"dbor/cli"
	"dbor/config"
	"dbor/log"

	"github.com/spf13/cobra"
)

var (
	configuredHomeDir string
	cfg               config.Config
)

const (
	flagMaxDepth = "max-depth"
	flagMaxBytes = "max-bytes"
)

var rootCmd = &cobra.Command{
	Use:   "dbor",
	Short: "Inspect and validate DBOR streams",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.CalledAs() == "init" {
			return nil
		}
		configuredHomeDir = cli.HomeDir(cmd)
		loaded, err := config.Load(configuredHomeDir)
		if err != nil {
			return err
		}
		cfg = *loaded
		if cmd.Flags().Changed(flagMaxDepth) {
			cfg.Decoding.MaxDepth, _ = cmd.Flags().GetInt(flagMaxDepth)
		}
		if cmd.Flags().Changed(flagMaxBytes) {
			cfg.Decoding.MaxBytes, _ = cmd.Flags().GetUint64(flagMaxBytes)
		}
		level, err := log.NewLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String(cli.FlagHome, "~/.dbor", "Home directory for the tool's config.")
	rootCmd.PersistentFlags().Int(flagMaxDepth, config.DefaultConfig.Decoding.MaxDepth, "Maximum nesting depth accepted while decoding.")
	rootCmd.PersistentFlags().Uint64(flagMaxBytes, config.DefaultConfig.Decoding.MaxBytes, "Maximum byte string length accepted while decoding (0 = unlimited).")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
