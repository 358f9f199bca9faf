package cmd

import (
	"fmt"

	"dbor/cli"
	"dbor/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes the tool's home directory and default config.",
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir := cli.HomeDir(cmd)
		if err := config.Init(homeDir); err != nil {
			return err
		}
		fmt.Printf("initialized home directory at %s\n", homeDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
