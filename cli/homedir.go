package cli

import (
	"dbor/config"

	"github.com/spf13/cobra"
)

const FlagHome = "home"

// HomeDir resolves the --home flag, expanding a leading ~ to the user's home
// directory. Any other path is returned unchanged.
func HomeDir(cmd *cobra.Command) string {
	raw, err := cmd.Flags().GetString(FlagHome)
	if err != nil {
		panic(err)
	}
	return config.ExpandHomePath(raw)
}
