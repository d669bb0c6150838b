package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "streakctl",
		Short: "Offline habit streak calculator",
		Long: `streakctl runs the same streak engine as the Kanso API against a local
history file, without a database or server.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to a TOML config file (default: <user config dir>/kanso/streakctl.toml)")
	root.AddCommand(newCalcCmd())

	return root
}
