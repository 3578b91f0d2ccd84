package cmd

import (
	"github.com/hpkotak/shellsage/internal/setup"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure ShellSage (first-time or reconfigure)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setup.Run(ioIn, ioOut)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
