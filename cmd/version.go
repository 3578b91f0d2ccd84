package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata set at build time via ldflags:
//
//	go build -ldflags "-X github.com/hpkotak/shellsage/cmd.version=v0.1.0 \
//	  -X github.com/hpkotak/shellsage/cmd.commit=abc1234 \
//	  -X github.com/hpkotak/shellsage/cmd.date=2026-01-01"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(ioOut, buildVersion())
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(versionCmd)
}

func buildVersion() string {
	v := "sage " + version
	if commit != "" {
		v += fmt.Sprintf(" (commit %s)", commit)
	}
	if date != "" {
		v += fmt.Sprintf(" built %s", date)
	}
	return v
}
