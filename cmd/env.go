package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hpkotak/shellsage/internal/platform"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the detected shell environment",
	Long: `Show what ShellSage detected about the current environment: operating
system, shell, shell capabilities, and terminal features. Commands are
translated and validated against exactly this report.`,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := gatherEnv(ctx)

	if snap.OSVersion != "" {
		_, _ = fmt.Fprintf(ioOut, "  OS:           %s %s (%s)\n", snap.OS, snap.OSVersion, snap.Arch)
	} else {
		_, _ = fmt.Fprintf(ioOut, "  OS:           %s (%s)\n", snap.OS, snap.Arch)
	}

	switch {
	case snap.Shell == "":
		_, _ = fmt.Fprintln(ioOut, "  Shell:        not detected")
	case snap.ShellVersion != "":
		_, _ = fmt.Fprintf(ioOut, "  Shell:        %s %s\n", snap.Shell, snap.ShellVersion)
	default:
		_, _ = fmt.Fprintf(ioOut, "  Shell:        %s\n", snap.Shell)
	}

	var enabled []string
	for name, ok := range snap.Capabilities {
		if ok {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)
	if len(enabled) > 0 {
		_, _ = fmt.Fprintf(ioOut, "  Capabilities: %s\n", strings.Join(enabled, ", "))
	}

	ansi := "no"
	if platform.SupportsANSIColors() {
		ansi = "yes"
	}
	_, _ = fmt.Fprintf(ioOut, "  ANSI colors:  %s\n", ansi)

	if snap.CWD != "" {
		_, _ = fmt.Fprintf(ioOut, "  Directory:    %s\n", snap.CWD)
	}
	if snap.GitBranch != "" {
		status := "clean"
		if snap.GitDirty {
			status = "dirty"
		}
		_, _ = fmt.Fprintf(ioOut, "  Git branch:   %s (%s)\n", snap.GitBranch, status)
	}

	return nil
}
