package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information. These can be overridden at build time via -ldflags.
var (
	version   = "0.1.0-dev"
	gitCommit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		c := color.New(color.FgGreen, color.Bold)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "omakase %s", c.Sprint(version))
		if gitCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", gitCommit)
		}
		fmt.Fprintf(cmd.OutOrStdout(), " %s/%s %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
		return nil
	},
}
