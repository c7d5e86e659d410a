package main

import (
	"fmt"
	"os"

	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/internal/diagfmt"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file> [file...]",
	Short: "Report parse errors and validation problems",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Bool("strict", false, "fail on warnings too")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	} else if format != "text" && format != "json" {
		return report(fmt.Errorf("check: unsupported output format %q", format))
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}

	d, err := newDriverFromFlags(cmd)
	if err != nil {
		return report(err)
	}
	d.validateOnly = true
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return report(err)
	}

	results, err := d.processPaths(cmd.Context(), args)
	if err != nil {
		return report(err)
	}

	var all []broadcast.Diagnostic
	failed := false
	for _, r := range results {
		diags := r.Diagnostics
		if r.Err != nil {
			diags = diagfmt.Collect(r.Err, r.Path)
		}
		diagfmt.Sort(diags)
		all = append(all, diags...)

		if r.HasErrors() || (strict && len(diags) > 0) {
			failed = true
		}
		if format == "text" && len(diags) > 0 {
			if err := diagfmt.Pretty(os.Stdout, diags, r.Text, diagfmt.Options{Color: color}); err != nil {
				return err
			}
		}
	}

	if format == "json" {
		if err := diagfmt.JSON(os.Stdout, all); err != nil {
			return err
		}
	}
	if failed {
		return fmt.Errorf("check: problems found")
	}
	return nil
}
