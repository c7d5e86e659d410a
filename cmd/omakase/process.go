package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AdamWorthington/omakase"
	"github.com/AdamWorthington/omakase/internal/diagfmt"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process [flags] <file> [file...]",
	Short: "Process CSS files and print the result",
	Long:  `Process parses each file, runs the configured plugins and prints the result to standard output, or into --out-dir. Use "-" to read standard input.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringP("mode", "m", "", "output mode (inline|compressed|verbose), overriding the configuration")
	processCmd.Flags().StringP("out-dir", "o", "", "write each result to a file of the same name in this directory")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	d, err := newDriverFromFlags(cmd)
	if err != nil {
		return report(err)
	}
	if err := applyMode(cmd, d); err != nil {
		return report(err)
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return report(err)
	}

	results, err := d.processPaths(cmd.Context(), args)
	if err != nil {
		return report(err)
	}

	failed := false
	for _, r := range results {
		if !writeResult(r, outDir, color) {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("process: failed")
	}
	return nil
}

// applyMode overrides the output mode of d with --mode.
func applyMode(cmd *cobra.Command, d *driver) error {
	name, err := cmd.Flags().GetString("mode")
	if err != nil || name == "" {
		return err
	}
	m, ok := omakase.ParseMode(name)
	if !ok {
		return fmt.Errorf("invalid --mode %q (inline|compressed|verbose)", name)
	}
	d.mode = m
	return nil
}

// writeResult prints the diagnostics of r to standard error and its output
// to standard output or outDir. It returns false if r failed.
func writeResult(r *fileResult, outDir string, color bool) bool {
	if r.Err != nil {
		fmt.Fprintf(os.Stderr, "omakase: %s: %v\n", r.Path, r.Err)
		return false
	}
	if len(r.Diagnostics) > 0 {
		diagfmt.Sort(r.Diagnostics)
		opts := diagfmt.Options{Color: color, NoExcerpt: r.Text == ""}
		if err := diagfmt.Pretty(os.Stderr, r.Diagnostics, r.Text, opts); err != nil {
			log().Errorf("%s", err)
		}
	}
	if r.HasErrors() {
		return false
	}

	if outDir == "" || r.Path == stdinPath {
		fmt.Fprintln(os.Stdout, r.Output)
		return true
	}
	dst := filepath.Join(outDir, filepath.Base(r.Path))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "omakase: %v\n", err)
		return false
	}
	if err := os.WriteFile(dst, []byte(r.Output+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "omakase: %v\n", err)
		return false
	}
	log().Infof("wrote %s", dst)
	return true
}

// report prints err the way diagnostics are printed and returns it.
func report(err error) error {
	fmt.Fprintf(os.Stderr, "omakase: %v\n", err)
	return err
}
