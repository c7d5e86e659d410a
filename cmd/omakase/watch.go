package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file> [file...]",
	Short: "Process CSS files again whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("mode", "m", "", "output mode (inline|compressed|verbose), overriding the configuration")
	watchCmd.Flags().StringP("out-dir", "o", "", "write each result to a file of the same name in this directory")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	// Watch directories rather than files so that editors replacing a file
	// by renaming over it are noticed.
	paths := make(map[string]string)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return report(err)
	}
	defer w.Close()
	for _, path := range args {
		if path == stdinPath {
			return report(fmt.Errorf("watch: standard input cannot be watched"))
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return report(err)
		}
		if _, ok := paths[abs]; !ok {
			if err := w.Add(filepath.Dir(abs)); err != nil {
				return report(fmt.Errorf("watch: %s: %w", path, err))
			}
		}
		paths[abs] = path
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run := func(paths ...string) error {
		results, err := d.processPaths(ctx, paths)
		if err != nil {
			return err
		}
		for _, r := range results {
			writeResult(r, outDir, color)
		}
		return nil
	}
	if err := run(args...); err != nil {
		return ignoreCanceled(ctx, err)
	}

	log().Noticef("watching %d files", len(paths))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			path, watched := paths[ev.Name]
			if !watched || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log().Debugf("%s: %s", path, ev.Op)
			if err := run(path); err != nil {
				return ignoreCanceled(ctx, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log().Errorf("watch: %s", err)
		}
	}
}

// ignoreCanceled returns nil if err is due to ctx being cancelled.
func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
