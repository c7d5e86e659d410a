package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/AdamWorthington/omakase"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/internal/cache"
	"github.com/AdamWorthington/omakase/internal/config"
	"github.com/AdamWorthington/omakase/internal/diagfmt"
	"github.com/AdamWorthington/omakase/plugin"
	"golang.org/x/sync/errgroup"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// fileResult is the outcome of processing one file.
type fileResult struct {
	Path        string
	Text        string
	Output      string
	Diagnostics []broadcast.Diagnostic
	Cached      bool

	// Err is set when the file could not be processed at all, as opposed to
	// being processed with diagnostics.
	Err error
}

// HasErrors returns true if the file failed or has error diagnostics.
func (r *fileResult) HasErrors() bool {
	if r.Err != nil {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity == broadcast.SeverityError {
			return true
		}
	}
	return false
}

// driver processes files with the settings of one configuration.
type driver struct {
	cfg   *config.Config
	mode  omakase.Mode
	cache *cache.Cache
	jobs  int

	// validateOnly skips printing, for the check command.
	validateOnly bool
}

// newDriver returns a driver for cfg. A nil cache disables caching.
func newDriver(cfg *config.Config, c *cache.Cache, jobs int) *driver {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &driver{cfg: cfg, mode: cfg.Mode(), cache: c, jobs: jobs}
}

// processPaths processes each path in parallel. Results are returned in the
// order of paths. Per-file failures are reported in the results; the error
// is only set when processing was cancelled.
func (d *driver) processPaths(ctx context.Context, paths []string) ([]*fileResult, error) {
	results := make([]*fileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(d.jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			text, err := readSource(path)
			if err != nil {
				results[i] = &fileResult{Path: path, Err: err}
				return nil
			}
			results[i] = d.process(path, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// process processes text read from path, consulting the cache first.
func (d *driver) process(path, text string) *fileResult {
	r := &fileResult{Path: path, Text: text}

	key := cache.KeyFor(text, d.cfg.Fingerprint(), d.mode.String(), fmt.Sprint(d.validateOnly))
	if e, ok, err := d.cache.Get(key); err != nil {
		log().Warningf("%s: cache: %s", path, err)
	} else if ok {
		log().Debugf("%s: cached", path)
		r.Output, r.Diagnostics, r.Cached = e.Output, e.BroadcastDiagnostics(path), true
		return r
	}

	plugins, err := d.cfg.Plugins()
	if err != nil {
		r.Err = err
		return r
	}
	result, err := omakase.Source(text).Named(path).Use(plugins...).Process()

	var cerr *plugin.ConfigurationError
	switch {
	case errors.As(err, &cerr):
		r.Err = err
		return r
	case err != nil:
		// Parse errors are reported as diagnostics and are not cached.
		r.Diagnostics = diagfmt.Collect(err, path)
		return r
	}

	r.Diagnostics = result.Diagnostics
	if !d.validateOnly {
		r.Output = (&omakase.Printer{Mode: d.mode}).Sprint(result.Stylesheet)
	}
	if err := d.cache.Put(key, cache.NewEntry(r.Output, r.Diagnostics)); err != nil {
		log().Warningf("%s: cache: %s", path, err)
	}
	return r
}

// readSource reads the file at path, or standard input for "-".
func readSource(path string) (string, error) {
	if path == stdinPath {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
