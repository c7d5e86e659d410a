// Command omakase processes CSS files: it refines them, adds the vendor
// prefixes the configured browsers need, validates them and prints the
// result.
package main

import (
	"fmt"
	"os"

	"github.com/AdamWorthington/omakase/internal/cache"
	"github.com/AdamWorthington/omakase/internal/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"
)

func log() commonlog.Logger { return commonlog.GetLogger("omakase.cli") }

var rootCmd = &cobra.Command{
	Use:   "omakase",
	Short: "A refinable CSS processor",
	Long:  `Omakase parses CSS lazily, runs plugins over it such as the vendor prefixer, and prints it back out.`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return err
		}
		commonlog.Configure(verbose, nil)
		return nil
	},
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to omakase.toml (searched upwards from the working directory by default)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "number of files processed in parallel (default: GOMAXPROCS)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "do not read or write the output cache")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig returns the configuration named by --config, or the one found
// from the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// newDriverFromFlags returns a driver for the configuration and global
// flags of cmd.
func newDriverFromFlags(cmd *cobra.Command) (*driver, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}

	var c *cache.Cache
	if cfg.Cache.Enabled && !noCache {
		if c, err = cache.Open(cfg.CacheDir()); err != nil {
			log().Warningf("cache disabled: %s", err)
			c = nil
		}
	}
	return newDriver(cfg, c, jobs), nil
}

// useColor reports whether output to f should be colored.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color %q (auto|on|off)", mode)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
