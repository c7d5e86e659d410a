// Package config loads omakase.toml, the project settings of the command
// line tool, and turns them into plugins and printer options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AdamWorthington/omakase"
	"github.com/AdamWorthington/omakase/data"
	"github.com/AdamWorthington/omakase/plugin"
	"github.com/AdamWorthington/omakase/plugin/prefixer"
	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file.
const FileName = "omakase.toml"

// Config holds the settings of a project.
type Config struct {
	// Path is the file the configuration was loaded from. It is empty for
	// the default configuration.
	Path string `toml:"-"`

	Output   Output   `toml:"output"`
	Prefixer Prefixer `toml:"prefixer"`
	Refine   Refine   `toml:"refine"`
	Cache    Cache    `toml:"cache"`
	Validate Validate `toml:"validate"`
}

// Output configures the printer.
type Output struct {
	Mode string `toml:"mode"`
}

// Prefixer configures vendor prefixing.
type Prefixer struct {
	Enabled   bool `toml:"enabled"`
	Rearrange bool `toml:"rearrange"`
	Prune     bool `toml:"prune"`

	// Clean removes prefixed declarations the browsers do not need.
	Clean bool `toml:"clean"`

	// Browsers lists supported versions such as "ie 9" or "last 2 chrome".
	// The default browser set is used when empty.
	Browsers []string `toml:"browsers"`
}

// Refine selects the kinds of nodes refined without a plugin asking.
type Refine struct {
	All          bool `toml:"all"`
	Selectors    bool `toml:"selectors"`
	Declarations bool `toml:"declarations"`
	AtRules      bool `toml:"at-rules"`
	Functions    bool `toml:"functions"`
}

// Cache configures the output cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Validate configures the standard validators.
type Validate struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Output:   Output{Mode: omakase.Inline.String()},
		Refine:   Refine{All: true},
		Cache:    Cache{Enabled: true},
		Validate: Validate{Enabled: true},
	}
}

// Find walks up from startDir to locate omakase.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the configuration found from startDir, or the default
// configuration when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	} else if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads the configuration at path. Settings the file leaves out keep
// their default value.
func Load(path string) (*Config, error) {
	c := Default()
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown setting %s", path, undecoded[0])
	}

	// Any explicit refine setting replaces the default of refining everything.
	if meta.IsDefined("refine") && !meta.IsDefined("refine", "all") {
		c.Refine.All = false
	}
	// A [prefixer] table turns prefixing on unless it says otherwise.
	if meta.IsDefined("prefixer") && !meta.IsDefined("prefixer", "enabled") {
		c.Prefixer.Enabled = true
	}

	c.Path = path
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Check returns an error if a setting has an invalid value.
func (c *Config) Check() error {
	if _, ok := omakase.ParseMode(c.Output.Mode); !ok {
		return fmt.Errorf("invalid [output].mode %q", c.Output.Mode)
	}
	if _, err := c.Support(); err != nil {
		return fmt.Errorf("invalid [prefixer].browsers: %w", err)
	}
	return nil
}

// Mode returns the printer mode. Unknown modes print inline.
func (c *Config) Mode() omakase.Mode {
	m, _ := omakase.ParseMode(c.Output.Mode)
	return m
}

// Support returns the supported browsers, or nil when the default set
// applies.
func (c *Config) Support() (*data.SupportMatrix, error) {
	if len(c.Prefixer.Browsers) == 0 {
		return nil, nil
	}
	m := data.NewSupportMatrix()
	for _, spec := range c.Prefixer.Browsers {
		if err := m.Apply(strings.TrimSpace(spec)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CacheDir returns the cache directory. A relative directory is resolved
// against the directory of the configuration file.
func (c *Config) CacheDir() string {
	dir := c.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) || c.Path == "" {
		return dir
	}
	return filepath.Join(filepath.Dir(c.Path), dir)
}

// Plugins returns the plugins to register, in order.
func (c *Config) Plugins() ([]plugin.Plugin, error) {
	ar := plugin.NewAutoRefiner()
	if c.Refine.All {
		ar.All()
	}
	if c.Refine.Selectors {
		ar.Selectors()
	}
	if c.Refine.Declarations {
		ar.Declarations()
	}
	if c.Refine.AtRules {
		ar.AtRules()
	}
	if c.Refine.Functions {
		ar.Functions()
	}
	plugins := []plugin.Plugin{ar}

	if c.Prefixer.Enabled {
		m, err := c.Support()
		if err != nil {
			return nil, err
		}
		p := prefixer.Default()
		if m != nil {
			p = prefixer.Custom(m)
		}
		p.Rearrange, p.Prune = c.Prefixer.Rearrange, c.Prefixer.Prune
		plugins = append(plugins, p)
		if c.Prefixer.Clean {
			plugins = append(plugins, prefixer.NewPrefixCleaner())
		}
	}

	if c.Validate.Enabled {
		plugins = append(plugins, plugin.StandardValidation{})
	}
	return plugins, nil
}

// Fingerprint returns a string identifying the settings that affect
// output, for use in cache keys.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("%+v|%+v|%+v|%v", c.Output, c.Prefixer, c.Refine, c.Validate.Enabled)
}
