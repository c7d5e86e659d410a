package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportMatrix is the set of browser versions a stylesheet must support.
//
// Versions are compared as semantic versions, so "3.6" is older than "15".
// Invalid versions are recorded and reported by Err.
type SupportMatrix struct {
	browsers []*Browser
	versions map[*Browser][]*semver.Version
	err      error
}

// NewSupportMatrix returns a matrix supporting nothing.
func NewSupportMatrix() *SupportMatrix {
	return &SupportMatrix{versions: make(map[*Browser][]*semver.Version)}
}

// Browser adds support for a single version of b.
func (m *SupportMatrix) Browser(b *Browser, version string) *SupportMatrix {
	v, err := semver.NewVersion(version)
	if err != nil {
		m.err = errors.Join(m.err, fmt.Errorf("data: invalid %s version %q: %w", b.Key, version, err))
		return m
	}
	if _, ok := m.versions[b]; !ok {
		m.browsers = append(m.browsers, b)
	}
	for _, existing := range m.versions[b] {
		if existing.Equal(v) {
			return m
		}
	}
	m.versions[b] = append(m.versions[b], v)
	return m
}

// Last adds support for the n most recent versions of b.
func (m *SupportMatrix) Last(b *Browser, n int) *SupportMatrix {
	for _, v := range b.Last(n) {
		m.Browser(b, v)
	}
	return m
}

// Latest adds support for the most recent version of b.
func (m *SupportMatrix) Latest(b *Browser) *SupportMatrix {
	return m.Browser(b, b.Latest())
}

// All adds support for every known version of b.
func (m *SupportMatrix) All(b *Browser) *SupportMatrix {
	for _, v := range b.Versions {
		m.Browser(b, v)
	}
	return m
}

// Err returns the errors recorded while building the matrix.
func (m *SupportMatrix) Err() error { return m.err }

// Browsers returns the supported browsers in the order they were added.
func (m *SupportMatrix) Browsers() []*Browser { return m.browsers }

// Supports returns true if the given version of b is supported.
func (m *SupportMatrix) Supports(b *Browser, version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	for _, s := range m.versions[b] {
		if s.Equal(v) {
			return true
		}
	}
	return false
}

// Apply adds the versions described by spec, one of "<browser> <version>",
// "last <n> <browser>", "latest <browser>" or "all <browser>".
func (m *SupportMatrix) Apply(spec string) error {
	fields := strings.Fields(spec)
	lookup := func(key string) (*Browser, error) {
		b, ok := LookupBrowser(key)
		if !ok {
			return nil, fmt.Errorf("data: unknown browser %q", key)
		}
		return b, nil
	}

	switch {
	case len(fields) == 3 && strings.EqualFold(fields[0], "last"):
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return fmt.Errorf("data: invalid count in %q", spec)
		}
		b, err := lookup(fields[2])
		if err != nil {
			return err
		}
		m.Last(b, n)
	case len(fields) == 2 && strings.EqualFold(fields[0], "latest"):
		b, err := lookup(fields[1])
		if err != nil {
			return err
		}
		m.Latest(b)
	case len(fields) == 2 && strings.EqualFold(fields[0], "all"):
		b, err := lookup(fields[1])
		if err != nil {
			return err
		}
		m.All(b)
	case len(fields) == 2:
		b, err := lookup(fields[0])
		if err != nil {
			return err
		}
		before := m.err
		if m.Browser(b, fields[1]); m.err != before {
			return fmt.Errorf("data: invalid version in %q", spec)
		}
	default:
		return fmt.Errorf("data: unrecognized browser support %q", spec)
	}
	return nil
}

// PrefixesForProperty returns the prefixes the property needs.
func (m *SupportMatrix) PrefixesForProperty(name string) []Prefix {
	return m.prefixes(properties[name])
}

// PrefixesForFunction returns the prefixes the function needs.
func (m *SupportMatrix) PrefixesForFunction(name string) []Prefix {
	return m.prefixes(functions[name])
}

// PrefixesForAtRule returns the prefixes the at-rule needs.
func (m *SupportMatrix) PrefixesForAtRule(name string) []Prefix {
	return m.prefixes(atRules[name])
}

// PrefixesForSelector returns the prefixes the pseudo element needs.
func (m *SupportMatrix) PrefixesForSelector(name string) []Prefix {
	return m.prefixes(selectors[name])
}

// RequiresPrefix returns true if the property needs prefix p.
func (m *SupportMatrix) RequiresPrefix(property string, p Prefix) bool {
	for _, q := range m.PrefixesForProperty(property) {
		if q == p {
			return true
		}
	}
	return false
}

// prefixes returns the prefixes of the supported browsers that have a
// supported version at or below the last prefixed version, in output order.
func (m *SupportMatrix) prefixes(last map[*Browser]string) []Prefix {
	needed := make(map[Prefix]bool)
	for b, lv := range last {
		l, err := semver.NewVersion(lv)
		if err != nil {
			continue
		}
		for _, v := range m.versions[b] {
			if !v.GreaterThan(l) {
				needed[b.Prefix] = true
				break
			}
		}
	}

	var a []Prefix
	for _, p := range Prefixes {
		if needed[p] {
			a = append(a, p)
		}
	}
	return a
}
