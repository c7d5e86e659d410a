// Package data holds browser support information used to decide which vendor
// prefixes a stylesheet needs. The tables are illustrative, not exhaustive.
package data

import (
	"strconv"
	"strings"
)

// Prefix is a vendor prefix, including its dashes.
type Prefix string

// Vendor prefixes.
const (
	Webkit Prefix = "-webkit-"
	Moz    Prefix = "-moz-"
	MS     Prefix = "-ms-"
	O      Prefix = "-o-"
)

// Prefixes lists every prefix in the order prefixed copies are written.
var Prefixes = []Prefix{Webkit, Moz, MS, O}

// Browser is a browser along with the prefix it uses and its known versions.
type Browser struct {
	Key    string
	Name   string
	Prefix Prefix

	// Versions lists the known versions, oldest first.
	Versions []string
}

// String returns the browser key.
func (b *Browser) String() string { return b.Key }

// Latest returns the most recent known version.
func (b *Browser) Latest() string { return b.Versions[len(b.Versions)-1] }

// Last returns the n most recent known versions.
func (b *Browser) Last(n int) []string {
	if n > len(b.Versions) {
		n = len(b.Versions)
	} else if n < 0 {
		n = 0
	}
	return b.Versions[len(b.Versions)-n:]
}

// Known browsers.
var (
	Chrome    = &Browser{Key: "chrome", Name: "Chrome", Prefix: Webkit, Versions: span(4, 37)}
	Firefox   = &Browser{Key: "firefox", Name: "Firefox", Prefix: Moz, Versions: append([]string{"2", "3", "3.5", "3.6"}, span(4, 32)...)}
	Safari    = &Browser{Key: "safari", Name: "Safari", Prefix: Webkit, Versions: []string{"3.1", "3.2", "4", "5", "5.1", "6", "6.1", "7"}}
	IE        = &Browser{Key: "ie", Name: "Internet Explorer", Prefix: MS, Versions: []string{"5.5", "6", "7", "8", "9", "10", "11"}}
	IEMobile  = &Browser{Key: "ie_mobile", Name: "IE Mobile", Prefix: MS, Versions: []string{"10"}}
	IOSSafari = &Browser{Key: "ios_safari", Name: "iOS Safari", Prefix: Webkit, Versions: []string{"3.2", "4", "4.1", "4.2", "4.3", "5", "5.1", "6", "6.1", "7"}}
	Android   = &Browser{Key: "android", Name: "Android Browser", Prefix: Webkit, Versions: []string{"2.1", "2.2", "2.3", "3", "4", "4.1", "4.2", "4.3", "4.4"}}
	Opera     = &Browser{Key: "opera", Name: "Opera", Prefix: O, Versions: append([]string{"9", "9.5", "10", "10.1", "10.5", "10.6", "11", "11.1", "11.5", "11.6", "12", "12.1"}, span(15, 23)...)}
	OperaMini = &Browser{Key: "opera_mini", Name: "Opera Mini", Prefix: O, Versions: []string{"5", "6", "7"}}
)

// Browsers returns every known browser.
func Browsers() []*Browser {
	return []*Browser{Chrome, Firefox, Safari, IE, IEMobile, IOSSafari, Android, Opera, OperaMini}
}

// LookupBrowser returns the browser with the given key. Dashes, spaces and
// case are ignored, so "iOS-Safari" finds IOSSafari.
func LookupBrowser(key string) (*Browser, bool) {
	key = strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(key)))
	for _, b := range Browsers() {
		if b.Key == key || strings.ReplaceAll(b.Key, "_", "") == key {
			return b, true
		}
	}
	return nil, false
}

func span(from, to int) []string {
	var a []string
	for i := from; i <= to; i++ {
		a = append(a, strconv.Itoa(i))
	}
	return a
}
