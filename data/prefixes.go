package data

// lastPrefixed maps a name to the last version of each browser that still
// requires the vendor prefix for it.
type lastPrefixed map[string]map[*Browser]string

// add records the same support information for each name.
func (t lastPrefixed) add(names []string, versions map[*Browser]string) {
	for _, name := range names {
		m := t[name]
		if m == nil {
			m = make(map[*Browser]string)
			t[name] = m
		}
		for b, v := range versions {
			m[b] = v
		}
	}
}

var properties = make(lastPrefixed)

var functions = make(lastPrefixed)

var atRules = make(lastPrefixed)

// selectors is keyed by pseudo element name.
var selectors = make(lastPrefixed)

func init() {
	properties.add([]string{
		"border-radius",
		"border-top-left-radius",
		"border-top-right-radius",
		"border-bottom-left-radius",
		"border-bottom-right-radius",
	}, map[*Browser]string{Chrome: "4", Safari: "4", Firefox: "3.6", Android: "2.1", IOSSafari: "3.2"})

	properties.add([]string{
		"background-clip",
		"background-origin",
		"background-size",
	}, map[*Browser]string{Opera: "10.1", Firefox: "3.6", Android: "2.3"})

	properties.add([]string{
		"border-image",
		"border-image-source",
		"border-image-width",
		"border-image-slice",
		"border-image-repeat",
		"border-image-outset",
	}, map[*Browser]string{Opera: "12.1", Chrome: "15", Safari: "5.1", Firefox: "14", Android: "4.3", IOSSafari: "5.1"})

	properties.add([]string{"box-shadow"},
		map[*Browser]string{Chrome: "9", Safari: "5", Firefox: "3.6", Android: "3", IOSSafari: "4.3"})

	properties.add([]string{
		"animation",
		"animation-delay",
		"animation-direction",
		"animation-duration",
		"animation-fill-mode",
		"animation-iteration-count",
		"animation-name",
		"animation-play-state",
		"animation-timing-function",
	}, map[*Browser]string{Opera: "17", Chrome: "31", Safari: "7", Firefox: "15", Android: "4.3", IOSSafari: "7"})

	properties.add([]string{
		"transition",
		"transition-delay",
		"transition-duration",
		"transition-property",
		"transition-timing-function",
	}, map[*Browser]string{Opera: "12", Chrome: "25", Safari: "6", Firefox: "15", Android: "4.3", IOSSafari: "6.1"})

	properties.add([]string{
		"transform",
		"transform-origin",
	}, map[*Browser]string{IE: "9", Opera: "17", Chrome: "31", Safari: "7", Firefox: "15", Android: "4.3", IOSSafari: "7"})

	properties.add([]string{
		"transform-style",
		"perspective",
		"perspective-origin",
		"backface-visibility",
	}, map[*Browser]string{Opera: "17", Chrome: "31", Safari: "7", Firefox: "15", Android: "4.3", IOSSafari: "7"})

	properties.add([]string{"box-sizing"},
		map[*Browser]string{Chrome: "9", Safari: "5", Firefox: "25", Android: "3", IOSSafari: "4.3"})

	properties.add([]string{"user-select"},
		map[*Browser]string{IE: "11", Opera: "17", Chrome: "31", Safari: "7", Firefox: "25", Android: "4.3", IEMobile: "10", IOSSafari: "7"})

	properties.add([]string{"hyphens"},
		map[*Browser]string{IE: "11", Safari: "7", Firefox: "25", IOSSafari: "7"})

	properties.add([]string{"tab-size"},
		map[*Browser]string{Opera: "12.1", Firefox: "25"})

	functions.add([]string{"calc"},
		map[*Browser]string{Chrome: "25", Safari: "6", Firefox: "15", IOSSafari: "6.1"})

	functions.add([]string{
		"linear-gradient",
		"repeating-linear-gradient",
	}, map[*Browser]string{Opera: "12", Chrome: "25", Safari: "6", Firefox: "15", Android: "4.3", IOSSafari: "6.1"})

	atRules.add([]string{"keyframes"},
		map[*Browser]string{Opera: "17", Chrome: "31", Safari: "7", Firefox: "15", Android: "4.3", IOSSafari: "7"})

	selectors.add([]string{"selection"},
		map[*Browser]string{Firefox: "32"})
}

// HasProperty returns true if the property is ever prefixed.
func HasProperty(name string) bool {
	_, ok := properties[name]
	return ok
}

// HasFunction returns true if the function is ever prefixed.
func HasFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// HasAtRule returns true if the at-rule is ever prefixed.
func HasAtRule(name string) bool {
	_, ok := atRules[name]
	return ok
}

// HasSelector returns true if the pseudo element is ever prefixed.
func HasSelector(name string) bool {
	_, ok := selectors[name]
	return ok
}
