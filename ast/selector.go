package ast

// Selector is a single selector of a rule, such as ".a > .b" in
// ".a > .b, .c {}". Until refined it only holds its raw text.
type Selector struct {
	syntax
	membership

	raw      *RawSyntax
	parts    *Group[SelectorPart]
	refiner  Refiner
	refined  bool
	refining bool
}

// NewSelector returns an unrefined selector over raw content.
func NewSelector(raw *RawSyntax, r Refiner) *Selector {
	s := &Selector{raw: raw, refiner: r}
	if raw != nil {
		s.syntax = at(raw.Line, raw.Column)
	}
	s.parts = NewSeparatedGroup[SelectorPart](s, isCombinator)
	return s
}

// NewSelectorFromParts returns a refined selector made of the given parts.
func NewSelectorFromParts(parts ...SelectorPart) *Selector {
	s := NewSelector(nil, nil)
	for _, p := range parts {
		s.parts.Append(p)
	}
	s.refined = true
	return s
}

func isCombinator(p SelectorPart) bool { return p.Kind() == KindCombinator }

// Raw returns the raw content, or nil for selectors built from parts.
func (s *Selector) Raw() *RawSyntax { return s.raw }

// Parts returns the selector parts. The group is empty until refined.
func (s *Selector) Parts() *Group[SelectorPart] { return s.parts }

// IsRefined returns true if the selector parts have been parsed.
func (s *Selector) IsRefined() bool { return s.refined }

// Refine parses the raw content into selector parts. It does nothing if the
// selector is already refined.
func (s *Selector) Refine() error {
	if s.refined || s.refining {
		return nil
	}
	if s.refiner == nil {
		return ErrNoRefiner
	}
	s.refining = true
	defer func() { s.refining = false }()
	if err := s.refiner.RefineSelector(s); err != nil {
		return err
	}
	s.refined = true
	return nil
}

// Rule returns the rule containing this selector, or nil.
func (s *Selector) Rule() *Rule {
	r, _ := s.Parent().(*Rule)
	return r
}

// InKeyframes returns true if the selector belongs to a rule inside of a
// keyframes at-rule.
func (s *Selector) InKeyframes() bool {
	r := s.Rule()
	if r == nil {
		return false
	}
	a, ok := r.Parent().(*AtRule)
	return ok && a.IsKeyframes()
}

// Copy returns a detached deep copy of the selector.
func (s *Selector) Copy() *Selector {
	if !s.refined && s.raw != nil {
		raw := *s.raw
		return NewSelector(&raw, s.refiner)
	}
	c := NewSelectorFromParts()
	for p := range s.parts.All() {
		c.parts.Append(CopySelectorPart(p))
	}
	c.refiner = s.refiner
	return c
}

// SelectorPart is a simple selector or combinator within a selector.
type SelectorPart interface {
	Member
	selectorPart()
}

func (_ *ClassSelector) selectorPart()         {}
func (_ *IDSelector) selectorPart()            {}
func (_ *TypeSelector) selectorPart()          {}
func (_ *UniversalSelector) selectorPart()     {}
func (_ *PseudoClassSelector) selectorPart()   {}
func (_ *PseudoElementSelector) selectorPart() {}
func (_ *AttributeSelector) selectorPart()     {}
func (_ *Combinator) selectorPart()            {}
func (_ *KeyframeSelector) selectorPart()      {}

// ClassSelector represents ".name".
type ClassSelector struct {
	syntax
	membership
	Name string
}

// NewClassSelector returns a class selector.
func NewClassSelector(line, column int, name string) *ClassSelector {
	return &ClassSelector{syntax: at(line, column), Name: name}
}

// IDSelector represents "#name".
type IDSelector struct {
	syntax
	membership
	Name string
}

// NewIDSelector returns an id selector.
func NewIDSelector(line, column int, name string) *IDSelector {
	return &IDSelector{syntax: at(line, column), Name: name}
}

// TypeSelector represents an element name such as "div". Names are stored in
// lower case.
type TypeSelector struct {
	syntax
	membership
	Name string
}

// NewTypeSelector returns a type selector.
func NewTypeSelector(line, column int, name string) *TypeSelector {
	return &TypeSelector{syntax: at(line, column), Name: Lower(name)}
}

// UniversalSelector represents "*".
type UniversalSelector struct {
	syntax
	membership
}

// NewUniversalSelector returns a universal selector.
func NewUniversalSelector(line, column int) *UniversalSelector {
	return &UniversalSelector{syntax: at(line, column)}
}

// PseudoClassSelector represents ":name" or ":name(args)".
type PseudoClassSelector struct {
	syntax
	membership
	Name string
	Args string
	// HasArgs is true when the selector was written with parentheses.
	HasArgs bool
}

// NewPseudoClassSelector returns a pseudo class selector.
func NewPseudoClassSelector(line, column int, name string) *PseudoClassSelector {
	return &PseudoClassSelector{syntax: at(line, column), Name: name}
}

// PseudoElementSelector represents "::name". Legacy single colon pseudo
// elements are normalized to this type as well.
type PseudoElementSelector struct {
	syntax
	membership
	Name string
}

// NewPseudoElementSelector returns a pseudo element selector.
func NewPseudoElementSelector(line, column int, name string) *PseudoElementSelector {
	return &PseudoElementSelector{syntax: at(line, column), Name: name}
}

// IsPrefixed returns true if the pseudo element name has a vendor prefix.
func (s *PseudoElementSelector) IsPrefixed() bool {
	p, _ := SplitPrefix(s.Name)
	return p != ""
}

// LegacyPseudoElements may be written with a single colon.
var LegacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// AttributeMatch is the matcher of an attribute selector.
type AttributeMatch string

const (
	MatchNone      AttributeMatch = ""
	MatchEquals    AttributeMatch = "="
	MatchIncludes  AttributeMatch = "~="
	MatchDash      AttributeMatch = "|="
	MatchPrefix    AttributeMatch = "^="
	MatchSuffix    AttributeMatch = "$="
	MatchSubstring AttributeMatch = "*="
)

// AttributeSelector represents "[name]" or "[name=value]".
type AttributeSelector struct {
	syntax
	membership
	Name  string
	Match AttributeMatch
	Value string
	Quote QuoteMode
}

// NewAttributeSelector returns an attribute selector.
func NewAttributeSelector(line, column int, name string) *AttributeSelector {
	return &AttributeSelector{syntax: at(line, column), Name: name}
}

// CombinatorType is the type of a combinator.
type CombinatorType int

const (
	Descendant CombinatorType = iota
	Child
	AdjacentSibling
	GeneralSibling
)

// Symbol returns the combinator's symbol, a space for descendants.
func (t CombinatorType) Symbol() string {
	switch t {
	case Child:
		return ">"
	case AdjacentSibling:
		return "+"
	case GeneralSibling:
		return "~"
	}
	return " "
}

// Combinator joins two compound selectors.
type Combinator struct {
	syntax
	membership
	Type CombinatorType
}

// NewCombinator returns a combinator.
func NewCombinator(line, column int, typ CombinatorType) *Combinator {
	return &Combinator{syntax: at(line, column), Type: typ}
}

// KeyframeSelector represents "from", "to" or a percentage inside of a
// keyframes block.
type KeyframeSelector struct {
	syntax
	membership
	Value string
}

// NewKeyframeSelector returns a keyframe selector.
func NewKeyframeSelector(line, column int, value string) *KeyframeSelector {
	return &KeyframeSelector{syntax: at(line, column), Value: Lower(value)}
}

// CopySelectorPart returns a detached copy of p without position.
func CopySelectorPart(p SelectorPart) SelectorPart {
	switch p := p.(type) {
	case *ClassSelector:
		return &ClassSelector{Name: p.Name}
	case *IDSelector:
		return &IDSelector{Name: p.Name}
	case *TypeSelector:
		return &TypeSelector{Name: p.Name}
	case *UniversalSelector:
		return &UniversalSelector{}
	case *PseudoClassSelector:
		return &PseudoClassSelector{Name: p.Name, Args: p.Args, HasArgs: p.HasArgs}
	case *PseudoElementSelector:
		return &PseudoElementSelector{Name: p.Name}
	case *AttributeSelector:
		return &AttributeSelector{Name: p.Name, Match: p.Match, Value: p.Value, Quote: p.Quote}
	case *Combinator:
		return &Combinator{Type: p.Type}
	case *KeyframeSelector:
		return &KeyframeSelector{Value: p.Value}
	}
	return nil
}
