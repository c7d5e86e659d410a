package ast

import "strings"

// Declaration represents "property: value". Until refined it holds the raw
// property name and value.
type Declaration struct {
	syntax
	membership

	rawProperty *RawSyntax
	rawValue    *RawSyntax
	property    PropertyName
	value       *PropertyValue
	important   bool

	refiner  Refiner
	refined  bool
	refining bool
}

// NewDeclaration returns an unrefined declaration.
func NewDeclaration(rawProperty, rawValue *RawSyntax, r Refiner) *Declaration {
	d := &Declaration{rawProperty: rawProperty, rawValue: rawValue, refiner: r}
	if rawProperty != nil {
		d.syntax = at(rawProperty.Line, rawProperty.Column)
		d.property = ParsePropertyName(rawProperty.Content)
	}
	return d
}

// NewDeclarationFrom returns a refined declaration.
func NewDeclarationFrom(name PropertyName, value *PropertyValue) *Declaration {
	d := &Declaration{property: name, refined: true}
	if value == nil {
		value = NewPropertyValue(0, 0)
	}
	d.SetValue(value)
	return d
}

// RawProperty returns the raw property name, or nil.
func (d *Declaration) RawProperty() *RawSyntax { return d.rawProperty }

// RawValue returns the raw value, or nil.
func (d *Declaration) RawValue() *RawSyntax { return d.rawValue }

// PropertyName returns the property name. It is available without refinement.
func (d *Declaration) PropertyName() PropertyName { return d.property }

// SetPropertyName changes the property name.
func (d *Declaration) SetPropertyName(p PropertyName) { d.property = p }

// IsProperty returns true if the unprefixed property name equals name.
func (d *Declaration) IsProperty(name string) bool {
	return d.property.Name == Lower(name)
}

// IsPrefixed returns true if the property name has a vendor prefix.
func (d *Declaration) IsPrefixed() bool { return d.property.IsPrefixed() }

// Value returns the property value. It is nil until the declaration is
// refined.
func (d *Declaration) Value() *PropertyValue { return d.value }

// SetValue replaces the property value.
func (d *Declaration) SetValue(v *PropertyValue) {
	if d.value != nil {
		d.value.declaration = nil
	}
	d.value = v
	if v != nil {
		v.declaration = d
	}
}

// Important returns true if the declaration is marked "!important".
func (d *Declaration) Important() bool { return d.important }

// SetImportant changes the important flag.
func (d *Declaration) SetImportant(v bool) { d.important = v }

// IsRefined returns true if the value has been parsed.
func (d *Declaration) IsRefined() bool { return d.refined }

// Refine parses the raw property and value. It does nothing if the
// declaration is already refined.
func (d *Declaration) Refine() error {
	if d.refined || d.refining {
		return nil
	}
	if d.refiner == nil {
		return ErrNoRefiner
	}
	d.refining = true
	defer func() { d.refining = false }()
	if err := d.refiner.RefineDeclaration(d); err != nil {
		return err
	}
	d.refined = true
	return nil
}

// Siblings returns the group of declarations this declaration belongs to.
func (d *Declaration) Siblings() *Group[*Declaration] {
	return GroupOf(d)
}

// Copy returns a detached deep copy of the declaration.
func (d *Declaration) Copy() *Declaration {
	if !d.refined {
		c := &Declaration{property: d.property, important: d.important, refiner: d.refiner}
		if d.rawProperty != nil {
			raw := *d.rawProperty
			c.rawProperty = &raw
		}
		if d.rawValue != nil {
			raw := *d.rawValue
			c.rawValue = &raw
		}
		return c
	}
	var v *PropertyValue
	if d.value != nil {
		v = d.value.Copy()
	}
	c := NewDeclarationFrom(d.property, v)
	c.important = d.important
	c.refiner = d.refiner
	return c
}

// PropertyName is a property name split into vendor prefix and name.
type PropertyName struct {
	Prefix string
	Name   string
}

// ParsePropertyName parses a property name such as "-moz-border-radius".
// The name is stored in lower case.
func ParsePropertyName(s string) PropertyName {
	prefix, name := SplitPrefix(strings.TrimSpace(s))
	return PropertyName{Prefix: prefix, Name: Lower(name)}
}

// IsPrefixed returns true if the name has a vendor prefix.
func (p PropertyName) IsPrefixed() bool { return p.Prefix != "" }

// WithPrefix returns the name with a different prefix.
func (p PropertyName) WithPrefix(prefix string) PropertyName {
	return PropertyName{Prefix: prefix, Name: p.Name}
}

// Unprefixed returns the name without its prefix.
func (p PropertyName) Unprefixed() PropertyName { return PropertyName{Name: p.Name} }

// String returns the full property name.
func (p PropertyName) String() string { return p.Prefix + p.Name }

// PropertyValue is the refined value of a declaration, a sequence of terms
// and operators.
type PropertyValue struct {
	syntax
	declaration *Declaration
	terms       *Group[Term]
}

// NewPropertyValue returns an empty property value.
func NewPropertyValue(line, column int) *PropertyValue {
	v := &PropertyValue{syntax: at(line, column)}
	v.terms = NewSeparatedGroup[Term](v, isSeparatingOperator)
	return v
}

// NewPropertyValueOf returns a property value made of the given terms.
func NewPropertyValueOf(terms ...Term) *PropertyValue {
	v := NewPropertyValue(0, 0)
	for _, t := range terms {
		v.terms.Append(t)
	}
	return v
}

// Declaration returns the declaration owning the value, or nil.
func (v *PropertyValue) Declaration() *Declaration { return v.declaration }

// Terms returns the terms and operators of the value.
func (v *PropertyValue) Terms() *Group[Term] { return v.terms }

// Copy returns a deep copy of the value.
func (v *PropertyValue) Copy() *PropertyValue {
	c := NewPropertyValue(0, 0)
	for t := range v.terms.All() {
		c.terms.Append(CopyTerm(t))
	}
	return c
}

func isSeparatingOperator(t Term) bool {
	op, ok := t.(*Operator)
	return ok && op.Type != Space
}

// Term is a single component of a property value or function arguments.
type Term interface {
	Member
	term()
}

func (_ *KeywordValue) term()   {}
func (_ *NumericalValue) term() {}
func (_ *StringValue) term()    {}
func (_ *HexColorValue) term()  {}
func (_ *FunctionValue) term()  {}
func (_ *URLValue) term()       {}
func (_ *Operator) term()       {}

// KeywordValue is an identifier term such as "none" or "border-box".
type KeywordValue struct {
	syntax
	membership
	Keyword string
}

// NewKeywordValue returns a keyword term.
func NewKeywordValue(line, column int, keyword string) *KeywordValue {
	return &KeywordValue{syntax: at(line, column), Keyword: keyword}
}

// NumericalValue is a number with an optional unit, such as "-6px" or "30%".
type NumericalValue struct {
	syntax
	membership
	Number string
	Unit   string
}

// NewNumericalValue returns a numerical term.
func NewNumericalValue(line, column int, number, unit string) *NumericalValue {
	return &NumericalValue{syntax: at(line, column), Number: number, Unit: unit}
}

// StringValue is a quoted string term.
type StringValue struct {
	syntax
	membership
	Content string
	Quote   QuoteMode
}

// NewStringValue returns a string term.
func NewStringValue(line, column int, quote QuoteMode, content string) *StringValue {
	return &StringValue{syntax: at(line, column), Content: content, Quote: quote}
}

// HexColorValue is a color written as "#fff". The color is stored in lower
// case without the hash.
type HexColorValue struct {
	syntax
	membership
	Color string
}

// NewHexColorValue returns a hex color term.
func NewHexColorValue(line, column int, color string) *HexColorValue {
	return &HexColorValue{syntax: at(line, column), Color: Lower(color)}
}

// URLValue is a "url(...)" term.
type URLValue struct {
	syntax
	membership
	URL   string
	Quote QuoteMode
}

// NewURLValue returns a url term.
func NewURLValue(line, column int, url string, quote QuoteMode) *URLValue {
	return &URLValue{syntax: at(line, column), URL: url, Quote: quote}
}

// OperatorType is the type of an operator between terms.
type OperatorType int

const (
	Space OperatorType = iota
	Comma
	Slash
	Add
	Subtract
	Multiply
)

// Symbol returns the operator's symbol.
func (t OperatorType) Symbol() string {
	switch t {
	case Comma:
		return ","
	case Slash:
		return "/"
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	}
	return " "
}

// Operator separates terms.
type Operator struct {
	syntax
	membership
	Type OperatorType
}

// NewOperator returns an operator.
func NewOperator(line, column int, typ OperatorType) *Operator {
	return &Operator{syntax: at(line, column), Type: typ}
}

// FunctionValue is a function term such as "calc(100% - 80px)". Until
// refined it only holds the raw arguments.
type FunctionValue struct {
	syntax
	membership

	Name     string
	rawArgs  *RawSyntax
	args     *Group[Term]
	refiner  Refiner
	refined  bool
	refining bool
}

// NewFunctionValue returns an unrefined function term.
func NewFunctionValue(line, column int, name string, rawArgs *RawSyntax, r Refiner) *FunctionValue {
	f := &FunctionValue{syntax: at(line, column), Name: name, rawArgs: rawArgs, refiner: r}
	f.args = NewSeparatedGroup[Term](f, isSeparatingOperator)
	return f
}

// NewFunctionValueOf returns a refined function term with the given arguments.
func NewFunctionValueOf(name string, args ...Term) *FunctionValue {
	f := NewFunctionValue(0, 0, name, nil, nil)
	for _, t := range args {
		f.args.Append(t)
	}
	f.refined = true
	return f
}

// RawArgs returns the raw arguments, or nil.
func (f *FunctionValue) RawArgs() *RawSyntax { return f.rawArgs }

// Args returns the arguments. The group is empty until refined.
func (f *FunctionValue) Args() *Group[Term] { return f.args }

// IsPrefixed returns true if the function name has a vendor prefix.
func (f *FunctionValue) IsPrefixed() bool {
	p, _ := SplitPrefix(f.Name)
	return p != ""
}

// IsRefined returns true if the arguments have been parsed.
func (f *FunctionValue) IsRefined() bool { return f.refined }

// Refine parses the raw arguments. It does nothing if the function is
// already refined.
func (f *FunctionValue) Refine() error {
	if f.refined || f.refining {
		return nil
	}
	if f.refiner == nil {
		return ErrNoRefiner
	}
	f.refining = true
	defer func() { f.refining = false }()
	if err := f.refiner.RefineFunction(f); err != nil {
		return err
	}
	f.refined = true
	return nil
}

// CopyTerm returns a detached deep copy of t without position.
func CopyTerm(t Term) Term {
	switch t := t.(type) {
	case *KeywordValue:
		return &KeywordValue{Keyword: t.Keyword}
	case *NumericalValue:
		return &NumericalValue{Number: t.Number, Unit: t.Unit}
	case *StringValue:
		return &StringValue{Content: t.Content, Quote: t.Quote}
	case *HexColorValue:
		return &HexColorValue{Color: t.Color}
	case *URLValue:
		return &URLValue{URL: t.URL, Quote: t.Quote}
	case *Operator:
		return &Operator{Type: t.Type}
	case *FunctionValue:
		var raw *RawSyntax
		if t.rawArgs != nil {
			r := *t.rawArgs
			raw = &r
		}
		c := NewFunctionValue(0, 0, t.Name, raw, t.refiner)
		for a := range t.args.All() {
			c.args.Append(CopyTerm(a))
		}
		c.refined = t.refined
		return c
	}
	return nil
}
