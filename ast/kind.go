package ast

// Kind identifies the variant of a node.
type Kind uint8

const (
	KindStylesheet Kind = iota
	KindRule
	KindAtRule
	KindSelector
	KindDeclaration

	KindClassSelector
	KindIDSelector
	KindTypeSelector
	KindUniversalSelector
	KindPseudoClassSelector
	KindPseudoElementSelector
	KindAttributeSelector
	KindCombinator
	KindKeyframeSelector

	KindPropertyValue
	KindKeywordValue
	KindNumericalValue
	KindStringValue
	KindHexColorValue
	KindFunctionValue
	KindURLValue
	KindOperator

	numKinds
)

var kindNames = [...]string{
	KindStylesheet:            "Stylesheet",
	KindRule:                  "Rule",
	KindAtRule:                "AtRule",
	KindSelector:              "Selector",
	KindDeclaration:           "Declaration",
	KindClassSelector:         "ClassSelector",
	KindIDSelector:            "IDSelector",
	KindTypeSelector:          "TypeSelector",
	KindUniversalSelector:     "UniversalSelector",
	KindPseudoClassSelector:   "PseudoClassSelector",
	KindPseudoElementSelector: "PseudoElementSelector",
	KindAttributeSelector:     "AttributeSelector",
	KindCombinator:            "Combinator",
	KindKeyframeSelector:      "KeyframeSelector",
	KindPropertyValue:         "PropertyValue",
	KindKeywordValue:          "KeywordValue",
	KindNumericalValue:        "NumericalValue",
	KindStringValue:           "StringValue",
	KindHexColorValue:         "HexColorValue",
	KindFunctionValue:         "FunctionValue",
	KindURLValue:              "URLValue",
	KindOperator:              "Operator",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Kinds returns every node kind.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Exemplar returns a zero value of the node variant identified by k. It is
// used to resolve which variants satisfy a type or capability ahead of time.
func Exemplar(k Kind) Node {
	switch k {
	case KindStylesheet:
		return &Stylesheet{}
	case KindRule:
		return &Rule{}
	case KindAtRule:
		return &AtRule{}
	case KindSelector:
		return &Selector{}
	case KindDeclaration:
		return &Declaration{}
	case KindClassSelector:
		return &ClassSelector{}
	case KindIDSelector:
		return &IDSelector{}
	case KindTypeSelector:
		return &TypeSelector{}
	case KindUniversalSelector:
		return &UniversalSelector{}
	case KindPseudoClassSelector:
		return &PseudoClassSelector{}
	case KindPseudoElementSelector:
		return &PseudoElementSelector{}
	case KindAttributeSelector:
		return &AttributeSelector{}
	case KindCombinator:
		return &Combinator{}
	case KindKeyframeSelector:
		return &KeyframeSelector{}
	case KindPropertyValue:
		return &PropertyValue{}
	case KindKeywordValue:
		return &KeywordValue{}
	case KindNumericalValue:
		return &NumericalValue{}
	case KindStringValue:
		return &StringValue{}
	case KindHexColorValue:
		return &HexColorValue{}
	case KindFunctionValue:
		return &FunctionValue{}
	case KindURLValue:
		return &URLValue{}
	case KindOperator:
		return &Operator{}
	}
	return nil
}

func (_ *Stylesheet) Kind() Kind            { return KindStylesheet }
func (_ *Rule) Kind() Kind                  { return KindRule }
func (_ *AtRule) Kind() Kind                { return KindAtRule }
func (_ *Selector) Kind() Kind              { return KindSelector }
func (_ *Declaration) Kind() Kind           { return KindDeclaration }
func (_ *ClassSelector) Kind() Kind         { return KindClassSelector }
func (_ *IDSelector) Kind() Kind            { return KindIDSelector }
func (_ *TypeSelector) Kind() Kind          { return KindTypeSelector }
func (_ *UniversalSelector) Kind() Kind     { return KindUniversalSelector }
func (_ *PseudoClassSelector) Kind() Kind   { return KindPseudoClassSelector }
func (_ *PseudoElementSelector) Kind() Kind { return KindPseudoElementSelector }
func (_ *AttributeSelector) Kind() Kind     { return KindAttributeSelector }
func (_ *Combinator) Kind() Kind            { return KindCombinator }
func (_ *KeyframeSelector) Kind() Kind      { return KindKeyframeSelector }
func (_ *PropertyValue) Kind() Kind         { return KindPropertyValue }
func (_ *KeywordValue) Kind() Kind          { return KindKeywordValue }
func (_ *NumericalValue) Kind() Kind        { return KindNumericalValue }
func (_ *StringValue) Kind() Kind           { return KindStringValue }
func (_ *HexColorValue) Kind() Kind         { return KindHexColorValue }
func (_ *FunctionValue) Kind() Kind         { return KindFunctionValue }
func (_ *URLValue) Kind() Kind              { return KindURLValue }
func (_ *Operator) Kind() Kind              { return KindOperator }
