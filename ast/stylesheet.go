package ast

// Stylesheet is the root of the syntax tree.
type Stylesheet struct {
	syntax
	statements *Group[Statement]
	orphaned   []string
}

// NewStylesheet returns an empty stylesheet.
func NewStylesheet() *Stylesheet {
	s := &Stylesheet{syntax: at(1, 1)}
	s.statements = NewGroup[Statement](s)
	return s
}

// Statements returns the top-level rules and at-rules.
func (s *Stylesheet) Statements() *Group[Statement] { return s.statements }

// OrphanedComments returns comments found after the last statement.
func (s *Stylesheet) OrphanedComments() []string { return s.orphaned }

// AddOrphanedComments appends comments found after the last statement.
func (s *Stylesheet) AddOrphanedComments(c ...string) {
	s.orphaned = append(s.orphaned, c...)
}

// Statement is a rule or at-rule.
type Statement interface {
	Member
	statement()
}

func (_ *Rule) statement()   {}
func (_ *AtRule) statement() {}

// Rule is a set of selectors and a block of declarations.
type Rule struct {
	syntax
	membership
	selectors    *Group[*Selector]
	declarations *Group[*Declaration]
	orphaned     []string
}

// NewRule returns an empty rule.
func NewRule(line, column int) *Rule {
	r := &Rule{syntax: at(line, column)}
	r.selectors = NewGroup[*Selector](r)
	r.declarations = NewGroup[*Declaration](r)
	return r
}

// Selectors returns the selectors of the rule.
func (r *Rule) Selectors() *Group[*Selector] { return r.selectors }

// Declarations returns the declarations of the rule.
func (r *Rule) Declarations() *Group[*Declaration] { return r.declarations }

// OrphanedComments returns comments found after the last declaration.
func (r *Rule) OrphanedComments() []string { return r.orphaned }

// AddOrphanedComments appends comments found after the last declaration.
func (r *Rule) AddOrphanedComments(c ...string) {
	r.orphaned = append(r.orphaned, c...)
}

// Copy returns a detached deep copy of the rule.
func (r *Rule) Copy() *Rule {
	c := NewRule(0, 0)
	for s := range r.selectors.All() {
		c.selectors.Append(s.Copy())
	}
	for d := range r.declarations.All() {
		c.declarations.Append(d.Copy())
	}
	return c
}

// blockDeclarations lists at-rules whose blocks contain declarations rather
// than rules.
var blockDeclarations = map[string]bool{
	"font-face": true,
	"page":      true,
	"viewport":  true,
}

// AtRule represents "@name expression;" or "@name expression { block }".
// Until refined it holds the raw expression and block.
type AtRule struct {
	syntax
	membership

	name          string
	rawExpression *RawSyntax
	rawBlock      *RawSyntax
	expression    string
	hasBlock      bool
	statements    *Group[Statement]
	declarations  *Group[*Declaration]

	refiner  Refiner
	refined  bool
	refining bool
}

// NewAtRule returns an unrefined at-rule. Either raw fragment may be nil.
func NewAtRule(line, column int, name string, rawExpression, rawBlock *RawSyntax, r Refiner) *AtRule {
	a := &AtRule{
		syntax:        at(line, column),
		name:          name,
		rawExpression: rawExpression,
		rawBlock:      rawBlock,
		hasBlock:      rawBlock != nil,
		refiner:       r,
	}
	a.statements = NewGroup[Statement](a)
	a.declarations = NewGroup[*Declaration](a)
	return a
}

// NewAtRuleFrom returns a refined at-rule. A block is written when hasBlock
// is true.
func NewAtRuleFrom(name, expression string, hasBlock bool) *AtRule {
	a := NewAtRule(0, 0, name, nil, nil, nil)
	a.expression = expression
	a.hasBlock = hasBlock
	a.refined = true
	return a
}

// Name returns the at-rule name without the "@".
func (a *AtRule) Name() string { return a.name }

// SetName changes the at-rule name.
func (a *AtRule) SetName(name string) { a.name = name }

// UnprefixedName returns the name without a vendor prefix.
func (a *AtRule) UnprefixedName() string {
	_, n := SplitPrefix(a.name)
	return Lower(n)
}

// IsPrefixed returns true if the name has a vendor prefix.
func (a *AtRule) IsPrefixed() bool {
	p, _ := SplitPrefix(a.name)
	return p != ""
}

// IsKeyframes returns true for "@keyframes", prefixed or not.
func (a *AtRule) IsKeyframes() bool { return a.UnprefixedName() == "keyframes" }

// HasDeclarationBlock returns true if the block contains declarations.
func (a *AtRule) HasDeclarationBlock() bool { return blockDeclarations[a.UnprefixedName()] }

// RawExpression returns the raw expression, or nil.
func (a *AtRule) RawExpression() *RawSyntax { return a.rawExpression }

// RawBlock returns the raw block content, or nil.
func (a *AtRule) RawBlock() *RawSyntax { return a.rawBlock }

// Expression returns the refined expression.
func (a *AtRule) Expression() string { return a.expression }

// SetExpression changes the refined expression.
func (a *AtRule) SetExpression(e string) { a.expression = e }

// HasBlock returns true if the at-rule has a block.
func (a *AtRule) HasBlock() bool { return a.hasBlock }

// Statements returns the refined block statements.
func (a *AtRule) Statements() *Group[Statement] { return a.statements }

// Declarations returns the refined block declarations.
func (a *AtRule) Declarations() *Group[*Declaration] { return a.declarations }

// IsRefined returns true if the expression and block have been parsed.
func (a *AtRule) IsRefined() bool { return a.refined }

// Refine parses the raw expression and block. It does nothing if the
// at-rule is already refined.
func (a *AtRule) Refine() error {
	if a.refined || a.refining {
		return nil
	}
	if a.refiner == nil {
		return ErrNoRefiner
	}
	a.refining = true
	defer func() { a.refining = false }()
	if err := a.refiner.RefineAtRule(a); err != nil {
		return err
	}
	a.refined = true
	return nil
}

// Copy returns a detached deep copy of the at-rule.
func (a *AtRule) Copy() *AtRule {
	c := NewAtRule(0, 0, a.name, copyRaw(a.rawExpression), copyRaw(a.rawBlock), a.refiner)
	c.expression = a.expression
	c.hasBlock = a.hasBlock
	c.refined = a.refined
	for s := range a.statements.All() {
		switch s := s.(type) {
		case *Rule:
			c.statements.Append(s.Copy())
		case *AtRule:
			c.statements.Append(s.Copy())
		}
	}
	for d := range a.declarations.All() {
		c.declarations.Append(d.Copy())
	}
	return c
}

func copyRaw(r *RawSyntax) *RawSyntax {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
