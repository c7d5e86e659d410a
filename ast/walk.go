package ast

// Walk traverses the tree rooted at n in document order, calling fn for each
// node before its children. Only content that has been refined is visited.
// Walking stops at the first error returned by fn.
func Walk(n Node, fn func(Node) error) error {
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}

	switch n := n.(type) {
	case *Stylesheet:
		return walkGroup(n.statements, fn)
	case *Rule:
		if err := walkGroup(n.selectors, fn); err != nil {
			return err
		}
		return walkGroup(n.declarations, fn)
	case *AtRule:
		if !n.refined {
			return nil
		}
		if err := walkGroup(n.statements, fn); err != nil {
			return err
		}
		return walkGroup(n.declarations, fn)
	case *Selector:
		return walkGroup(n.parts, fn)
	case *Declaration:
		if n.value != nil {
			return Walk(n.value, fn)
		}
	case *PropertyValue:
		return walkGroup(n.terms, fn)
	case *FunctionValue:
		return walkGroup(n.args, fn)
	}
	return nil
}

func walkGroup[T Member](g *Group[T], fn func(Node) error) error {
	for m := range g.All() {
		if err := Walk(m, fn); err != nil {
			return err
		}
	}
	return nil
}
