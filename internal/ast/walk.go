package ast

// Walk calls visit on expr and every sub-expression, depth first. Where
// guards, quantifier bodies, match case bodies, and list elements are all
// visited. If visit returns false the children of the current node are
// skipped.
func Walk(expr Expression, visit func(Expression) bool) {
	if expr == nil || !visit(expr) {
		return
	}
	switch e := expr.(type) {
	case *Operation:
		for _, a := range e.Args {
			Walk(a, visit)
		}
	case *Quantifier:
		if e.Where != nil {
			Walk(e.Where, visit)
		}
		Walk(e.Body, visit)
	case *Conditional:
		Walk(e.Cond, visit)
		Walk(e.Then, visit)
		Walk(e.Else, visit)
	case *Let:
		Walk(e.Value, visit)
		Walk(e.Body, visit)
	case *Match:
		Walk(e.Scrutinee, visit)
		for _, c := range e.Cases {
			Walk(c.Body, visit)
		}
	case *List:
		for _, el := range e.Elements {
			Walk(el, visit)
		}
	}
}

// OperationNames returns every operation name referenced anywhere in expr,
// each name once, in first-occurrence order.
func OperationNames(expr Expression) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(expr, func(e Expression) bool {
		if op, ok := e.(*Operation); ok && !seen[op.Name] {
			seen[op.Name] = true
			names = append(names, op.Name)
		}
		return true
	})
	return names
}

// ReferencedNames returns every operation and object name referenced
// anywhere in expr, each name once, in first-occurrence order. A bare
// object reference counts because a structure's distinguished elements are
// nullary operations spelled without parentheses.
func ReferencedNames(expr Expression) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	Walk(expr, func(e Expression) bool {
		switch x := e.(type) {
		case *Operation:
			add(x.Name)
		case *Object:
			add(x.Name)
		}
		return true
	})
	return names
}
