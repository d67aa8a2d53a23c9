package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// Lists are encoded over uninterpreted symbols: nil is an Int constant and
// cons, head, tail are uninterpreted Int functions. That is enough for
// axioms to reason about lists structurally without a full sequence theory.

func (b *Backend) listNil() *term {
	if t, ok := b.objects["nil"]; ok {
		return t
	}
	t := intTerm(b.ctx.MkConst(b.ctx.MkStringSymbol("nil"), b.intSort))
	b.objects["nil"] = t
	return t
}

func (b *Backend) listFunc(name string, arity int) *z3api.FuncDecl {
	if decl, ok := b.funcs[name]; ok {
		return decl
	}
	domains := make([]*z3api.Sort, arity)
	for i := range domains {
		domains[i] = b.intSort
	}
	decl := b.ctx.MkFuncDecl(b.ctx.MkStringSymbol(name), domains, b.intSort)
	b.funcs[name] = decl
	return decl
}

// translateList lowers a list literal to a right-folded cons chain.
// Only Int elements have a representation under this encoding.
func (b *Backend) translateList(elements []ast.Expression, env map[string]*term) (*term, error) {
	acc := b.listNil()
	cons := b.listFunc("cons", 2)
	for i := len(elements) - 1; i >= 0; i-- {
		el, err := b.translate(elements[i], env)
		if err != nil {
			return nil, err
		}
		if el.kind != kindInt {
			return nil, solver.Translationf("list",
				"list elements must be integers, got %s", el.kind)
		}
		acc = intTerm(b.ctx.MkApp(cons, el.expr, acc.expr))
	}
	return acc, nil
}

func (b *Backend) translateListOp(name string, args []*term) (*term, error) {
	switch name {
	case "nil":
		if len(args) != 0 {
			return nil, solver.Translationf(name, "nil takes no arguments")
		}
		return b.listNil(), nil
	case "cons":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "cons expects 2 arguments, got %d", len(args))
		}
	case "head", "tail":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "%s expects 1 argument, got %d", name, len(args))
		}
	default:
		return nil, solver.Translationf(name, "unknown list operation '%s'", name)
	}
	for _, a := range args {
		if a.kind != kindInt {
			return nil, solver.Translationf(name,
				"list operation '%s' requires integer operands, got %s", name, a.kind)
		}
	}
	decl := b.listFunc(name, len(args))
	return intTerm(b.ctx.MkApp(decl, rawExprs(args)...)), nil
}
