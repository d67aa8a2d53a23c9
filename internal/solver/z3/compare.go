package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/solver"
)

func (b *Backend) translateCompare(name string, args []*term) (*term, error) {
	if len(args) != 2 {
		return nil, solver.Translationf(name, "%s requires 2 arguments", name)
	}
	lhs, rhs := args[0], args[1]
	switch name {
	case "equals":
		return b.translateEquals(lhs, rhs)
	case "not_equals":
		eq, err := b.translateEquals(lhs, rhs)
		if err != nil {
			return nil, err
		}
		return boolTerm(b.ctx.MkNot(eq.expr)), nil
	default:
		return b.translateOrdering(name, lhs, rhs)
	}
}

// translateEquals is polymorphic: same-sort operands compare directly,
// Int/Real mixes promote through the literal twin, complex terms compare
// component-wise, and anything else compares raw provided the sorts agree.
func (b *Backend) translateEquals(lhs, rhs *term) (*term, error) {
	if lhs.kind == kindComplex || rhs.kind == kindComplex {
		return b.complexEquals(lhs, rhs)
	}
	if lhs.kind == rhs.kind {
		return boolTerm(b.ctx.MkEq(lhs.expr, rhs.expr)), nil
	}
	if lhs.numeric() && rhs.numeric() {
		lr, lok := lhs.asReal()
		rr, rok := rhs.asReal()
		if lok && rok {
			return boolTerm(b.ctx.MkEq(lr, rr)), nil
		}
	}
	if lhs.expr.GetSort().Equal(rhs.expr.GetSort()) {
		return boolTerm(b.ctx.MkEq(lhs.expr, rhs.expr)), nil
	}
	return nil, solver.Translationf("equals",
		"cannot compare values of sorts %s and %s", lhs.expr.GetSort(), rhs.expr.GetSort())
}

// Ordering comparisons require Int or Real operands, after promotion.
func (b *Backend) translateOrdering(name string, lhs, rhs *term) (*term, error) {
	var le, re *z3api.Expr
	switch {
	case lhs.kind == kindInt && rhs.kind == kindInt:
		le, re = lhs.expr, rhs.expr
	case lhs.kind == kindReal && rhs.kind == kindReal:
		le, re = lhs.expr, rhs.expr
	case lhs.numeric() && rhs.numeric():
		lr, lok := lhs.asReal()
		rr, rok := rhs.asReal()
		if !lok || !rok {
			return nil, solver.Translationf(name, "Ordering comparison requires numeric operands")
		}
		le, re = lr, rr
	default:
		return nil, solver.Translationf(name, "Ordering comparison requires numeric operands")
	}
	switch name {
	case "less_than":
		return boolTerm(b.ctx.MkLt(le, re)), nil
	case "greater_than":
		return boolTerm(b.ctx.MkGt(le, re)), nil
	case "leq":
		return boolTerm(b.ctx.MkLe(le, re)), nil
	case "geq":
		return boolTerm(b.ctx.MkGe(le, re)), nil
	default:
		return nil, solver.Translationf(name, "unknown comparison %s", name)
	}
}
