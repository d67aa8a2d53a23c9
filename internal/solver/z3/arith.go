package z3

import (
	"strconv"

	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/solver"
)

// Arithmetic translation tries native Int-Int first, then Real-Real, then
// Int→Real promotion for mixed operands, and finally the uninterpreted
// fallback. Complex operands divert to the component-wise encoding.
func (b *Backend) translateArith(name string, args []*term) (*term, error) {
	switch name {
	case "plus", "minus", "times", "divide", "mod":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "%s requires 2 arguments", name)
		}
		return b.arithBinary(name, args[0], args[1])
	case "power":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "power requires 2 arguments")
		}
		return b.translatePower(args[0], args[1])
	case "negate":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "negate requires 1 argument")
		}
		return b.translateNegate(args[0])
	case "sqrt":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "sqrt requires 1 argument")
		}
		// No native sqrt in the linear arithmetic theories; axioms about
		// sqrt still apply through the uninterpreted symbol.
		return b.applyUninterpreted("sqrt", args)
	case "abs":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "abs requires 1 argument")
		}
		return b.translateAbs(args[0])
	default:
		return b.applyUninterpreted(name, args)
	}
}

func (b *Backend) arithBinary(name string, lhs, rhs *term) (*term, error) {
	if lhs.kind == kindComplex || rhs.kind == kindComplex {
		return b.complexBinary(name, lhs, rhs)
	}

	if lhs.kind == kindInt && rhs.kind == kindInt {
		t := intTerm(b.intArith(name, lhs.expr, rhs.expr))
		if lhs.realTwin != nil && rhs.realTwin != nil && name != "mod" {
			t.realTwin = b.realArith(name, lhs.realTwin, rhs.realTwin)
		}
		return t, nil
	}
	if lhs.kind == kindReal && rhs.kind == kindReal {
		if name == "mod" {
			return nil, solver.Translationf(name, "mod requires integer operands")
		}
		return realTerm(b.realArith(name, lhs.expr, rhs.expr)), nil
	}
	// Mixed Int/Real: promote the Int side through its literal twin.
	if lhs.numeric() && rhs.numeric() && name != "mod" {
		lr, lok := lhs.asReal()
		rr, rok := rhs.asReal()
		if lok && rok {
			return realTerm(b.realArith(name, lr, rr)), nil
		}
	}
	return b.applyUninterpreted(name, []*term{lhs, rhs})
}

func (b *Backend) intArith(name string, lhs, rhs *z3api.Expr) *z3api.Expr {
	switch name {
	case "plus":
		return b.ctx.MkAdd(lhs, rhs)
	case "minus":
		return b.ctx.MkSub(lhs, rhs)
	case "times":
		return b.ctx.MkMul(lhs, rhs)
	case "divide":
		return b.ctx.MkDiv(lhs, rhs)
	default: // mod
		return b.ctx.MkMod(lhs, rhs)
	}
}

func (b *Backend) realArith(name string, lhs, rhs *z3api.Expr) *z3api.Expr {
	switch name {
	case "plus":
		return b.ctx.MkAdd(lhs, rhs)
	case "minus":
		return b.ctx.MkSub(lhs, rhs)
	case "times":
		return b.ctx.MkMul(lhs, rhs)
	default: // divide
		return b.ctx.MkDiv(lhs, rhs)
	}
}

// translatePower unrolls a non-negative Int literal exponent into repeated
// multiplication. Symbolic or Real exponents fall back to the uninterpreted
// symbol, matching the declared capability.
func (b *Backend) translatePower(base, exp *term) (*term, error) {
	if base.kind == kindInt && exp.kind == kindInt && exp.realTwin != nil {
		if n, err := strconv.Atoi(literalText(exp.expr)); err == nil && n >= 0 && n <= 64 {
			result := b.ctx.MkNumeral("1", b.intSort)
			for i := 0; i < n; i++ {
				result = b.ctx.MkMul(result, base.expr)
			}
			t := intTerm(result)
			if base.realTwin != nil {
				twin := b.ctx.MkNumeral("1", b.realSort)
				for i := 0; i < n; i++ {
					twin = b.ctx.MkMul(twin, base.realTwin)
				}
				t.realTwin = twin
			}
			return t, nil
		}
	}
	return b.applyUninterpreted("power", []*term{base, exp})
}

// literalText renders a numeral expression back to its digit string.
func literalText(e *z3api.Expr) string {
	return e.String()
}

func (b *Backend) translateNegate(arg *term) (*term, error) {
	switch arg.kind {
	case kindInt:
		t := intTerm(b.ctx.MkSub(b.ctx.MkNumeral("0", b.intSort), arg.expr))
		if arg.realTwin != nil {
			t.realTwin = b.ctx.MkSub(b.ctx.MkNumeral("0", b.realSort), arg.realTwin)
		}
		return t, nil
	case kindReal:
		return realTerm(b.ctx.MkSub(b.ctx.MkNumeral("0", b.realSort), arg.expr)), nil
	case kindComplex:
		return b.complexNegate(arg)
	default:
		return b.applyUninterpreted("negate", []*term{arg})
	}
}

// abs expands to ite(x ≥ 0, x, -x) over either numeric sort.
func (b *Backend) translateAbs(arg *term) (*term, error) {
	if !arg.numeric() {
		return b.applyUninterpreted("abs", []*term{arg})
	}
	zero := b.ctx.MkNumeral("0", b.intSort)
	if arg.kind == kindReal {
		zero = b.ctx.MkNumeral("0", b.realSort)
	}
	cond := b.ctx.MkGe(arg.expr, zero)
	neg, err := b.translateNegate(arg)
	if err != nil {
		return nil, err
	}
	return b.mkIte(cond, &term{expr: arg.expr, kind: arg.kind}, neg)
}
