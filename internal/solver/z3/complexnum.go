package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/solver"
)

// Complex values live in the Complex datatype, a pair of Reals. Arithmetic
// is expanded component-wise; equality is the conjunction of component
// equalities.

func (b *Backend) mkComplex(re, im *z3api.Expr) *term {
	return complexTerm(b.ctx.MkApp(b.complex.mk, re, im))
}

func (b *Backend) reOf(t *term) *z3api.Expr {
	return b.ctx.MkApp(b.complex.re, t.expr)
}

func (b *Backend) imOf(t *term) *z3api.Expr {
	return b.ctx.MkApp(b.complex.im, t.expr)
}

// imaginaryUnit is i = (0, 1).
func (b *Backend) imaginaryUnit() *term {
	return b.mkComplex(
		b.ctx.MkNumeral("0", b.realSort),
		b.ctx.MkNumeral("1", b.realSort),
	)
}

// liftToComplex embeds a numeric term as (x, 0). Complex terms pass
// through.
func (b *Backend) liftToComplex(t *term) (*term, error) {
	if t.kind == kindComplex {
		return t, nil
	}
	re, ok := t.asReal()
	if !ok {
		return nil, solver.Translationf("", "cannot embed %s value into Complex", t.kind)
	}
	return b.mkComplex(re, b.ctx.MkNumeral("0", b.realSort)), nil
}

// complexBinary handles plus/minus/times/divide when either operand is
// complex; the other side is embedded first.
func (b *Backend) complexBinary(name string, lhs, rhs *term) (*term, error) {
	x, err := b.liftToComplex(lhs)
	if err != nil {
		return nil, err
	}
	y, err := b.liftToComplex(rhs)
	if err != nil {
		return nil, err
	}
	a, bb := b.reOf(x), b.imOf(x)
	c, d := b.reOf(y), b.imOf(y)

	switch name {
	case "plus", "complex_add":
		return b.mkComplex(b.ctx.MkAdd(a, c), b.ctx.MkAdd(bb, d)), nil
	case "minus", "complex_sub":
		return b.mkComplex(b.ctx.MkSub(a, c), b.ctx.MkSub(bb, d)), nil
	case "times", "complex_mul":
		// (a+bi)(c+di) = (ac − bd) + (ad + bc)i
		re := b.ctx.MkSub(b.ctx.MkMul(a, c), b.ctx.MkMul(bb, d))
		im := b.ctx.MkAdd(b.ctx.MkMul(a, d), b.ctx.MkMul(bb, c))
		return b.mkComplex(re, im), nil
	case "divide", "complex_div":
		// z₁/z₂ = z₁·conj(z₂) / |z₂|²
		norm := b.ctx.MkAdd(b.ctx.MkMul(c, c), b.ctx.MkMul(d, d))
		re := b.ctx.MkDiv(b.ctx.MkAdd(b.ctx.MkMul(a, c), b.ctx.MkMul(bb, d)), norm)
		im := b.ctx.MkDiv(b.ctx.MkSub(b.ctx.MkMul(bb, c), b.ctx.MkMul(a, d)), norm)
		return b.mkComplex(re, im), nil
	default:
		return nil, solver.Translationf(name, "operation %s not defined on Complex", name)
	}
}

func (b *Backend) complexNegate(t *term) (*term, error) {
	zero := b.ctx.MkNumeral("0", b.realSort)
	return b.mkComplex(
		b.ctx.MkSub(zero, b.reOf(t)),
		b.ctx.MkSub(zero, b.imOf(t)),
	), nil
}

// complexEquals is the conjunction of component equalities; a numeric
// operand is embedded first.
func (b *Backend) complexEquals(lhs, rhs *term) (*term, error) {
	x, err := b.liftToComplex(lhs)
	if err != nil {
		return nil, err
	}
	y, err := b.liftToComplex(rhs)
	if err != nil {
		return nil, err
	}
	return boolTerm(b.ctx.MkAnd(
		b.ctx.MkEq(b.reOf(x), b.reOf(y)),
		b.ctx.MkEq(b.imOf(x), b.imOf(y)),
	)), nil
}

func (b *Backend) translateComplexOp(name string, args []*term) (*term, error) {
	switch name {
	case "i":
		if len(args) != 0 {
			return nil, solver.Translationf(name, "i takes no arguments")
		}
		return b.imaginaryUnit(), nil

	case "complex":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "complex requires 2 arguments (re, im)")
		}
		re, ok := args[0].asReal()
		if !ok {
			return nil, solver.Translationf(name, "complex re argument must be numeric")
		}
		im, ok := args[1].asReal()
		if !ok {
			return nil, solver.Translationf(name, "complex im argument must be numeric")
		}
		return b.mkComplex(re, im), nil

	case "re", "real_part":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "re requires 1 argument")
		}
		if args[0].kind != kindComplex {
			return b.applyUninterpreted("re", args)
		}
		return realTerm(b.reOf(args[0])), nil

	case "im", "imag_part":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "im requires 1 argument")
		}
		if args[0].kind != kindComplex {
			return b.applyUninterpreted("im", args)
		}
		return realTerm(b.imOf(args[0])), nil

	case "conj", "conjugate":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "conj requires 1 argument")
		}
		if args[0].kind != kindComplex {
			return b.applyUninterpreted("conj", args)
		}
		zero := b.ctx.MkNumeral("0", b.realSort)
		return b.mkComplex(b.reOf(args[0]), b.ctx.MkSub(zero, b.imOf(args[0]))), nil

	case "abs_squared":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "abs_squared requires 1 argument")
		}
		if args[0].kind != kindComplex {
			return b.applyUninterpreted("abs_squared", args)
		}
		re, im := b.reOf(args[0]), b.imOf(args[0])
		return realTerm(b.ctx.MkAdd(b.ctx.MkMul(re, re), b.ctx.MkMul(im, im))), nil

	case "complex_add", "complex_sub", "complex_mul", "complex_div":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "%s requires 2 arguments", name)
		}
		return b.complexBinary(name, args[0], args[1])

	case "complex_inverse":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "complex_inverse requires 1 argument")
		}
		one, err := b.translateLiteral("1")
		if err != nil {
			return nil, err
		}
		return b.complexBinary("divide", one, args[0])

	default:
		return b.applyUninterpreted(name, args)
	}
}
