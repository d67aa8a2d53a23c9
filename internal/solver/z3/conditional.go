package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/solver"
)

// mkIte builds if-then-else. The binding exposes no native ite, so Bool
// branches use the exact (c ∧ t) ∨ (¬c ∧ f) form, and every other sort goes
// through a per-sort helper function pinned by two universal axioms:
//
//	∀ a b . kleis.ite.S(true, a, b) = a
//	∀ a b . kleis.ite.S(false, a, b) = b
//
// Bool being two-valued makes the encoding exact. The axioms are asserted
// into the current solver scope on every use so they are never lost to a
// Pop while the cached declaration survives.
func (b *Backend) mkIte(cond *z3api.Expr, thn, els *term) (*term, error) {
	if thn.kind == kindBool && els.kind == kindBool {
		return boolTerm(b.ctx.MkOr(
			b.ctx.MkAnd(cond, thn.expr),
			b.ctx.MkAnd(b.ctx.MkNot(cond), els.expr),
		)), nil
	}

	te, ee := thn.expr, els.expr
	kind := thn.kind
	if thn.kind != els.kind {
		// Int/Real branch mixes promote to Real through literal twins.
		tr, tok := thn.asReal()
		er, eok := els.asReal()
		if !tok || !eok {
			return nil, solver.Translationf("",
				"conditional branches must agree in sort, got %s and %s", thn.kind, els.kind)
		}
		te, ee, kind = tr, er, kindReal
	}
	if !te.GetSort().Equal(ee.GetSort()) {
		return nil, solver.Translationf("",
			"conditional branches must agree in sort, got %s and %s",
			te.GetSort(), ee.GetSort())
	}

	decl := b.iteDecl(te.GetSort())
	b.assertIteAxioms(decl, te.GetSort())
	return &term{expr: b.ctx.MkApp(decl, cond, te, ee), kind: kind}, nil
}

func (b *Backend) iteDecl(sort *z3api.Sort) *z3api.FuncDecl {
	key := sort.String()
	if decl, ok := b.iteFuncs[key]; ok {
		return decl
	}
	decl := b.ctx.MkFuncDecl(
		b.ctx.MkStringSymbol("kleis.ite."+key),
		[]*z3api.Sort{b.boolSort, sort, sort},
		sort,
	)
	b.iteFuncs[key] = decl
	return decl
}

func (b *Backend) assertIteAxioms(decl *z3api.FuncDecl, sort *z3api.Sort) {
	a := b.freshConst("kleis.ite.a", sort)
	c := b.freshConst("kleis.ite.b", sort)
	onTrue := b.ctx.MkEq(b.ctx.MkApp(decl, b.ctx.MkTrue(), a, c), a)
	onFalse := b.ctx.MkEq(b.ctx.MkApp(decl, b.ctx.MkFalse(), a, c), c)
	b.slv.Assert(b.ctx.MkQuantifierConst(true, 0, []*z3api.Expr{a, c}, onTrue, nil).AsExpr())
	b.slv.Assert(b.ctx.MkQuantifierConst(true, 0, []*z3api.Expr{a, c}, onFalse, nil).AsExpr())
}
