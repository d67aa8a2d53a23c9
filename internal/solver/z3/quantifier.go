package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// translateQuantifier lowers a quantifier appearing inside an expression to
// a real Z3 quantifier. Bound variables are realized as fresh constants of
// their annotated sorts and then closed over, so negating the result means
// what the source means; in particular an existential body is never
// weakened to a claim about one arbitrary constant. A where guard wraps the
// body as guard ⇒ body for ∀ and guard ∧ body for ∃.
func (b *Backend) translateQuantifier(q *ast.Quantifier, env map[string]*term) (*term, error) {
	inner := copyEnv(env)
	bound := make([]*z3api.Expr, len(q.Vars))
	for i, v := range q.Vars {
		t := b.freshVar(v)
		inner[v.Name] = t
		bound[i] = t.expr
	}

	body, err := b.translate(q.Body, inner)
	if err != nil {
		return nil, err
	}
	if body.kind != kindBool {
		return nil, solver.Translationf("", "quantifier body must be a boolean proposition")
	}
	full := body.expr

	if q.Where != nil {
		guard, err := b.translate(q.Where, inner)
		if err != nil {
			return nil, err
		}
		if guard.kind != kindBool {
			return nil, solver.Translationf("", "where clause must be a boolean proposition")
		}
		if q.Kind == ast.Exists {
			full = b.ctx.MkAnd(guard.expr, full)
		} else {
			full = b.ctx.MkImplies(guard.expr, full)
		}
	}
	return boolTerm(b.ctx.MkQuantifierConst(q.Kind == ast.ForAll, 0, bound, full, nil).AsExpr()), nil
}

// goalConst is one quantified goal variable realized as a free constant,
// kept so a counterexample model can be read back through it.
type goalConst struct {
	name string
	expr *z3api.Expr
}

// translateGoal peels the goal's leading universal quantifiers into fresh
// free constants and translates the remainder. Refuting the negation over
// free constants refutes the universal closure, and an invalidating model
// assigns the constants directly, which is what a witness renders. A
// quantifier below the leading universals, existentials included, goes
// through translateQuantifier and stays a real quantifier.
//
// With skolemizeExists set every leading quantifier is peeled regardless of
// kind. That is only sound for positive-form satisfiability queries; it is
// what names the example values of a ValidWithWitness verdict.
func (b *Backend) translateGoal(e ast.Expression, skolemizeExists bool) (*term, []goalConst, error) {
	env := copyEnv(nil)
	var consts []goalConst
	type guardFrame struct {
		kind  ast.QuantKind
		guard *z3api.Expr
	}
	var guards []guardFrame

	for {
		q, ok := e.(*ast.Quantifier)
		if !ok || (q.Kind == ast.Exists && !skolemizeExists) {
			break
		}
		for _, v := range q.Vars {
			t := b.freshVar(v)
			env[v.Name] = t
			consts = append(consts, goalConst{name: v.Name, expr: t.expr})
		}
		if q.Where != nil {
			g, err := b.translate(q.Where, env)
			if err != nil {
				return nil, nil, err
			}
			if g.kind != kindBool {
				return nil, nil, solver.Translationf("", "where clause must be a boolean proposition")
			}
			guards = append(guards, guardFrame{kind: q.Kind, guard: g.expr})
		}
		e = q.Body
	}

	t, err := b.translate(e, env)
	if err != nil {
		return nil, nil, err
	}
	if t.kind != kindBool {
		return nil, nil, solver.Translationf("", "verification goal must be a boolean proposition")
	}
	full := t.expr
	for i := len(guards) - 1; i >= 0; i-- {
		if guards[i].kind == ast.Exists {
			full = b.ctx.MkAnd(guards[i].guard, full)
		} else {
			full = b.ctx.MkImplies(guards[i].guard, full)
		}
	}
	return boolTerm(full), consts, nil
}

// freshVar declares a fresh constant for one bound variable. Unannotated
// variables default to Int; unknown type names also map to Int with a
// recorded warning, since axiom authors routinely quantify over abstract
// carrier types.
func (b *Backend) freshVar(v ast.QuantifiedVar) *term {
	sort, kind, known := b.annotationSort(v.TypeAnnotation)
	if !known && v.TypeAnnotation != "" {
		b.warnf("unknown type annotation '%s' for variable '%s', using Int", v.TypeAnnotation, v.Name)
	}
	return &term{expr: b.freshConst(v.Name, sort), kind: kind}
}
