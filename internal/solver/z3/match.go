package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// translateMatch compiles a match to an ite chain, folding cases right to
// left. The last case seeds the chain, so an unmatched scrutinee behaves as
// if the final case had matched.
func (b *Backend) translateMatch(m *ast.Match, env map[string]*term) (*term, error) {
	if len(m.Cases) == 0 {
		return nil, solver.Translationf("", "match expression has no cases")
	}
	scrutinee, err := b.translate(m.Scrutinee, env)
	if err != nil {
		return nil, err
	}

	result, err := b.translateCase(&m.Cases[len(m.Cases)-1], scrutinee, env)
	if err != nil {
		return nil, err
	}
	for i := len(m.Cases) - 2; i >= 0; i-- {
		c := &m.Cases[i]
		body, err := b.translateCase(c, scrutinee, env)
		if err != nil {
			return nil, err
		}
		cond, err := b.patternCondition(c.Pattern, scrutinee, env)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			// An always-matching case shadows everything after it.
			result = body
			continue
		}
		result, err = b.mkIte(cond, body, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (b *Backend) translateCase(c *ast.MatchCase, scrutinee *term, env map[string]*term) (*term, error) {
	inner := copyEnv(env)
	if err := b.bindPattern(c.Pattern, scrutinee, inner); err != nil {
		return nil, err
	}
	return b.translate(c.Body, inner)
}

// patternCondition builds the Bool term under which the pattern matches.
// nil means the pattern always matches.
func (b *Backend) patternCondition(p ast.Pattern, scrutinee *term, env map[string]*term) (*z3api.Expr, error) {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.VariablePattern:
		return nil, nil

	case *ast.ConstantPattern:
		lit, err := b.translateLiteral(pat.Value)
		if err != nil {
			return nil, err
		}
		eq, err := b.translateEquals(scrutinee, lit)
		if err != nil {
			return nil, err
		}
		return eq.expr, nil

	case *ast.ConstructorPattern:
		if ref, ok := b.ctors[pat.Name]; ok {
			return b.constructorCondition(pat, ref, scrutinee)
		}
		if len(pat.Args) == 0 {
			// A bare constructor name outside any declared data type is a
			// distinguished element: match by equality with its constant.
			obj, err := b.translateObject(pat.Name, env)
			if err != nil {
				return nil, err
			}
			eq, err := b.translateEquals(scrutinee, obj)
			if err != nil {
				return nil, err
			}
			return eq.expr, nil
		}
		return nil, solver.Translationf("",
			"pattern constructor '%s' references an undeclared data type", pat.Name)

	default:
		return nil, solver.Translationf("", "unsupported pattern %T", p)
	}
}

func (b *Backend) constructorCondition(pat *ast.ConstructorPattern, ref ctorRef, scrutinee *term) (*z3api.Expr, error) {
	variant := ref.dt.variants[ref.idx]
	if !scrutinee.expr.GetSort().Equal(ref.dt.sort) {
		return nil, solver.Translationf("",
			"pattern constructor '%s' does not apply to scrutinee of sort %s",
			pat.Name, scrutinee.expr.GetSort())
	}
	if len(pat.Args) != len(variant.accessors) {
		return nil, solver.Translationf("",
			"constructor '%s' has %d fields, pattern names %d",
			pat.Name, len(variant.accessors), len(pat.Args))
	}
	cond := b.ctx.MkApp(variant.recognizer, scrutinee.expr)
	for i, sub := range pat.Args {
		field := b.termOfSort(b.ctx.MkApp(variant.accessors[i], scrutinee.expr))
		subCond, err := b.patternCondition(sub, field, nil)
		if err != nil {
			return nil, err
		}
		if subCond != nil {
			cond = b.ctx.MkAnd(cond, subCond)
		}
	}
	return cond, nil
}

// bindPattern extends env with the variables the pattern introduces, bound
// to the scrutinee or its projections.
func (b *Backend) bindPattern(p ast.Pattern, scrutinee *term, env map[string]*term) error {
	switch pat := p.(type) {
	case *ast.VariablePattern:
		env[pat.Name] = scrutinee
	case *ast.ConstructorPattern:
		ref, ok := b.ctors[pat.Name]
		if !ok {
			return nil
		}
		variant := ref.dt.variants[ref.idx]
		if len(pat.Args) != len(variant.accessors) {
			return solver.Translationf("",
				"constructor '%s' has %d fields, pattern names %d",
				pat.Name, len(variant.accessors), len(pat.Args))
		}
		for i, sub := range pat.Args {
			field := b.termOfSort(b.ctx.MkApp(variant.accessors[i], scrutinee.expr))
			if err := b.bindPattern(sub, field, env); err != nil {
				return err
			}
		}
	}
	return nil
}
