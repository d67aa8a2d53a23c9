package z3

import (
	"strings"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// opClass partitions the built-in operation vocabulary. Anything outside the
// table is an uninterpreted function, the universal escape hatch that lets
// user-defined operators participate in proofs via their axioms.
type opClass int

const (
	opArith opClass = iota
	opBool
	opCompare
	opComplex
	opList
)

var operatorTable = map[string]opClass{
	"plus": opArith, "minus": opArith, "times": opArith, "divide": opArith,
	"mod": opArith, "power": opArith, "negate": opArith, "sqrt": opArith,
	"abs": opArith,

	"and": opBool, "or": opBool, "not": opBool, "implies": opBool,
	"iff": opBool, "xor": opBool,

	"equals": opCompare, "not_equals": opCompare,
	"less_than": opCompare, "greater_than": opCompare,
	"leq": opCompare, "geq": opCompare,

	"i": opComplex, "complex": opComplex,
	"re": opComplex, "real_part": opComplex,
	"im": opComplex, "imag_part": opComplex,
	"conj": opComplex, "conjugate": opComplex,
	"complex_add": opComplex, "complex_sub": opComplex,
	"complex_mul": opComplex, "complex_div": opComplex,
	"complex_inverse": opComplex, "abs_squared": opComplex,

	"cons": opList, "nil": opList, "head": opList, "tail": opList,
}

// translate lowers one expression to a solver term under the variable
// environment. env may be nil at the top of a call.
func (b *Backend) translate(e ast.Expression, env map[string]*term) (*term, error) {
	switch x := e.(type) {
	case *ast.Const:
		return b.translateLiteral(x.Value)

	case *ast.Object:
		return b.translateObject(x.Name, env)

	case *ast.Operation:
		return b.translateOperationExpr(x, env)

	case *ast.Quantifier:
		return b.translateQuantifier(x, env)

	case *ast.Conditional:
		cond, err := b.translate(x.Cond, env)
		if err != nil {
			return nil, err
		}
		if cond.kind != kindBool {
			return nil, solver.Translationf("", "Conditional condition must be a boolean expression")
		}
		thn, err := b.translate(x.Then, env)
		if err != nil {
			return nil, err
		}
		els, err := b.translate(x.Else, env)
		if err != nil {
			return nil, err
		}
		return b.mkIte(cond.expr, thn, els)

	case *ast.Let:
		value, err := b.translate(x.Value, env)
		if err != nil {
			return nil, err
		}
		inner := copyEnv(env)
		inner[x.Name] = value
		return b.translate(x.Body, inner)

	case *ast.Match:
		return b.translateMatch(x, env)

	case *ast.List:
		return b.translateList(x.Elements, env)

	default:
		return nil, solver.Translationf("", "unsupported expression %T", e)
	}
}

// translateLiteral builds a numeral. A '.' or '/' in the spelling selects
// Real; plain (optionally negative) digit runs select Int and carry a Real
// twin for later promotion.
func (b *Backend) translateLiteral(value string) (*term, error) {
	if value == "" {
		return nil, solver.Translationf("", "empty literal")
	}
	if strings.ContainsAny(value, "./") {
		if !validRealLiteral(value) {
			return nil, solver.Translationf("", "Unsupported literal '%s'", value)
		}
		return realTerm(b.ctx.MkNumeral(value, b.realSort)), nil
	}
	if !validIntLiteral(value) {
		return nil, solver.Translationf("", "Unsupported literal '%s'", value)
	}
	t := intTerm(b.ctx.MkNumeral(value, b.intSort))
	t.realTwin = b.ctx.MkNumeral(value, b.realSort)
	return t, nil
}

func validIntLiteral(s string) bool {
	body := strings.TrimPrefix(s, "-")
	if body == "" {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validRealLiteral(s string) bool {
	body := strings.TrimPrefix(s, "-")
	dots, slashes := 0, 0
	digits := false
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '.':
			dots++
		case r == '/':
			slashes++
		default:
			return false
		}
	}
	return digits && dots+slashes == 1
}

// translateObject resolves a name: bound variable first, then an already
// declared constant, then the imaginary unit, and finally a fresh Int
// constant recorded for reuse. Sort re-derivation is the type checker's job
// upstream, hence the Int default.
func (b *Backend) translateObject(name string, env map[string]*term) (*term, error) {
	if t, ok := env[name]; ok {
		return t, nil
	}
	if t, ok := b.objects[name]; ok {
		return t, nil
	}
	if name == "i" {
		return b.imaginaryUnit(), nil
	}
	t := intTerm(b.ctx.MkIntConst(name))
	b.objects[name] = t
	return t, nil
}

func (b *Backend) translateOperationExpr(op *ast.Operation, env map[string]*term) (*term, error) {
	args := make([]*term, len(op.Args))
	for i, a := range op.Args {
		t, err := b.translate(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	switch class, known := operatorTable[op.Name]; {
	case known && class == opArith:
		return b.translateArith(op.Name, args)
	case known && class == opBool:
		return b.translateBool(op.Name, args)
	case known && class == opCompare:
		return b.translateCompare(op.Name, args)
	case known && class == opComplex:
		return b.translateComplexOp(op.Name, args)
	case known && class == opList:
		return b.translateListOp(op.Name, args)
	default:
		if ref, ok := b.ctors[op.Name]; ok {
			return b.applyConstructor(op.Name, ref, args)
		}
		return b.applyUninterpreted(op.Name, args)
	}
}
