package z3

import (
	"github.com/kleis-lang/kleis/internal/solver"
)

// Boolean operations are strict: every operand must already be Bool. A sort
// mismatch here is a user error, never a fallback.
func (b *Backend) translateBool(name string, args []*term) (*term, error) {
	for _, a := range args {
		if a.kind != kindBool {
			return nil, solver.Translationf(name, "Boolean operation requires boolean operands")
		}
	}
	switch name {
	case "not":
		if len(args) != 1 {
			return nil, solver.Translationf(name, "not requires 1 argument")
		}
		return boolTerm(b.ctx.MkNot(args[0].expr)), nil
	case "and", "or":
		if len(args) < 2 {
			return nil, solver.Translationf(name, "%s requires at least 2 arguments", name)
		}
		raw := rawExprs(args)
		if name == "and" {
			return boolTerm(b.ctx.MkAnd(raw...)), nil
		}
		return boolTerm(b.ctx.MkOr(raw...)), nil
	case "implies", "iff", "xor":
		if len(args) != 2 {
			return nil, solver.Translationf(name, "%s requires 2 arguments", name)
		}
		switch name {
		case "implies":
			return boolTerm(b.ctx.MkImplies(args[0].expr, args[1].expr)), nil
		case "iff":
			return boolTerm(b.ctx.MkIff(args[0].expr, args[1].expr)), nil
		default:
			return boolTerm(b.ctx.MkXor(args[0].expr, args[1].expr)), nil
		}
	default:
		return nil, solver.Translationf(name, "unknown boolean operation %s", name)
	}
}
