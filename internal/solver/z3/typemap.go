package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
)

// annotationSort maps a surface type name to a Z3 sort. The table mirrors
// the language's spelling variants (unicode and ASCII). Unknown names map
// to Int; the caller decides whether that deserves a warning.
func (b *Backend) annotationSort(name string) (*z3api.Sort, termKind, bool) {
	switch name {
	case "", "ℤ", "Int", "Z", "Integer", "ℕ", "Nat", "Natural":
		return b.intSort, kindInt, name != ""
	case "ℝ", "Real", "Scalar", "ℚ", "Rational", "Q":
		// Z3's Real is already the rationals, so ℚ needs no separate
		// encoding.
		return b.realSort, kindReal, true
	case "𝔹", "Bool", "Boolean":
		return b.boolSort, kindBool, true
	case "ℂ", "Complex", "C":
		return b.complex.sort, kindComplex, true
	default:
		if dt, ok := b.dataTypes[name]; ok {
			return dt.sort, kindUninterp, true
		}
		if b.reg != nil {
			if alias, ok := b.reg.Alias(name); ok {
				sort, kind := b.typeExprToSort(alias.Type)
				return sort, kind, true
			}
		}
		return b.intSort, kindInt, false
	}
}

// typeExprToSort lowers a type expression to a sort. Parametric types use
// their head name; arrows and products have no first-class sort and map to
// Int like any other uninterpreted carrier.
func (b *Backend) typeExprToSort(t ast.TypeExpr) (*z3api.Sort, termKind) {
	switch tt := t.(type) {
	case *ast.NamedType:
		sort, kind, _ := b.annotationSort(tt.Name)
		return sort, kind
	case *ast.ParamType:
		sort, kind, _ := b.annotationSort(tt.Name)
		return sort, kind
	case *ast.TypeVar:
		sort, kind, _ := b.annotationSort(tt.Name)
		return sort, kind
	default:
		return b.intSort, kindInt
	}
}

// extractSignatureTypes uncurries A → B → C into args [A, B] and result C.
// Product arguments flatten into the argument list.
func extractSignatureTypes(sig ast.TypeExpr) ([]ast.TypeExpr, ast.TypeExpr) {
	var args []ast.TypeExpr
	current := sig
	for {
		fn, ok := current.(*ast.FuncType)
		if !ok {
			return args, current
		}
		if prod, ok := fn.From.(*ast.ProductType); ok {
			args = append(args, prod.Elems...)
		} else {
			args = append(args, fn.From)
		}
		current = fn.To
	}
}
