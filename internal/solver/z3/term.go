package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"
)

// termKind tags the sort family a translated term belongs to. Uninterpreted
// covers datatype-sorted and fallback terms alike; the Z3 sort carried by
// the expression stays authoritative for those.
type termKind int

const (
	kindInt termKind = iota
	kindReal
	kindBool
	kindComplex
	kindUninterp
)

func (k termKind) String() string {
	switch k {
	case kindInt:
		return "Int"
	case kindReal:
		return "Real"
	case kindBool:
		return "Bool"
	case kindComplex:
		return "Complex"
	default:
		return "Uninterpreted"
	}
}

// term is one translated solver value. realTwin carries the same value
// rebuilt at Real sort; it is only set for terms derived purely from numeric
// literals and is what makes Int→Real promotion possible without a native
// coercion in the binding.
type term struct {
	expr     *z3api.Expr
	kind     termKind
	realTwin *z3api.Expr
}

func intTerm(e *z3api.Expr) *term     { return &term{expr: e, kind: kindInt} }
func realTerm(e *z3api.Expr) *term    { return &term{expr: e, kind: kindReal} }
func boolTerm(e *z3api.Expr) *term    { return &term{expr: e, kind: kindBool} }
func complexTerm(e *z3api.Expr) *term { return &term{expr: e, kind: kindComplex} }

// asReal returns the term's Real-sorted rendering when one exists: the term
// itself for Real terms, the literal twin for literal-derived Int terms.
func (t *term) asReal() (*z3api.Expr, bool) {
	if t.kind == kindReal {
		return t.expr, true
	}
	if t.kind == kindInt && t.realTwin != nil {
		return t.realTwin, true
	}
	return nil, false
}

// numeric reports whether the term lives in an arithmetic sort.
func (t *term) numeric() bool {
	return t.kind == kindInt || t.kind == kindReal
}

// sortKind maps a Z3 sort back to a term kind.
func (b *Backend) sortKind(s *z3api.Sort) termKind {
	switch {
	case s.Equal(b.intSort):
		return kindInt
	case s.Equal(b.realSort):
		return kindReal
	case s.Equal(b.boolSort):
		return kindBool
	case s.Equal(b.complex.sort):
		return kindComplex
	default:
		return kindUninterp
	}
}

// termOfSort wraps a raw expression with the kind its sort implies.
func (b *Backend) termOfSort(e *z3api.Expr) *term {
	return &term{expr: e, kind: b.sortKind(e.GetSort())}
}

func rawExprs(args []*term) []*z3api.Expr {
	out := make([]*z3api.Expr, len(args))
	for i, a := range args {
		out[i] = a.expr
	}
	return out
}

func copyEnv(env map[string]*term) map[string]*term {
	out := make(map[string]*term, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	return out
}
