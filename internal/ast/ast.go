// Package ast defines the plain-data representation of Kleis programs:
// expressions, patterns, type expressions, and top-level declarations.
// The surface parser and the type checker both produce these values; the
// verification core only consumes them.
package ast

import (
	"fmt"
	"strings"
)

// Expression is a node of a Kleis proposition or term. The variant set is
// closed; every implementation lives in this package.
type Expression interface {
	exprNode()
	String() string
}

// Const is a numeric literal kept in its source spelling ("2", "3.14", "1/2").
type Const struct {
	Value string
}

// Object is a named variable or symbolic constant ("x", "e", "π").
type Object struct {
	Name string
}

// Operation applies a named operation to ordered arguments, e.g.
// plus(a, b) or transpose(m).
type Operation struct {
	Name string
	Args []Expression
}

// QuantKind distinguishes universal from existential quantification.
type QuantKind int

const (
	ForAll QuantKind = iota
	Exists
)

func (k QuantKind) String() string {
	if k == Exists {
		return "exists"
	}
	return "forall"
}

// QuantifiedVar is one bound variable of a quantifier. TypeAnnotation is the
// surface type name ("ℤ", "Real", ...) or empty when unannotated.
type QuantifiedVar struct {
	Name           string
	TypeAnnotation string
}

// Quantifier binds variables over a body, optionally guarded by a where
// clause: ∀ x : ℤ where positive(x) . body.
type Quantifier struct {
	Kind  QuantKind
	Vars  []QuantifiedVar
	Where Expression // nil when absent
	Body  Expression
}

// Conditional is if/then/else at the expression level.
type Conditional struct {
	Cond Expression
	Then Expression
	Else Expression
}

// Let binds a name to a value for the extent of Body only.
type Let struct {
	Name  string
	Value Expression
	Body  Expression
}

// MatchCase pairs a pattern with the expression produced when it matches.
type MatchCase struct {
	Pattern Pattern
	Body    Expression
}

// Match scrutinizes one expression against ordered cases.
type Match struct {
	Scrutinee Expression
	Cases     []MatchCase
}

// List is a literal sequence [a, b, c].
type List struct {
	Elements []Expression
}

func (*Const) exprNode()       {}
func (*Object) exprNode()      {}
func (*Operation) exprNode()   {}
func (*Quantifier) exprNode()  {}
func (*Conditional) exprNode() {}
func (*Let) exprNode()         {}
func (*Match) exprNode()       {}
func (*List) exprNode()        {}

func (e *Const) String() string  { return e.Value }
func (e *Object) String() string { return e.Name }

func (e *Operation) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

func (e *Quantifier) String() string {
	vars := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		if v.TypeAnnotation != "" {
			vars[i] = v.Name + " : " + v.TypeAnnotation
		} else {
			vars[i] = v.Name
		}
	}
	s := fmt.Sprintf("%s %s", e.Kind, strings.Join(vars, ", "))
	if e.Where != nil {
		s += " where " + e.Where.String()
	}
	return s + " . " + e.Body.String()
}

func (e *Conditional) String() string {
	return fmt.Sprintf("if %s then %s else %s", e.Cond, e.Then, e.Else)
}

func (e *Let) String() string {
	return fmt.Sprintf("let %s = %s in %s", e.Name, e.Value, e.Body)
}

func (e *Match) String() string {
	cases := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		cases[i] = c.Pattern.String() + " => " + c.Body.String()
	}
	return fmt.Sprintf("match %s { %s }", e.Scrutinee, strings.Join(cases, " | "))
}

func (e *List) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Pattern is a match-case pattern. The variant set is closed.
type Pattern interface {
	patternNode()
	String() string
}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{}

// VariablePattern matches anything and binds the scrutinee to Name.
type VariablePattern struct {
	Name string
}

// ConstantPattern matches when the scrutinee equals the literal.
type ConstantPattern struct {
	Value string
}

// ConstructorPattern matches a data constructor and destructures its fields.
type ConstructorPattern struct {
	Name string
	Args []Pattern
}

func (*WildcardPattern) patternNode()    {}
func (*VariablePattern) patternNode()    {}
func (*ConstantPattern) patternNode()    {}
func (*ConstructorPattern) patternNode() {}

func (*WildcardPattern) String() string   { return "_" }
func (p *VariablePattern) String() string { return p.Name }
func (p *ConstantPattern) String() string { return p.Value }
func (p *ConstructorPattern) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}

// NewConst builds a literal expression.
func NewConst(value string) *Const { return &Const{Value: value} }

// NewObject builds a variable reference.
func NewObject(name string) *Object { return &Object{Name: name} }

// NewOp builds an operation application.
func NewOp(name string, args ...Expression) *Operation {
	return &Operation{Name: name, Args: args}
}

// NewForAll builds a universally quantified proposition, the most common
// shape in axioms.
func NewForAll(vars []QuantifiedVar, body Expression) *Quantifier {
	return &Quantifier{Kind: ForAll, Vars: vars, Body: body}
}

// NewExists builds an existentially quantified proposition.
func NewExists(vars []QuantifiedVar, body Expression) *Quantifier {
	return &Quantifier{Kind: Exists, Vars: vars, Body: body}
}
