package ast

import (
	"fmt"
	"strings"
)

// TypeExpr is a surface type expression as it appears in signatures,
// extends clauses, and where constraints. The variant set is closed.
type TypeExpr interface {
	typeNode()
	String() string
}

// NamedType is a bare type name: ℝ, Bool, Money.
type NamedType struct {
	Name string
}

// ParamType applies a type constructor: Vector(3), Matrix(m, n, T).
type ParamType struct {
	Name string
	Args []TypeExpr
}

// FuncType is one arrow of a (possibly curried) function type: A → B.
type FuncType struct {
	From TypeExpr
	To   TypeExpr
}

// ProductType is a tuple of types: A × B, used for multi-argument domains.
type ProductType struct {
	Elems []TypeExpr
}

// TypeVar is a polymorphic type variable: T, α, n.
type TypeVar struct {
	Name string
}

func (*NamedType) typeNode()   {}
func (*ParamType) typeNode()   {}
func (*FuncType) typeNode()    {}
func (*ProductType) typeNode() {}
func (*TypeVar) typeNode()     {}

func (t *NamedType) String() string { return t.Name }
func (t *TypeVar) String() string   { return t.Name }

func (t *ParamType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

func (t *FuncType) String() string {
	return t.From.String() + " → " + t.To.String()
}

func (t *ProductType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, " × ")
}

// HeadName returns the structure/type-constructor name of a type expression,
// e.g. "Semigroup" for Semigroup(M). Empty for arrows and products.
func HeadName(t TypeExpr) string {
	switch tt := t.(type) {
	case *NamedType:
		return tt.Name
	case *ParamType:
		return tt.Name
	case *TypeVar:
		return tt.Name
	default:
		return ""
	}
}

// TypeParam is one parameter of a structure or alias declaration, with an
// optional kind annotation ("Nat", "Type").
type TypeParam struct {
	Name string
	Kind string
}

// StructureMember is a single member of a structure body. Closed variant set:
// OperationMember, ElementMember, AxiomMember, NestedMember.
type StructureMember interface {
	memberNode()
}

// OperationMember declares an operation with its type signature.
type OperationMember struct {
	Name      string
	Signature TypeExpr
}

// ElementMember declares a distinguished element (semantically a nullary
// operation), e.g. e : M for a monoid identity.
type ElementMember struct {
	Name string
	Type TypeExpr
}

// AxiomMember declares a named law the structure's operations must satisfy.
type AxiomMember struct {
	Name        string
	Proposition Expression
}

// NestedMember declares an inner structure, e.g. the additive group of a
// ring. Members recurse arbitrarily deep.
type NestedMember struct {
	Name          string
	StructureType TypeExpr
	Members       []StructureMember
}

func (*OperationMember) memberNode() {}
func (*ElementMember) memberNode()   {}
func (*AxiomMember) memberNode()     {}
func (*NestedMember) memberNode()    {}

// StructureDef declares an algebraic structure.
type StructureDef struct {
	Name       string
	TypeParams []TypeParam
	Extends    TypeExpr // nil when the structure has no parent
	Over       TypeExpr // nil unless parameterized over another structure
	Members    []StructureMember
}

// Constraint is one entry of a where clause: Ring(R).
type Constraint struct {
	Structure string
	TypeArgs  []TypeExpr
}

// ImplementsDef records evidence that a type satisfies a structure,
// optionally conditioned on the where clause.
type ImplementsDef struct {
	StructureName string
	TypeArgs      []TypeExpr
	Where         []Constraint
	Bindings      []FunctionDef // concrete operation bindings
}

// FunctionDef is a top-level or member function definition:
// define name(params) = body.
type FunctionDef struct {
	Name           string
	Params         []string
	TypeAnnotation TypeExpr // nil when unannotated
	Body           Expression
}

// DataField is one field of a data constructor.
type DataField struct {
	Name string
	Type TypeExpr
}

// DataVariant is one constructor of a data type.
type DataVariant struct {
	Name   string
	Fields []DataField
}

// DataDef declares an algebraic data type: data Name = V1 | V2(...).
type DataDef struct {
	Name       string
	TypeParams []TypeParam
	Variants   []DataVariant
}

// TypeAlias declares type Name(params) = Type.
type TypeAlias struct {
	Name   string
	Params []TypeParam
	Type   TypeExpr
}

// OperationDecl is a top-level operation declaration outside any structure.
type OperationDecl struct {
	Name      string
	Signature TypeExpr
}

// Program is a complete parsed Kleis program in declaration order.
type Program struct {
	Structures []StructureDef
	Implements []ImplementsDef
	Functions  []FunctionDef
	DataTypes  []DataDef
	Aliases    []TypeAlias
	Operations []OperationDecl
}
