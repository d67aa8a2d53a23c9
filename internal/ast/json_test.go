package ast

import (
	"encoding/json"
	"testing"
)

func TestExpressionJSONRoundTrip(t *testing.T) {
	expr := &Quantifier{
		Kind:  ForAll,
		Vars:  []QuantifiedVar{{Name: "x", TypeAnnotation: "ℤ"}},
		Where: NewOp("positive", NewObject("x")),
		Body: &Conditional{
			Cond: NewOp("less_than", NewObject("x"), NewConst("10")),
			Then: &Match{
				Scrutinee: NewObject("x"),
				Cases: []MatchCase{
					{Pattern: &ConstantPattern{Value: "0"}, Body: NewConst("1")},
					{Pattern: &ConstructorPattern{Name: "Succ", Args: []Pattern{&VariablePattern{Name: "n"}}}, Body: NewObject("n")},
					{Pattern: &WildcardPattern{}, Body: NewConst("0")},
				},
			},
			Else: &Let{Name: "y", Value: NewConst("2"), Body: &List{Elements: []Expression{NewObject("y")}}},
		},
	}

	raw, err := MarshalExpression(expr)
	if err != nil {
		t.Fatalf("MarshalExpression: %v", err)
	}
	back, err := UnmarshalExpression(raw)
	if err != nil {
		t.Fatalf("UnmarshalExpression: %v", err)
	}
	if got, want := back.String(), expr.String(); got != want {
		t.Fatalf("round trip changed expression:\n got %s\nwant %s", got, want)
	}
}

func TestUnmarshalExpressionRejectsUnknownKind(t *testing.T) {
	if _, err := UnmarshalExpression([]byte(`{"kind":"telepathy"}`)); err == nil {
		t.Fatal("expected error for unknown expression kind")
	}
}

func TestProgramJSONRoundTrip(t *testing.T) {
	prog := Program{
		Structures: []StructureDef{{
			Name:    "Monoid",
			Extends: &ParamType{Name: "Semigroup", Args: []TypeExpr{&TypeVar{Name: "M"}}},
			Members: []StructureMember{
				&OperationMember{Name: "op", Signature: &FuncType{
					From: &ProductType{Elems: []TypeExpr{&TypeVar{Name: "M"}, &TypeVar{Name: "M"}}},
					To:   &TypeVar{Name: "M"},
				}},
				&ElementMember{Name: "e", Type: &TypeVar{Name: "M"}},
				&AxiomMember{Name: "identity", Proposition: NewForAll(
					[]QuantifiedVar{{Name: "x"}},
					NewOp("equals", NewOp("op", NewObject("x"), NewObject("e")), NewObject("x")))},
			},
		}},
		Functions: []FunctionDef{{
			Name:   "double",
			Params: []string{"x"},
			Body:   NewOp("times", NewConst("2"), NewObject("x")),
		}},
		DataTypes: []DataDef{{
			Name: "Nat",
			Variants: []DataVariant{
				{Name: "Zero"},
				{Name: "Succ", Fields: []DataField{{Name: "pred", Type: &NamedType{Name: "Nat"}}}},
			},
		}},
	}

	raw, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Program
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(back.Structures) != 1 || back.Structures[0].Name != "Monoid" {
		t.Fatalf("structures = %+v", back.Structures)
	}
	if HeadName(back.Structures[0].Extends) != "Semigroup" {
		t.Fatalf("extends = %v", back.Structures[0].Extends)
	}
	if len(back.Structures[0].Members) != 3 {
		t.Fatalf("members = %d, want 3", len(back.Structures[0].Members))
	}
	ax, ok := back.Structures[0].Members[2].(*AxiomMember)
	if !ok {
		t.Fatalf("member 2 = %T, want AxiomMember", back.Structures[0].Members[2])
	}
	if ax.Proposition.String() != prog.Structures[0].Members[2].(*AxiomMember).Proposition.String() {
		t.Fatal("axiom proposition changed through round trip")
	}
	if len(back.DataTypes) != 1 || len(back.DataTypes[0].Variants) != 2 {
		t.Fatalf("data types = %+v", back.DataTypes)
	}
	if len(back.Functions) != 1 || back.Functions[0].Name != "double" {
		t.Fatalf("functions = %+v", back.Functions)
	}
}
