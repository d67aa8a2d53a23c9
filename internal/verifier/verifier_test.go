package verifier

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/registry"
	"github.com/kleis-lang/kleis/internal/solver"
)

// fakeBackend records assertions with scope tracking so tests can observe
// what ends up in the base level after trial scopes are popped.
type fakeBackend struct {
	scopes     [][]string
	elements   []string
	functions  []string
	dataTypes  []string
	failAxioms map[string]bool
	consistent bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		scopes:     [][]string{nil},
		failAxioms: make(map[string]bool),
		consistent: true,
	}
}

func (f *fakeBackend) base() []string { return f.scopes[0] }

func (f *fakeBackend) Name() string                      { return "fake" }
func (f *fakeBackend) Capabilities() solver.Capabilities { return solver.Capabilities{} }
func (f *fakeBackend) Push()                             { f.scopes = append(f.scopes, nil) }
func (f *fakeBackend) Pop()                              { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *fakeBackend) AssertAxiom(name string, prop ast.Expression) error {
	if f.failAxioms[name] {
		return fmt.Errorf("cannot translate '%s'", name)
	}
	top := len(f.scopes) - 1
	f.scopes[top] = append(f.scopes[top], name)
	return nil
}

func (f *fakeBackend) DeclareIdentityElements(structure string, elems []solver.IdentityElement) error {
	if len(f.scopes) == 1 {
		for _, e := range elems {
			f.elements = append(f.elements, e.Name)
		}
	}
	return nil
}

func (f *fakeBackend) DefineFunction(def *ast.FunctionDef) error {
	f.functions = append(f.functions, def.Name)
	return nil
}

func (f *fakeBackend) DeclareDataType(def *ast.DataDef) error {
	f.dataTypes = append(f.dataTypes, def.Name)
	return nil
}

func (f *fakeBackend) VerifyAxiom(expr ast.Expression) (solver.VerificationResult, error) {
	return solver.VerificationResult{Kind: solver.ResultValid}, nil
}

func (f *fakeBackend) AreEquivalent(a, b ast.Expression) (bool, error) { return true, nil }

func (f *fakeBackend) CheckSatisfiability(expr ast.Expression) (solver.SatResult, error) {
	return solver.SatResult{Kind: solver.Satisfiable}, nil
}

func (f *fakeBackend) CheckConsistency() (bool, error) { return f.consistent, nil }

func (f *fakeBackend) Evaluate(expr ast.Expression) (string, error) { return "", nil }
func (f *fakeBackend) Simplify(expr ast.Expression) (string, error) { return "", nil }
func (f *fakeBackend) Warnings() []string                           { return nil }

func (f *fakeBackend) Reset() error {
	f.scopes = [][]string{nil}
	f.elements = nil
	return nil
}

func (f *fakeBackend) Close() {}

func opMember(name string) ast.StructureMember {
	return &ast.OperationMember{
		Name: name,
		Signature: &ast.FuncType{
			From: &ast.ProductType{Elems: []ast.TypeExpr{&ast.TypeVar{Name: "M"}, &ast.TypeVar{Name: "M"}}},
			To:   &ast.TypeVar{Name: "M"},
		},
	}
}

func axiomMember(name string) ast.StructureMember {
	return &ast.AxiomMember{
		Name: name,
		Proposition: ast.NewForAll(
			[]ast.QuantifiedVar{{Name: "x", TypeAnnotation: "ℤ"}},
			ast.NewOp("equals", ast.NewObject("x"), ast.NewObject("x"))),
	}
}

// semigroupTower registers Semigroup ⊂ Monoid ⊂ Group, each contributing one
// axiom and one operation.
func semigroupTower(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	defs := []ast.StructureDef{
		{
			Name:    "Semigroup",
			Members: []ast.StructureMember{opMember("sg_op"), axiomMember("associativity")},
		},
		{
			Name:    "Monoid",
			Extends: &ast.ParamType{Name: "Semigroup", Args: []ast.TypeExpr{&ast.TypeVar{Name: "M"}}},
			Members: []ast.StructureMember{
				&ast.ElementMember{Name: "e", Type: &ast.TypeVar{Name: "M"}},
				axiomMember("identity"),
			},
		},
		{
			Name:    "Group",
			Extends: &ast.ParamType{Name: "Monoid", Args: []ast.TypeExpr{&ast.TypeVar{Name: "M"}}},
			Members: []ast.StructureMember{opMember("inverse"), axiomMember("inverse_law")},
		},
	}
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("Register(%s): %v", d.Name, err)
		}
	}
	return reg
}

func goalUsing(op string) ast.Expression {
	return ast.NewForAll(
		[]ast.QuantifiedVar{{Name: "a", TypeAnnotation: "ℤ"}},
		ast.NewOp("equals",
			ast.NewOp(op, ast.NewObject("a"), ast.NewObject("a")),
			ast.NewObject("a")))
}

func TestVerifyLoadsOwningStructure(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	res, err := v.VerifyAxiom(goalUsing("sg_op"))
	if err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	if res.Kind != solver.ResultValid {
		t.Fatalf("result = %v, want valid", res)
	}
	if got := fake.base(); len(got) != 1 || got[0] != "associativity" {
		t.Fatalf("base assertions = %v, want [associativity]", got)
	}
	if s := v.Stats(); s.LoadedStructures != 1 || s.LoadedAxioms != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestElementReferenceLoadsOwningStructure(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	// The identity element appears as a bare object, not an operation
	// application; its owning structure must still load.
	goal := ast.NewOp("equals", ast.NewObject("e"), ast.NewObject("e"))
	if _, err := v.VerifyAxiom(goal); err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	want := []string{"associativity", "identity"}
	got := fake.base()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("base assertions = %v, want %v", got, want)
	}
	if len(fake.elements) != 1 || fake.elements[0] != "e" {
		t.Fatalf("elements = %v, want [e]", fake.elements)
	}
}

func TestExtendsChainLoadsParentsFirst(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	if _, err := v.VerifyAxiom(goalUsing("inverse")); err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	want := []string{"associativity", "identity", "inverse_law"}
	got := fake.base()
	if len(got) != len(want) {
		t.Fatalf("base assertions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("assertion order = %v, want %v", got, want)
		}
	}
	if got := v.Snapshot(); len(got) != 3 {
		t.Fatalf("snapshot = %v, want 3 structures", got)
	}
	if len(fake.elements) != 1 || fake.elements[0] != "e" {
		t.Fatalf("elements = %v, want [e]", fake.elements)
	}
}

func TestRepeatLoadIsIdempotent(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	for i := 0; i < 3; i++ {
		if _, err := v.VerifyAxiom(goalUsing("inverse")); err != nil {
			t.Fatalf("VerifyAxiom #%d: %v", i, err)
		}
	}
	if got := fake.base(); len(got) != 3 {
		t.Fatalf("axioms asserted %d times, want 3 total: %v", len(got), got)
	}
}

func TestWhereConstraintLoadsFirst(t *testing.T) {
	reg := semigroupTower(t)
	if err := reg.Register(ast.StructureDef{
		Name:    "Module",
		Over:    &ast.TypeVar{Name: "R"},
		Members: []ast.StructureMember{opMember("scale"), axiomMember("scale_distributivity")},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	reg.RegisterImplements(ast.ImplementsDef{
		StructureName: "Module",
		TypeArgs:      []ast.TypeExpr{&ast.TypeVar{Name: "V"}},
		Where:         []ast.Constraint{{Structure: "Semigroup", TypeArgs: []ast.TypeExpr{&ast.TypeVar{Name: "R"}}}},
	})

	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())
	if _, err := v.VerifyAxiom(goalUsing("scale")); err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	got := fake.base()
	if len(got) != 2 || got[0] != "associativity" || got[1] != "scale_distributivity" {
		t.Fatalf("base assertions = %v, want constraint axioms first", got)
	}
}

func TestUnresolvedExtendsReported(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(ast.StructureDef{
		Name:    "Orphan",
		Extends: &ast.NamedType{Name: "Missing"},
		Members: []ast.StructureMember{opMember("orphan_op"), axiomMember("orphan_axiom")},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	v := New(reg, newFakeBackend(), DefaultConfig())
	_, err := v.VerifyAxiom(goalUsing("orphan_op"))
	var unresolved *UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("err = %v, want UnresolvedReferenceError", err)
	}
	if unresolved.Structure != "Missing" {
		t.Fatalf("unresolved structure = %q, want Missing", unresolved.Structure)
	}
	if v.Stats().LoadedStructures != 0 {
		t.Fatalf("failed load must not leave structures marked: %v", v.Snapshot())
	}
}

func TestFailedAxiomRollsBack(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(ast.StructureDef{
		Name: "Broken",
		Members: []ast.StructureMember{
			opMember("broken_op"),
			axiomMember("fine"),
			axiomMember("bad"),
		},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	fake := newFakeBackend()
	fake.failAxioms["bad"] = true
	v := New(reg, fake, DefaultConfig())

	if _, err := v.VerifyAxiom(goalUsing("broken_op")); err == nil {
		t.Fatal("expected load error for untranslatable axiom")
	}
	if got := fake.base(); len(got) != 0 {
		t.Fatalf("base assertions after rollback = %v, want none", got)
	}
	if len(fake.scopes) != 1 {
		t.Fatalf("trial scope leaked: %d scopes", len(fake.scopes))
	}
	if v.Stats().LoadedStructures != 0 {
		t.Fatal("failed structure must be unmarked")
	}
}

func TestAxiomLimitEnforced(t *testing.T) {
	reg := semigroupTower(t)
	cfg := DefaultConfig()
	cfg.MaxAxioms = 2
	v := New(reg, newFakeBackend(), cfg)

	_, err := v.VerifyAxiom(goalUsing("inverse"))
	var limit *AxiomLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("err = %v, want AxiomLimitError", err)
	}
}

func TestInconsistentBackgroundShortCircuits(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	fake.consistent = false
	v := New(reg, fake, DefaultConfig())

	res, err := v.VerifyAxiom(goalUsing("sg_op"))
	if err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	if res.Kind != solver.ResultInconsistentAxioms {
		t.Fatalf("result = %v, want inconsistent axioms", res)
	}
}

func TestNilBackendReportsDisabled(t *testing.T) {
	v := New(registry.New(), nil, DefaultConfig())
	res, err := v.VerifyAxiom(goalUsing("anything"))
	if err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	if res.Kind != solver.ResultDisabled {
		t.Fatalf("result = %v, want disabled", res)
	}
}

func TestLoadProgramFunctions(t *testing.T) {
	reg := registry.New()
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	prog := &ast.Program{
		DataTypes: []ast.DataDef{{
			Name:     "Color",
			Variants: []ast.DataVariant{{Name: "Red"}, {Name: "Blue"}},
		}},
		Functions: []ast.FunctionDef{{
			Name:   "double",
			Params: []string{"x"},
			Body:   ast.NewOp("times", ast.NewConst("2"), ast.NewObject("x")),
		}},
	}
	if err := v.LoadProgramFunctions(prog); err != nil {
		t.Fatalf("LoadProgramFunctions: %v", err)
	}
	if len(fake.dataTypes) != 1 || fake.dataTypes[0] != "Color" {
		t.Fatalf("dataTypes = %v", fake.dataTypes)
	}
	if len(fake.functions) != 1 || fake.functions[0] != "double" {
		t.Fatalf("functions = %v", fake.functions)
	}
	if _, ok := reg.Function("double"); !ok {
		t.Fatal("function not recorded in registry")
	}
}

func TestResetUnloadsEverything(t *testing.T) {
	reg := semigroupTower(t)
	fake := newFakeBackend()
	v := New(reg, fake, DefaultConfig())

	if _, err := v.VerifyAxiom(goalUsing("inverse")); err != nil {
		t.Fatalf("VerifyAxiom: %v", err)
	}
	if err := v.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s := v.Stats(); s.LoadedStructures != 0 || s.LoadedAxioms != 0 {
		t.Fatalf("stats after reset = %+v", s)
	}
	if got := fake.base(); len(got) != 0 {
		t.Fatalf("backend still holds %v after reset", got)
	}
}
