package registry

import (
	"testing"

	"github.com/kleis-lang/kleis/internal/ast"
)

func matrixStructure() ast.StructureDef {
	// structure Matrix(m: Nat, n: Nat, T) { operation transpose : Matrix(m,n,T) → Matrix(n,m,T) }
	return ast.StructureDef{
		Name: "Matrix",
		TypeParams: []ast.TypeParam{
			{Name: "m", Kind: "Nat"},
			{Name: "n", Kind: "Nat"},
			{Name: "T"},
		},
		Members: []ast.StructureMember{
			&ast.OperationMember{
				Name: "transpose",
				Signature: &ast.FuncType{
					From: &ast.ParamType{Name: "Matrix", Args: []ast.TypeExpr{
						&ast.TypeVar{Name: "m"}, &ast.TypeVar{Name: "n"}, &ast.TypeVar{Name: "T"},
					}},
					To: &ast.ParamType{Name: "Matrix", Args: []ast.TypeExpr{
						&ast.TypeVar{Name: "n"}, &ast.TypeVar{Name: "m"}, &ast.TypeVar{Name: "T"},
					}},
				},
			},
		},
	}
}

func ringStructure() ast.StructureDef {
	x := ast.QuantifiedVar{Name: "x"}
	y := ast.QuantifiedVar{Name: "y"}
	z := ast.QuantifiedVar{Name: "z"}
	return ast.StructureDef{
		Name:       "Ring",
		TypeParams: []ast.TypeParam{{Name: "R"}},
		Members: []ast.StructureMember{
			&ast.OperationMember{Name: "plus", Signature: ringOpSig()},
			&ast.OperationMember{Name: "times", Signature: ringOpSig()},
			&ast.ElementMember{Name: "zero", Type: &ast.TypeVar{Name: "R"}},
			&ast.AxiomMember{
				Name: "distributivity",
				Proposition: ast.NewForAll(
					[]ast.QuantifiedVar{x, y, z},
					ast.NewOp("equals",
						ast.NewOp("times", ast.NewObject("x"), ast.NewOp("plus", ast.NewObject("y"), ast.NewObject("z"))),
						ast.NewOp("plus",
							ast.NewOp("times", ast.NewObject("x"), ast.NewObject("y")),
							ast.NewOp("times", ast.NewObject("x"), ast.NewObject("z"))),
					),
				),
			},
			&ast.AxiomMember{
				Name: "plus_commutativity",
				Proposition: ast.NewForAll(
					[]ast.QuantifiedVar{x, y},
					ast.NewOp("equals",
						ast.NewOp("plus", ast.NewObject("x"), ast.NewObject("y")),
						ast.NewOp("plus", ast.NewObject("y"), ast.NewObject("x"))),
				),
			},
		},
	}
}

func ringOpSig() ast.TypeExpr {
	r := &ast.TypeVar{Name: "R"}
	return &ast.FuncType{From: r, To: &ast.FuncType{From: r, To: r}}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	if err := r.Register(matrixStructure()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	s, ok := r.Structure("Matrix")
	if !ok {
		t.Fatal("Matrix not found after registration")
	}
	if len(s.TypeParams) != 3 {
		t.Errorf("expected 3 type params, got %d", len(s.TypeParams))
	}
	if _, ok := r.Structure("Vector"); ok {
		t.Error("unregistered structure reported present")
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := New()
	if err := r.Register(matrixStructure()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	err := r.Register(matrixStructure())
	if err == nil {
		t.Fatal("duplicate registration accepted")
	}
	re, ok := err.(*RegistrationError)
	if !ok {
		t.Fatalf("expected *RegistrationError, got %T", err)
	}
	if re.Name != "Matrix" {
		t.Errorf("error names %q, want Matrix", re.Name)
	}
	if want := "Structure 'Matrix' is already registered"; re.Error() != want {
		t.Errorf("error message %q, want %q", re.Error(), want)
	}
}

func TestAxiomQueries(t *testing.T) {
	r := New()
	if err := r.Register(ringStructure()); err != nil {
		t.Fatal(err)
	}
	axioms := r.Axioms("Ring")
	if len(axioms) != 2 {
		t.Fatalf("expected 2 axioms, got %d", len(axioms))
	}
	if axioms[0].Name != "distributivity" {
		t.Errorf("axiom order not preserved: %q first", axioms[0].Name)
	}
	if !r.HasAxiom("Ring", "plus_commutativity") {
		t.Error("HasAxiom missed plus_commutativity")
	}
	if r.HasAxiom("Ring", "associativity") {
		t.Error("HasAxiom invented associativity")
	}
	with := r.StructuresWithAxioms()
	if len(with) != 1 || with[0] != "Ring" {
		t.Errorf("StructuresWithAxioms = %v, want [Ring]", with)
	}
}

func TestOperationOwnersAndSignature(t *testing.T) {
	r := New()
	if err := r.Register(matrixStructure()); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(ringStructure()); err != nil {
		t.Fatal(err)
	}

	owners := r.OperationOwners("plus")
	if len(owners) != 1 || owners[0] != "Ring" {
		t.Errorf("OperationOwners(plus) = %v, want [Ring]", owners)
	}
	if owners := r.OperationOwners("determinant"); owners != nil {
		t.Errorf("OperationOwners(determinant) = %v, want nil", owners)
	}
	// Elements count as nullary operations.
	owners = r.OperationOwners("zero")
	if len(owners) != 1 || owners[0] != "Ring" {
		t.Errorf("OperationOwners(zero) = %v, want [Ring]", owners)
	}

	sig, ok := r.OperationSignature("transpose")
	if !ok {
		t.Fatal("transpose signature missing")
	}
	if _, isFunc := sig.(*ast.FuncType); !isFunc {
		t.Errorf("transpose signature is %T, want *ast.FuncType", sig)
	}
	if _, ok := r.OperationSignature("determinant"); ok {
		t.Error("signature reported for undeclared operation")
	}
}

func TestNestedMembersAreScanned(t *testing.T) {
	r := New()
	def := ast.StructureDef{
		Name:       "Field",
		TypeParams: []ast.TypeParam{{Name: "F"}},
		Members: []ast.StructureMember{
			&ast.NestedMember{
				Name:          "additive",
				StructureType: &ast.ParamType{Name: "AbelianGroup", Args: []ast.TypeExpr{&ast.TypeVar{Name: "F"}}},
				Members: []ast.StructureMember{
					&ast.OperationMember{Name: "plus", Signature: ringOpSig()},
					&ast.ElementMember{Name: "zero", Type: &ast.TypeVar{Name: "F"}},
				},
			},
		},
	}
	if err := r.Register(def); err != nil {
		t.Fatal(err)
	}
	owners := r.OperationOwners("plus")
	if len(owners) != 1 || owners[0] != "Field" {
		t.Errorf("nested operation owner = %v, want [Field]", owners)
	}
	if _, ok := r.OperationSignature("zero"); !ok {
		t.Error("nested element signature not found")
	}
	if r.OperationCount() != 2 {
		t.Errorf("OperationCount = %d, want 2", r.OperationCount())
	}
}

func TestWhereConstraints(t *testing.T) {
	r := New()
	r.RegisterImplements(ast.ImplementsDef{
		StructureName: "Module",
		TypeArgs:      []ast.TypeExpr{&ast.TypeVar{Name: "M"}, &ast.TypeVar{Name: "R"}},
		Where: []ast.Constraint{
			{Structure: "Ring", TypeArgs: []ast.TypeExpr{&ast.TypeVar{Name: "R"}}},
		},
	})
	r.RegisterImplements(ast.ImplementsDef{
		StructureName: "Module",
		TypeArgs:      []ast.TypeExpr{&ast.TypeVar{Name: "N"}, &ast.TypeVar{Name: "S"}},
		Where: []ast.Constraint{
			{Structure: "CommutativeRing", TypeArgs: []ast.TypeExpr{&ast.TypeVar{Name: "S"}}},
		},
	})

	cs := r.WhereConstraints("Module")
	if len(cs) != 2 {
		t.Fatalf("expected 2 flattened constraints, got %d", len(cs))
	}
	if cs[0].Structure != "Ring" || cs[1].Structure != "CommutativeRing" {
		t.Errorf("constraints out of order: %v", cs)
	}
	if got := r.WhereConstraints("Vector"); got != nil {
		t.Errorf("WhereConstraints for unknown structure = %v, want nil", got)
	}
}

func TestRemoveAndReset(t *testing.T) {
	r := New()
	if err := r.Register(ringStructure()); err != nil {
		t.Fatal(err)
	}
	r.RegisterImplements(ast.ImplementsDef{StructureName: "Ring"})
	r.RemoveStructure("Ring")
	if _, ok := r.Structure("Ring"); ok {
		t.Error("structure present after RemoveStructure")
	}
	if r.Implements("Ring") != nil {
		t.Error("implements present after RemoveStructure")
	}

	if err := r.Register(matrixStructure()); err != nil {
		t.Fatal(err)
	}
	r.RegisterFunction(ast.FunctionDef{Name: "double", Params: []string{"x"},
		Body: ast.NewOp("times", ast.NewConst("2"), ast.NewObject("x"))})
	r.Reset()
	if len(r.Structures()) != 0 || len(r.Functions()) != 0 {
		t.Error("registry not empty after Reset")
	}
}

func TestFromProgram(t *testing.T) {
	prog := &ast.Program{
		Structures: []ast.StructureDef{ringStructure()},
		Implements: []ast.ImplementsDef{{
			StructureName: "Ring",
			TypeArgs:      []ast.TypeExpr{&ast.NamedType{Name: "ℤ"}},
		}},
		Functions: []ast.FunctionDef{{
			Name:   "square",
			Params: []string{"x"},
			Body:   ast.NewOp("times", ast.NewObject("x"), ast.NewObject("x")),
		}},
	}
	r, err := FromProgram(prog)
	if err != nil {
		t.Fatalf("FromProgram failed: %v", err)
	}
	if _, ok := r.Structure("Ring"); !ok {
		t.Error("Ring not registered")
	}
	if len(r.Implements("Ring")) != 1 {
		t.Error("implements block not registered")
	}
	if _, ok := r.Function("square"); !ok {
		t.Error("function not registered")
	}

	dup := &ast.Program{Structures: []ast.StructureDef{ringStructure(), ringStructure()}}
	if _, err := FromProgram(dup); err == nil {
		t.Error("duplicate structure in program accepted")
	}
}
