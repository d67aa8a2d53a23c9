package solver

import (
	"github.com/kleis-lang/kleis/internal/ast"
)

// Backend is the contract a concrete solver must satisfy. A backend owns a
// persistent solver context: assertions made through AssertAxiom,
// DeclareIdentityElements, and DefineFunction accumulate until Reset. One
// backend instance must not be used from multiple goroutines.
type Backend interface {
	// Name identifies the backend ("z3").
	Name() string

	// Capabilities describes what the backend supports. It documents, it
	// does not gate.
	Capabilities() Capabilities

	// Push and Pop manage assertion scopes, used by the loader to roll back
	// a structure whose axioms fail to translate.
	Push()
	Pop()

	// AssertAxiom translates a proposition and asserts it as a background
	// fact. Quantified axioms become solver-level universal assertions.
	AssertAxiom(name string, prop ast.Expression) error

	// DeclareIdentityElements declares the named nullary elements of one
	// structure as constants, pairwise distinct within a sort.
	DeclareIdentityElements(structure string, elems []IdentityElement) error

	// DefineFunction declares an uninterpreted function and asserts its
	// defining universal equation over the parameters.
	DefineFunction(def *ast.FunctionDef) error

	// DeclareDataType makes an algebraic data type available to the
	// translator for constructor patterns and type annotations.
	DeclareDataType(def *ast.DataDef) error

	// VerifyAxiom checks whether expr holds universally under the asserted
	// background: it asserts the negation and reports Valid on unsat.
	VerifyAxiom(expr ast.Expression) (VerificationResult, error)

	// AreEquivalent reports whether two expressions denote the same value
	// under the asserted background in every model.
	AreEquivalent(a, b ast.Expression) (bool, error)

	// CheckSatisfiability runs a positive-form satisfiability query.
	CheckSatisfiability(expr ast.Expression) (SatResult, error)

	// CheckConsistency reports whether the asserted background alone is
	// satisfiable.
	CheckConsistency() (bool, error)

	// Evaluate checks the background for satisfiability and evaluates expr
	// in the resulting model.
	Evaluate(expr ast.Expression) (string, error)

	// Simplify runs the solver's term simplifier over expr.
	Simplify(expr ast.Expression) (string, error)

	// Warnings returns translation warnings accumulated since the last call
	// and clears them.
	Warnings() []string

	// Reset drops every assertion and declaration.
	Reset() error

	// Close releases the solver context. The backend is unusable afterwards.
	Close()
}

// IdentityElement names one distinguished element and its declared type.
type IdentityElement struct {
	Name string
	Type ast.TypeExpr
}
