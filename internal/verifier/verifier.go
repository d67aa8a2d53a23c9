// Package verifier coordinates the registry, the dependency loader, and a
// solver backend into the verification entry points the tooling calls.
package verifier

import (
	"fmt"
	"sort"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/registry"
	"github.com/kleis-lang/kleis/internal/solver"
)

// Verifier answers verification queries over a registry of structures. A nil
// backend degrades every query to ResultDisabled instead of failing, so
// callers need no solver to parse and inspect programs.
//
// Not safe for concurrent use.
type Verifier struct {
	reg     *registry.Registry
	backend solver.Backend
	cfg     Config

	loaded     map[string]bool
	axiomCount int

	consistencyChecked bool
	consistent         bool
}

// New builds a verifier over reg and backend. backend may be nil.
func New(reg *registry.Registry, backend solver.Backend, cfg Config) *Verifier {
	return &Verifier{
		reg:     reg,
		backend: backend,
		cfg:     cfg,
		loaded:  make(map[string]bool),
	}
}

// Registry exposes the underlying registry for read access.
func (v *Verifier) Registry() *registry.Registry { return v.reg }

// Backend returns the configured backend, which may be nil.
func (v *Verifier) Backend() solver.Backend { return v.backend }

// VerifyAxiom checks whether the proposition holds universally under the
// axioms of every structure its operations belong to. Structures are loaded
// on demand, and the background is checked for consistency before the goal.
func (v *Verifier) VerifyAxiom(expr ast.Expression) (solver.VerificationResult, error) {
	if v.backend == nil {
		return solver.VerificationResult{Kind: solver.ResultDisabled}, nil
	}
	if err := v.ensureLoaded(expr); err != nil {
		return solver.VerificationResult{}, err
	}
	if ok, err := v.backgroundConsistent(); err != nil {
		return solver.VerificationResult{}, err
	} else if !ok {
		return solver.VerificationResult{Kind: solver.ResultInconsistentAxioms}, nil
	}
	return v.backend.VerifyAxiom(expr)
}

// AreEquivalent reports whether two expressions denote the same value under
// the loaded axioms in every model.
func (v *Verifier) AreEquivalent(a, b ast.Expression) (bool, error) {
	if v.backend == nil {
		return false, ErrDisabled
	}
	if err := v.ensureLoaded(a); err != nil {
		return false, err
	}
	if err := v.ensureLoaded(b); err != nil {
		return false, err
	}
	return v.backend.AreEquivalent(a, b)
}

// CheckSatisfiability runs a positive-form query under the loaded axioms.
func (v *Verifier) CheckSatisfiability(expr ast.Expression) (solver.SatResult, error) {
	if v.backend == nil {
		return solver.SatResult{Kind: solver.SatUnknown}, nil
	}
	if err := v.ensureLoaded(expr); err != nil {
		return solver.SatResult{}, err
	}
	return v.backend.CheckSatisfiability(expr)
}

// Evaluate finds a model of the loaded background and evaluates expr in it.
func (v *Verifier) Evaluate(expr ast.Expression) (string, error) {
	if v.backend == nil {
		return "", ErrDisabled
	}
	if err := v.ensureLoaded(expr); err != nil {
		return "", err
	}
	return v.backend.Evaluate(expr)
}

// Simplify runs the backend's term simplifier over expr.
func (v *Verifier) Simplify(expr ast.Expression) (string, error) {
	if v.backend == nil {
		return "", ErrDisabled
	}
	return v.backend.Simplify(expr)
}

// LoadProgramFunctions makes a program's data types and function definitions
// available to the solver, so goals can unfold user-defined functions.
// Data types are declared first: function bodies may mention constructors.
func (v *Verifier) LoadProgramFunctions(prog *ast.Program) error {
	if v.backend == nil {
		return ErrDisabled
	}
	for i := range prog.DataTypes {
		def := &prog.DataTypes[i]
		v.reg.RegisterDataType(*def)
		if err := v.backend.DeclareDataType(def); err != nil {
			return fmt.Errorf("data type '%s': %w", def.Name, err)
		}
	}
	for i := range prog.Functions {
		def := &prog.Functions[i]
		v.reg.RegisterFunction(*def)
		if err := v.backend.DefineFunction(def); err != nil {
			return fmt.Errorf("function '%s': %w", def.Name, err)
		}
	}
	v.consistencyChecked = false
	return nil
}

// backgroundConsistent checks the loaded axioms for satisfiability. The
// verdict is cached and invalidated whenever the background grows.
func (v *Verifier) backgroundConsistent() (bool, error) {
	if !v.cfg.ConsistencyCheck {
		return true, nil
	}
	if v.consistencyChecked {
		return v.consistent, nil
	}
	ok, err := v.backend.CheckConsistency()
	if err != nil {
		return false, err
	}
	v.consistencyChecked = true
	v.consistent = ok
	return ok, nil
}

// Stats summarizes the verifier's current state.
type Stats struct {
	LoadedStructures   int
	LoadedAxioms       int
	DeclaredOperations int
}

// Stats reports how much background theory has been loaded.
func (v *Verifier) Stats() Stats {
	return Stats{
		LoadedStructures:   len(v.loaded),
		LoadedAxioms:       v.axiomCount,
		DeclaredOperations: v.reg.OperationCount(),
	}
}

// Snapshot returns the names of loaded structures, sorted.
func (v *Verifier) Snapshot() []string {
	names := make([]string, 0, len(v.loaded))
	for name := range v.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Warnings drains accumulated backend translation warnings.
func (v *Verifier) Warnings() []string {
	if v.backend == nil {
		return nil
	}
	return v.backend.Warnings()
}

// Reset unloads every structure and clears the backend's assertions. The
// registry is untouched.
func (v *Verifier) Reset() error {
	v.loaded = make(map[string]bool)
	v.axiomCount = 0
	v.consistencyChecked = false
	v.consistent = false
	if v.backend == nil {
		return nil
	}
	return v.backend.Reset()
}
