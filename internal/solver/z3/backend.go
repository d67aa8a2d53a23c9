// Package z3 implements the solver backend over the Z3 Go bindings. One
// Backend owns one persistent Z3 context and solver; background axioms
// asserted through it accumulate until Reset.
package z3

import (
	"fmt"
	"time"

	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/registry"
	"github.com/kleis-lang/kleis/internal/solver"
)

// Backend translates Kleis expressions to Z3 terms and answers verification
// queries. Not safe for concurrent use; construct one per goroutine.
type Backend struct {
	ctx *z3api.Context
	slv *z3api.Solver
	reg *registry.Registry

	intSort  *z3api.Sort
	realSort *z3api.Sort
	boolSort *z3api.Sort
	complex  complexType

	// objects holds named free constants (variables referenced without a
	// binding, identity elements, nullary defines), keyed by source name.
	objects map[string]*term
	// funcs holds every declared function symbol, uninterpreted or defined.
	funcs map[string]*z3api.FuncDecl
	// iteFuncs caches the per-sort if-then-else helper declarations.
	iteFuncs map[string]*z3api.FuncDecl
	// dataTypes and ctors index declared algebraic data types.
	dataTypes map[string]*dataType
	ctors     map[string]ctorRef

	fresh    uint64
	warnings []string
	timeout  time.Duration
}

type complexType struct {
	sort *z3api.Sort
	mk   *z3api.FuncDecl
	re   *z3api.FuncDecl
	im   *z3api.FuncDecl
}

// New creates a backend bound to a registry. The timeout bounds every
// individual satisfiability check.
func New(reg *registry.Registry, timeout time.Duration) (*Backend, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx := z3api.NewContext()
	if ctx == nil {
		return nil, &solver.UnavailableError{Backend: "z3", Cause: fmt.Errorf("context creation failed")}
	}
	b := &Backend{
		ctx:       ctx,
		slv:       ctx.NewSolver(),
		reg:       reg,
		intSort:   ctx.MkIntSort(),
		realSort:  ctx.MkRealSort(),
		boolSort:  ctx.MkBoolSort(),
		objects:   make(map[string]*term),
		funcs:     make(map[string]*z3api.FuncDecl),
		iteFuncs:  make(map[string]*z3api.FuncDecl),
		dataTypes: make(map[string]*dataType),
		ctors:     make(map[string]ctorRef),
		timeout:   timeout,
	}
	b.initComplex()
	b.applyTimeout()
	return b, nil
}

func (b *Backend) applyTimeout() {
	params := b.ctx.MkParams()
	params.SetUint("timeout", uint(b.timeout.Milliseconds()))
	b.slv.SetParams(params)
}

// Complex = mk_complex(re: Real, im: Real). Declared once per context so
// every ℂ-annotated variable shares the sort.
func (b *Backend) initComplex() {
	ctor := b.ctx.MkConstructor(
		"mk_complex", "is_complex",
		[]string{"re", "im"},
		[]*z3api.Sort{b.realSort, b.realSort},
		[]uint{0, 0},
	)
	sort := b.ctx.MkDatatypeSort("Complex", []*z3api.Constructor{ctor})
	b.complex = complexType{
		sort: sort,
		mk:   b.ctx.GetDatatypeSortConstructor(sort, 0),
		re:   b.ctx.GetDatatypeSortConstructorAccessor(sort, 0, 0),
		im:   b.ctx.GetDatatypeSortConstructorAccessor(sort, 0, 1),
	}
}

// Name implements solver.Backend.
func (b *Backend) Name() string { return "z3" }

// Push opens an assertion scope.
func (b *Backend) Push() { b.slv.Push() }

// Pop discards the innermost assertion scope.
func (b *Backend) Pop() { b.slv.Pop(1) }

// Warnings returns accumulated translation warnings and clears them.
func (b *Backend) Warnings() []string {
	w := b.warnings
	b.warnings = nil
	return w
}

func (b *Backend) warnf(format string, args ...interface{}) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *Backend) freshName(prefix string) string {
	n := fmt.Sprintf("%s!%d", prefix, b.fresh)
	b.fresh++
	return n
}

func (b *Backend) freshConst(prefix string, sort *z3api.Sort) *z3api.Expr {
	return b.ctx.MkConst(b.ctx.MkStringSymbol(b.freshName(prefix)), sort)
}

// AssertAxiom translates a proposition and asserts it as a background fact.
// Quantifiers translate to real Z3 quantifiers, so a universal law
// constrains every value and an inner existential stays existential.
func (b *Backend) AssertAxiom(name string, prop ast.Expression) error {
	t, err := b.translate(prop, nil)
	if err != nil {
		return fmt.Errorf("axiom '%s': %w", name, err)
	}
	if t.kind != kindBool {
		return solver.Translationf("", "axiom '%s' must be a boolean proposition", name)
	}
	b.slv.Assert(t.expr)
	return nil
}

// VerifyAxiom checks universal validity: background ∧ ¬goal must be
// unsatisfiable. The goal's leading universal variables are realized as
// fresh constants so a counterexample model assigns them directly; every
// other quantifier is a real Z3 quantifier.
func (b *Backend) VerifyAxiom(expr ast.Expression) (solver.VerificationResult, error) {
	goal, goalVars, err := b.translateGoal(expr, false)
	if err != nil {
		return solver.VerificationResult{}, err
	}

	b.slv.Push()
	b.slv.Assert(b.ctx.MkNot(goal.expr))
	status := b.slv.Check()

	var res solver.VerificationResult
	switch status {
	case z3api.Unsatisfiable:
		res = solver.VerificationResult{Kind: solver.ResultValid}
	case z3api.Satisfiable:
		res = solver.VerificationResult{Kind: solver.ResultInvalid, Witness: b.witnessFor(goalVars)}
	default:
		res = solver.VerificationResult{Kind: solver.ResultUnknown}
	}
	b.slv.Pop(1)

	if res.Kind == solver.ResultValid {
		// A satisfying model of the positive form makes the validity easier
		// to report; absence does not weaken the verdict. Leading
		// existentials are skolemized here so their example values get
		// names.
		pos, posVars, err := b.translateGoal(expr, true)
		if err == nil {
			b.slv.Push()
			b.slv.Assert(pos.expr)
			if b.slv.Check() == z3api.Satisfiable {
				if w := b.witnessFor(posVars); w != nil && len(w.Bindings) > 0 {
					res = solver.VerificationResult{Kind: solver.ResultValidWithWitness, Witness: w}
				}
			}
			b.slv.Pop(1)
		}
	}
	return res, nil
}

// AreEquivalent checks background ∧ (a ≠ b) for unsatisfiability.
func (b *Backend) AreEquivalent(x, y ast.Expression) (bool, error) {
	tx, err := b.translate(x, nil)
	if err != nil {
		return false, err
	}
	ty, err := b.translate(y, nil)
	if err != nil {
		return false, err
	}
	eq, err := b.translateEquals(tx, ty)
	if err != nil {
		return false, err
	}
	b.slv.Push()
	b.slv.Assert(b.ctx.MkNot(eq.expr))
	status := b.slv.Check()
	b.slv.Pop(1)
	return status == z3api.Unsatisfiable, nil
}

// CheckSatisfiability runs a positive-form query against the background.
func (b *Backend) CheckSatisfiability(expr ast.Expression) (solver.SatResult, error) {
	t, err := b.translate(expr, nil)
	if err != nil {
		return solver.SatResult{}, err
	}
	if t.kind != kindBool {
		return solver.SatResult{}, solver.Translationf("", "satisfiability goal must be a boolean proposition")
	}
	b.slv.Push()
	b.slv.Assert(t.expr)
	status := b.slv.Check()
	var res solver.SatResult
	switch status {
	case z3api.Satisfiable:
		res = solver.SatResult{Kind: solver.Satisfiable, Witness: b.modelWitness()}
	case z3api.Unsatisfiable:
		res = solver.SatResult{Kind: solver.Unsatisfiable}
	default:
		res = solver.SatResult{Kind: solver.SatUnknown}
	}
	b.slv.Pop(1)
	return res, nil
}

// CheckConsistency reports whether the asserted background alone is
// satisfiable.
func (b *Backend) CheckConsistency() (bool, error) {
	switch b.slv.Check() {
	case z3api.Unsatisfiable:
		return false, nil
	case z3api.Satisfiable:
		return true, nil
	default:
		// Indeterminate background is treated as consistent; individual
		// goals will still report Unknown on their own.
		return true, nil
	}
}

// Evaluate finds a model of the background and evaluates expr in it.
func (b *Backend) Evaluate(expr ast.Expression) (string, error) {
	t, err := b.translate(expr, nil)
	if err != nil {
		return "", err
	}
	if b.slv.Check() != z3api.Satisfiable {
		return "", fmt.Errorf("no model available: background not satisfiable")
	}
	model := b.slv.Model()
	if model == nil {
		return "", fmt.Errorf("solver produced no model")
	}
	val, ok := model.Eval(t.expr, true)
	if !ok || val == nil {
		return "", fmt.Errorf("could not evaluate expression in model")
	}
	return val.String(), nil
}

// Simplify runs Z3's term simplifier over the translated expression.
func (b *Backend) Simplify(expr ast.Expression) (string, error) {
	t, err := b.translate(expr, nil)
	if err != nil {
		return "", err
	}
	return t.expr.Simplify().String(), nil
}

// Reset drops all assertions and cached declarations. The Z3 context and
// the Complex sort survive; everything else is redeclared on demand.
func (b *Backend) Reset() error {
	b.slv.Reset()
	b.applyTimeout()
	b.objects = make(map[string]*term)
	b.funcs = make(map[string]*z3api.FuncDecl)
	b.iteFuncs = make(map[string]*z3api.FuncDecl)
	b.dataTypes = make(map[string]*dataType)
	b.ctors = make(map[string]ctorRef)
	b.warnings = nil
	return nil
}

// Close releases the backend. The finalizers of the binding reclaim the
// underlying context.
func (b *Backend) Close() {
	b.slv = nil
	b.ctx = nil
}
