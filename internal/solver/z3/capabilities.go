package z3

import "github.com/kleis-lang/kleis/internal/solver"

// Capabilities reports what this backend translates natively and what it
// encodes. The operation table mirrors the translator's operator dispatch.
func (b *Backend) Capabilities() solver.Capabilities {
	ops := map[string]solver.OperationSupport{
		"plus": {
			Arity: 2, Theory: "arithmetic", Native: true,
			Reason: "native for Int-Int, Real-Real and literal-promoted mixes; a non-literal Int mixed with Real degrades to an uninterpreted symbol",
		},
		"minus": {
			Arity: 2, Theory: "arithmetic", Native: true,
			Reason: "native for Int-Int, Real-Real and literal-promoted mixes; a non-literal Int mixed with Real degrades to an uninterpreted symbol",
		},
		"times": {
			Arity: 2, Theory: "arithmetic", Native: true,
			Reason: "native for Int-Int, Real-Real and literal-promoted mixes; a non-literal Int mixed with Real degrades to an uninterpreted symbol",
		},
		"divide": {
			Arity: 2, Theory: "arithmetic", Native: true,
			Reason: "native for Int-Int, Real-Real and literal-promoted mixes; a non-literal Int mixed with Real degrades to an uninterpreted symbol",
		},
		"mod":    {Arity: 2, Theory: "arithmetic", Native: true},
		"negate": {Arity: 1, Theory: "arithmetic", Native: true},
		"to_real": {
			Arity: 1, Theory: "arithmetic", Native: false,
			Reason: "the binding exposes no int-to-real coercion; integer literals carry a Real twin for promotion, other Int terms cannot be coerced",
		},
		"if_then_else": {
			Arity: 3, Theory: "core", Native: false,
			Reason: "the binding exposes no ite term; conditionals are encoded through a per-sort helper function pinned by two defining axioms",
		},
		"power": {
			Arity: 2, Theory: "arithmetic", Native: false,
			Reason:       "unrolled to repeated multiplication for literal integer exponents, uninterpreted otherwise",
			Alternatives: []string{"times"},
		},
		"sqrt": {
			Arity: 1, Theory: "arithmetic", Native: false,
			Reason: "no algebraic root in linear arithmetic, handled as an uninterpreted function",
		},
		"abs": {
			Arity: 1, Theory: "arithmetic", Native: false,
			Reason: "encoded as a branch on the sign of the operand",
		},
		"and":          {Arity: 2, Theory: "boolean", Native: true},
		"or":           {Arity: 2, Theory: "boolean", Native: true},
		"not":          {Arity: 1, Theory: "boolean", Native: true},
		"implies":      {Arity: 2, Theory: "boolean", Native: true},
		"iff":          {Arity: 2, Theory: "boolean", Native: true},
		"xor":          {Arity: 2, Theory: "boolean", Native: true},
		"equals":       {Arity: 2, Theory: "core", Native: true},
		"not_equals":   {Arity: 2, Theory: "core", Native: true},
		"less_than":    {Arity: 2, Theory: "arithmetic", Native: true},
		"greater_than": {Arity: 2, Theory: "arithmetic", Native: true},
		"leq":          {Arity: 2, Theory: "arithmetic", Native: true},
		"geq":          {Arity: 2, Theory: "arithmetic", Native: true},
		"complex":      {Arity: 2, Theory: "datatypes", Native: true},
		"re":           {Arity: 1, Theory: "datatypes", Native: true},
		"im":           {Arity: 1, Theory: "datatypes", Native: true},
		"conj":         {Arity: 1, Theory: "datatypes", Native: true},
		"complex_add":  {Arity: 2, Theory: "datatypes", Native: true},
		"complex_sub":  {Arity: 2, Theory: "datatypes", Native: true},
		"complex_mul":  {Arity: 2, Theory: "datatypes", Native: true},
		"complex_div":  {Arity: 2, Theory: "datatypes", Native: true},
		"abs_squared":  {Arity: 1, Theory: "datatypes", Native: true},
		"cons": {
			Arity: 2, Theory: "uninterpreted", Native: false,
			Reason: "lists are modeled over uninterpreted functions, not a sequence theory",
		},
		"head": {
			Arity: 1, Theory: "uninterpreted", Native: false,
			Reason: "lists are modeled over uninterpreted functions, not a sequence theory",
		},
		"tail": {
			Arity: 1, Theory: "uninterpreted", Native: false,
			Reason: "lists are modeled over uninterpreted functions, not a sequence theory",
		},
	}
	return solver.Capabilities{
		Solver: solver.Metadata{
			Name:        "z3",
			Version:     "4.13.0",
			Type:        "smt",
			Description: "Z3 theorem prover over linear arithmetic, datatypes and uninterpreted functions",
		},
		Theories:   []string{"LIA", "LRA", "UF", "datatypes", "quantifiers"},
		Operations: ops,
		Features: solver.FeatureFlags{
			Quantifiers:            true,
			UninterpretedFunctions: true,
			Evaluation:             true,
			Simplification:         true,
		},
		Performance: solver.DefaultPerformance(),
	}
}
