// Package solver defines the backend-neutral verification surface: results,
// witnesses, the backend contract, and the capability manifest consumed by
// tooling layers.
package solver

// ResultKind classifies the outcome of one verification query.
type ResultKind int

const (
	// ResultValid means the negation of the goal is unsatisfiable under the
	// loaded background theory.
	ResultValid ResultKind = iota
	// ResultValidWithWitness is ResultValid where the positive form was also
	// found satisfiable and a model is attached.
	ResultValidWithWitness
	// ResultInvalid means the solver produced a counterexample.
	ResultInvalid
	// ResultUnknown means the solver gave up or timed out.
	ResultUnknown
	// ResultInconsistentAxioms means the background theory alone is
	// unsatisfiable, so no goal can be meaningfully checked against it.
	ResultInconsistentAxioms
	// ResultDisabled means no solver backend is configured.
	ResultDisabled
)

func (k ResultKind) String() string {
	switch k {
	case ResultValid:
		return "valid"
	case ResultValidWithWitness:
		return "valid (with witness)"
	case ResultInvalid:
		return "invalid"
	case ResultUnknown:
		return "unknown"
	case ResultInconsistentAxioms:
		return "inconsistent axioms"
	case ResultDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// VerificationResult is the outcome of one axiom check. Witness is non-nil
// for ResultInvalid (the counterexample) and ResultValidWithWitness (a
// satisfying model of the positive form).
type VerificationResult struct {
	Kind    ResultKind
	Witness *Witness
}

func (r VerificationResult) String() string {
	if r.Witness != nil && r.Kind == ResultInvalid {
		return "invalid: counterexample " + r.Witness.String()
	}
	return r.Kind.String()
}

// SatKind classifies a direct satisfiability query.
type SatKind int

const (
	Satisfiable SatKind = iota
	Unsatisfiable
	SatUnknown
)

func (k SatKind) String() string {
	switch k {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// SatResult is the outcome of CheckSatisfiability. Witness is a model when
// the formula is satisfiable.
type SatResult struct {
	Kind    SatKind
	Witness *Witness
}
