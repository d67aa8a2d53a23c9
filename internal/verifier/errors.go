package verifier

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned by operations that need a solver when the verifier
// was built without a backend.
var ErrDisabled = errors.New("no solver backend configured")

// UnresolvedReferenceError reports a structure referenced by an extends or
// where clause that is not registered.
type UnresolvedReferenceError struct {
	Structure    string
	ReferencedBy string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unresolved reference to structure '%s'", e.Structure)
	}
	return fmt.Sprintf("unresolved reference to structure '%s' (referenced by '%s')", e.Structure, e.ReferencedBy)
}

// AxiomLimitError reports that loading one more structure would exceed the
// configured axiom budget.
type AxiomLimitError struct {
	Limit int
}

func (e *AxiomLimitError) Error() string {
	return fmt.Sprintf("axiom limit of %d exceeded", e.Limit)
}
