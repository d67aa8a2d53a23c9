package solver

import "strings"

// WitnessBinding is one variable assignment from a solver model.
type WitnessBinding struct {
	Name  string
	Value string
}

// Witness is a structured counterexample or model. Bindings carry the parsed
// assignments; Raw preserves the solver's own model dump for displays and
// for models that could not be parsed.
type Witness struct {
	Bindings []WitnessBinding
	Raw      string
}

// WitnessFromRaw wraps an unparsed model dump.
func WitnessFromRaw(raw string) *Witness {
	return &Witness{Raw: raw}
}

// String renders bindings as "x = 0, y = 42", falling back to Raw when no
// bindings were extracted.
func (w *Witness) String() string {
	if len(w.Bindings) == 0 {
		return strings.TrimSpace(w.Raw)
	}
	parts := make([]string, len(w.Bindings))
	for i, b := range w.Bindings {
		parts[i] = b.Name + " = " + b.Value
	}
	return strings.Join(parts, ", ")
}

// Value returns the assignment for a variable name, if present.
func (w *Witness) Value(name string) (string, bool) {
	for _, b := range w.Bindings {
		if b.Name == name {
			return b.Value, true
		}
	}
	return "", false
}
