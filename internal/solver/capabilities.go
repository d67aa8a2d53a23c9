package solver

// Capabilities is the structured self-description a backend publishes for
// tooling layers: which theories it speaks, which operations translate
// natively, and what performance envelope to expect. It never gates the
// verification hot path.
type Capabilities struct {
	Solver      Metadata                    `json:"solver"`
	Theories    []string                    `json:"theories"`
	Operations  map[string]OperationSupport `json:"operations"`
	Features    FeatureFlags                `json:"features"`
	Performance PerformanceHints            `json:"performance"`
}

// Metadata identifies the backend.
type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// OperationSupport describes how one operation name is handled. Native is
// false when the backend encodes the operation instead of mapping it onto a
// built-in; Reason then says why, and Alternatives suggests native spellings.
type OperationSupport struct {
	Arity        int      `json:"arity"`
	Theory       string   `json:"theory"`
	Native       bool     `json:"native"`
	Reason       string   `json:"reason,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// FeatureFlags lists the optional backend features.
type FeatureFlags struct {
	Quantifiers            bool `json:"quantifiers"`
	UninterpretedFunctions bool `json:"uninterpreted_functions"`
	RecursiveFunctions     bool `json:"recursive_functions"`
	Evaluation             bool `json:"evaluation"`
	Simplification         bool `json:"simplification"`
	ProofGeneration        bool `json:"proof_generation"`
}

// PerformanceHints bounds what callers should expect from one backend
// instance.
type PerformanceHints struct {
	MaxAxioms int `json:"max_axioms"`
	TimeoutMS int `json:"timeout_ms"`
}

// DefaultPerformance matches the envelope of the reference configuration.
func DefaultPerformance() PerformanceHints {
	return PerformanceHints{MaxAxioms: 10000, TimeoutMS: 5000}
}
