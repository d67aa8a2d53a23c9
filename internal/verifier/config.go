package verifier

import "time"

// Config tunes one Verifier. The zero value is not useful; start from
// DefaultConfig.
type Config struct {
	// Timeout bounds each individual solver query.
	Timeout time.Duration
	// MaxAxioms caps how many background axioms may be loaded before
	// verification refuses to grow the theory further.
	MaxAxioms int
	// ConsistencyCheck controls whether the background theory is checked
	// for satisfiability before goals are verified against it.
	ConsistencyCheck bool
}

// DefaultConfig mirrors the backend's default performance envelope.
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		MaxAxioms:        10000,
		ConsistencyCheck: true,
	}
}
