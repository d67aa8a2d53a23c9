package solver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CheckVersion verifies that the backend's reported solver version satisfies
// a semver constraint such as ">= 4.8". Deployments pin a minimum solver
// version this way before trusting results.
func CheckVersion(caps Capabilities, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(caps.Solver.Version)
	if err != nil {
		return fmt.Errorf("backend %s reports unparseable version %q: %w",
			caps.Solver.Name, caps.Solver.Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("backend %s version %s does not satisfy %q",
			caps.Solver.Name, v, constraint)
	}
	return nil
}
