package verifier

import (
	"fmt"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// ensureLoaded walks the goal expression for referenced names, resolves
// each to its owning structures, and loads those structures plus their
// transitive dependencies into the backend. Bare object references are
// included so a goal mentioning a distinguished element (Monoid's e, say)
// pulls in the axioms that give the element its meaning.
func (v *Verifier) ensureLoaded(expr ast.Expression) error {
	for _, op := range ast.ReferencedNames(expr) {
		for _, owner := range v.reg.OperationOwners(op) {
			if err := v.loadStructure(owner, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadStructure asserts one structure's elements and axioms after loading
// everything it depends on. The loaded mark is set before recursing so
// mutually referential structures terminate. Assertions are trialed inside
// a solver scope first; only a structure whose whole body translates is
// asserted into the base level.
func (v *Verifier) loadStructure(name, referencedBy string) error {
	if v.loaded[name] {
		return nil
	}
	def, ok := v.reg.Structure(name)
	if !ok {
		return &UnresolvedReferenceError{Structure: name, ReferencedBy: referencedBy}
	}
	v.loaded[name] = true

	for _, c := range v.reg.WhereConstraints(name) {
		if err := v.loadStructure(c.Structure, name); err != nil {
			delete(v.loaded, name)
			return err
		}
	}
	if def.Extends != nil {
		parent := ast.HeadName(def.Extends)
		if parent != "" {
			if err := v.loadStructure(parent, name); err != nil {
				delete(v.loaded, name)
				return err
			}
		}
	}
	if def.Over != nil {
		// An over clause may name a structure (Module over Ring) or a plain
		// carrier type; only the former pulls in dependencies.
		if over := ast.HeadName(def.Over); over != "" {
			if _, isStructure := v.reg.Structure(over); isStructure {
				if err := v.loadStructure(over, name); err != nil {
					delete(v.loaded, name)
					return err
				}
			}
		}
	}

	elems := collectElements(def.Members)
	axioms := collectAxioms(def.Members)

	if v.cfg.MaxAxioms > 0 && v.axiomCount+len(axioms) > v.cfg.MaxAxioms {
		delete(v.loaded, name)
		return &AxiomLimitError{Limit: v.cfg.MaxAxioms}
	}

	// Trial scope: a structure with an untranslatable axiom must leave no
	// partial assertions behind.
	v.backend.Push()
	err := v.assertStructure(name, elems, axioms)
	v.backend.Pop()
	if err != nil {
		delete(v.loaded, name)
		return fmt.Errorf("loading structure '%s': %w", name, err)
	}

	if err := v.assertStructure(name, elems, axioms); err != nil {
		delete(v.loaded, name)
		return fmt.Errorf("loading structure '%s': %w", name, err)
	}
	v.axiomCount += len(axioms)
	v.consistencyChecked = false
	return nil
}

func (v *Verifier) assertStructure(name string, elems []solver.IdentityElement, axioms []namedAxiom) error {
	if len(elems) > 0 {
		if err := v.backend.DeclareIdentityElements(name, elems); err != nil {
			return err
		}
	}
	for _, ax := range axioms {
		if err := v.backend.AssertAxiom(ax.name, ax.prop); err != nil {
			return err
		}
	}
	return nil
}

type namedAxiom struct {
	name string
	prop ast.Expression
}

func collectElements(members []ast.StructureMember) []solver.IdentityElement {
	var elems []solver.IdentityElement
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.ElementMember:
			elems = append(elems, solver.IdentityElement{Name: mm.Name, Type: mm.Type})
		case *ast.NestedMember:
			elems = append(elems, collectElements(mm.Members)...)
		}
	}
	return elems
}

func collectAxioms(members []ast.StructureMember) []namedAxiom {
	var axioms []namedAxiom
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.AxiomMember:
			axioms = append(axioms, namedAxiom{name: mm.Name, prop: mm.Proposition})
		case *ast.NestedMember:
			axioms = append(axioms, collectAxioms(mm.Members)...)
		}
	}
	return axioms
}
