// Package registry stores structure and implements declarations and answers
// the graph queries the dependency loader needs. It is pure data: no solver
// interaction, purely additive mutation, and safe to share read-only across
// verifier instances once construction is done.
package registry

import (
	"fmt"
	"sort"

	"github.com/kleis-lang/kleis/internal/ast"
)

// RegistrationError reports a rejected declaration.
type RegistrationError struct {
	Name    string
	Message string
}

func (e *RegistrationError) Error() string { return e.Message }

// Axiom is one named law together with its proposition.
type Axiom struct {
	Name        string
	Proposition ast.Expression
}

// Registry holds every registered declaration, keyed by name.
type Registry struct {
	structures  map[string]*ast.StructureDef
	implements  map[string][]*ast.ImplementsDef
	functions   map[string]*ast.FunctionDef
	dataTypes   map[string]*ast.DataDef
	aliases     map[string]*ast.TypeAlias
	toplevelOps map[string]ast.TypeExpr
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		structures:  make(map[string]*ast.StructureDef),
		implements:  make(map[string][]*ast.ImplementsDef),
		functions:   make(map[string]*ast.FunctionDef),
		dataTypes:   make(map[string]*ast.DataDef),
		aliases:     make(map[string]*ast.TypeAlias),
		toplevelOps: make(map[string]ast.TypeExpr),
	}
}

// Register adds a structure definition. A name collision is rejected so that
// later lookups stay deterministic.
func (r *Registry) Register(def ast.StructureDef) error {
	if _, exists := r.structures[def.Name]; exists {
		return &RegistrationError{
			Name:    def.Name,
			Message: fmt.Sprintf("Structure '%s' is already registered", def.Name),
		}
	}
	d := def
	r.structures[def.Name] = &d
	return nil
}

// RegisterImplements records an implements block under its structure name.
// Multiple blocks per structure accumulate.
func (r *Registry) RegisterImplements(def ast.ImplementsDef) {
	d := def
	r.implements[def.StructureName] = append(r.implements[def.StructureName], &d)
}

// RegisterFunction records a top-level function definition. Redefinition
// replaces the previous body.
func (r *Registry) RegisterFunction(def ast.FunctionDef) {
	d := def
	r.functions[def.Name] = &d
}

// RegisterDataType records an algebraic data type declaration.
func (r *Registry) RegisterDataType(def ast.DataDef) {
	d := def
	r.dataTypes[def.Name] = &d
}

// RegisterAlias records a type alias.
func (r *Registry) RegisterAlias(def ast.TypeAlias) {
	d := def
	r.aliases[def.Name] = &d
}

// RegisterOperation records a top-level operation declaration outside any
// structure.
func (r *Registry) RegisterOperation(decl ast.OperationDecl) {
	r.toplevelOps[decl.Name] = decl.Signature
}

// Structure returns the definition registered under name.
func (r *Registry) Structure(name string) (*ast.StructureDef, bool) {
	s, ok := r.structures[name]
	return s, ok
}

// Structures returns all registered structure names, sorted.
func (r *Registry) Structures() []string {
	names := make([]string, 0, len(r.structures))
	for n := range r.structures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Function returns the top-level function registered under name.
func (r *Registry) Function(name string) (*ast.FunctionDef, bool) {
	f, ok := r.functions[name]
	return f, ok
}

// Functions returns all registered function names, sorted.
func (r *Registry) Functions() []string {
	names := make([]string, 0, len(r.functions))
	for n := range r.functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DataType returns the data type registered under name.
func (r *Registry) DataType(name string) (*ast.DataDef, bool) {
	d, ok := r.dataTypes[name]
	return d, ok
}

// Alias returns the type alias registered under name.
func (r *Registry) Alias(name string) (*ast.TypeAlias, bool) {
	a, ok := r.aliases[name]
	return a, ok
}

// Axioms returns the axioms declared directly in the structure's own member
// list, in declaration order. Axioms of nested structures are not included.
func (r *Registry) Axioms(name string) []Axiom {
	s, ok := r.structures[name]
	if !ok {
		return nil
	}
	var out []Axiom
	for _, m := range s.Members {
		if ax, ok := m.(*ast.AxiomMember); ok {
			out = append(out, Axiom{Name: ax.Name, Proposition: ax.Proposition})
		}
	}
	return out
}

// HasAxiom reports whether the structure declares an axiom with this name
// directly.
func (r *Registry) HasAxiom(structure, axiom string) bool {
	for _, ax := range r.Axioms(structure) {
		if ax.Name == axiom {
			return true
		}
	}
	return false
}

// StructuresWithAxioms returns the names of all structures that declare at
// least one direct axiom, sorted.
func (r *Registry) StructuresWithAxioms() []string {
	var names []string
	for n := range r.structures {
		if len(r.Axioms(n)) > 0 {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// OperationSignature returns the declared signature of an operation or
// element. Structures are consulted first (including nested members), then
// top-level operation declarations.
func (r *Registry) OperationSignature(name string) (ast.TypeExpr, bool) {
	for _, structName := range r.Structures() {
		if sig, ok := findSignature(r.structures[structName].Members, name); ok {
			return sig, true
		}
	}
	if sig, ok := r.toplevelOps[name]; ok {
		return sig, true
	}
	return nil, false
}

func findSignature(members []ast.StructureMember, name string) (ast.TypeExpr, bool) {
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.OperationMember:
			if mm.Name == name {
				return mm.Signature, true
			}
		case *ast.ElementMember:
			if mm.Name == name {
				return mm.Type, true
			}
		case *ast.NestedMember:
			if sig, ok := findSignature(mm.Members, name); ok {
				return sig, true
			}
		}
	}
	return nil, false
}

// OperationOwners returns every structure (scanning nested members
// recursively) that declares an operation or element with this name, sorted.
// Nil when no structure declares it.
func (r *Registry) OperationOwners(name string) []string {
	var owners []string
	for structName, s := range r.structures {
		if declaresOperation(s.Members, name) {
			owners = append(owners, structName)
		}
	}
	if owners == nil {
		return nil
	}
	sort.Strings(owners)
	return owners
}

func declaresOperation(members []ast.StructureMember, name string) bool {
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.OperationMember:
			if mm.Name == name {
				return true
			}
		case *ast.ElementMember:
			if mm.Name == name {
				return true
			}
		case *ast.NestedMember:
			if declaresOperation(mm.Members, name) {
				return true
			}
		}
	}
	return false
}

// OperationCount returns the number of distinct operation and element names
// declared across all structures and top-level declarations.
func (r *Registry) OperationCount() int {
	seen := make(map[string]bool)
	for _, s := range r.structures {
		collectOperationNames(s.Members, seen)
	}
	for n := range r.toplevelOps {
		seen[n] = true
	}
	return len(seen)
}

func collectOperationNames(members []ast.StructureMember, seen map[string]bool) {
	for _, m := range members {
		switch mm := m.(type) {
		case *ast.OperationMember:
			seen[mm.Name] = true
		case *ast.ElementMember:
			seen[mm.Name] = true
		case *ast.NestedMember:
			collectOperationNames(mm.Members, seen)
		}
	}
}

// WhereConstraints returns the where-clause constraints of every implements
// block registered for the structure, flattened in registration order.
func (r *Registry) WhereConstraints(structure string) []ast.Constraint {
	var out []ast.Constraint
	for _, im := range r.implements[structure] {
		out = append(out, im.Where...)
	}
	return out
}

// Implements returns the implements blocks registered for a structure.
func (r *Registry) Implements(structure string) []*ast.ImplementsDef {
	return r.implements[structure]
}

// RemoveStructure deletes one structure and its implements blocks. Used by
// interactive sessions that redefine a structure.
func (r *Registry) RemoveStructure(name string) {
	delete(r.structures, name)
	delete(r.implements, name)
}

// Reset drops every registered declaration.
func (r *Registry) Reset() {
	*r = *New()
}
