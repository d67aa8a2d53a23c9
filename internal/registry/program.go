package registry

import "github.com/kleis-lang/kleis/internal/ast"

// FromProgram builds a registry from a complete parsed program. Declarations
// are registered in program order; the first structure registration error
// aborts.
func FromProgram(prog *ast.Program) (*Registry, error) {
	r := New()
	for _, s := range prog.Structures {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	for _, im := range prog.Implements {
		r.RegisterImplements(im)
	}
	for _, f := range prog.Functions {
		r.RegisterFunction(f)
	}
	for _, d := range prog.DataTypes {
		r.RegisterDataType(d)
	}
	for _, a := range prog.Aliases {
		r.RegisterAlias(a)
	}
	for _, o := range prog.Operations {
		r.RegisterOperation(o)
	}
	return r, nil
}
