package z3

import (
	"sort"
	"strings"

	"github.com/kleis-lang/kleis/internal/solver"
)

// witnessFor reads the goal's free constants back out of the solver's
// current model. Each constant is evaluated with model completion, so a
// variable the solver simplified out of its assertions still gets a value.
// Interpreted constants the model mentions beyond the goal's own variables
// are appended when they are not internal helpers.
func (b *Backend) witnessFor(vars []goalConst) *solver.Witness {
	model := b.slv.Model()
	if model == nil {
		return nil
	}
	var bindings []solver.WitnessBinding
	bound := make(map[string]bool, len(vars))
	for _, v := range vars {
		if bound[v.name] {
			continue
		}
		val, ok := model.Eval(v.expr, true)
		if !ok || val == nil {
			continue
		}
		bound[v.name] = true
		bindings = append(bindings, solver.WitnessBinding{Name: v.name, Value: val.String()})
	}
	for i := uint(0); i < model.NumConsts(); i++ {
		decl := model.GetConstDecl(i)
		name := decl.GetName().String()
		if strings.HasPrefix(name, "kleis.") {
			continue
		}
		disp := displayName(name)
		if bound[disp] {
			continue
		}
		interp := model.GetConstInterp(decl)
		if interp == nil {
			continue
		}
		bound[disp] = true
		bindings = append(bindings, solver.WitnessBinding{Name: disp, Value: interp.String()})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Name < bindings[j].Name })
	return &solver.Witness{Bindings: bindings, Raw: model.String()}
}

// modelWitness converts the solver's current model into a witness with
// sorted name/value bindings. Internal helper symbols are filtered out and
// fresh-constant suffixes are stripped so the bindings read in source terms.
func (b *Backend) modelWitness() *solver.Witness {
	model := b.slv.Model()
	if model == nil {
		return nil
	}
	var bindings []solver.WitnessBinding
	for i := uint(0); i < model.NumConsts(); i++ {
		decl := model.GetConstDecl(i)
		name := decl.GetName().String()
		if strings.HasPrefix(name, "kleis.") {
			continue
		}
		interp := model.GetConstInterp(decl)
		if interp == nil {
			continue
		}
		bindings = append(bindings, solver.WitnessBinding{
			Name:  displayName(name),
			Value: interp.String(),
		})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Name < bindings[j].Name })
	return &solver.Witness{Bindings: bindings, Raw: model.String()}
}

// displayName strips the "!n" disambiguation suffix added to fresh
// constants, so "x!3" reports as "x".
func displayName(name string) string {
	i := strings.LastIndexByte(name, '!')
	if i <= 0 {
		return name
	}
	suffix := name[i+1:]
	if suffix == "" {
		return name
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:i]
}
