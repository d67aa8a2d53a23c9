package z3

import (
	z3api "github.com/Z3Prover/z3/src/api/go"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/solver"
)

// declareUninterpreted returns the function declaration for an operation
// with no native translation. The registry signature, when present, fixes
// the domain and range sorts; otherwise the actual operand sorts are used
// with an Int range.
func (b *Backend) declareUninterpreted(name string, args []*term) (*z3api.FuncDecl, error) {
	if decl, ok := b.funcs[name]; ok {
		if decl.GetArity() != len(args) {
			return nil, solver.Translationf(name,
				"operation '%s' declared with arity %d, applied to %d arguments",
				name, decl.GetArity(), len(args))
		}
		return decl, nil
	}

	var domains []*z3api.Sort
	rangeSort := b.intSort
	if b.reg != nil {
		if sig, ok := b.reg.OperationSignature(name); ok {
			argTypes, retType := extractSignatureTypes(sig)
			if len(argTypes) == len(args) {
				for _, at := range argTypes {
					sort, _ := b.typeExprToSort(at)
					domains = append(domains, sort)
				}
				rangeSort, _ = b.typeExprToSort(retType)
			}
		}
	}
	if domains == nil {
		for _, a := range args {
			domains = append(domains, a.expr.GetSort())
		}
	}
	decl := b.ctx.MkFuncDecl(b.ctx.MkStringSymbol(name), domains, rangeSort)
	b.funcs[name] = decl
	return decl, nil
}

// applyUninterpreted declares (if needed) and applies the uninterpreted
// symbol, coercing Int literals toward Real domains. A genuinely mismatched
// argument sort is an error rather than a solver-level panic.
func (b *Backend) applyUninterpreted(name string, args []*term) (*term, error) {
	decl, err := b.declareUninterpreted(name, args)
	if err != nil {
		return nil, err
	}
	exprs := make([]*z3api.Expr, len(args))
	for i, a := range args {
		domain := decl.GetDomain(i)
		switch {
		case a.expr.GetSort().Equal(domain):
			exprs[i] = a.expr
		case domain.Equal(b.realSort):
			r, ok := a.asReal()
			if !ok {
				return nil, solver.Translationf(name,
					"operation '%s' expects %s at position %d, got %s",
					name, domain, i, a.expr.GetSort())
			}
			exprs[i] = r
		default:
			return nil, solver.Translationf(name,
				"operation '%s' expects %s at position %d, got %s",
				name, domain, i, a.expr.GetSort())
		}
	}
	return b.termOfSort(b.ctx.MkApp(decl, exprs...)), nil
}

// DefineFunction declares an uninterpreted symbol for a user-defined
// function and asserts ∀ params . f(params) = body. A nullary definition
// becomes a named constant pinned to its body.
func (b *Backend) DefineFunction(def *ast.FunctionDef) error {
	paramSorts := b.paramSorts(def)
	env := copyEnv(nil)
	bound := make([]*z3api.Expr, len(def.Params))
	for i, p := range def.Params {
		t := &term{expr: b.freshConst(p, paramSorts[i]), kind: b.sortKind(paramSorts[i])}
		env[p] = t
		bound[i] = t.expr
	}

	body, err := b.translate(def.Body, env)
	if err != nil {
		return solver.Translationf("", "function '%s': %s", def.Name, err)
	}

	if len(def.Params) == 0 {
		c := b.ctx.MkConst(b.ctx.MkStringSymbol(def.Name), body.expr.GetSort())
		b.slv.Assert(b.ctx.MkEq(c, body.expr))
		b.objects[def.Name] = &term{expr: c, kind: body.kind}
		return nil
	}

	decl := b.ctx.MkFuncDecl(b.ctx.MkStringSymbol(def.Name), paramSorts, body.expr.GetSort())
	b.funcs[def.Name] = decl
	app := b.ctx.MkApp(decl, bound...)
	eq := b.ctx.MkEq(app, body.expr)
	b.slv.Assert(b.ctx.MkQuantifierConst(true, 0, bound, eq, nil).AsExpr())
	return nil
}

// paramSorts derives parameter sorts from the function's type annotation
// when its uncurried arity matches, defaulting to Int.
func (b *Backend) paramSorts(def *ast.FunctionDef) []*z3api.Sort {
	sorts := make([]*z3api.Sort, len(def.Params))
	for i := range sorts {
		sorts[i] = b.intSort
	}
	if def.TypeAnnotation != nil {
		argTypes, _ := extractSignatureTypes(def.TypeAnnotation)
		if len(argTypes) == len(def.Params) {
			for i, at := range argTypes {
				sorts[i], _ = b.typeExprToSort(at)
			}
		}
	}
	return sorts
}

// applyConstructor builds a datatype value from a declared constructor.
func (b *Backend) applyConstructor(name string, ref ctorRef, args []*term) (*term, error) {
	variant := ref.dt.variants[ref.idx]
	if len(args) != len(variant.accessors) {
		return nil, solver.Translationf(name,
			"constructor '%s' expects %d arguments, got %d",
			name, len(variant.accessors), len(args))
	}
	return b.termOfSort(b.ctx.MkApp(variant.ctor, rawExprs(args)...)), nil
}

type dataType struct {
	name     string
	sort     *z3api.Sort
	variants []variantInfo
}

type variantInfo struct {
	name       string
	ctor       *z3api.FuncDecl
	recognizer *z3api.FuncDecl
	accessors  []*z3api.FuncDecl
}

type ctorRef struct {
	dt  *dataType
	idx int
}

// DeclareDataType lowers an algebraic data type to a Z3 datatype sort and
// indexes its constructors for pattern matching. Recursive fields refer
// back to the sort under construction.
func (b *Backend) DeclareDataType(def *ast.DataDef) error {
	if _, exists := b.dataTypes[def.Name]; exists {
		return nil
	}
	ctors := make([]*z3api.Constructor, len(def.Variants))
	for i, v := range def.Variants {
		fieldNames := make([]string, len(v.Fields))
		fieldSorts := make([]*z3api.Sort, len(v.Fields))
		fieldRefs := make([]uint, len(v.Fields))
		for j, f := range v.Fields {
			fieldNames[j] = f.Name
			if ast.HeadName(f.Type) == def.Name {
				fieldSorts[j] = nil
				fieldRefs[j] = 0
			} else {
				fieldSorts[j], _ = b.typeExprToSort(f.Type)
			}
		}
		ctors[i] = b.ctx.MkConstructor(v.Name, "is_"+v.Name, fieldNames, fieldSorts, fieldRefs)
	}
	sort := b.ctx.MkDatatypeSort(def.Name, ctors)

	dt := &dataType{name: def.Name, sort: sort}
	for i, v := range def.Variants {
		info := variantInfo{
			name:       v.Name,
			ctor:       b.ctx.GetDatatypeSortConstructor(sort, uint(i)),
			recognizer: b.ctx.GetDatatypeSortRecognizer(sort, uint(i)),
		}
		for j := range v.Fields {
			info.accessors = append(info.accessors,
				b.ctx.GetDatatypeSortConstructorAccessor(sort, uint(i), uint(j)))
		}
		dt.variants = append(dt.variants, info)
	}
	b.dataTypes[def.Name] = dt
	for i, v := range def.Variants {
		b.ctors[v.Name] = ctorRef{dt: dt, idx: i}
		if len(v.Fields) == 0 {
			// Nullary constructors double as named values in expressions.
			b.objects[v.Name] = b.termOfSort(b.ctx.MkApp(dt.variants[i].ctor))
		}
	}
	return nil
}

// DeclareIdentityElements declares each distinguished element as a constant
// under its source name and asserts pairwise distinctness among same-sorted
// elements of the structure, so e.g. zero ≠ one inside one field.
func (b *Backend) DeclareIdentityElements(structure string, elems []solver.IdentityElement) error {
	bySort := make(map[string][]*z3api.Expr)
	for _, el := range elems {
		t, ok := b.objects[el.Name]
		if !ok {
			sort, kind := b.typeExprToSort(el.Type)
			t = &term{expr: b.ctx.MkConst(b.ctx.MkStringSymbol(el.Name), sort), kind: kind}
			b.objects[el.Name] = t
		}
		key := t.expr.GetSort().String()
		bySort[key] = append(bySort[key], t.expr)
	}
	for _, group := range bySort {
		if len(group) >= 2 {
			b.slv.Assert(b.ctx.MkDistinct(group...))
		}
	}
	return nil
}
