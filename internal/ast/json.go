package ast

import (
	"encoding/json"
	"fmt"
)

// JSON interchange form. Every node is a tagged object: {"kind": ..., ...}.
// This is the format the CLI loads programs from; the surface parser emits
// the same shape.

type jsonExpr struct {
	Kind      string          `json:"kind"`
	Value     string          `json:"value,omitempty"`
	Name      string          `json:"name,omitempty"`
	Args      []jsonExpr      `json:"args,omitempty"`
	Vars      []jsonQuantVar  `json:"vars,omitempty"`
	Where     *jsonExpr       `json:"where,omitempty"`
	Body      *jsonExpr       `json:"body,omitempty"`
	Cond      *jsonExpr       `json:"cond,omitempty"`
	Then      *jsonExpr       `json:"then,omitempty"`
	Else      *jsonExpr       `json:"else,omitempty"`
	Bind      *jsonExpr       `json:"bind,omitempty"` // let value
	Scrutinee *jsonExpr       `json:"scrutinee,omitempty"`
	Cases     []jsonMatchCase `json:"cases,omitempty"`
	Elements  []jsonExpr      `json:"elements,omitempty"`
}

type jsonQuantVar struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type jsonMatchCase struct {
	Pattern jsonPattern `json:"pattern"`
	Body    jsonExpr    `json:"body"`
}

type jsonPattern struct {
	Kind  string        `json:"kind"`
	Name  string        `json:"name,omitempty"`
	Value string        `json:"value,omitempty"`
	Args  []jsonPattern `json:"args,omitempty"`
}

type jsonType struct {
	Kind  string     `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Args  []jsonType `json:"args,omitempty"`
	From  *jsonType  `json:"from,omitempty"`
	To    *jsonType  `json:"to,omitempty"`
	Elems []jsonType `json:"elems,omitempty"`
}

// MarshalExpression encodes an expression into the tagged JSON form.
func MarshalExpression(e Expression) ([]byte, error) {
	return json.Marshal(exprToJSON(e))
}

// UnmarshalExpression decodes the tagged JSON form into an expression.
func UnmarshalExpression(data []byte) (Expression, error) {
	var je jsonExpr
	if err := json.Unmarshal(data, &je); err != nil {
		return nil, err
	}
	return exprFromJSON(&je)
}

func exprToJSON(e Expression) *jsonExpr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *Const:
		return &jsonExpr{Kind: "const", Value: x.Value}
	case *Object:
		return &jsonExpr{Kind: "object", Name: x.Name}
	case *Operation:
		args := make([]jsonExpr, len(x.Args))
		for i, a := range x.Args {
			args[i] = *exprToJSON(a)
		}
		return &jsonExpr{Kind: "op", Name: x.Name, Args: args}
	case *Quantifier:
		vars := make([]jsonQuantVar, len(x.Vars))
		for i, v := range x.Vars {
			vars[i] = jsonQuantVar{Name: v.Name, Type: v.TypeAnnotation}
		}
		return &jsonExpr{
			Kind:  x.Kind.String(),
			Vars:  vars,
			Where: exprToJSON(x.Where),
			Body:  exprToJSON(x.Body),
		}
	case *Conditional:
		return &jsonExpr{Kind: "if", Cond: exprToJSON(x.Cond), Then: exprToJSON(x.Then), Else: exprToJSON(x.Else)}
	case *Let:
		return &jsonExpr{Kind: "let", Name: x.Name, Bind: exprToJSON(x.Value), Body: exprToJSON(x.Body)}
	case *Match:
		cases := make([]jsonMatchCase, len(x.Cases))
		for i, c := range x.Cases {
			cases[i] = jsonMatchCase{Pattern: *patternToJSON(c.Pattern), Body: *exprToJSON(c.Body)}
		}
		return &jsonExpr{Kind: "match", Scrutinee: exprToJSON(x.Scrutinee), Cases: cases}
	case *List:
		elems := make([]jsonExpr, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = *exprToJSON(el)
		}
		return &jsonExpr{Kind: "list", Elements: elems}
	default:
		return nil
	}
}

func exprFromJSON(je *jsonExpr) (Expression, error) {
	if je == nil {
		return nil, nil
	}
	switch je.Kind {
	case "const":
		return &Const{Value: je.Value}, nil
	case "object":
		return &Object{Name: je.Name}, nil
	case "op":
		args := make([]Expression, len(je.Args))
		for i := range je.Args {
			a, err := exprFromJSON(&je.Args[i])
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &Operation{Name: je.Name, Args: args}, nil
	case "forall", "exists":
		kind := ForAll
		if je.Kind == "exists" {
			kind = Exists
		}
		vars := make([]QuantifiedVar, len(je.Vars))
		for i, v := range je.Vars {
			vars[i] = QuantifiedVar{Name: v.Name, TypeAnnotation: v.Type}
		}
		where, err := exprFromJSON(je.Where)
		if err != nil {
			return nil, err
		}
		body, err := exprFromJSON(je.Body)
		if err != nil {
			return nil, err
		}
		return &Quantifier{Kind: kind, Vars: vars, Where: where, Body: body}, nil
	case "if":
		cond, err := exprFromJSON(je.Cond)
		if err != nil {
			return nil, err
		}
		then, err := exprFromJSON(je.Then)
		if err != nil {
			return nil, err
		}
		els, err := exprFromJSON(je.Else)
		if err != nil {
			return nil, err
		}
		return &Conditional{Cond: cond, Then: then, Else: els}, nil
	case "let":
		value, err := exprFromJSON(je.Bind)
		if err != nil {
			return nil, err
		}
		body, err := exprFromJSON(je.Body)
		if err != nil {
			return nil, err
		}
		return &Let{Name: je.Name, Value: value, Body: body}, nil
	case "match":
		scrutinee, err := exprFromJSON(je.Scrutinee)
		if err != nil {
			return nil, err
		}
		cases := make([]MatchCase, len(je.Cases))
		for i, c := range je.Cases {
			p, err := patternFromJSON(&c.Pattern)
			if err != nil {
				return nil, err
			}
			b, err := exprFromJSON(&c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = MatchCase{Pattern: p, Body: b}
		}
		return &Match{Scrutinee: scrutinee, Cases: cases}, nil
	case "list":
		elems := make([]Expression, len(je.Elements))
		for i := range je.Elements {
			el, err := exprFromJSON(&je.Elements[i])
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return &List{Elements: elems}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", je.Kind)
	}
}

func patternToJSON(p Pattern) *jsonPattern {
	switch x := p.(type) {
	case *WildcardPattern:
		return &jsonPattern{Kind: "wildcard"}
	case *VariablePattern:
		return &jsonPattern{Kind: "var", Name: x.Name}
	case *ConstantPattern:
		return &jsonPattern{Kind: "const", Value: x.Value}
	case *ConstructorPattern:
		args := make([]jsonPattern, len(x.Args))
		for i, a := range x.Args {
			args[i] = *patternToJSON(a)
		}
		return &jsonPattern{Kind: "ctor", Name: x.Name, Args: args}
	default:
		return nil
	}
}

func patternFromJSON(jp *jsonPattern) (Pattern, error) {
	switch jp.Kind {
	case "wildcard":
		return &WildcardPattern{}, nil
	case "var":
		return &VariablePattern{Name: jp.Name}, nil
	case "const":
		return &ConstantPattern{Value: jp.Value}, nil
	case "ctor":
		args := make([]Pattern, len(jp.Args))
		for i := range jp.Args {
			a, err := patternFromJSON(&jp.Args[i])
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &ConstructorPattern{Name: jp.Name, Args: args}, nil
	default:
		return nil, fmt.Errorf("unknown pattern kind %q", jp.Kind)
	}
}

func typeToJSON(t TypeExpr) *jsonType {
	if t == nil {
		return nil
	}
	switch x := t.(type) {
	case *NamedType:
		return &jsonType{Kind: "named", Name: x.Name}
	case *ParamType:
		args := make([]jsonType, len(x.Args))
		for i, a := range x.Args {
			args[i] = *typeToJSON(a)
		}
		return &jsonType{Kind: "param", Name: x.Name, Args: args}
	case *FuncType:
		return &jsonType{Kind: "func", From: typeToJSON(x.From), To: typeToJSON(x.To)}
	case *ProductType:
		elems := make([]jsonType, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = *typeToJSON(e)
		}
		return &jsonType{Kind: "product", Elems: elems}
	case *TypeVar:
		return &jsonType{Kind: "var", Name: x.Name}
	default:
		return nil
	}
}

func typeFromJSON(jt *jsonType) (TypeExpr, error) {
	if jt == nil {
		return nil, nil
	}
	switch jt.Kind {
	case "named":
		return &NamedType{Name: jt.Name}, nil
	case "param":
		args := make([]TypeExpr, len(jt.Args))
		for i := range jt.Args {
			a, err := typeFromJSON(&jt.Args[i])
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &ParamType{Name: jt.Name, Args: args}, nil
	case "func":
		from, err := typeFromJSON(jt.From)
		if err != nil {
			return nil, err
		}
		to, err := typeFromJSON(jt.To)
		if err != nil {
			return nil, err
		}
		return &FuncType{From: from, To: to}, nil
	case "product":
		elems := make([]TypeExpr, len(jt.Elems))
		for i := range jt.Elems {
			e, err := typeFromJSON(&jt.Elems[i])
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return &ProductType{Elems: elems}, nil
	case "var":
		return &TypeVar{Name: jt.Name}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", jt.Kind)
	}
}
