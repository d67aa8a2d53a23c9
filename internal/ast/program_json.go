package ast

import (
	"encoding/json"
	"fmt"
)

type jsonProgram struct {
	Structures []jsonStructure  `json:"structures,omitempty"`
	Implements []jsonImplements `json:"implements,omitempty"`
	Functions  []jsonFunction   `json:"functions,omitempty"`
	DataTypes  []jsonData       `json:"data_types,omitempty"`
	Aliases    []jsonAlias      `json:"type_aliases,omitempty"`
	Operations []jsonOpDecl     `json:"operations,omitempty"`
}

type jsonStructure struct {
	Name       string          `json:"name"`
	TypeParams []jsonTypeParam `json:"type_params,omitempty"`
	Extends    *jsonType       `json:"extends,omitempty"`
	Over       *jsonType       `json:"over,omitempty"`
	Members    []jsonMember    `json:"members,omitempty"`
}

type jsonTypeParam struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type jsonMember struct {
	Kind      string       `json:"kind"` // operation | element | axiom | structure
	Name      string       `json:"name"`
	Signature *jsonType    `json:"signature,omitempty"`
	Type      *jsonType    `json:"type,omitempty"`
	Prop      *jsonExpr    `json:"proposition,omitempty"`
	Members   []jsonMember `json:"members,omitempty"`
}

type jsonImplements struct {
	Structure string           `json:"structure"`
	TypeArgs  []jsonType       `json:"type_args,omitempty"`
	Where     []jsonConstraint `json:"where,omitempty"`
	Bindings  []jsonFunction   `json:"bindings,omitempty"`
}

type jsonConstraint struct {
	Structure string     `json:"structure"`
	TypeArgs  []jsonType `json:"type_args,omitempty"`
}

type jsonFunction struct {
	Name   string    `json:"name"`
	Params []string  `json:"params,omitempty"`
	Type   *jsonType `json:"type,omitempty"`
	Body   jsonExpr  `json:"body"`
}

type jsonData struct {
	Name       string          `json:"name"`
	TypeParams []jsonTypeParam `json:"type_params,omitempty"`
	Variants   []jsonVariant   `json:"variants"`
}

type jsonVariant struct {
	Name   string      `json:"name"`
	Fields []jsonField `json:"fields,omitempty"`
}

type jsonField struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
}

type jsonAlias struct {
	Name   string          `json:"name"`
	Params []jsonTypeParam `json:"params,omitempty"`
	Type   jsonType        `json:"type"`
}

type jsonOpDecl struct {
	Name      string   `json:"name"`
	Signature jsonType `json:"signature"`
}

// MarshalJSON encodes the program into the tagged interchange form.
func (p Program) MarshalJSON() ([]byte, error) {
	jp := jsonProgram{}
	for _, s := range p.Structures {
		jp.Structures = append(jp.Structures, structureToJSON(&s))
	}
	for _, im := range p.Implements {
		jim := jsonImplements{Structure: im.StructureName}
		for _, t := range im.TypeArgs {
			jim.TypeArgs = append(jim.TypeArgs, *typeToJSON(t))
		}
		for _, c := range im.Where {
			jc := jsonConstraint{Structure: c.Structure}
			for _, t := range c.TypeArgs {
				jc.TypeArgs = append(jc.TypeArgs, *typeToJSON(t))
			}
			jim.Where = append(jim.Where, jc)
		}
		for _, f := range im.Bindings {
			jim.Bindings = append(jim.Bindings, functionToJSON(&f))
		}
		jp.Implements = append(jp.Implements, jim)
	}
	for _, f := range p.Functions {
		jp.Functions = append(jp.Functions, functionToJSON(&f))
	}
	for _, d := range p.DataTypes {
		jd := jsonData{Name: d.Name}
		for _, tp := range d.TypeParams {
			jd.TypeParams = append(jd.TypeParams, jsonTypeParam(tp))
		}
		for _, v := range d.Variants {
			jv := jsonVariant{Name: v.Name}
			for _, f := range v.Fields {
				jv.Fields = append(jv.Fields, jsonField{Name: f.Name, Type: *typeToJSON(f.Type)})
			}
			jd.Variants = append(jd.Variants, jv)
		}
		jp.DataTypes = append(jp.DataTypes, jd)
	}
	for _, a := range p.Aliases {
		ja := jsonAlias{Name: a.Name, Type: *typeToJSON(a.Type)}
		for _, tp := range a.Params {
			ja.Params = append(ja.Params, jsonTypeParam(tp))
		}
		jp.Aliases = append(jp.Aliases, ja)
	}
	for _, o := range p.Operations {
		jp.Operations = append(jp.Operations, jsonOpDecl{Name: o.Name, Signature: *typeToJSON(o.Signature)})
	}
	return json.Marshal(jp)
}

// UnmarshalJSON decodes the tagged interchange form.
func (p *Program) UnmarshalJSON(data []byte) error {
	var jp jsonProgram
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	*p = Program{}
	for i := range jp.Structures {
		s, err := structureFromJSON(&jp.Structures[i])
		if err != nil {
			return err
		}
		p.Structures = append(p.Structures, *s)
	}
	for i := range jp.Implements {
		jim := &jp.Implements[i]
		im := ImplementsDef{StructureName: jim.Structure}
		for j := range jim.TypeArgs {
			t, err := typeFromJSON(&jim.TypeArgs[j])
			if err != nil {
				return err
			}
			im.TypeArgs = append(im.TypeArgs, t)
		}
		for j := range jim.Where {
			jc := &jim.Where[j]
			c := Constraint{Structure: jc.Structure}
			for k := range jc.TypeArgs {
				t, err := typeFromJSON(&jc.TypeArgs[k])
				if err != nil {
					return err
				}
				c.TypeArgs = append(c.TypeArgs, t)
			}
			im.Where = append(im.Where, c)
		}
		for j := range jim.Bindings {
			f, err := functionFromJSON(&jim.Bindings[j])
			if err != nil {
				return err
			}
			im.Bindings = append(im.Bindings, *f)
		}
		p.Implements = append(p.Implements, im)
	}
	for i := range jp.Functions {
		f, err := functionFromJSON(&jp.Functions[i])
		if err != nil {
			return err
		}
		p.Functions = append(p.Functions, *f)
	}
	for i := range jp.DataTypes {
		jd := &jp.DataTypes[i]
		d := DataDef{Name: jd.Name}
		for _, tp := range jd.TypeParams {
			d.TypeParams = append(d.TypeParams, TypeParam(tp))
		}
		for j := range jd.Variants {
			jv := &jd.Variants[j]
			v := DataVariant{Name: jv.Name}
			for k := range jv.Fields {
				t, err := typeFromJSON(&jv.Fields[k].Type)
				if err != nil {
					return err
				}
				v.Fields = append(v.Fields, DataField{Name: jv.Fields[k].Name, Type: t})
			}
			d.Variants = append(d.Variants, v)
		}
		p.DataTypes = append(p.DataTypes, d)
	}
	for i := range jp.Aliases {
		ja := &jp.Aliases[i]
		t, err := typeFromJSON(&ja.Type)
		if err != nil {
			return err
		}
		a := TypeAlias{Name: ja.Name, Type: t}
		for _, tp := range ja.Params {
			a.Params = append(a.Params, TypeParam(tp))
		}
		p.Aliases = append(p.Aliases, a)
	}
	for i := range jp.Operations {
		jo := &jp.Operations[i]
		t, err := typeFromJSON(&jo.Signature)
		if err != nil {
			return err
		}
		p.Operations = append(p.Operations, OperationDecl{Name: jo.Name, Signature: t})
	}
	return nil
}

func structureToJSON(s *StructureDef) jsonStructure {
	js := jsonStructure{
		Name:    s.Name,
		Extends: typeToJSON(s.Extends),
		Over:    typeToJSON(s.Over),
	}
	for _, tp := range s.TypeParams {
		js.TypeParams = append(js.TypeParams, jsonTypeParam(tp))
	}
	js.Members = membersToJSON(s.Members)
	return js
}

func membersToJSON(members []StructureMember) []jsonMember {
	var out []jsonMember
	for _, m := range members {
		switch mm := m.(type) {
		case *OperationMember:
			out = append(out, jsonMember{Kind: "operation", Name: mm.Name, Signature: typeToJSON(mm.Signature)})
		case *ElementMember:
			out = append(out, jsonMember{Kind: "element", Name: mm.Name, Type: typeToJSON(mm.Type)})
		case *AxiomMember:
			out = append(out, jsonMember{Kind: "axiom", Name: mm.Name, Prop: exprToJSON(mm.Proposition)})
		case *NestedMember:
			out = append(out, jsonMember{
				Kind:    "structure",
				Name:    mm.Name,
				Type:    typeToJSON(mm.StructureType),
				Members: membersToJSON(mm.Members),
			})
		}
	}
	return out
}

func structureFromJSON(js *jsonStructure) (*StructureDef, error) {
	extends, err := typeFromJSON(js.Extends)
	if err != nil {
		return nil, err
	}
	over, err := typeFromJSON(js.Over)
	if err != nil {
		return nil, err
	}
	s := &StructureDef{Name: js.Name, Extends: extends, Over: over}
	for _, tp := range js.TypeParams {
		s.TypeParams = append(s.TypeParams, TypeParam(tp))
	}
	s.Members, err = membersFromJSON(js.Members)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func membersFromJSON(jms []jsonMember) ([]StructureMember, error) {
	var out []StructureMember
	for i := range jms {
		jm := &jms[i]
		switch jm.Kind {
		case "operation":
			sig, err := typeFromJSON(jm.Signature)
			if err != nil {
				return nil, err
			}
			out = append(out, &OperationMember{Name: jm.Name, Signature: sig})
		case "element":
			t, err := typeFromJSON(jm.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, &ElementMember{Name: jm.Name, Type: t})
		case "axiom":
			prop, err := exprFromJSON(jm.Prop)
			if err != nil {
				return nil, err
			}
			out = append(out, &AxiomMember{Name: jm.Name, Proposition: prop})
		case "structure":
			t, err := typeFromJSON(jm.Type)
			if err != nil {
				return nil, err
			}
			inner, err := membersFromJSON(jm.Members)
			if err != nil {
				return nil, err
			}
			out = append(out, &NestedMember{Name: jm.Name, StructureType: t, Members: inner})
		default:
			return nil, fmt.Errorf("unknown member kind %q", jm.Kind)
		}
	}
	return out, nil
}

func functionToJSON(f *FunctionDef) jsonFunction {
	return jsonFunction{
		Name:   f.Name,
		Params: f.Params,
		Type:   typeToJSON(f.TypeAnnotation),
		Body:   *exprToJSON(f.Body),
	}
}

func functionFromJSON(jf *jsonFunction) (*FunctionDef, error) {
	t, err := typeFromJSON(jf.Type)
	if err != nil {
		return nil, err
	}
	body, err := exprFromJSON(&jf.Body)
	if err != nil {
		return nil, err
	}
	return &FunctionDef{Name: jf.Name, Params: jf.Params, TypeAnnotation: t, Body: body}, nil
}
