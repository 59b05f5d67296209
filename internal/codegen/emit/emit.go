// Package emit translates the schema IR into the abstract code
// representation consumed by the language backends.
package emit

import (
	"fmt"
	"strings"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/schema"
)

// Emitter maps IR entities to declarations
type Emitter struct {
	types *TypeMap
}

// New creates an Emitter. A nil TypeMap means DefaultTypeMap.
func New(types *TypeMap) *Emitter {
	if types == nil {
		types = DefaultTypeMap()
	}
	return &Emitter{types: types}
}

// Emit produces all records, then all enumerations, then all interfaces,
// each in build order.
func (e *Emitter) Emit(s *schema.Schema) (*decl.File, error) {
	file := &decl.File{
		Records:      make([]decl.Record, 0, len(s.Messages)),
		Enumerations: make([]decl.Enumeration, 0, len(s.Enums)),
		Interfaces:   make([]decl.Interface, 0, len(s.Services)),
	}

	for _, msg := range s.Messages {
		rec, err := e.record(msg)
		if err != nil {
			return nil, err
		}
		file.Records = append(file.Records, rec)
	}

	for _, en := range s.Enums {
		file.Enumerations = append(file.Enumerations, enumeration(en))
	}

	for _, svc := range s.Services {
		file.Interfaces = append(file.Interfaces, iface(svc))
	}

	return file, nil
}

func (e *Emitter) record(msg schema.Message) (decl.Record, error) {
	rec := decl.Record{Name: msg.Name, Members: make([]decl.Member, 0, len(msg.Fields))}
	for _, f := range msg.Fields {
		kind, ok := e.types.Lookup(f.TypeName)
		if !ok {
			if e.types.Policy == PolicyReject {
				return decl.Record{}, schema.NewTypeError(
					schema.ViolationUnknownType,
					fmt.Sprintf("message.%s.%d", msg.Name, f.Tag),
					"unknown field type %q (known: %s)", f.TypeName, strings.Join(e.types.Names(), ", "),
				)
			}
			kind = decl.TypeUnknown
		}
		rec.Members = append(rec.Members, decl.Member{
			Name: f.Name,
			Tag:  f.Tag,
			Type: decl.Type{Kind: kind, Source: f.TypeName},
		})
	}
	return rec, nil
}

func enumeration(en schema.Enum) decl.Enumeration {
	out := decl.Enumeration{
		Name:     en.Name,
		Width:    decl.EnumWidth,
		Variants: make([]decl.Discriminant, 0, len(en.Variants)),
	}
	for _, v := range en.Variants {
		out.Variants = append(out.Variants, decl.Discriminant{Name: v.Name, Value: v.Value})
	}
	return out
}

func iface(svc schema.Service) decl.Interface {
	out := decl.Interface{Name: svc.Name, Methods: make([]decl.Signature, 0, len(svc.Methods))}
	for _, m := range svc.Methods {
		out.Methods = append(out.Methods, decl.Signature{
			Name:   m.Name,
			Input:  typeRef(m.Input),
			Output: typeRef(m.Output),
			Async:  true,
		})
	}
	return out
}

func typeRef(ref schema.EntityRef) decl.TypeRef {
	kind := decl.RefRecord
	if ref.Kind == schema.KindEnum {
		kind = decl.RefEnumeration
	}
	return decl.TypeRef{Kind: kind, Name: ref.Name}
}
