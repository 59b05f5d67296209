// Package protobuf renders declarations as a proto3 file. The file is first
// assembled as a FileDescriptorProto and validated with protodesc, so the
// printed text is known to describe a well-formed proto3 file.
package protobuf

import (
	"fmt"
	"math"
	"strings"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/writer"
	"github.com/okra-platform/tomlrpc/internal/naming"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// DefaultPackage is the proto package used when none is configured
const DefaultPackage = "tomlrpc"

// Generator generates protobuf definitions from the declarations
type Generator struct {
	packageName string
}

// NewGenerator creates a new protobuf generator
func NewGenerator(packageName string) *Generator {
	return &Generator{
		packageName: packageName,
	}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "protobuf"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".proto"
}

// Generate builds, validates and prints the proto3 file
func (g *Generator) Generate(file *decl.File) ([]byte, error) {
	fd, notes, err := g.Descriptor(file)
	if err != nil {
		return nil, err
	}
	return render(fd, notes), nil
}

// Descriptor builds the validated file descriptor for the declarations. The
// returned notes map "Message.field" to a comment printed next to the field.
func (g *Generator) Descriptor(file *decl.File) (*descriptorpb.FileDescriptorProto, map[string]string, error) {
	pkg := g.packageName
	if pkg == "" {
		pkg = DefaultPackage
	}

	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(strings.ReplaceAll(pkg, ".", "/") + ".proto"),
		Package: proto.String(pkg),
		Syntax:  proto.String("proto3"),
	}
	notes := make(map[string]string)

	records := make(map[string]bool, len(file.Records))
	for _, rec := range file.Records {
		records[rec.Name] = true
		md, err := message(rec, notes)
		if err != nil {
			return nil, nil, err
		}
		fd.MessageType = append(fd.MessageType, md)
	}

	// proto rpcs only take messages, so enum payloads get a wrapper
	wrapped := make(map[string]string)
	for _, iface := range file.Interfaces {
		for _, m := range iface.Methods {
			for _, ref := range []decl.TypeRef{m.Input, m.Output} {
				if ref.Kind != decl.RefEnumeration || wrapped[ref.Name] != "" {
					continue
				}
				name := ref.Name + "Value"
				if records[name] {
					return nil, nil, fmt.Errorf("cannot wrap enum %s for rpc use: message %s already exists", ref.Name, name)
				}
				wrapped[ref.Name] = name
				fd.MessageType = append(fd.MessageType, &descriptorpb.DescriptorProto{
					Name: proto.String(name),
					Field: []*descriptorpb.FieldDescriptorProto{{
						Name:     proto.String("value"),
						Number:   proto.Int32(1),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
						TypeName: proto.String(qualified(pkg, ref.Name)),
					}},
				})
			}
		}
	}

	for _, en := range file.Enumerations {
		ed, err := enum(en)
		if err != nil {
			return nil, nil, err
		}
		fd.EnumType = append(fd.EnumType, ed)
	}

	for _, iface := range file.Interfaces {
		sd := &descriptorpb.ServiceDescriptorProto{Name: proto.String(iface.Name)}
		for _, m := range iface.Methods {
			sd.Method = append(sd.Method, &descriptorpb.MethodDescriptorProto{
				Name:       proto.String(naming.TypeName(m.Name)),
				InputType:  proto.String(qualified(pkg, messageName(m.Input, wrapped))),
				OutputType: proto.String(qualified(pkg, messageName(m.Output, wrapped))),
			})
		}
		fd.Service = append(fd.Service, sd)
	}

	if _, err := protodesc.NewFile(fd, new(protoregistry.Files)); err != nil {
		return nil, nil, fmt.Errorf("generated proto descriptor is invalid: %w", err)
	}
	return fd, notes, nil
}

func message(rec decl.Record, notes map[string]string) (*descriptorpb.DescriptorProto, error) {
	md := &descriptorpb.DescriptorProto{Name: proto.String(rec.Name)}
	for _, m := range rec.Members {
		if m.Tag > uint32(protowire.MaxValidNumber) {
			return nil, fmt.Errorf("field %s.%s: tag %d exceeds the largest proto field number %d",
				rec.Name, m.Name, m.Tag, protowire.MaxValidNumber)
		}
		typ := descriptorpb.FieldDescriptorProto_TYPE_BYTES
		switch m.Type.Kind {
		case decl.TypeU32:
			typ = descriptorpb.FieldDescriptorProto_TYPE_UINT32
		case decl.TypeText:
			typ = descriptorpb.FieldDescriptorProto_TYPE_STRING
		default:
			notes[rec.Name+"."+m.Name] = fmt.Sprintf("unknown schema type %q", m.Type.Source)
		}
		md.Field = append(md.Field, &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(m.Name),
			Number: proto.Int32(int32(m.Tag)),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:   typ.Enum(),
		})
	}
	return md, nil
}

// enum prefixes value names with the enum name, since proto enum values
// share the package scope, and guarantees a zero first value
func enum(en decl.Enumeration) (*descriptorpb.EnumDescriptorProto, error) {
	prefix := naming.ScreamingSnake(en.Name) + "_"
	ed := &descriptorpb.EnumDescriptorProto{Name: proto.String(en.Name)}

	var zero *descriptorpb.EnumValueDescriptorProto
	var rest []*descriptorpb.EnumValueDescriptorProto
	for _, v := range en.Variants {
		if v.Value > math.MaxInt32 {
			return nil, fmt.Errorf("enum %s variant %s: value %d does not fit a proto enum", en.Name, v.Name, v.Value)
		}
		vd := &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(prefix + naming.ScreamingSnake(v.Name)),
			Number: proto.Int32(int32(v.Value)),
		}
		if v.Value == 0 {
			zero = vd
			continue
		}
		rest = append(rest, vd)
	}
	if zero == nil {
		zero = &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(prefix + "UNSPECIFIED"),
			Number: proto.Int32(0),
		}
	}
	ed.Value = append([]*descriptorpb.EnumValueDescriptorProto{zero}, rest...)
	return ed, nil
}

func messageName(ref decl.TypeRef, wrapped map[string]string) string {
	if ref.Kind == decl.RefEnumeration {
		return wrapped[ref.Name]
	}
	return ref.Name
}

func qualified(pkg, name string) string {
	return "." + pkg + "." + name
}

// render prints a validated descriptor as proto3 source
func render(fd *descriptorpb.FileDescriptorProto, notes map[string]string) []byte {
	w := writer.NewWriter("  ")
	pkg := fd.GetPackage()

	w.WriteComment("Code generated by tomlrpc. DO NOT EDIT.")
	w.BlankLine()
	w.WriteLinef("syntax = %q;", fd.GetSyntax())
	w.BlankLine()
	w.WriteLinef("package %s;", pkg)

	for _, md := range fd.GetMessageType() {
		w.BlankLine()
		if len(md.GetField()) == 0 {
			w.WriteLinef("message %s {}", md.GetName())
			continue
		}
		w.WriteBlock("message "+md.GetName()+" {", "}", func() {
			for _, f := range md.GetField() {
				if note := notes[md.GetName()+"."+f.GetName()]; note != "" {
					w.WriteComment(note)
				}
				w.WriteLinef("%s %s = %d;", fieldType(pkg, f), f.GetName(), f.GetNumber())
			}
		})
	}

	for _, ed := range fd.GetEnumType() {
		w.BlankLine()
		w.WriteBlock("enum "+ed.GetName()+" {", "}", func() {
			for _, v := range ed.GetValue() {
				w.WriteLinef("%s = %d;", v.GetName(), v.GetNumber())
			}
		})
	}

	for _, sd := range fd.GetService() {
		w.BlankLine()
		if len(sd.GetMethod()) == 0 {
			w.WriteLinef("service %s {}", sd.GetName())
			continue
		}
		w.WriteBlock("service "+sd.GetName()+" {", "}", func() {
			for _, m := range sd.GetMethod() {
				w.WriteLinef("rpc %s(%s) returns (%s);", m.GetName(),
					strings.TrimPrefix(m.GetInputType(), "."+pkg+"."),
					strings.TrimPrefix(m.GetOutputType(), "."+pkg+"."))
			}
		})
	}

	return w.Bytes()
}

func fieldType(pkg string, f *descriptorpb.FieldDescriptorProto) string {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return "uint32"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return strings.TrimPrefix(f.GetTypeName(), "."+pkg+".")
	default:
		return "bytes"
	}
}
