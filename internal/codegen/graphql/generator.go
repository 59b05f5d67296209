// Package graphql renders declarations as GraphQL SDL. Services are written
// as `service` blocks, which are rewritten to object types and parsed with
// graphql-go-tools before the output is returned.
package graphql

import (
	"fmt"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/writer"
	"github.com/okra-platform/tomlrpc/internal/naming"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

// Generator generates GraphQL SDL
type Generator struct{}

// NewGenerator creates a new GraphQL generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "graphql"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".graphql"
}

// Generate renders the SDL and checks that it parses
func (g *Generator) Generate(file *decl.File) ([]byte, error) {
	w := writer.NewWriter("  ").WithCommentPrefix("#")

	w.WriteComment("Code generated by tomlrpc. DO NOT EDIT.")

	if file.HasUnknownTypes() {
		w.BlankLine()
		w.WriteLine(`"Placeholder for schema types with no GraphQL mapping"`)
		w.WriteLine("scalar Unknown")
	}

	for _, rec := range file.Records {
		w.BlankLine()
		g.generateType(w, rec)
	}
	for _, en := range file.Enumerations {
		w.BlankLine()
		g.generateEnum(w, en)
	}
	for _, iface := range file.Interfaces {
		w.BlankLine()
		g.generateService(w, iface)
	}

	if _, err := Parse(w.String()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Parse preprocesses and parses SDL produced by Generate
func Parse(sdl string) (*ast.Document, error) {
	doc, report := astparser.ParseGraphqlDocumentString(Preprocess(sdl))
	if report.HasErrors() {
		return nil, fmt.Errorf("generated GraphQL does not parse: %v", report)
	}
	return &doc, nil
}

// generateType generates an object type; all members are non-null
func (g *Generator) generateType(w *writer.Writer, rec decl.Record) {
	if len(rec.Members) == 0 {
		w.WriteLinef("type %s", rec.Name)
		return
	}
	w.WriteBlock("type "+rec.Name+" {", "}", func() {
		for _, m := range rec.Members {
			if m.Type.Kind == decl.TypeUnknown {
				w.WriteComment(fmt.Sprintf("unknown schema type %q", m.Type.Source))
			}
			w.WriteLinef("%s: %s!", m.Name, gqlType(m.Type))
		}
	})
}

// generateEnum generates an enum. GraphQL enum values carry no number, so
// the discriminant goes into the value description.
func (g *Generator) generateEnum(w *writer.Writer, en decl.Enumeration) {
	if len(en.Variants) == 0 {
		w.WriteLinef("enum %s", en.Name)
		return
	}
	w.WriteBlock("enum "+en.Name+" {", "}", func() {
		for _, v := range en.Variants {
			w.WriteLinef(`"value = %d"`, v.Value)
			w.WriteLine(v.Name)
		}
	})
}

func (g *Generator) generateService(w *writer.Writer, iface decl.Interface) {
	if len(iface.Methods) == 0 {
		w.WriteLinef("service %s", iface.Name)
		return
	}
	w.WriteBlock("service "+iface.Name+" {", "}", func() {
		for _, m := range iface.Methods {
			w.WriteLinef("%s(input: %s!): %s!", naming.LowerCamel(m.Name), m.Input.Name, m.Output.Name)
		}
	})
}

func gqlType(t decl.Type) string {
	switch t.Kind {
	case decl.TypeU32:
		// GraphQL Int is signed 32-bit, values above 2^31-1 do not fit
		return "Int"
	case decl.TypeText:
		return "String"
	default:
		return "Unknown"
	}
}
