package golang

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/writer"
	"github.com/okra-platform/tomlrpc/internal/naming"
)

// Generator generates Go code from the declarations
type Generator struct {
	packageName string
}

// NewGenerator creates a new Go code generator
func NewGenerator(packageName string) *Generator {
	return &Generator{
		packageName: packageName,
	}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".go"
}

// Generate generates Go structs, enums and service interfaces. The result
// is run through go/format.
func (g *Generator) Generate(file *decl.File) ([]byte, error) {
	packageName := g.packageName
	if packageName == "" {
		packageName = "types"
	}

	w := writer.NewWriter("\t")

	w.WriteLine("// Code generated by tomlrpc. DO NOT EDIT.")
	w.BlankLine()
	w.WriteLinef("package %s", packageName)
	w.BlankLine()

	// Service methods take a context as their async marker
	if len(file.Interfaces) > 0 {
		w.WriteLine(`import "context"`)
		w.BlankLine()
	}

	if file.HasUnknownTypes() {
		w.WriteComment("Unknown is a placeholder for schema types with no Go mapping")
		w.WriteLine("type Unknown = any")
		w.BlankLine()
	}

	for _, rec := range file.Records {
		g.generateStruct(w, rec)
		w.BlankLine()
	}

	for _, en := range file.Enumerations {
		g.generateEnum(w, en)
		w.BlankLine()
	}

	for _, iface := range file.Interfaces {
		g.generateServiceInterface(w, iface)
		w.BlankLine()
	}

	formatted, err := format.Source(w.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated Go code: %w", err)
	}
	return formatted, nil
}

// generateStruct generates a Go struct for a record
func (g *Generator) generateStruct(w *writer.Writer, rec decl.Record) {
	w.WriteLinef("type %s struct {", rec.Name)
	w.Indent()

	for _, m := range rec.Members {
		line := fmt.Sprintf("%s %s `json:\"%s\"`", exportedName(m.Name), goType(m.Type), m.Name)
		if m.Type.Kind == decl.TypeUnknown {
			line += fmt.Sprintf(" // unknown schema type %q", m.Type.Source)
		}
		w.WriteLine(line)
	}

	w.Dedent()
	w.WriteLine("}")
}

// generateEnum generates a sized integer type, its constants and a Valid method
func (g *Generator) generateEnum(w *writer.Writer, en decl.Enumeration) {
	w.WriteLinef("type %s uint%d", en.Name, en.Width)

	if len(en.Variants) > 0 {
		w.BlankLine()
		w.WriteLine("const (")
		w.Indent()
		for _, v := range en.Variants {
			w.WriteLinef("%s%s %s = %d", en.Name, v.Name, en.Name, v.Value)
		}
		w.Dedent()
		w.WriteLine(")")
	}

	w.BlankLine()
	w.WriteLinef("// Valid returns true if the %s is a declared value", en.Name)
	w.WriteLinef("func (e %s) Valid() bool {", en.Name)
	w.Indent()
	if len(en.Variants) == 0 {
		w.WriteLine("return false")
	} else {
		names := make([]string, 0, len(en.Variants))
		for _, v := range en.Variants {
			names = append(names, en.Name+v.Name)
		}
		w.WriteLine("switch e {")
		w.WriteLinef("case %s:", strings.Join(names, ", "))
		w.Indent()
		w.WriteLine("return true")
		w.Dedent()
		w.WriteLine("default:")
		w.Indent()
		w.WriteLine("return false")
		w.Dedent()
		w.WriteLine("}")
	}
	w.Dedent()
	w.WriteLine("}")
}

// generateServiceInterface generates a Go interface for a service
func (g *Generator) generateServiceInterface(w *writer.Writer, iface decl.Interface) {
	w.WriteLinef("// %s defines the service interface", iface.Name)
	w.WriteLinef("type %s interface {", iface.Name)
	w.Indent()

	for _, m := range iface.Methods {
		params := "input " + m.Input.Name
		if m.Async {
			params = "ctx context.Context, " + params
		}
		w.WriteLinef("%s(%s) (%s, error)", exportedName(m.Name), params, m.Output.Name)
	}

	w.Dedent()
	w.WriteLine("}")
}

func goType(t decl.Type) string {
	switch t.Kind {
	case decl.TypeU32:
		return "uint32"
	case decl.TypeText:
		return "string"
	default:
		return "Unknown"
	}
}

// exportedName converts a member name to an exported Go name
func exportedName(name string) string {
	return naming.TypeName(name)
}
