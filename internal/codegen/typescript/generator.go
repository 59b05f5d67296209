package typescript

import (
	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/writer"
	"github.com/okra-platform/tomlrpc/internal/naming"
)

// Generator generates TypeScript code from the declarations
type Generator struct {
	namespace string
}

// NewGenerator creates a new TypeScript code generator. A non-empty
// namespace wraps every declaration in an exported namespace block.
func NewGenerator(namespace string) *Generator {
	return &Generator{
		namespace: namespace,
	}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate generates TypeScript interfaces, numeric enums and service
// interfaces. Items are separated by a blank line.
func (g *Generator) Generate(file *decl.File) ([]byte, error) {
	w := writer.NewWriter("  ")

	if g.namespace != "" {
		w.WriteLinef("export namespace %s {", g.namespace)
		w.Indent()
	}

	var items []func()
	if file.HasUnknownTypes() {
		items = append(items, func() {
			w.WriteLine("/** Placeholder for schema types with no TypeScript mapping */")
			w.WriteLine("export type Unknown = unknown;")
		})
	}
	for _, rec := range file.Records {
		items = append(items, func() { g.generateInterface(w, rec) })
	}
	for _, en := range file.Enumerations {
		items = append(items, func() { g.generateEnum(w, en) })
	}
	for _, iface := range file.Interfaces {
		items = append(items, func() { g.generateServiceInterface(w, iface) })
	}

	for i, item := range items {
		if i > 0 {
			w.BlankLine()
		}
		item()
	}

	if g.namespace != "" {
		w.Dedent()
		w.WriteLine("}")
	}

	return w.Bytes(), nil
}

// generateInterface generates a TypeScript interface for a record
func (g *Generator) generateInterface(w *writer.Writer, rec decl.Record) {
	if len(rec.Members) == 0 {
		w.WriteLinef("export interface %s {}", rec.Name)
		return
	}

	w.WriteBlock("export interface "+rec.Name+" {", "}", func() {
		for _, m := range rec.Members {
			if m.Type.Kind == decl.TypeUnknown {
				w.WriteLinef("/** schema type %s */", m.Type.Source)
			}
			w.WriteLinef("%s: %s;", m.Name, tsType(m.Type))
		}
	})
}

// generateEnum generates a numeric enum with explicit values and a type guard
func (g *Generator) generateEnum(w *writer.Writer, en decl.Enumeration) {
	if len(en.Variants) == 0 {
		w.WriteLinef("export enum %s {}", en.Name)
	} else {
		w.WriteBlock("export enum "+en.Name+" {", "}", func() {
			for _, v := range en.Variants {
				w.WriteLinef("%s = %d,", v.Name, v.Value)
			}
		})
	}

	// Numeric enums carry a reverse mapping, so a lookup by value is enough
	w.BlankLine()
	w.WriteLinef("export function is%s(value: unknown): value is %s {", en.Name, en.Name)
	w.Indent()
	w.WriteLinef("return typeof value === \"number\" && %s[value] !== undefined;", en.Name)
	w.Dedent()
	w.WriteLine("}")
}

// generateServiceInterface generates a TypeScript interface for a service
// plus an abstract client to implement it
func (g *Generator) generateServiceInterface(w *writer.Writer, iface decl.Interface) {
	if len(iface.Methods) == 0 {
		w.WriteLinef("export interface %s {}", iface.Name)
	} else {
		w.WriteBlock("export interface "+iface.Name+" {", "}", func() {
			for _, m := range iface.Methods {
				w.WriteLinef("%s(input: %s): %s;", naming.LowerCamel(m.Name), m.Input.Name, result(m))
			}
		})
	}

	w.BlankLine()
	if len(iface.Methods) == 0 {
		w.WriteLinef("export abstract class %sClient implements %s {}", iface.Name, iface.Name)
		return
	}
	w.WriteBlock("export abstract class "+iface.Name+"Client implements "+iface.Name+" {", "}", func() {
		for _, m := range iface.Methods {
			w.WriteLinef("abstract %s(input: %s): %s;", naming.LowerCamel(m.Name), m.Input.Name, result(m))
		}
	})
}

func result(m decl.Signature) string {
	if m.Async {
		return "Promise<" + m.Output.Name + ">"
	}
	return m.Output.Name
}

// tsType maps declaration types to TypeScript types
func tsType(t decl.Type) string {
	switch t.Kind {
	case decl.TypeU32:
		return "number"
	case decl.TypeText:
		return "string"
	default:
		return "Unknown"
	}
}
