// Package rust renders declarations as Rust items: structs, #[repr(u32)]
// enums and traits with async methods.
package rust

import (
	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/codegen/writer"
)

// Generator generates Rust code
type Generator struct{}

// NewGenerator creates a new Rust code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "rust"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".rs"
}

// Generate renders structs, then enums, then traits, one item after another
// with no blank lines in between.
func (g *Generator) Generate(file *decl.File) ([]byte, error) {
	w := writer.NewWriter("    ")

	for _, rec := range file.Records {
		g.generateStruct(w, rec)
	}
	for _, en := range file.Enumerations {
		g.generateEnum(w, en)
	}
	for _, iface := range file.Interfaces {
		g.generateTrait(w, iface)
	}

	return w.Bytes(), nil
}

func (g *Generator) generateStruct(w *writer.Writer, rec decl.Record) {
	if len(rec.Members) == 0 {
		w.WriteLinef("pub struct %s {}", ident(rec.Name))
		return
	}
	w.WriteBlock("pub struct "+ident(rec.Name)+" {", "}", func() {
		for _, m := range rec.Members {
			w.WriteLinef("pub %s: %s,", ident(m.Name), rustType(m.Type))
		}
	})
}

func (g *Generator) generateEnum(w *writer.Writer, en decl.Enumeration) {
	w.WriteLinef("#[repr(u%d)]", en.Width)
	if len(en.Variants) == 0 {
		w.WriteLinef("pub enum %s {}", ident(en.Name))
		return
	}
	w.WriteBlock("pub enum "+ident(en.Name)+" {", "}", func() {
		for _, v := range en.Variants {
			w.WriteLinef("%s = %du%d,", ident(v.Name), v.Value, en.Width)
		}
	})
}

func (g *Generator) generateTrait(w *writer.Writer, iface decl.Interface) {
	if len(iface.Methods) == 0 {
		w.WriteLinef("pub trait %s {}", ident(iface.Name))
		return
	}
	w.WriteBlock("pub trait "+ident(iface.Name)+" {", "}", func() {
		for _, m := range iface.Methods {
			prefix := ""
			if m.Async {
				prefix = "async "
			}
			w.WriteLinef("%sfn %s(&self, input: %s) -> %s;",
				prefix, ident(m.Name), ident(m.Input.Name), ident(m.Output.Name))
		}
	})
}

func rustType(t decl.Type) string {
	switch t.Kind {
	case decl.TypeU32:
		return "u32"
	case decl.TypeText:
		return "String"
	default:
		return "Unknown"
	}
}

// ident escapes names that collide with Rust keywords
func ident(name string) string {
	if nonRaw[name] {
		return name + "_"
	}
	if keywords[name] {
		return "r#" + name
	}
	return name
}

// keywords that cannot be used as raw identifiers
var nonRaw = map[string]bool{
	"self": true, "Self": true, "super": true, "crate": true,
}

var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "static": true,
	"struct": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "abstract": true, "become": true,
	"box": true, "do": true, "final": true, "macro": true, "override": true,
	"priv": true, "try": true, "typeof": true, "unsized": true, "virtual": true,
	"yield": true, "gen": true,
}
