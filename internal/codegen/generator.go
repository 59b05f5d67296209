package codegen

import "github.com/okra-platform/tomlrpc/internal/codegen/decl"

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Generate renders the declarations and returns the formatted source as bytes
	Generate(file *decl.File) ([]byte, error)

	// Language returns the name of the target language (e.g., "rust", "go")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".rs", ".go")
	FileExtension() string
}
