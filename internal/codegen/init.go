package codegen

import (
	"github.com/okra-platform/tomlrpc/internal/codegen/golang"
	"github.com/okra-platform/tomlrpc/internal/codegen/graphql"
	"github.com/okra-platform/tomlrpc/internal/codegen/protobuf"
	"github.com/okra-platform/tomlrpc/internal/codegen/rust"
	"github.com/okra-platform/tomlrpc/internal/codegen/typescript"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	// Rust output matches the reference renderer byte for byte
	DefaultRegistry.Register("rust", func(packageName string) Generator {
		return rust.NewGenerator()
	})
	DefaultRegistry.Register("rs", func(packageName string) Generator {
		return rust.NewGenerator()
	})

	DefaultRegistry.Register("go", func(packageName string) Generator {
		return golang.NewGenerator(packageName)
	})

	DefaultRegistry.Register("typescript", func(packageName string) Generator {
		return typescript.NewGenerator(packageName)
	})
	DefaultRegistry.Register("ts", func(packageName string) Generator {
		return typescript.NewGenerator(packageName)
	})

	DefaultRegistry.Register("protobuf", func(packageName string) Generator {
		return protobuf.NewGenerator(packageName)
	})
	DefaultRegistry.Register("proto", func(packageName string) Generator {
		return protobuf.NewGenerator(packageName)
	})

	DefaultRegistry.Register("graphql", func(packageName string) Generator {
		return graphql.NewGenerator()
	})
	DefaultRegistry.Register("gql", func(packageName string) Generator {
		return graphql.NewGenerator()
	})
}
