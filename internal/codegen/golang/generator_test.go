package golang

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
	"github.com/okra-platform/tomlrpc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() *decl.File {
	return &decl.File{
		Records: []decl.Record{
			{
				Name: "MyMessage",
				Members: []decl.Member{
					{Name: "a", Tag: 1, Type: decl.Type{Kind: decl.TypeText, Source: "String"}},
					{Name: "b", Tag: 2, Type: decl.Type{Kind: decl.TypeU32, Source: "u32"}},
				},
			},
		},
		Enumerations: []decl.Enumeration{
			{
				Name:  "MyEnum",
				Width: 32,
				Variants: []decl.Discriminant{
					{Name: "OptionA", Value: 1},
					{Name: "OptionB", Value: 2},
				},
			},
		},
		Interfaces: []decl.Interface{
			{
				Name: "MyService",
				Methods: []decl.Signature{
					{
						Name:   "my_call",
						Input:  decl.TypeRef{Kind: decl.RefRecord, Name: "MyMessage"},
						Output: decl.TypeRef{Kind: decl.RefEnumeration, Name: "MyEnum"},
						Async:  true,
					},
				},
			},
		},
	}
}

func TestGenerator_Sample(t *testing.T) {
	// Test: the end-to-end sample renders as formatted Go
	code, err := NewGenerator("myapi").Generate(sampleFile())
	require.NoError(t, err)

	expected := "// Code generated by tomlrpc. DO NOT EDIT.\n" +
		"\n" +
		"package myapi\n" +
		"\n" +
		"import \"context\"\n" +
		"\n" +
		"type MyMessage struct {\n" +
		"\tA string `json:\"a\"`\n" +
		"\tB uint32 `json:\"b\"`\n" +
		"}\n" +
		"\n" +
		"type MyEnum uint32\n" +
		"\n" +
		"const (\n" +
		"\tMyEnumOptionA MyEnum = 1\n" +
		"\tMyEnumOptionB MyEnum = 2\n" +
		")\n" +
		"\n" +
		"// Valid returns true if the MyEnum is a declared value\n" +
		"func (e MyEnum) Valid() bool {\n" +
		"\tswitch e {\n" +
		"\tcase MyEnumOptionA, MyEnumOptionB:\n" +
		"\t\treturn true\n" +
		"\tdefault:\n" +
		"\t\treturn false\n" +
		"\t}\n" +
		"}\n" +
		"\n" +
		"// MyService defines the service interface\n" +
		"type MyService interface {\n" +
		"\tMyCall(ctx context.Context, input MyMessage) (MyEnum, error)\n" +
		"}\n"

	testutil.EqualText(t, expected, string(code))
}

func TestGenerator_EmptyFile(t *testing.T) {
	// Test: Empty file generates a bare package without imports
	code, err := NewGenerator("example").Generate(&decl.File{})
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "package example")
	assert.NotContains(t, result, "import")
}

func TestGenerator_DefaultPackage(t *testing.T) {
	// Test: an empty package name falls back to "types"
	code, err := NewGenerator("").Generate(&decl.File{})
	require.NoError(t, err)
	assert.Contains(t, string(code), "package types")
}

func TestGenerator_EmptyEnum(t *testing.T) {
	// Test: an enum without variants still produces valid Go
	code, err := NewGenerator("test").Generate(&decl.File{
		Enumerations: []decl.Enumeration{{Name: "Never", Width: 32}},
	})
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "type Never uint32")
	assert.NotContains(t, result, "const (")
	assert.Contains(t, result, "func (e Never) Valid() bool {\n\treturn false\n}")
}

func TestGenerator_UnknownPlaceholder(t *testing.T) {
	// Test: unmapped schema types render as Unknown with a note
	code, err := NewGenerator("test").Generate(&decl.File{
		Records: []decl.Record{{
			Name:    "M",
			Members: []decl.Member{{Name: "payload", Type: decl.Type{Kind: decl.TypeUnknown, Source: "Foo"}}},
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(code), "Payload Unknown `json:\"payload\"` // unknown schema type \"Foo\"")
	assert.Contains(t, string(code), "type Unknown = any")
	typeCheck(t, code)
}

func TestGenerator_NoPlaceholderWithoutUnknownTypes(t *testing.T) {
	// Test: the placeholder alias only appears when a member needs it
	code, err := NewGenerator("test").Generate(sampleFile())
	require.NoError(t, err)
	assert.NotContains(t, string(code), "Unknown")
}

func TestGenerator_OutputTypeChecks(t *testing.T) {
	// Test: a file mixing every declaration kind and the placeholder compiles
	file := sampleFile()
	file.Records[0].Members = append(file.Records[0].Members,
		decl.Member{Name: "extra", Tag: 3, Type: decl.Type{Kind: decl.TypeUnknown, Source: "Foo"}})

	code, err := NewGenerator("myapi").Generate(file)
	require.NoError(t, err)
	typeCheck(t, code)
}

// typeCheck fails the test unless code type-checks as a standalone package
func typeCheck(t *testing.T, code []byte) {
	t.Helper()

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, "generated.go", code, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err = conf.Check(parsed.Name.Name, fset, []*ast.File{parsed}, nil)
	require.NoError(t, err, "generated code should type-check:\n%s", code)
}

func TestGenerator_MemberNames(t *testing.T) {
	// Test: snake_case members become exported Go names, json tags keep the schema name
	code, err := NewGenerator("test").Generate(&decl.File{
		Records: []decl.Record{{
			Name: "User",
			Members: []decl.Member{
				{Name: "user_id", Type: decl.Type{Kind: decl.TypeU32}},
				{Name: "display_name", Type: decl.Type{Kind: decl.TypeText}},
			},
		}},
	})
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "UserId      uint32 `json:\"user_id\"`")
	assert.Contains(t, result, "DisplayName string `json:\"display_name\"`")
}

func TestGenerator_Metadata(t *testing.T) {
	g := NewGenerator("x")
	assert.Equal(t, "go", g.Language())
	assert.Equal(t, ".go", g.FileExtension())
}
