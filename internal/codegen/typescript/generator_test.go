package typescript

import (
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
	// Test: the end-to-end sample renders interfaces, a numeric enum and a service
	code, err := NewGenerator("").Generate(sampleFile())
	require.NoError(t, err)

	expected := `export interface MyMessage {
  a: string;
  b: number;
}

export enum MyEnum {
  OptionA = 1,
  OptionB = 2,
}

export function isMyEnum(value: unknown): value is MyEnum {
  return typeof value === "number" && MyEnum[value] !== undefined;
}

export interface MyService {
  myCall(input: MyMessage): Promise<MyEnum>;
}

export abstract class MyServiceClient implements MyService {
  abstract myCall(input: MyMessage): Promise<MyEnum>;
}
`
	testutil.EqualText(t, expected, string(code))
}

func TestGenerator_EmptyFile(t *testing.T) {
	// Test: Empty file generates no output
	code, err := NewGenerator("").Generate(&decl.File{})
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestGenerator_WithNamespace(t *testing.T) {
	// Test: a namespace wraps and indents every declaration
	code, err := NewGenerator("MyAPI").Generate(&decl.File{
		Records: []decl.Record{{
			Name:    "User",
			Members: []decl.Member{{Name: "id", Type: decl.Type{Kind: decl.TypeText}}},
		}},
	})
	require.NoError(t, err)

	expected := `export namespace MyAPI {
  export interface User {
    id: string;
  }
}
`
	assert.Equal(t, expected, string(code))
}

func TestGenerator_UnknownPlaceholder(t *testing.T) {
	// Test: unmapped types use a declared Unknown alias
	code, err := NewGenerator("").Generate(&decl.File{
		Records: []decl.Record{{
			Name:    "M",
			Members: []decl.Member{{Name: "blob", Type: decl.Type{Kind: decl.TypeUnknown, Source: "Bytes"}}},
		}},
	})
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "export type Unknown = unknown;")
	assert.Contains(t, result, "/** schema type Bytes */\n  blob: Unknown;")
}

func TestGenerator_EmptyItems(t *testing.T) {
	// Test: declarations without members still produce valid TypeScript
	code, err := NewGenerator("").Generate(&decl.File{
		Records:      []decl.Record{{Name: "Empty"}},
		Enumerations: []decl.Enumeration{{Name: "Never", Width: 32}},
		Interfaces:   []decl.Interface{{Name: "Idle"}},
	})
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "export interface Empty {}")
	assert.Contains(t, result, "export enum Never {}")
	assert.Contains(t, result, "export interface Idle {}")
	assert.Contains(t, result, "export abstract class IdleClient implements Idle {}")
}

func TestGenerator_CamelCaseConversion(t *testing.T) {
	// Test: snake_case method names become camelCase
	tests := []struct {
		input    string
		expected string
	}{
		{"get_user", "getUser"},
		{"list_all_items", "listAllItems"},
		{"ping", "ping"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, err := NewGenerator("").Generate(&decl.File{
				Interfaces: []decl.Interface{{
					Name: "Svc",
					Methods: []decl.Signature{{
						Name:   tt.input,
						Input:  decl.TypeRef{Kind: decl.RefRecord, Name: "In"},
						Output: decl.TypeRef{Kind: decl.RefRecord, Name: "Out"},
						Async:  true,
					}},
				}},
			})
			require.NoError(t, err)
			assert.Contains(t, string(code), tt.expected+"(input: In): Promise<Out>;")
		})
	}
}

func TestGenerator_Metadata(t *testing.T) {
	g := NewGenerator("")
	assert.Equal(t, "typescript", g.Language())
	assert.Equal(t, ".ts", g.FileExtension())
}
