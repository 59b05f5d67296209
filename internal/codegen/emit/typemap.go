package emit

import (
	"fmt"
	"sort"

	"github.com/okra-platform/tomlrpc/internal/codegen/decl"
)

// UnknownPolicy decides what happens to schema type names the TypeMap does not know
type UnknownPolicy int

const (
	// PolicyPlaceholder emits decl.TypeUnknown, rendered as "Unknown"
	PolicyPlaceholder UnknownPolicy = iota
	// PolicyReject fails the compilation
	PolicyReject
)

// ParsePolicy maps a config spelling to a policy
func ParsePolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "", "placeholder":
		return PolicyPlaceholder, nil
	case "reject", "strict":
		return PolicyReject, nil
	default:
		return PolicyPlaceholder, fmt.Errorf("unknown type policy %q (expected placeholder or reject)", s)
	}
}

// TypeMap maps schema field type names to target-neutral kinds
type TypeMap struct {
	kinds  map[string]decl.TypeKind
	Policy UnknownPolicy
}

// NewTypeMap creates an empty map with the given policy
func NewTypeMap(policy UnknownPolicy) *TypeMap {
	return &TypeMap{
		kinds:  make(map[string]decl.TypeKind),
		Policy: policy,
	}
}

// DefaultTypeMap knows "u32" and "String" and uses the placeholder policy
func DefaultTypeMap() *TypeMap {
	m := NewTypeMap(PolicyPlaceholder)
	m.Register("u32", decl.TypeU32)
	m.Register("String", decl.TypeText)
	return m
}

// Register adds or replaces a mapping
func (m *TypeMap) Register(name string, kind decl.TypeKind) {
	m.kinds[name] = kind
}

// Alias maps name to whatever target already maps to
func (m *TypeMap) Alias(name, target string) error {
	kind, ok := m.kinds[target]
	if !ok {
		return fmt.Errorf("cannot alias %q: %q is not a known type", name, target)
	}
	m.kinds[name] = kind
	return nil
}

// Lookup returns the kind for a schema type name
func (m *TypeMap) Lookup(name string) (decl.TypeKind, bool) {
	kind, ok := m.kinds[name]
	return kind, ok
}

// Names returns the known schema type names in sorted order
func (m *TypeMap) Names() []string {
	names := make([]string, 0, len(m.kinds))
	for name := range m.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
