// Package decl is the language-neutral code representation handed to the
// renderers. It carries no schema details beyond what a declaration needs.
package decl

// File is one output artifact: records, then enumerations, then interfaces
type File struct {
	Records      []Record
	Enumerations []Enumeration
	Interfaces   []Interface
}

// TypeKind is the target-neutral primitive a member is typed with
type TypeKind int

const (
	// TypeUnknown is the explicit placeholder for unmapped schema types
	TypeUnknown TypeKind = iota
	// TypeU32 is an unsigned 32-bit integer
	TypeU32
	// TypeText is a UTF-8 string
	TypeText
)

func (k TypeKind) String() string {
	switch k {
	case TypeU32:
		return "u32"
	case TypeText:
		return "text"
	default:
		return "unknown"
	}
}

// Type is a member type. Source keeps the schema spelling for diagnostics.
type Type struct {
	Kind   TypeKind
	Source string
}

// Record is a data structure with one public member per field
type Record struct {
	Name    string
	Members []Member
}

// Member is a single record member
type Member struct {
	Name string
	Tag  uint32
	Type Type
}

// EnumWidth is the representation width of every enumeration, in bits
const EnumWidth = 32

// Enumeration is a discriminated enum with explicit discriminants
type Enumeration struct {
	Name     string
	Width    int
	Variants []Discriminant
}

// Discriminant is a single enumeration variant and its literal value
type Discriminant struct {
	Name  string
	Value uint32
}

// RefKind says what a TypeRef points at
type RefKind int

const (
	RefRecord RefKind = iota + 1
	RefEnumeration
)

// TypeRef names another declaration of the same file
type TypeRef struct {
	Kind RefKind
	Name string
}

// Interface is an abstract service interface
type Interface struct {
	Name    string
	Methods []Signature
}

// Signature is an abstract method: input by value, output as result.
// Async marks the target's asynchronous call convention.
type Signature struct {
	Name   string
	Input  TypeRef
	Output TypeRef
	Async  bool
}

// HasUnknownTypes reports whether any member uses the placeholder type
func (f *File) HasUnknownTypes() bool {
	for _, r := range f.Records {
		for _, m := range r.Members {
			if m.Type.Kind == TypeUnknown {
				return true
			}
		}
	}
	return false
}
