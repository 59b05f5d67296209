package schema

// Schema is the validated IR of one compilation
type Schema struct {
	Messages []Message `json:"messages"`
	Enums    []Enum    `json:"enums"`
	Services []Service `json:"services"`
}

// Message represents a "[message.X]" table
type Message struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field represents a single tagged entry of a message
type Field struct {
	Tag      uint32 `json:"tag"`
	Name     string `json:"name"`
	TypeName string `json:"typeName"`
}

// Enum represents an "[enum.X]" table
type Enum struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// Variant represents a single named discriminant of an enum
type Variant struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

// Service represents an "[rpc.X]" table
type Service struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods"`
}

// Method represents a single service method
type Method struct {
	Name   string    `json:"name"`
	Input  EntityRef `json:"input"`
	Output EntityRef `json:"output"`
}

// EntityKind says which section an EntityRef points into
type EntityKind string

const (
	KindMessage EntityKind = "message"
	KindEnum    EntityKind = "enum"
)

// EntityRef is a resolved "<message|enum>.Name" reference
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	Name string     `json:"name"`
}

func (r EntityRef) String() string {
	return string(r.Kind) + "." + r.Name
}
