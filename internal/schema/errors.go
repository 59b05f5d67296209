package schema

import (
	"errors"
	"fmt"
)

// Kind classifies a compilation failure
type Kind int

const (
	// KindIO means the schema could not be read or the artifact could not be written
	KindIO Kind = iota + 1
	// KindSyntax means the schema text is not valid TOML
	KindSyntax
	// KindType means the schema is well-formed TOML but violates the schema rules
	KindType
	// KindOutputPath means the artifact path could not be derived
	KindOutputPath
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindSyntax:
		return "syntax error"
	case KindType:
		return "type error"
	case KindOutputPath:
		return "output path error"
	default:
		return "unknown error"
	}
}

// Violation tags the specific rule a type error broke
type Violation string

const (
	ViolationTag         Violation = "tag"
	ViolationArity       Violation = "arity"
	ViolationNotString   Violation = "not_string"
	ViolationNotTable    Violation = "not_table"
	ViolationNotInteger  Violation = "not_integer"
	ViolationRange       Violation = "range"
	ViolationRefFormat   Violation = "ref_format"
	ViolationRefKind     Violation = "ref_kind"
	ViolationNotFound    Violation = "not_found"
	ViolationDuplicate   Violation = "duplicate"
	ViolationIdentifier  Violation = "identifier"
	ViolationUnknownType Violation = "unknown_type"
)

// Sentinel errors for matching with errors.Is
var (
	ErrIO         = &Error{Kind: KindIO}
	ErrSyntax     = &Error{Kind: KindSyntax}
	ErrType       = &Error{Kind: KindType}
	ErrOutputPath = &Error{Kind: KindOutputPath}
)

// Error is the single error type produced by the compilation pipeline
type Error struct {
	Kind      Kind
	Violation Violation // set for KindType only
	Path      string    // dotted schema location, e.g. "message.MyMessage.1"
	Message   string
	Err       error
}

var _ error = (*Error)(nil)

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, and the same violation when the target sets one
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Violation == "" || t.Violation == e.Violation
}

// IsViolation reports whether err is a type error with the given violation
func IsViolation(err error, v Violation) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == KindType && se.Violation == v
}

func typeError(v Violation, path string, format string, args ...any) error {
	return &Error{
		Kind:      KindType,
		Violation: v,
		Path:      path,
		Message:   fmt.Sprintf(format, args...),
	}
}

// NewTypeError builds a type error for violations detected outside this package
func NewTypeError(v Violation, path string, format string, args ...any) error {
	return typeError(v, path, format, args...)
}

// NewIOError wraps a file-system failure
func NewIOError(path string, err error) error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

// NewOutputPathError reports an artifact path that cannot be derived
func NewOutputPathError(path string, format string, args ...any) error {
	return &Error{Kind: KindOutputPath, Path: path, Message: fmt.Sprintf(format, args...)}
}
