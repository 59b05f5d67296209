package schema

import (
	"strings"

	"github.com/okra-platform/tomlrpc/internal/naming"
)

// BuildServices converts raw "[rpc.X]" tables into Services, resolving every
// method reference against the already built messages and enums. The first
// invalid method aborts the whole step.
func BuildServices(tables []Table, messages []Message, enums []Enum) ([]Service, error) {
	r := newResolver(messages, enums)

	services := make([]Service, 0, len(tables))
	for _, table := range tables {
		svc, err := r.buildService(table)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}

type resolver struct {
	messages map[string]bool
	enums    map[string]bool
}

func newResolver(messages []Message, enums []Enum) *resolver {
	r := &resolver{
		messages: make(map[string]bool, len(messages)),
		enums:    make(map[string]bool, len(enums)),
	}
	for _, m := range messages {
		r.messages[m.Name] = true
	}
	for _, e := range enums {
		r.enums[e.Name] = true
	}
	return r
}

func (r *resolver) buildService(table Table) (Service, error) {
	name, err := typeName(table.Name, table.Path())
	if err != nil {
		return Service{}, err
	}

	svc := Service{Name: name, Methods: make([]Method, 0, len(table.Entries))}
	seen := make(map[string]bool, len(table.Entries))

	for _, entry := range table.Entries {
		path := table.EntryPath(entry.Key)
		method, err := r.buildMethod(entry, path)
		if err != nil {
			return Service{}, err
		}
		if seen[method.Name] {
			return Service{}, typeError(ViolationDuplicate, path, "method %q is declared twice", method.Name)
		}
		seen[method.Name] = true
		svc.Methods = append(svc.Methods, method)
	}

	return svc, nil
}

func (r *resolver) buildMethod(entry Entry, path string) (Method, error) {
	pair, err := stringPair(entry.Value, path, "method value must be a two-element array (input, output)")
	if err != nil {
		return Method{}, err
	}

	name, err := memberName(entry.Key, path)
	if err != nil {
		return Method{}, err
	}

	input, err := r.resolve(pair[0], "input", path)
	if err != nil {
		return Method{}, err
	}
	output, err := r.resolve(pair[1], "output", path)
	if err != nil {
		return Method{}, err
	}

	return Method{Name: name, Input: input, Output: output}, nil
}

// resolve parses a "<message|enum>.Name" reference and checks that the
// normalized name was declared in the matching section.
func (r *resolver) resolve(ref, role, path string) (EntityRef, error) {
	kind, rawName, ok := strings.Cut(ref, ".")
	if !ok {
		return EntityRef{}, typeError(ViolationRefFormat, path, "method %s must be in the form <message|enum>.name", role)
	}

	name := naming.TypeName(rawName)
	switch EntityKind(kind) {
	case KindMessage:
		if !r.messages[name] {
			return EntityRef{}, typeError(ViolationNotFound, path, "message not found: %q", rawName)
		}
	case KindEnum:
		if !r.enums[name] {
			return EntityRef{}, typeError(ViolationNotFound, path, "enum not found: %q", rawName)
		}
	default:
		return EntityRef{}, typeError(ViolationRefKind, path, "unknown %s type %q", role, kind)
	}

	return EntityRef{Kind: EntityKind(kind), Name: name}, nil
}
