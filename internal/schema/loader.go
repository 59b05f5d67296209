package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Top-level schema sections
const (
	SectionMessage = "message"
	SectionEnum    = "enum"
	SectionRPC     = "rpc"
)

// Document is the raw, ordered view of a schema file. Every definition
// keeps the key order it had in the source text.
type Document struct {
	Messages []Table
	Enums    []Table
	Services []Table
	// Ignored lists top-level keys outside the known sections
	Ignored []string
}

// Table is one named definition, e.g. "[message.MyMessage]"
type Table struct {
	Section string
	Name    string
	Entries []Entry
}

// Entry is a single key/value pair of a definition table
type Entry struct {
	Key   string
	Value any
}

// Path returns the dotted location of the table
func (t Table) Path() string {
	return t.Section + "." + t.Name
}

// EntryPath returns the dotted location of an entry in the table
func (t Table) EntryPath(key string) string {
	return t.Path() + "." + key
}

// LoadFile reads and parses a schema file
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	return Parse(data)
}

// Parse decodes schema text into a Document
func Parse(src []byte) (*Document, error) {
	var raw map[string]any
	md, err := toml.Decode(string(src), &raw)
	if err != nil {
		return nil, syntaxError(err)
	}

	order := newKeyOrder(md.Keys())
	doc := &Document{}

	for _, section := range order.children(nil, raw) {
		var dst *[]Table
		switch section {
		case SectionMessage:
			dst = &doc.Messages
		case SectionEnum:
			dst = &doc.Enums
		case SectionRPC:
			dst = &doc.Services
		default:
			doc.Ignored = append(doc.Ignored, section)
			continue
		}

		defs, ok := raw[section].(map[string]any)
		if !ok {
			return nil, typeError(ViolationNotTable, section, "section is not a table")
		}

		for _, name := range order.children([]string{section}, defs) {
			body, ok := defs[name].(map[string]any)
			if !ok {
				return nil, typeError(ViolationNotTable, section+"."+name, "%s is not a table", section)
			}

			table := Table{Section: section, Name: name}
			for _, key := range order.children([]string{section, name}, body) {
				table.Entries = append(table.Entries, Entry{Key: key, Value: body[key]})
			}
			*dst = append(*dst, table)
		}
	}

	return doc, nil
}

func syntaxError(err error) error {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return &Error{
			Kind:    KindSyntax,
			Path:    fmt.Sprintf("line %d", perr.Position.Line),
			Message: perr.Message,
		}
	}
	return &Error{Kind: KindSyntax, Err: err}
}

// keyOrder records the first position at which each key path appears in
// the source document.
type keyOrder struct {
	pos map[string]int
}

func newKeyOrder(keys []toml.Key) *keyOrder {
	o := &keyOrder{pos: make(map[string]int)}
	n := 0
	for _, key := range keys {
		for depth := 1; depth <= len(key); depth++ {
			id := strings.Join(key[:depth], "\x00")
			if _, seen := o.pos[id]; !seen {
				o.pos[id] = n
				n++
			}
		}
	}
	return o
}

// children returns the keys of m ordered as they appear in the document.
// Keys the decoder did not report fall back to lexical order after the rest.
func (o *keyOrder) children(parent []string, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	position := func(k string) (int, bool) {
		id := strings.Join(append(append([]string{}, parent...), k), "\x00")
		p, ok := o.pos[id]
		return p, ok
	}

	sort.Slice(keys, func(i, j int) bool {
		pi, oki := position(keys[i])
		pj, okj := position(keys[j])
		switch {
		case oki && okj:
			return pi < pj
		case oki != okj:
			return oki
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
