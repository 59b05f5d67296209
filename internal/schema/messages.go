package schema

import (
	"sort"
	"strconv"

	"github.com/okra-platform/tomlrpc/internal/naming"
)

// BuildMessages converts raw "[message.X]" tables into Messages.
// Fields are ordered by ascending tag.
func BuildMessages(tables []Table) ([]Message, error) {
	messages := make([]Message, 0, len(tables))
	for _, table := range tables {
		msg, err := buildMessage(table)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func buildMessage(table Table) (Message, error) {
	name, err := typeName(table.Name, table.Path())
	if err != nil {
		return Message{}, err
	}

	msg := Message{Name: name, Fields: make([]Field, 0, len(table.Entries))}
	tags := make(map[uint32]string, len(table.Entries))
	names := make(map[string]string, len(table.Entries))

	for _, entry := range table.Entries {
		path := table.EntryPath(entry.Key)
		field, err := buildField(entry, path)
		if err != nil {
			return Message{}, err
		}

		if prev, dup := tags[field.Tag]; dup {
			return Message{}, typeError(ViolationDuplicate, path, "tag %d is already used by %q", field.Tag, prev)
		}
		if prev, dup := names[field.Name]; dup {
			return Message{}, typeError(ViolationDuplicate, path, "field name %q is already used by tag %s", field.Name, prev)
		}
		tags[field.Tag] = field.Name
		names[field.Name] = entry.Key

		msg.Fields = append(msg.Fields, field)
	}

	sort.SliceStable(msg.Fields, func(i, j int) bool {
		return msg.Fields[i].Tag < msg.Fields[j].Tag
	})

	return msg, nil
}

func buildField(entry Entry, path string) (Field, error) {
	tag, err := strconv.ParseUint(entry.Key, 10, 32)
	if err != nil {
		return Field{}, typeError(ViolationTag, path, "tag is not a number")
	}

	pair, err := stringPair(entry.Value, path, "field value must be a two-element array (name, type)")
	if err != nil {
		return Field{}, err
	}

	name, err := memberName(pair[0], path)
	if err != nil {
		return Field{}, err
	}

	return Field{
		Tag:      uint32(tag),
		Name:     name,
		TypeName: pair[1],
	}, nil
}

// stringPair validates that v is an array of exactly two strings
func stringPair(v any, path, arityMsg string) ([2]string, error) {
	var pair [2]string

	items, ok := v.([]any)
	if !ok {
		return pair, typeError(ViolationArity, path, "value is not an array")
	}
	if len(items) != 2 {
		return pair, typeError(ViolationArity, path, "%s", arityMsg)
	}
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return pair, typeError(ViolationNotString, path, "element %d is not a string", i)
		}
		pair[i] = s
	}
	return pair, nil
}

func typeName(raw, path string) (string, error) {
	name := naming.TypeName(raw)
	if !naming.IsIdentifier(name) {
		return "", typeError(ViolationIdentifier, path, "%q is not a valid type name", raw)
	}
	return name, nil
}

func memberName(raw, path string) (string, error) {
	name := naming.MemberName(raw)
	if !naming.IsIdentifier(name) {
		return "", typeError(ViolationIdentifier, path, "%q is not a valid member name", raw)
	}
	return name, nil
}
