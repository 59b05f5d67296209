package schema

import (
	"math"
)

// BuildEnums converts raw "[enum.X]" tables into Enums. Variants keep their
// document order.
func BuildEnums(tables []Table) ([]Enum, error) {
	enums := make([]Enum, 0, len(tables))
	for _, table := range tables {
		e, err := buildEnum(table)
		if err != nil {
			return nil, err
		}
		enums = append(enums, e)
	}
	return enums, nil
}

func buildEnum(table Table) (Enum, error) {
	name, err := typeName(table.Name, table.Path())
	if err != nil {
		return Enum{}, err
	}

	e := Enum{Name: name, Variants: make([]Variant, 0, len(table.Entries))}
	values := make(map[uint32]string, len(table.Entries))
	names := make(map[string]bool, len(table.Entries))

	for _, entry := range table.Entries {
		path := table.EntryPath(entry.Key)

		variantName, err := typeName(entry.Key, path)
		if err != nil {
			return Enum{}, err
		}
		value, err := variantValue(entry.Value, path)
		if err != nil {
			return Enum{}, err
		}

		if names[variantName] {
			return Enum{}, typeError(ViolationDuplicate, path, "variant %q is declared twice", variantName)
		}
		if prev, dup := values[value]; dup {
			return Enum{}, typeError(ViolationDuplicate, path, "value %d is already used by %q", value, prev)
		}
		names[variantName] = true
		values[value] = variantName

		e.Variants = append(e.Variants, Variant{Name: variantName, Value: value})
	}

	return e, nil
}

func variantValue(v any, path string) (uint32, error) {
	n, ok := v.(int64)
	if !ok {
		return 0, typeError(ViolationNotInteger, path, "enum variant value is not an integer")
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, typeError(ViolationRange, path, "enum variant value must be a u32")
	}
	return uint32(n), nil
}
