package schema

// Build turns a raw Document into the validated IR. Messages and enums are
// built first because services resolve against them.
func Build(doc *Document) (*Schema, error) {
	messages, err := BuildMessages(doc.Messages)
	if err != nil {
		return nil, err
	}

	enums, err := BuildEnums(doc.Enums)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]string)
	claim := func(name, path string) error {
		if prev, dup := declared[name]; dup {
			return typeError(ViolationDuplicate, path, "%s is already declared at %s", name, prev)
		}
		declared[name] = path
		return nil
	}
	for i, m := range messages {
		if err := claim(m.Name, doc.Messages[i].Path()); err != nil {
			return nil, err
		}
	}
	for i, e := range enums {
		if err := claim(e.Name, doc.Enums[i].Path()); err != nil {
			return nil, err
		}
	}

	services, err := BuildServices(doc.Services, messages, enums)
	if err != nil {
		return nil, err
	}
	for i, s := range services {
		if err := claim(s.Name, doc.Services[i].Path()); err != nil {
			return nil, err
		}
	}

	return &Schema{
		Messages: messages,
		Enums:    enums,
		Services: services,
	}, nil
}

// ParseSchema parses schema text straight into the IR
func ParseSchema(src []byte) (*Schema, error) {
	doc, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}
