package jmux

import "fmt"

// ExternalKind enumerates the scalar kinds an external model
// description (a struct tag set, a JSON Schema document, or any other
// data-validation model the caller wants to cross-check this package's
// Schema against) may declare for a field.
type ExternalKind int

const (
	ExternalString ExternalKind = iota
	ExternalInteger
	ExternalFloat
	ExternalBoolean
	ExternalNull
	ExternalEnum
	ExternalNested
)

// matches reports whether the ValueKind v satisfies the ExternalKind
// k under the kind-mapping table. A stream-string field maps to ExternalString the same
// as a single string field does; sink kind plays no part in
// conformance, only value shape does.
func (k ExternalKind) matches(v ValueKind) bool {
	switch k {
	case ExternalString:
		return v == KindString
	case ExternalInteger:
		return v == KindInteger
	case ExternalFloat:
		return v == KindFloat
	case ExternalBoolean:
		return v == KindBoolean
	case ExternalNull:
		return v == KindNull
	case ExternalEnum:
		return v == KindEnumerated
	case ExternalNested:
		return v == KindNested
	default:
		return false
	}
}

func (k ExternalKind) String() string {
	switch k {
	case ExternalString:
		return "string"
	case ExternalInteger:
		return "integer"
	case ExternalFloat:
		return "float"
	case ExternalBoolean:
		return "boolean"
	case ExternalNull:
		return "null"
	case ExternalEnum:
		return "enum"
	case ExternalNested:
		return "nested"
	default:
		return fmt.Sprintf("externalkind(%d)", int(k))
	}
}

// ExternalField describes one field of an external model: its name,
// scalar kind, and, for ExternalEnum/ExternalNested fields, its member
// set or nested model.
type ExternalField struct {
	Name        string
	Kind        ExternalKind
	EnumMembers []string
	Nested      *ExternalSchema
}

// ExternalSchema is a caller-supplied description of the fields a
// model external to this package expects, used as the right-hand side
// of a conformance check. It carries no behavior of its own: build one
// from struct tags, a JSON Schema document, or by hand.
type ExternalSchema struct {
	Fields []ExternalField
}

// AssertConformsTo performs a one-shot structural comparison between
// s and external: field-name sets must be equal, every field's scalar
// kind must match under the kind-mapping table, enumerated member sets
// must match exactly, and nested fields recurse under the same rules.
// It returns a *SchemaMismatchError naming the first divergence found,
// path-qualified from "root".
func (s *Schema) AssertConformsTo(external *ExternalSchema) error {
	return assertConformsTo(s, external, "root")
}

func assertConformsTo(s *Schema, external *ExternalSchema, path string) error {
	externalByName := make(map[string]*ExternalField, len(external.Fields))
	for i := range external.Fields {
		f := &external.Fields[i]
		externalByName[f.Name] = f
	}

	internalFields := s.Fields()
	if len(internalFields) != len(external.Fields) {
		return &SchemaMismatchError{
			Path: path,
			Message: fmt.Sprintf(
				"field count mismatch: declared %d field(s), external model has %d",
				len(internalFields), len(external.Fields)),
		}
	}

	for _, f := range internalFields {
		ext, ok := externalByName[f.Name()]
		if !ok {
			return &SchemaMismatchError{
				Path:    path,
				Message: fmt.Sprintf("field %q is declared but absent from external model", f.Name()),
			}
		}

		fieldPath := path + "." + f.Name()

		if !ext.Kind.matches(f.Kind()) {
			return &SchemaMismatchError{
				Path: fieldPath,
				Message: fmt.Sprintf(
					"kind mismatch: declared %s, external model declares %s", f.Kind(), ext.Kind),
			}
		}

		switch f.Kind() {
		case KindEnumerated:
			if err := assertEnumMembersMatch(f, ext, fieldPath); err != nil {
				return err
			}
		case KindNested:
			if ext.Nested == nil {
				return &SchemaMismatchError{
					Path:    fieldPath,
					Message: "declared as nested but external model supplies no nested model",
				}
			}
			if err := assertConformsTo(f.Nested(), ext.Nested, fieldPath); err != nil {
				return err
			}
		}
	}

	// every declared field found its external counterpart above, and
	// the lengths matched, so no external field can be left unclaimed.
	return nil
}

func assertEnumMembersMatch(f *FieldSchema, ext *ExternalField, path string) error {
	declared := make(map[string]bool, len(f.EnumMembers()))
	for _, m := range f.EnumMembers() {
		declared[m] = true
	}
	external := make(map[string]bool, len(ext.EnumMembers))
	for _, m := range ext.EnumMembers {
		external[m] = true
	}

	if len(declared) != len(external) {
		return &SchemaMismatchError{
			Path: path,
			Message: fmt.Sprintf(
				"enum member count mismatch: declared %v, external model declares %v",
				f.EnumMembers(), ext.EnumMembers),
		}
	}
	for m := range declared {
		if !external[m] {
			return &SchemaMismatchError{
				Path:    path,
				Message: fmt.Sprintf("enum member %q is declared but absent from external model", m),
			}
		}
	}
	return nil
}
