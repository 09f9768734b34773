package jmux

import (
	"fmt"
	"io"

	"github.com/mevansam/jmux/persistence"
)

// ParseExternalSchemaJSON reads a JSON document describing an
// external model and returns the ExternalSchema AssertConformsTo can
// compare a Schema against. The document is a flat object mapping
// field name to a description:
//
//	"name": "string"                      -> ExternalString
//	"name": "integer"                     -> ExternalInteger
//	"name": "float"                       -> ExternalFloat
//	"name": "boolean"                     -> ExternalBoolean
//	"name": "null"                        -> ExternalNull
//	"name": {"enum": ["a", "b"]}          -> ExternalEnum
//	"name": {"nested": {"...": "..."}}    -> ExternalNested, recursive
//
// It is a thin, general-purpose consumer of the persistence package's
// streaming unmarshaller, not a JSON Schema implementation: it exists
// so a conformance check can be driven from a document on disk
// instead of a hand-built ExternalSchema value.
func ParseExternalSchemaJSON(r io.Reader) (*ExternalSchema, error) {
	parser := persistence.NewJSONStreamParser(persistence.NewMap())
	root, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	m, ok := root.(persistence.Map)
	if !ok {
		return nil, fmt.Errorf("jmux: external schema document must be a JSON object at its root")
	}
	return externalSchemaFromMap(m)
}

func externalSchemaFromMap(m persistence.Map) (*ExternalSchema, error) {
	schema := &ExternalSchema{}
	for name, raw := range m {
		field, err := externalFieldFromValue(name, raw)
		if err != nil {
			return nil, err
		}
		schema.Fields = append(schema.Fields, *field)
	}
	return schema, nil
}

func externalFieldFromValue(name string, raw interface{}) (*ExternalField, error) {
	switch v := raw.(type) {
	case string:
		kind, err := externalKindFromName(name, v)
		if err != nil {
			return nil, err
		}
		return &ExternalField{Name: name, Kind: kind}, nil

	case persistence.Map:
		if enumValues, ok := v["enum"]; ok {
			members, err := stringArray(name, enumValues)
			if err != nil {
				return nil, err
			}
			return &ExternalField{Name: name, Kind: ExternalEnum, EnumMembers: members}, nil
		}
		if nestedValue, ok := v["nested"]; ok {
			nestedMap, ok := nestedValue.(persistence.Map)
			if !ok {
				return nil, fmt.Errorf("jmux: field %q: \"nested\" must be a JSON object", name)
			}
			nested, err := externalSchemaFromMap(nestedMap)
			if err != nil {
				return nil, err
			}
			return &ExternalField{Name: name, Kind: ExternalNested, Nested: nested}, nil
		}
		return nil, fmt.Errorf("jmux: field %q: object description must contain \"enum\" or \"nested\"", name)

	default:
		return nil, fmt.Errorf("jmux: field %q: unrecognized schema description %#v", name, raw)
	}
}

func externalKindFromName(field, name string) (ExternalKind, error) {
	switch name {
	case "string":
		return ExternalString, nil
	case "integer":
		return ExternalInteger, nil
	case "float":
		return ExternalFloat, nil
	case "boolean":
		return ExternalBoolean, nil
	case "null":
		return ExternalNull, nil
	default:
		return 0, fmt.Errorf("jmux: field %q: unrecognized scalar kind %q", field, name)
	}
}

func stringArray(field string, raw interface{}) ([]string, error) {
	arr, ok := raw.(persistence.Array)
	if !ok {
		return nil, fmt.Errorf("jmux: field %q: \"enum\" must be a JSON array", field)
	}
	members := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("jmux: field %q: enum member %v is not a string", field, v)
		}
		members[i] = s
	}
	return members, nil
}
