// Package config loads a gateway's known field schemas from disk. A
// schema document is a YAML mapping of schema name to field name to a
// field mapping: "kind" names one of the kinds ParseExternalSchemaJSON
// also uses (string/integer/float/boolean/null) or "enum"/"nested",
// with the members under "enum" and the sub-fields under "nested";
// "stream: true" selects a stream sink. The document shape differs
// from the JSON one ParseExternalSchemaJSON reads, so one file cannot
// be fed to both.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/fieldschema"
	"github.com/mevansam/jmux/logger"
)

// SchemaField mirrors one field entry in a YAML schema document.
type SchemaField struct {
	Kind   string                 `yaml:"kind"`
	Stream bool                   `yaml:"stream,omitempty"`
	Enum   []string               `yaml:"enum,omitempty"`
	Nested map[string]SchemaField `yaml:"nested,omitempty"`
}

// SchemaDocument is the top-level shape of a schema YAML file: a flat
// mapping of schema name to its fields.
type SchemaDocument map[string]map[string]SchemaField

// Catalog holds the schemas a gateway was started with, indexed by
// name.
type Catalog struct {
	schemas map[string]*jmux.Schema
}

// LoadCatalog reads and parses the YAML schema document at path,
// expanding a leading "~" the way the teacher's configuration loader
// always has.
func LoadCatalog(path string) (*Catalog, error) {

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	var doc SchemaDocument
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: failed to parse schema document %s: %w", expanded, err)
	}

	catalog := &Catalog{schemas: make(map[string]*jmux.Schema)}
	for name, fields := range doc {
		schema, err := buildSchema(fields)
		if err != nil {
			return nil, fmt.Errorf("config: schema %q: %w", name, err)
		}
		catalog.schemas[name] = schema
		logger.DebugMessage("config.LoadCatalog: loaded schema %q with %d field(s) from %s", name, len(fields), expanded)
	}
	return catalog, nil
}

// LoadCatalogFromDefaultPath loads the schema document at
// $HOME/.jmux/schemas.yaml, returning a nil Catalog with no error if
// that file does not exist.
func LoadCatalogFromDefaultPath() (*Catalog, error) {

	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".jmux", "schemas.yaml")
	if _, err = os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadCatalog(path)
}

// NewCatalog builds a Catalog directly from already-constructed
// schemas, for callers that assemble schemas in code rather than
// loading them from a YAML document.
func NewCatalog(schemas map[string]*jmux.Schema) *Catalog {
	return &Catalog{schemas: schemas}
}

// Schema returns the named schema and whether it was found.
func (c *Catalog) Schema(name string) (*jmux.Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

func buildSchema(fields map[string]SchemaField) (*jmux.Schema, error) {

	collection := fieldschema.NewCollection()
	for name, field := range fields {
		decl, err := declareField(name, field)
		if err != nil {
			return nil, err
		}
		if err = collection.Add(decl); err != nil {
			return nil, err
		}
	}
	return collection.Build()
}

func declareField(name string, field SchemaField) (*fieldschema.Declaration, error) {

	sink := jmux.SinkSingle
	if field.Stream {
		sink = jmux.SinkStream
	}

	d := fieldschema.NewDeclaration(name)
	switch field.Kind {
	case "string":
		return d.String(sink), nil
	case "integer":
		return d.Integer(sink), nil
	case "float":
		return d.Float(sink), nil
	case "boolean":
		return d.Boolean(sink), nil
	case "null":
		return d.Null(sink), nil
	case "enum":
		return d.Enum(sink, field.Enum...), nil
	case "nested":
		sub, err := buildSchema(field.Nested)
		if err != nil {
			return nil, err
		}
		return d.Nested(sub), nil
	default:
		return nil, fmt.Errorf("field %q has unknown kind %q", name, field.Kind)
	}
}
