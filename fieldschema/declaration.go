// Package fieldschema gives statically-typed callers a fluent,
// declarative way to build a jmux.Schema, the way the base package's
// design notes ask for ("an explicit schema-builder"). It mirrors the
// fluent, duplicate-checking field collection discipline of an
// input-group builder, repurposed here for scalar/stream/nested field
// declarations instead of user-input forms.
package fieldschema

import (
	"fmt"

	"github.com/mevansam/jmux"
)

// Declaration describes one field's sink and value kind while it is
// being built. Obtain one via NewDeclaration and finish it with
// exactly one of String, Integer, Float, Boolean, Null, Enum or
// Nested before adding it to a Collection.
type Declaration struct {
	name string

	sink jmux.SinkKind
	kind jmux.ValueKind

	enumMembers []string
	nested      *jmux.Schema

	finished bool
	err      error
}

// NewDeclaration starts a field declaration for the given name.
func NewDeclaration(name string) *Declaration {
	return &Declaration{name: name}
}

func (d *Declaration) finish(sink jmux.SinkKind, kind jmux.ValueKind) *Declaration {
	d.sink = sink
	d.kind = kind
	d.finished = true
	return d
}

// String declares a string field. It is the only scalar kind the
// lexer can stream: a string's fragments are released as they are
// read, so SinkStream is valid here.
func (d *Declaration) String(sink jmux.SinkKind) *Declaration {
	return d.finish(sink, jmux.KindString)
}

// Integer declares an integer field. sink must be SinkSingle: the
// lexer only ever streams fragments of a string literal, so a Stream
// sink on a number can never be delivered.
func (d *Declaration) Integer(sink jmux.SinkKind) *Declaration {
	return d.scalarOnlySingle(sink, jmux.KindInteger)
}

// Float declares a floating-point field. sink must be SinkSingle, for
// the same reason as Integer.
func (d *Declaration) Float(sink jmux.SinkKind) *Declaration {
	return d.scalarOnlySingle(sink, jmux.KindFloat)
}

// Boolean declares a boolean field. sink must be SinkSingle, for the
// same reason as Integer.
func (d *Declaration) Boolean(sink jmux.SinkKind) *Declaration {
	return d.scalarOnlySingle(sink, jmux.KindBoolean)
}

// Null declares a null-only field. sink must be SinkSingle, for the
// same reason as Integer.
func (d *Declaration) Null(sink jmux.SinkKind) *Declaration {
	return d.scalarOnlySingle(sink, jmux.KindNull)
}

func (d *Declaration) scalarOnlySingle(sink jmux.SinkKind, kind jmux.ValueKind) *Declaration {
	if sink == jmux.SinkStream {
		d.err = fmt.Errorf("fieldschema: field %q of kind %s cannot use a stream sink", d.name, kind)
	}
	return d.finish(sink, kind)
}

// Enum declares a field whose string value must be one of members.
// sink must be SinkSingle: streaming an enumerated field would
// release fragments of the raw token before its membership could be
// checked.
func (d *Declaration) Enum(sink jmux.SinkKind, members ...string) *Declaration {
	if sink == jmux.SinkStream {
		d.err = fmt.Errorf("fieldschema: field %q is enumerated and cannot use a stream sink", d.name)
	}
	d.enumMembers = members
	return d.finish(sink, jmux.KindEnumerated)
}

// Nested declares a field whose value is an object conforming to sub.
func (d *Declaration) Nested(sub *jmux.Schema) *Declaration {
	d.nested = sub
	return d.finish(jmux.SinkSingle, jmux.KindNested)
}

func (d *Declaration) apply(b *jmux.SchemaBuilder) error {
	if !d.finished {
		return fmt.Errorf("fieldschema: field %q was never given a kind", d.name)
	}
	if d.err != nil {
		return d.err
	}
	switch d.kind {
	case jmux.KindEnumerated:
		b.Enum(d.name, d.sink, d.enumMembers...)
	case jmux.KindNested:
		b.Nested(d.name, d.nested)
	default:
		b.Field(d.name, d.sink, d.kind)
	}
	return nil
}
