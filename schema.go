package jmux

import "fmt"

// ValueKind identifies the scalar shape a field's value must conform
// to once it has been fully lexed.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindNull
	KindEnumerated
	KindNested
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindEnumerated:
		return "enumerated"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("valuekind(%d)", int(k))
	}
}

// SinkKind determines how a field's lexed value is delivered to
// consumers: as a single value that resolves once, or as an ordered
// stream of fragments.
type SinkKind int

const (
	SinkSingle SinkKind = iota
	SinkStream
)

func (k SinkKind) String() string {
	switch k {
	case SinkSingle:
		return "single"
	case SinkStream:
		return "stream"
	default:
		return fmt.Sprintf("sinkkind(%d)", int(k))
	}
}

// FieldSchema describes a single field of a schema: the kind of sink
// its value is exposed through, the kind of value it accepts, and,
// for enumerated or nested fields, the members or sub-schema.
type FieldSchema struct {
	name string
	sink SinkKind
	kind ValueKind

	enumMembers  []string
	enumMemberOf map[string]bool

	nested *Schema
}

// Name returns the field's key as it appears in the JSON object.
func (f *FieldSchema) Name() string {
	return f.name
}

// Sink returns the delivery discipline declared for this field.
func (f *FieldSchema) Sink() SinkKind {
	return f.sink
}

// Kind returns the value shape declared for this field.
func (f *FieldSchema) Kind() ValueKind {
	return f.kind
}

// EnumMembers returns the accepted member strings for a KindEnumerated
// field, in declaration order. It returns nil for any other kind.
func (f *FieldSchema) EnumMembers() []string {
	return f.enumMembers
}

// Nested returns the sub-schema declared for a KindNested field. It
// returns nil for any other kind.
func (f *FieldSchema) Nested() *Schema {
	return f.nested
}

func (f *FieldSchema) isEnumMember(value string) bool {
	return f.enumMemberOf[value]
}

// Schema is an immutable declaration of the fields a JSON object may
// contain. A Schema must be fully built before it is handed to a
// Demultiplexer; once constructed it is safe to share across any
// number of concurrent Demultiplexer instances.
type Schema struct {
	fields       map[string]*FieldSchema
	order        []string
	strictFields bool
}

// SchemaBuilder accumulates field declarations. It is not safe for
// concurrent use; build a Schema on a single goroutine and then share
// the resulting *Schema freely.
type SchemaBuilder struct {
	fields       map[string]*FieldSchema
	order        []string
	strictFields bool
}

// NewSchemaBuilder returns a builder for a schema that, by default,
// rejects any field key it has not been told about. Call Permissive
// to relax that.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{
		fields:       make(map[string]*FieldSchema),
		order:        []string{},
		strictFields: true,
	}
}

// Permissive configures the resulting Schema to silently discard
// values for keys it does not recognize instead of failing the
// stream with an UnknownFieldError.
func (b *SchemaBuilder) Permissive() *SchemaBuilder {
	b.strictFields = false
	return b
}

// Field declares a scalar field. kind must not be KindEnumerated or
// KindNested; use Enum or Nested for those. Only KindString may be
// paired with SinkStream: the lexer only ever streams fragments of a
// string literal as it reads it, so a Stream sink on any other kind
// can never be delivered and must be rejected here rather than left
// to panic or hang at feed time.
func (b *SchemaBuilder) Field(name string, sink SinkKind, kind ValueKind) *SchemaBuilder {
	if kind == KindEnumerated || kind == KindNested {
		panic(fmt.Sprintf(
			"jmux: field %q of kind %s must be declared with Enum or Nested", name, kind))
	}
	if sink == SinkStream && kind != KindString {
		panic(fmt.Sprintf(
			"jmux: field %q of kind %s cannot use a stream sink; only %s fields may be streamed",
			name, kind, KindString))
	}
	b.addField(&FieldSchema{
		name: name,
		sink: sink,
		kind: kind,
	})
	return b
}

// Enum declares a field whose string value is constrained to members.
// sink must be SinkSingle: streaming an enumerated field would release
// fragments of the raw token before its membership could be checked,
// so membership could never be enforced.
func (b *SchemaBuilder) Enum(name string, sink SinkKind, members ...string) *SchemaBuilder {
	if sink == SinkStream {
		panic(fmt.Sprintf(
			"jmux: field %q is enumerated and cannot use a stream sink", name))
	}
	memberOf := make(map[string]bool, len(members))
	for _, m := range members {
		memberOf[m] = true
	}
	b.addField(&FieldSchema{
		name:         name,
		sink:         sink,
		kind:         KindEnumerated,
		enumMembers:  members,
		enumMemberOf: memberOf,
	})
	return b
}

// Nested declares a field whose value is itself an object conforming
// to the given sub-schema. The sink of a nested field is always
// effectively Single: the reference to the nested demultiplexer
// instance resolves once, as soon as the opening brace is seen, even
// though the fields inside it may still be pending.
func (b *SchemaBuilder) Nested(name string, nested *Schema) *SchemaBuilder {
	b.addField(&FieldSchema{
		name:   name,
		sink:   SinkSingle,
		kind:   KindNested,
		nested: nested,
	})
	return b
}

func (b *SchemaBuilder) addField(f *FieldSchema) {
	if _, exists := b.fields[f.name]; exists {
		panic(fmt.Sprintf("jmux: a field named %q has already been declared", f.name))
	}
	b.fields[f.name] = f
	b.order = append(b.order, f.name)
}

// Build freezes the declared fields into an immutable Schema.
func (b *SchemaBuilder) Build() *Schema {
	fields := make(map[string]*FieldSchema, len(b.fields))
	order := make([]string, len(b.order))
	copy(order, b.order)
	for k, v := range b.fields {
		fields[k] = v
	}
	return &Schema{
		fields:       fields,
		order:        order,
		strictFields: b.strictFields,
	}
}

// Field looks up a declared field by key.
func (s *Schema) Field(name string) (*FieldSchema, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns every declared field in declaration order.
func (s *Schema) Fields() []*FieldSchema {
	out := make([]*FieldSchema, len(s.order))
	for i, name := range s.order {
		out[i] = s.fields[name]
	}
	return out
}

// Strict reports whether an undeclared key fails the stream
// (UnknownFieldError) or is silently discarded.
func (s *Schema) Strict() bool {
	return s.strictFields
}
