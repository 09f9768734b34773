package jmux_test

import (
	"github.com/mevansam/jmux"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("SchemaBuilder", func() {

	It("builds a schema exposing fields in declaration order", func() {
		schema := jmux.NewSchemaBuilder().
			Field("first", jmux.SinkSingle, jmux.KindString).
			Field("second", jmux.SinkSingle, jmux.KindInteger).
			Field("third", jmux.SinkStream, jmux.KindString).
			Build()

		names := []string{}
		for _, f := range schema.Fields() {
			names = append(names, f.Name())
		}
		Expect(names).To(Equal([]string{"first", "second", "third"}))
	})

	It("is strict by default and permissive once Permissive is called", func() {
		strict := jmux.NewSchemaBuilder().Field("a", jmux.SinkSingle, jmux.KindString).Build()
		Expect(strict.Strict()).To(BeTrue())

		permissive := jmux.NewSchemaBuilder().Permissive().Field("a", jmux.SinkSingle, jmux.KindString).Build()
		Expect(permissive.Strict()).To(BeFalse())
	})

	It("panics when the same field name is declared twice", func() {
		Expect(func() {
			jmux.NewSchemaBuilder().
				Field("id", jmux.SinkSingle, jmux.KindString).
				Field("id", jmux.SinkSingle, jmux.KindInteger).
				Build()
		}).To(Panic())
	})

	It("panics when Field is used for an enumerated or nested kind", func() {
		Expect(func() {
			jmux.NewSchemaBuilder().Field("status", jmux.SinkSingle, jmux.KindEnumerated)
		}).To(Panic())
	})

	It("panics when a non-string scalar is declared with a stream sink", func() {
		Expect(func() {
			jmux.NewSchemaBuilder().Field("n", jmux.SinkStream, jmux.KindInteger)
		}).To(Panic())
		Expect(func() {
			jmux.NewSchemaBuilder().Field("active", jmux.SinkStream, jmux.KindBoolean)
		}).To(Panic())
	})

	It("panics when an enumerated field is declared with a stream sink", func() {
		Expect(func() {
			jmux.NewSchemaBuilder().Enum("status", jmux.SinkStream, "pending", "done")
		}).To(Panic())
	})

	It("allows a string field to use a stream sink", func() {
		Expect(func() {
			jmux.NewSchemaBuilder().Field("content", jmux.SinkStream, jmux.KindString).Build()
		}).ToNot(Panic())
	})

	It("reports enum members in declaration order through the built field", func() {
		schema := jmux.NewSchemaBuilder().
			Enum("status", jmux.SinkSingle, "pending", "active", "done").
			Build()

		field, ok := schema.Field("status")
		Expect(ok).To(BeTrue())
		Expect(field.Kind()).To(Equal(jmux.KindEnumerated))
		Expect(field.EnumMembers()).To(Equal([]string{"pending", "active", "done"}))
	})

	It("exposes the nested sub-schema of a nested field", func() {
		nested := jmux.NewSchemaBuilder().Field("leaf", jmux.SinkSingle, jmux.KindString).Build()
		schema := jmux.NewSchemaBuilder().Nested("child", nested).Build()

		field, ok := schema.Field("child")
		Expect(ok).To(BeTrue())
		Expect(field.Kind()).To(Equal(jmux.KindNested))
		Expect(field.Sink()).To(Equal(jmux.SinkSingle))
		Expect(field.Nested()).To(BeIdenticalTo(nested))
	})

	It("returns false for a field that was never declared", func() {
		schema := jmux.NewSchemaBuilder().Field("a", jmux.SinkSingle, jmux.KindString).Build()
		_, ok := schema.Field("missing")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ValueKind and SinkKind string formatting", func() {

	It("names every declared value kind", func() {
		Expect(jmux.KindString.String()).To(Equal("string"))
		Expect(jmux.KindInteger.String()).To(Equal("integer"))
		Expect(jmux.KindFloat.String()).To(Equal("float"))
		Expect(jmux.KindBoolean.String()).To(Equal("boolean"))
		Expect(jmux.KindNull.String()).To(Equal("null"))
		Expect(jmux.KindEnumerated.String()).To(Equal("enumerated"))
		Expect(jmux.KindNested.String()).To(Equal("nested"))
	})

	It("names every declared sink kind", func() {
		Expect(jmux.SinkSingle.String()).To(Equal("single"))
		Expect(jmux.SinkStream.String()).To(Equal("stream"))
	})
})
