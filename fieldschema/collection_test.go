package fieldschema_test

import (
	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/fieldschema"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("field schema collection", func() {

	var (
		err error
		c   *fieldschema.Collection
	)

	BeforeEach(func() {
		c = fieldschema.NewCollection()
	})

	Context("building a schema", func() {

		It("builds a schema with scalar, enum and nested fields", func() {

			innerCollection := fieldschema.NewCollection()
			err = innerCollection.Add(fieldschema.NewDeclaration("inner").String(jmux.SinkSingle))
			Expect(err).ToNot(HaveOccurred())
			innerSchema, err := innerCollection.Build()
			Expect(err).ToNot(HaveOccurred())

			err = c.Add(fieldschema.NewDeclaration("a").String(jmux.SinkSingle))
			Expect(err).ToNot(HaveOccurred())
			err = c.Add(fieldschema.NewDeclaration("b").Integer(jmux.SinkSingle))
			Expect(err).ToNot(HaveOccurred())
			err = c.Add(fieldschema.NewDeclaration("k").Enum(jmux.SinkSingle, "value1", "value2"))
			Expect(err).ToNot(HaveOccurred())
			err = c.Add(fieldschema.NewDeclaration("outer").Nested(innerSchema))
			Expect(err).ToNot(HaveOccurred())

			schema, err := c.Build()
			Expect(err).ToNot(HaveOccurred())

			field, ok := schema.Field("k")
			Expect(ok).To(BeTrue())
			Expect(field.Kind()).To(Equal(jmux.KindEnumerated))
			Expect(field.EnumMembers()).To(ConsistOf("value1", "value2"))

			field, ok = schema.Field("outer")
			Expect(ok).To(BeTrue())
			Expect(field.Kind()).To(Equal(jmux.KindNested))
			Expect(field.Nested()).To(Equal(innerSchema))
		})

		It("rejects a duplicate field name instead of overwriting it", func() {

			err = c.Add(fieldschema.NewDeclaration("a").String(jmux.SinkSingle))
			Expect(err).ToNot(HaveOccurred())

			err = c.Add(fieldschema.NewDeclaration("a").Integer(jmux.SinkSingle))
			Expect(err).To(HaveOccurred())
		})

		It("builds a permissive schema when requested", func() {

			err = c.Permissive().Add(fieldschema.NewDeclaration("a").String(jmux.SinkSingle))
			Expect(err).ToNot(HaveOccurred())

			schema, err := c.Build()
			Expect(err).ToNot(HaveOccurred())
			Expect(schema.Strict()).To(BeFalse())
		})

		It("fails to build, rather than panic, when a non-string scalar is declared with a stream sink", func() {

			err = c.Add(fieldschema.NewDeclaration("n").Integer(jmux.SinkStream))
			Expect(err).ToNot(HaveOccurred())

			_, err := c.Build()
			Expect(err).To(HaveOccurred())
		})

		It("fails to build, rather than panic, when an enum is declared with a stream sink", func() {

			err = c.Add(fieldschema.NewDeclaration("status").Enum(jmux.SinkStream, "a", "b"))
			Expect(err).ToNot(HaveOccurred())

			_, err := c.Build()
			Expect(err).To(HaveOccurred())
		})
	})
})
