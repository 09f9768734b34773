package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mevansam/jmux"
	"github.com/mevansam/jmux/config"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("schema catalog", func() {

	var dir string

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "jmux-config")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	writeDoc := func(content string) string {
		path := filepath.Join(dir, "schemas.yaml")
		Expect(ioutil.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("loads a schema with scalar, enum and nested fields", func() {

		path := writeDoc(`
completion:
  id:
    kind: string
  tokenCount:
    kind: integer
  status:
    kind: enum
    enum: [pending, complete, failed]
  content:
    kind: string
    stream: true
  usage:
    kind: nested
    nested:
      promptTokens:
        kind: integer
      completionTokens:
        kind: integer
`)

		catalog, err := config.LoadCatalog(path)
		Expect(err).ToNot(HaveOccurred())

		schema, ok := catalog.Schema("completion")
		Expect(ok).To(BeTrue())

		field, ok := schema.Field("status")
		Expect(ok).To(BeTrue())
		Expect(field.Kind()).To(Equal(jmux.KindEnumerated))
		Expect(field.EnumMembers()).To(ConsistOf("pending", "complete", "failed"))

		field, ok = schema.Field("content")
		Expect(ok).To(BeTrue())
		Expect(field.Sink()).To(Equal(jmux.SinkStream))

		field, ok = schema.Field("usage")
		Expect(ok).To(BeTrue())
		Expect(field.Kind()).To(Equal(jmux.KindNested))
		Expect(field.Nested()).ToNot(BeNil())
	})

	It("returns an error for an unknown field kind", func() {

		path := writeDoc(`
bad:
  x:
    kind: not-a-real-kind
`)

		_, err := config.LoadCatalog(path)
		Expect(err).To(HaveOccurred())
	})

	It("returns an error, rather than panicking, for an integer field declared with stream: true", func() {

		path := writeDoc(`
bad:
  n:
    kind: integer
    stream: true
`)

		_, err := config.LoadCatalog(path)
		Expect(err).To(HaveOccurred())
	})

	It("reports a schema not present in the catalog", func() {

		path := writeDoc(`
completion:
  id:
    kind: string
`)

		catalog, err := config.LoadCatalog(path)
		Expect(err).ToNot(HaveOccurred())

		_, ok := catalog.Schema("does-not-exist")
		Expect(ok).To(BeFalse())
	})
})
