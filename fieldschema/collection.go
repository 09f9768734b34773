package fieldschema

import (
	"fmt"

	"github.com/mevansam/jmux"
)

// Collection accumulates field declarations before they are built
// into a jmux.Schema, rejecting a duplicate field name the moment it
// is added rather than letting a later declaration silently overwrite
// an earlier one.
type Collection struct {
	declarations []*Declaration
	fieldNameSet map[string]bool
	permissive   bool
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		fieldNameSet: make(map[string]bool),
	}
}

// Permissive configures the resulting Schema to silently discard
// values for undeclared keys instead of failing the stream.
func (c *Collection) Permissive() *Collection {
	c.permissive = true
	return c
}

// Add registers a field declaration. It returns an error, rather than
// panicking, if the name has already been declared in this
// Collection.
func (c *Collection) Add(d *Declaration) error {
	if c.fieldNameSet[d.name] {
		return fmt.Errorf("fieldschema: a field named %q has already been added", d.name)
	}
	c.fieldNameSet[d.name] = true
	c.declarations = append(c.declarations, d)
	return nil
}

// Build assembles every added declaration into an immutable
// jmux.Schema.
func (c *Collection) Build() (*jmux.Schema, error) {
	b := jmux.NewSchemaBuilder()
	if c.permissive {
		b.Permissive()
	}
	for _, d := range c.declarations {
		if err := d.apply(b); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
