package persistence

// ElementType identifies the shape of a single node as it is emitted
// by a streaming parser: an object, an array, a scalar value, or a
// scalar value inside an array.
type ElementType int

const (
	EtUnknown ElementType = iota
	EtObject
	EtArray
	EtKey
	EtValue
	EtArrayValue
)

// Unmarshaller receives a stream of parse events describing a JSON
// document without requiring the whole document to be materialized
// in memory first. Implementations build whatever in-memory or
// external representation they need as each node is reported.
type Unmarshaller interface {

	// Unmarshal handles one parsed element.
	//
	// in: path     - the absolute parent path of the child element being handled
	// in: key      - the key of the stream element being handled
	// in: elemType - the type of the stream element. this can be one of Object, Array,
	//                Value or ArrayValue. if it is an Object or Array then the returned
	//                Unmarshaller can be specific for that instance
	// in: value    - the value to be handled. if the key type is an Object
	//                or Array this will be nil
	//
	// out: Unmarshaller - the unmarshaller for current node
	// out: Unmarshaller - the unmarshaller for the next node
	// out: error        - if an error occurs while handling the data
	Unmarshal(
		path []string,
		key string,
		elemType ElementType,
		value interface{},
	) (Unmarshaller, Unmarshaller, error)

	// Finalize closes out a stream object or array once it has been
	// completely parsed.
	//
	// in: path - the absolute parent path of the child element being handled
	// in: key  - the key of the stream element being handled
	// in: node - the node to be finalized
	//
	// out: error - if an error occurs while handling the data
	Finalize(
		path []string,
		key string,
		node Unmarshaller,
	) error
}
