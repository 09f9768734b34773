package jmux

import (
	"context"
	"strings"
)

type lexState int

const (
	stateBeforeObject lexState = iota
	stateExpectKeyOrClose
	stateParsingKey
	stateExpectColon
	stateExpectValue
	stateParsingString
	stateParsingNumber
	stateParsingLiteral
	stateParsingNested
	stateExpectCommaOrClose
	stateSkipString
	stateSkipNumber
	stateSkipLiteral
	stateSkipObject
	stateDone
	stateError
)

func isJSONWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isNumberBodyChar(ch rune) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch == '-' || ch == '+' || ch == '.' || ch == 'e' || ch == 'E':
		return true
	default:
		return false
	}
}

// Demultiplexer lexes a single JSON object character by character,
// routing each declared field's value into its Sink as soon as the
// value is complete (or, for stream fields, as each fragment is
// lexed). It is created with NewDemultiplexer and must not be reused
// once it reaches its terminal state.
type Demultiplexer struct {
	schema *Schema

	state lexState

	keyDecoder   *stringEscapeDecoder
	valueDecoder *stringEscapeDecoder
	literalBuf   strings.Builder
	numberBuf    strings.Builder

	currentField *FieldSchema
	currentKey   string

	// skip bookkeeping for permissive unknown-field handling
	skipObjectDepth int
	skipDecoder     *stringEscapeDecoder
	skipStringOpen  bool

	nested *Demultiplexer

	singleSinks map[string]*SingleSink
	streamSinks map[string]*StreamSink

	err error
}

// NewDemultiplexer allocates a Demultiplexer bound to schema, with
// every declared field's sink created eagerly, ready to be awaited or
// iterated before a single character has been fed.
func NewDemultiplexer(schema *Schema) *Demultiplexer {
	d := &Demultiplexer{
		schema:       schema,
		state:        stateBeforeObject,
		keyDecoder:   newStringEscapeDecoder(),
		valueDecoder: newStringEscapeDecoder(),
		singleSinks:  make(map[string]*SingleSink),
		streamSinks:  make(map[string]*StreamSink),
	}
	for _, f := range schema.Fields() {
		if f.Sink() == SinkStream {
			d.streamSinks[f.Name()] = newStreamSink()
		} else {
			d.singleSinks[f.Name()] = newSingleSink()
		}
	}
	return d
}

// Schema returns the schema this instance was constructed with.
func (d *Demultiplexer) Schema() *Schema {
	return d.schema
}

// Done reports whether the root object has closed successfully.
func (d *Demultiplexer) Done() bool {
	return d.state == stateDone
}

// Poisoned reports whether the instance has entered its terminal
// error state and will reject any further character.
func (d *Demultiplexer) Poisoned() bool {
	return d.state == stateError
}

// Err returns the error that poisoned the instance, if any.
func (d *Demultiplexer) Err() error {
	return d.err
}

// AwaitField blocks until the named field's Single sink resolves.
// It is an error to call AwaitField on a field declared with a
// Stream sink; use FieldIterator for those.
func (d *Demultiplexer) AwaitField(ctx context.Context, name string) (interface{}, error) {
	field, ok := d.schema.Field(name)
	if !ok {
		return nil, &UnknownFieldError{Key: name}
	}
	if field.Sink() != SinkSingle {
		return nil, &TypeMismatchError{Field: name, Declared: field.Kind(), Token: "<stream-field>"}
	}
	return d.singleSinks[name].Await(ctx)
}

// FieldIterator returns a fresh iterator over the named field's
// Stream sink. It is an error to call this on a field declared with
// a Single sink; use AwaitField for those.
func (d *Demultiplexer) FieldIterator(name string) (*StreamIterator, error) {
	field, ok := d.schema.Field(name)
	if !ok {
		return nil, &UnknownFieldError{Key: name}
	}
	if field.Sink() != SinkStream {
		return nil, &TypeMismatchError{Field: name, Declared: field.Kind(), Token: "<single-field>"}
	}
	return d.streamSinks[name].Iterator(), nil
}

// Abort fails every non-terminal sink with err and poisons the
// instance, so that no awaiter is left blocked indefinitely once the
// caller knows the transport has gone away.
func (d *Demultiplexer) Abort(err error) {
	if d.state == stateError || d.state == stateDone {
		return
	}
	d.poison(err)
}

// FeedChar advances the lexer by one character.
func (d *Demultiplexer) FeedChar(ch rune) error {
	if d.state == stateError {
		return &PoisonedError{Cause: d.err}
	}
	if d.state == stateDone {
		if isJSONWhitespace(ch) {
			return nil
		}
		err := &ExtraneousInputError{Char: ch}
		d.poison(err)
		return err
	}
	if err := d.step(ch); err != nil {
		d.poison(err)
		return err
	}
	return nil
}

// FeedChunks feeds every character of s in order, stopping at the
// first error.
func (d *Demultiplexer) FeedChunks(s string) error {
	for _, ch := range s {
		if err := d.FeedChar(ch); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demultiplexer) poison(err error) {
	d.err = err
	d.state = stateError
	for _, s := range d.singleSinks {
		s.fail(err)
	}
	for _, s := range d.streamSinks {
		s.fail(err)
	}
}

func (d *Demultiplexer) step(ch rune) error {
	switch d.state {

	case stateBeforeObject:
		if isJSONWhitespace(ch) {
			return nil
		}
		if ch != '{' {
			return &MalformedInputError{Char: ch, State: "BeforeObject", Message: "JSON must start with '{'"}
		}
		d.state = stateExpectKeyOrClose
		return nil

	case stateExpectKeyOrClose:
		if isJSONWhitespace(ch) {
			return nil
		}
		if ch == '"' {
			d.keyDecoder.reset()
			d.state = stateParsingKey
			return nil
		}
		if ch == '}' {
			return d.finalize()
		}
		return &MalformedInputError{Char: ch, State: "ExpectKeyOrClose", Message: "expected '\"' or '}'"}

	case stateParsingKey:
		if d.keyDecoder.isTerminatingQuote(ch) {
			d.currentKey = d.keyDecoder.String()
			d.keyDecoder.reset()
			d.state = stateExpectColon
			return nil
		}
		d.keyDecoder.push(ch)
		return nil

	case stateExpectColon:
		if isJSONWhitespace(ch) {
			return nil
		}
		if ch == ':' {
			d.state = stateExpectValue
			return nil
		}
		return &MalformedInputError{Char: ch, State: "ExpectColon", Message: "expected ':'"}

	case stateExpectValue:
		return d.dispatchExpectValue(ch)

	case stateParsingString:
		return d.stepParsingString(ch)

	case stateParsingNumber:
		return d.stepParsingNumber(ch)

	case stateParsingLiteral:
		return d.stepParsingLiteral(ch)

	case stateParsingNested:
		return d.stepParsingNested(ch)

	case stateExpectCommaOrClose:
		return d.dispatchExpectCommaOrClose(ch)

	case stateSkipString:
		return d.stepSkipString(ch)

	case stateSkipNumber:
		return d.stepSkipNumber(ch)

	case stateSkipLiteral:
		return d.stepSkipLiteral(ch)

	case stateSkipObject:
		return d.stepSkipObject(ch)

	default:
		return &MalformedInputError{Char: ch, State: "unknown", Message: "lexer reached an unreachable state"}
	}
}

func (d *Demultiplexer) dispatchExpectValue(ch rune) error {
	field, known := d.schema.Field(d.currentKey)
	if !known {
		if d.schema.Strict() {
			return &UnknownFieldError{Key: d.currentKey}
		}
		return d.dispatchSkipValue(ch)
	}

	d.currentField = field

	switch {
	case ch == '"':
		if field.Kind() != KindString && field.Kind() != KindEnumerated {
			return &TypeMismatchError{Field: field.Name(), Declared: field.Kind(), Token: "\"...\""}
		}
		d.valueDecoder.reset()
		d.state = stateParsingString
		return nil

	case ch == '-' || (ch >= '0' && ch <= '9'):
		if field.Kind() != KindInteger && field.Kind() != KindFloat {
			return &TypeMismatchError{Field: field.Name(), Declared: field.Kind(), Token: string(ch)}
		}
		d.numberBuf.Reset()
		d.numberBuf.WriteRune(ch)
		d.state = stateParsingNumber
		return nil

	case ch == 't' || ch == 'f':
		if field.Kind() != KindBoolean {
			return &TypeMismatchError{Field: field.Name(), Declared: field.Kind(), Token: string(ch)}
		}
		d.literalBuf.Reset()
		d.literalBuf.WriteRune(ch)
		d.state = stateParsingLiteral
		return nil

	case ch == 'n':
		if field.Kind() != KindNull {
			return &TypeMismatchError{Field: field.Name(), Declared: field.Kind(), Token: string(ch)}
		}
		d.literalBuf.Reset()
		d.literalBuf.WriteRune(ch)
		d.state = stateParsingLiteral
		return nil

	case ch == '{':
		if field.Kind() != KindNested {
			return &TypeMismatchError{Field: field.Name(), Declared: field.Kind(), Token: "{"}
		}
		nested := NewDemultiplexer(field.Nested())
		d.nested = nested
		d.singleSinks[field.Name()].resolve(nested)
		d.state = stateParsingNested
		return nested.FeedChar(ch)

	case isJSONWhitespace(ch):
		return nil

	default:
		return &MalformedInputError{Char: ch, State: "ExpectValue", Message: "expected a JSON value"}
	}
}

func (d *Demultiplexer) stepParsingString(ch rune) error {
	field := d.currentField

	if d.valueDecoder.isTerminatingQuote(ch) {
		if field.Sink() == SinkStream {
			d.streamSinks[field.Name()].close()
		} else {
			value, err := coerce(field, d.valueDecoder.String())
			if err != nil {
				d.singleSinks[field.Name()].fail(err)
				d.valueDecoder.reset()
				return err
			}
			d.singleSinks[field.Name()].resolve(value)
		}
		d.valueDecoder.reset()
		d.state = stateExpectCommaOrClose
		return nil
	}

	decoded, ok := d.valueDecoder.push(ch)
	if ok && field.Sink() == SinkStream {
		d.streamSinks[field.Name()].append(string(decoded))
	}
	return nil
}

func (d *Demultiplexer) finishNumber(terminator rune) error {
	field := d.currentField
	value, err := coerce(field, d.numberBuf.String())
	if err != nil {
		d.singleSinks[field.Name()].fail(err)
		return err
	}
	d.singleSinks[field.Name()].resolve(value)
	d.state = stateExpectCommaOrClose
	return d.dispatchExpectCommaOrClose(terminator)
}

func (d *Demultiplexer) stepParsingNumber(ch rune) error {
	if isNumberBodyChar(ch) {
		d.numberBuf.WriteRune(ch)
		return nil
	}
	return d.finishNumber(ch)
}

// stepParsingLiteral accumulates characters of a fixed-length literal
// (true, false or null) and resolves the field's sink the instant the
// buffer matches the target word; literals need no terminator lookup
// since their length is known in advance.
func (d *Demultiplexer) stepParsingLiteral(ch rune) error {
	target := literalTarget(d.literalBuf.String())
	if target == "" {
		return &MalformedInputError{Char: ch, State: "ParsingLiteral", Message: "not a valid literal prefix"}
	}

	d.literalBuf.WriteRune(ch)
	word := d.literalBuf.String()
	if len(word) > len(target) || word != target[:len(word)] {
		return &MalformedInputError{Char: ch, State: "ParsingLiteral", Message: "expected '" + target + "'"}
	}
	if len(word) < len(target) {
		return nil
	}

	field := d.currentField
	value, err := coerce(field, target)
	if err != nil {
		d.singleSinks[field.Name()].fail(err)
		return err
	}
	d.singleSinks[field.Name()].resolve(value)
	d.state = stateExpectCommaOrClose
	return nil
}

func literalTarget(prefix string) string {
	switch {
	case len(prefix) > 0 && prefix[0] == 't':
		return "true"
	case len(prefix) > 0 && prefix[0] == 'f':
		return "false"
	case len(prefix) > 0 && prefix[0] == 'n':
		return "null"
	default:
		return ""
	}
}

func (d *Demultiplexer) stepParsingNested(ch rune) error {
	if err := d.nested.FeedChar(ch); err != nil {
		return err
	}
	if d.nested.Poisoned() {
		return d.nested.Err()
	}
	if d.nested.Done() {
		d.nested = nil
		d.state = stateExpectCommaOrClose
	}
	return nil
}

func (d *Demultiplexer) dispatchExpectCommaOrClose(ch rune) error {
	if isJSONWhitespace(ch) {
		return nil
	}
	if ch == ',' {
		d.state = stateExpectKeyOrClose
		return nil
	}
	if ch == '}' {
		return d.finalize()
	}
	return &MalformedInputError{Char: ch, State: "ExpectCommaOrClose", Message: "expected ',' or '}'"}
}

// finalize marks the root object closed. Fields the input never
// mentioned are left in their pending state rather than forced
// terminal; an awaiter of an absent field simply blocks until its
// context is cancelled or the instance is aborted.
func (d *Demultiplexer) finalize() error {
	d.state = stateDone
	return nil
}

// dispatchSkipValue begins discarding one well-formed JSON value for
// a key that is not declared in the schema under permissive mode.
func (d *Demultiplexer) dispatchSkipValue(ch rune) error {
	switch {
	case ch == '"':
		d.skipDecoder = newStringEscapeDecoder()
		d.state = stateSkipString
		return nil
	case ch == '-' || (ch >= '0' && ch <= '9'):
		d.state = stateSkipNumber
		return nil
	case ch == 't' || ch == 'f' || ch == 'n':
		d.literalBuf.Reset()
		d.literalBuf.WriteRune(ch)
		d.state = stateSkipLiteral
		return nil
	case ch == '{' || ch == '[':
		d.skipObjectDepth = 1
		d.skipDecoder = newStringEscapeDecoder()
		d.state = stateSkipObject
		return nil
	case isJSONWhitespace(ch):
		return nil
	default:
		return &MalformedInputError{Char: ch, State: "ExpectValue", Message: "expected a JSON value to skip"}
	}
}

func (d *Demultiplexer) stepSkipString(ch rune) error {
	if d.skipDecoder.isTerminatingQuote(ch) {
		d.state = stateExpectCommaOrClose
		return nil
	}
	d.skipDecoder.push(ch)
	return nil
}

func (d *Demultiplexer) stepSkipNumber(ch rune) error {
	if isNumberBodyChar(ch) {
		return nil
	}
	d.state = stateExpectCommaOrClose
	return d.dispatchExpectCommaOrClose(ch)
}

func (d *Demultiplexer) stepSkipLiteral(ch rune) error {
	target := literalTarget(d.literalBuf.String())
	if d.literalBuf.Len() < len(target) {
		d.literalBuf.WriteRune(ch)
		return nil
	}
	d.state = stateExpectCommaOrClose
	return d.dispatchExpectCommaOrClose(ch)
}

// stepSkipObject discards the body of a nested object or array value
// for an undeclared field, tracking brace and bracket depth while
// treating characters inside quoted strings as opaque so braces and
// brackets there are not counted.
func (d *Demultiplexer) stepSkipObject(ch rune) error {
	if d.skipStringOpen {
		if d.skipDecoder.isTerminatingQuote(ch) {
			d.skipStringOpen = false
			return nil
		}
		d.skipDecoder.push(ch)
		return nil
	}
	switch ch {
	case '"':
		d.skipDecoder.reset()
		d.skipStringOpen = true
	case '{', '[':
		d.skipObjectDepth++
	case '}', ']':
		d.skipObjectDepth--
		if d.skipObjectDepth == 0 {
			d.state = stateExpectCommaOrClose
		}
	}
	return nil
}
