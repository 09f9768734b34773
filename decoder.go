package jmux

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// escapeMap maps a JSON escape letter to the character it produces.
// Any letter not present here is passed through unchanged, mirroring
// the leniency JSON implementations commonly extend to malformed
// escapes.
var escapeMap = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// stringEscapeDecoder accumulates the decoded contents of a JSON
// string literal one source character at a time, resolving \\, \n
// and \uXXXX escapes (including surrogate pairs) as they complete.
// It is pushed every character between the opening and closing quote;
// the caller is responsible for recognizing the quotes themselves.
type stringEscapeDecoder struct {
	buf strings.Builder

	inEscape  bool
	inUnicode bool
	hexBuf    []rune

	pendingHighSurrogate rune
}

func newStringEscapeDecoder() *stringEscapeDecoder {
	return &stringEscapeDecoder{}
}

// push feeds one raw character of the string body into the decoder.
// It returns the decoded rune that was appended to the buffer, if
// any; escapes spanning multiple input characters (\uXXXX, surrogate
// pairs) return a rune only once fully resolved.
func (d *stringEscapeDecoder) push(ch rune) (decoded rune, ok bool) {
	if d.inUnicode {
		d.hexBuf = append(d.hexBuf, ch)
		if len(d.hexBuf) < 4 {
			return 0, false
		}
		d.inUnicode = false
		codePoint, err := strconv.ParseUint(string(d.hexBuf), 16, 32)
		d.hexBuf = d.hexBuf[:0]
		if err != nil {
			d.buf.WriteRune(unicode.ReplacementChar)
			return unicode.ReplacementChar, true
		}
		r := rune(codePoint)

		if utf16.IsSurrogate(r) {
			if d.pendingHighSurrogate != 0 {
				combined := utf16.DecodeRune(d.pendingHighSurrogate, r)
				d.pendingHighSurrogate = 0
				d.buf.WriteRune(combined)
				return combined, true
			}
			// high surrogate: hold it and wait for its low pair,
			// which will arrive as the next \uXXXX escape.
			d.pendingHighSurrogate = r
			return 0, false
		}

		d.buf.WriteRune(r)
		return r, true
	}

	if d.inEscape {
		d.inEscape = false
		if ch == 'u' {
			d.inUnicode = true
			d.hexBuf = d.hexBuf[:0]
			return 0, false
		}
		decoded, known := escapeMap[ch]
		if !known {
			decoded = ch
		}
		d.buf.WriteRune(decoded)
		return decoded, true
	}

	if ch == '\\' {
		d.inEscape = true
		return 0, false
	}

	d.buf.WriteRune(ch)
	return ch, true
}

// isTerminatingQuote reports whether ch closes the string literal
// given the decoder's current escape state.
func (d *stringEscapeDecoder) isTerminatingQuote(ch rune) bool {
	if d.inEscape || d.inUnicode {
		return false
	}
	return ch == '"'
}

func (d *stringEscapeDecoder) reset() {
	d.buf.Reset()
	d.inEscape = false
	d.inUnicode = false
	d.hexBuf = d.hexBuf[:0]
	d.pendingHighSurrogate = 0
}

func (d *stringEscapeDecoder) String() string {
	return d.buf.String()
}
