// Package jmux implements a character-driven JSON object demultiplexer.
//
// A Demultiplexer is constructed from a Schema that declares, for every
// field of a single top-level JSON object, the scalar kind of its value
// and whether that value should be exposed to consumers as a single
// resolved value or as a stream of fragments. Characters are fed to the
// Demultiplexer one at a time (or in chunks) as they arrive from a
// transport the caller owns; as soon as a field's value is complete (or,
// for streamed fields, as soon as each fragment is lexed) the field's
// Sink is released to any goroutine awaiting or iterating it.
//
// The package does not read from a socket, a file or any other
// transport itself - callers feed it characters. It does not validate
// JSON arrays at the root and it does not re-stream nested arrays; only
// object roots with a schema known ahead of time are supported. See
// AssertConformsTo for cross-checking a Schema against an externally
// described model (for example a struct tag set or a JSON Schema
// document) without having to feed it any data.
package jmux
