// Package envelope passes strongly typed messages through queues of a single
// pointer type.
//
// An Envelope is a Header followed by a typed Body. Producers hand out
// &e.Header; consumers that know the body type (from Cmd, a dispatch table or
// context) rewind the header to the enclosing envelope with Recover. No type
// tag is stored and no wrapper is allocated.
//
//	e := envelope.New[envelope.ThreeByteBody](123)
//	h := e.Ref()
//	// ... h crosses a queue ...
//	r := envelope.Recover[envelope.ThreeByteBody](h)
//
// Recovery is unchecked. See package dispatch for a table that pins each
// command to one body type.
package envelope

import "unsafe"

// Payload is the capability every body type provides: Init puts zeroed
// storage into a fully defined state. It is called once per envelope.
type Payload[P any] interface {
	*P
	Init()
}

// Envelope is a message: Header first, Body directly after it.
type Envelope[P any] struct {
	Header Header
	Body   P
}

// Init builds e in place. The header offset is taken relative to e itself.
func Init[P any, PP Payload[P]](e *Envelope[P], cmd uint64) *Envelope[P] {
	e.Header.Init(cmd, unsafe.Pointer(e))
	PP(&e.Body).Init()
	return e
}

// New allocates and initializes an envelope.
func New[P any, PP Payload[P]](cmd uint64) *Envelope[P] {
	return Init[P, PP](new(Envelope[P]), cmd)
}

// Ref returns the header address to publish on a queue.
func (e *Envelope[P]) Ref() *Header {
	return &e.Header
}

// Cmd returns the command the envelope was built with.
func (e *Envelope[P]) Cmd() uint64 {
	return e.Header.Cmd
}

// Recover returns the envelope that owns h, asserting its body is P.
func Recover[P any](h *Header) *Envelope[P] {
	return MessageAs[Envelope[P]](h)
}
