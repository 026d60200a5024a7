package envelope

import "unsafe"

// Header is the payload-independent prefix of every envelope.
//
// messageOffset is the byte distance from the address of the field itself
// back to the start of the owning message. It is data, not a pointer: a
// Header copied out of its message keeps the number but loses the meaning.
type Header struct {
	messageOffset uintptr
	Cmd           uint64
}

// HeaderSize is the in-memory size of Header on this platform.
const HeaderSize = unsafe.Sizeof(Header{})

// Init records cmd and the distance back to owner. The header must already
// live at its final address; owner is usually the enclosing struct.
func (h *Header) Init(cmd uint64, owner unsafe.Pointer) {
	h.messageOffset = uintptr(unsafe.Pointer(&h.messageOffset)) - uintptr(owner)
	h.Cmd = cmd
}

// MessageOffset returns the stored back-offset.
func (h *Header) MessageOffset() uintptr {
	return h.messageOffset
}

// MessageAddress rewinds from the offset field to the owning message.
// Every typed recovery goes through here.
func (h *Header) MessageAddress() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(&h.messageOffset), -int(h.messageOffset))
}

// MessageAs reinterprets the owning message as *T.
//
// Nothing is checked: T must be the type the header was initialized inside,
// otherwise the result aliases unrelated memory. T must also fit inside the
// allocation that holds the header; a larger T yields a pointer that
// straddles allocations, which the runtime's checkptr mode rejects.
func MessageAs[T any](h *Header) *T {
	return (*T)(h.MessageAddress())
}
