package envelope

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/envelope/internal/common"
)

var (
	ErrHeaderNotFirst = errors.New("envelope: header is not the first field")
	ErrBodyPadding    = errors.New("envelope: implicit padding between header and body")
)

// Layout is the resolved memory shape of Envelope[P].
type Layout struct {
	Size         uintptr
	HeaderOffset uintptr
	BodyOffset   uintptr
	BodySize     uintptr
	// Trailing padding after the body; harmless, reported for completeness.
	Trailing uintptr
}

// LayoutOf reports where Header and Body sit inside Envelope[P].
func LayoutOf[P any]() Layout {
	plan := common.PlanOf(reflect.TypeFor[Envelope[P]]())
	hdr, _ := plan.Field("Header")
	body, _ := plan.Field("Body")
	return Layout{
		Size:         plan.Size,
		HeaderOffset: hdr.Offset,
		BodyOffset:   body.Offset,
		BodySize:     body.Size,
		Trailing:     plan.Trailing,
	}
}

// CheckLayout verifies that Envelope[P] has the header at offset 0 and the
// body immediately after it.
func CheckLayout[P any]() error {
	l := LayoutOf[P]()
	if l.HeaderOffset != 0 {
		return fmt.Errorf("%w: offset %d", ErrHeaderNotFirst, l.HeaderOffset)
	}
	if l.BodyOffset != HeaderSize {
		return fmt.Errorf("%w: body at %d, header size %d", ErrBodyPadding, l.BodyOffset, HeaderSize)
	}
	return nil
}

var layoutProbe Envelope[ThreeByteBody]

// Compile-time layout assertions: a constant index out of range fails the
// build.
var (
	_ = [1]struct{}{}[unsafe.Offsetof(layoutProbe.Header)]
	_ = [1]struct{}{}[unsafe.Offsetof(layoutProbe.Body)-HeaderSize]
	_ = [1]struct{}{}[unsafe.Offsetof(layoutProbe.Header.messageOffset)]
)
