package envelope

// ThreeByteBody is the minimal payload: three bytes set to 'Z' on Init.
type ThreeByteBody [3]byte

func (b *ThreeByteBody) Init() {
	for i := range b {
		b[i] = 'Z'
	}
}

// Ping carries a sequence number and the send time in unix nanoseconds.
type Ping struct {
	Seq          uint64
	SentUnixNano int64
}

func (p *Ping) Init() {
	*p = Ping{}
}

// TextCap is the inline capacity of Text.
const TextCap = 64

// Text is a short inline string; no backing slice, so it never escapes the
// envelope.
type Text struct {
	Len  uint8
	Data [TextCap]byte
}

func (t *Text) Init() {
	*t = Text{}
}

// Set copies s into t, truncating at TextCap. It reports how many bytes
// were stored.
func (t *Text) Set(s string) int {
	n := copy(t.Data[:], s)
	t.Len = uint8(n)
	return n
}

func (t *Text) String() string {
	return string(t.Data[:t.Len])
}
