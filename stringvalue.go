package rtshim

import (
	"bytes"
	"fmt"
)

// StringValue is an immutable byte string with value semantics.
//
// Each StringValue owns its buffer: constructors and operations that
// return a StringValue copy into a fresh allocation and never alias an
// input.  A StringValue never contains a zero byte, so the zero byte is
// free to act as the out-of-range sentinel for CharAt.  The zero value
// is the empty string.
type StringValue struct {
	b []byte
}

// Create copies p up to its first zero byte.
func Create(p []byte) StringValue {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return StringValue{b: alloc(p)}
}

// FromString is Create for a Go string.
func FromString(s string) StringValue {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			s = s[:i]
			break
		}
	}
	checkSize(len(s))
	if len(s) == 0 {
		return StringValue{}
	}
	return StringValue{b: []byte(s)}
}

// Concat returns a new StringValue holding a followed by b.
func Concat(a, b StringValue) StringValue {
	n := len(a.b) + len(b.b)
	checkSize(n)
	if n == 0 {
		return StringValue{}
	}
	out := make([]byte, n)
	copy(out, a.b)
	copy(out[len(a.b):], b.b)
	return StringValue{b: out}
}

// Len returns the number of bytes in s.
func (s StringValue) Len() int { return len(s.b) }

// IsEmpty reports whether s has no bytes.
func (s StringValue) IsEmpty() bool { return len(s.b) == 0 }

// CharAt returns the byte at index i, or 0 when i is outside [0, Len()).
func (s StringValue) CharAt(i int) byte {
	if !s.inRange(i) {
		return 0
	}
	return s.b[i]
}

// At is CharAt with an explicit failure: ERR_INDEX when i is outside
// [0, Len()).
func (s StringValue) At(i int) (byte, error) {
	if !s.inRange(i) {
		return 0, newErr(ErrIndex, fmt.Sprintf("index %d out of range [0,%d)", i, len(s.b)))
	}
	return s.b[i], nil
}

// Substring returns up to n bytes of s starting at index.  When
// index+n runs past the end, n shrinks to Len()-index.  An index
// outside [0, Len()] or a non-positive n yields the empty string.
func (s StringValue) Substring(index, n int) StringValue {
	lo, hi, ok := s.window(index, n)
	if !ok {
		return StringValue{}
	}
	return StringValue{b: alloc(s.b[lo:hi])}
}

// Slice is Substring with an explicit failure: ERR_INDEX for an index
// outside [0, Len()] or a negative n.  Clamping of an over-long n still
// applies.
func (s StringValue) Slice(index, n int) (StringValue, error) {
	if index < 0 || index > len(s.b) {
		return StringValue{}, newErr(ErrIndex, fmt.Sprintf("index %d out of range [0,%d]", index, len(s.b)))
	}
	if n < 0 {
		return StringValue{}, newErr(ErrIndex, fmt.Sprintf("negative length %d", n))
	}
	return s.Substring(index, n), nil
}

// Clone returns an independent copy of s.
func (s StringValue) Clone() StringValue {
	return StringValue{b: alloc(s.b)}
}

// Bytes returns a copy of the contents.
func (s StringValue) Bytes() []byte {
	out := make([]byte, len(s.b))
	copy(out, s.b)
	return out
}

// CString returns a copy of the contents followed by a zero sentinel,
// for consumers that scan to the terminator.
func (s StringValue) CString() []byte {
	out := make([]byte, len(s.b)+1)
	copy(out, s.b)
	return out
}

func (s StringValue) String() string {
	return string(s.b)
}

func (s StringValue) inRange(i int) bool {
	return i >= 0 && i < len(s.b)
}

// window resolves the byte range a Substring call covers.
func (s StringValue) window(index, n int) (lo, hi int, ok bool) {
	if index < 0 || index > len(s.b) || n <= 0 {
		return 0, 0, false
	}
	if n > len(s.b)-index {
		n = len(s.b) - index
	}
	if n == 0 {
		return 0, 0, false
	}
	return index, index + n, true
}

// alloc copies p into a fresh buffer.  Empty input allocates nothing.
func alloc(p []byte) []byte {
	checkSize(len(p))
	if len(p) == 0 {
		return nil
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out
}

// checkSize raises ERR_ALLOC for lengths no buffer can hold.
func checkSize(n int) {
	if n < 0 || n > MaxStringBytes {
		panic(newErr(ErrAlloc, fmt.Sprintf("cannot allocate %d bytes", n)))
	}
}
