package rtshim

import "strconv"

// CanonicalKey renders an integer key in its minimal decimal form:
// no leading zeros, one leading '-' for negatives, "0" for zero.
//
// The rendering is injective over int64, so distinct integers never
// share a key.  A string key spelled the same way as the rendering
// addresses the same map entry.
func CanonicalKey(k int64) StringValue {
	var buf [MaxIntKeyBytes]byte
	return StringValue{b: alloc(strconv.AppendInt(buf[:0], k, 10))}
}
