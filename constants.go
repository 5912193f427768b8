package rtshim

// MaxIntKeyBytes is the longest canonical form an int64 key can take:
// the minimum value, sign included.
const MaxIntKeyBytes = len("-9223372036854775808")

// MaxStringBytes bounds the length of any StringValue.  Producing a
// longer one is an allocation failure.
const MaxStringBytes = 1<<31 - 1

// snapHdr is the 5-byte snapshot header: ASCII "KMAP" + NUL.
var snapHdr = []byte{0x4B, 0x4D, 0x41, 0x50, 0x00}

// Snapshot value tags (single byte each).
const (
	tagString  byte = 0x01
	tagInteger byte = 0x06 // payload int64 big-endian, always 8 bytes
)

// Default limits, see Limits.
const (
	DefaultMaxEntries       = 65_535
	DefaultMaxSnapshotBytes = 1_048_576 // 1 MiB
)

// digestPrefix marks the digest format version.
const digestPrefix = "kmap1:"
