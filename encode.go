package rtshim

import (
	"bytes"
	"encoding/binary"
)

// EncodeSnapshot returns the canonical snapshot bytes of m.
//
//	SNAPSHOT = HDR || u32be(count) || entry*
//	entry    = u32be(len(key)) || key || value
//	value    = 0x01 || u32be(len) || bytes    (StringValue)
//	         | 0x06 || int64be                (Int)
//
// Entries are written in unsigned-octet key order, so two maps with the
// same contents encode identically regardless of insertion history.
// Ref values have no byte form and fail with ERR_TYPE.
func EncodeSnapshot[V Value](m *KeyedMap[V]) ([]byte, error) {
	limits := m.opts.Limits.withDefaults()
	if m.Len() > limits.MaxEntries {
		return nil, newErr(ErrLimitSize, "map entry count exceeds limit")
	}

	// TODO: reuse encode buffers through a sync.Pool once snapshotting
	// shows up in profiles of generated code.
	var buf bytes.Buffer
	buf.Write(snapHdr)
	writeU32BE(&buf, uint32(m.Len()))

	entries := m.sorted()
	keys := make([][]byte, len(entries))
	for i, e := range entries {
		keys[i] = e.key.b
	}
	if err := ensureSortedUniqueKeys(keys); err != nil {
		return nil, err
	}

	for _, e := range entries {
		writeU32BE(&buf, uint32(len(e.key.b)))
		buf.Write(e.key.b)
		if err := encodeValue(&buf, e.val); err != nil {
			return nil, err
		}
	}
	if buf.Len() > limits.MaxSnapshotBytes {
		return nil, newErr(ErrLimitSize, "snapshot exceeds max_snapshot_bytes")
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {

	case Int:
		buf.WriteByte(tagInteger)
		// Signed int64 → big-endian via cast to uint64.
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(val))
		buf.Write(b[:])

	case StringValue:
		buf.WriteByte(tagString)
		writeU32BE(buf, uint32(len(val.b)))
		buf.Write(val.b)

	case Ref:
		return newErr(ErrType, "ref values cannot be serialized")

	default:
		return newErr(ErrType, "unsupported value type")
	}
	return nil
}

func writeU32BE(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func ensureSortedUniqueKeys(keys [][]byte) error {
	for i := 1; i < len(keys); i++ {
		c := bytes.Compare(keys[i-1], keys[i])
		if c == 0 {
			return newErr(ErrDupKey, "duplicate key")
		}
		if c > 0 {
			return newErr(ErrKeyOrder, "key order violation")
		}
	}
	return nil
}
