package rtshim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
)

// DecodeSnapshot rebuilds a map from snapshot bytes.  The input is
// fully validated: header, framing, key order and uniqueness, and the
// no-zero-byte rule for keys and string values.  A value whose kind does
// not fit V fails with ERR_TYPE.
func DecodeSnapshot[V Value](data []byte, opts Options) (*KeyedMap[V], error) {
	m := NewWithOptions[V](opts)
	if err := decodeSnapshotInto(data, m.opts.Limits, func(key []byte, v Value) error {
		val, err := asValue[V](v)
		if err != nil {
			return err
		}
		k := StringValue{b: key}
		m.entries[string(key)] = entry[V]{key: k, val: val}
		return nil
	}); err != nil {
		m.opts.logger().Warn("rejected keyed map snapshot",
			slog.Int("bytes", len(data)), slog.Any("error", err))
		return nil, err
	}
	return m, nil
}

// validateSnapshot checks snapshot framing without building a map.
func validateSnapshot(data []byte, limits Limits) error {
	return decodeSnapshotInto(data, limits, func([]byte, Value) error { return nil })
}

func decodeSnapshotInto(data []byte, limits Limits, put func(key []byte, v Value) error) error {
	limits = limits.withDefaults()
	if len(data) > limits.MaxSnapshotBytes {
		return newErr(ErrLimitSize, "snapshot exceeds max_snapshot_bytes")
	}
	if !bytes.HasPrefix(data, snapHdr) {
		return newErr(ErrCanon, "bad snapshot header")
	}
	off := len(snapHdr)
	count, off, err := readU32BE(data, off)
	if err != nil {
		return err
	}
	if uint64(count) > uint64(limits.MaxEntries) {
		return newErr(ErrLimitSize, "map entry count exceeds limit")
	}

	var prevKey []byte
	for i := uint32(0); i < count; i++ {
		var key []byte
		key, off, err = readBlob(data, off, "key")
		if err != nil {
			return err
		}

		// Enforce ordering and uniqueness on the wire.
		if i > 0 {
			cmp := bytes.Compare(prevKey, key)
			if cmp == 0 {
				return newErr(ErrDupKey, "duplicate key in snapshot")
			}
			if cmp > 0 {
				return newErr(ErrKeyOrder, "key order violation in snapshot")
			}
		}
		prevKey = key

		var v Value
		v, off, err = decodeValue(data, off)
		if err != nil {
			return err
		}
		if err := put(key, v); err != nil {
			return err
		}
	}

	// Exactly one map, no trailing bytes.
	if off != len(data) {
		return newErr(ErrCanon, "trailing bytes after snapshot")
	}
	return nil
}

// decodeValue decodes one tagged value at off and returns the new offset.
func decodeValue(buf []byte, off int) (Value, int, error) {
	if off >= len(buf) {
		return nil, off, newErr(ErrCanon, "truncated value tag")
	}
	tag := buf[off]
	off++

	switch tag {

	case tagString:
		raw, newOff, err := readBlob(buf, off, "string")
		if err != nil {
			return nil, off, err
		}
		return StringValue{b: raw}, newOff, nil

	case tagInteger:
		// INTEGER: exactly 8 payload bytes, signed big-endian.
		if off+8 > len(buf) {
			return nil, off, newErr(ErrCanon, "truncated integer payload")
		}
		val := int64(binary.BigEndian.Uint64(buf[off : off+8]))
		return Int(val), off + 8, nil

	default:
		return nil, off, newErr(ErrCanon, fmt.Sprintf("unknown value tag 0x%02x", tag))
	}
}

// readBlob reads a u32be-prefixed byte string into a fresh buffer.  A
// zero byte inside it would break the StringValue invariant.
func readBlob(buf []byte, off int, what string) ([]byte, int, error) {
	n, off, err := readU32BE(buf, off)
	if err != nil {
		return nil, off, err
	}
	if uint64(off)+uint64(n) > uint64(len(buf)) {
		return nil, off, newErr(ErrCanon, "truncated "+what+" payload")
	}
	raw := buf[off : off+int(n)]
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, off, newErr(ErrCanon, "zero byte in "+what)
	}
	return alloc(raw), off + int(n), nil
}

func readU32BE(buf []byte, off int) (uint32, int, error) {
	if off+4 > len(buf) {
		return 0, off, newErr(ErrCanon, "truncated u32")
	}
	n := binary.BigEndian.Uint32(buf[off : off+4])
	return n, off + 4, nil
}
