package rtshim

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/map-protocol/rtshim/internal/codec"
)

// MarshalCBOR encodes m as a deterministic CBOR map.  Keys are text
// strings, Int values are CBOR integers and StringValue values are byte
// strings.  Ref values fail with ERR_TYPE.
func (m *KeyedMap[V]) MarshalCBOR() ([]byte, error) {
	out := make(map[string]any, len(m.entries))
	for k, e := range m.entries {
		switch v := any(e.val).(type) {
		case Int:
			out[k] = int64(v)
		case StringValue:
			out[k] = v.Bytes()
		case Ref:
			return nil, newErr(ErrType, "ref values cannot be serialized")
		default:
			return nil, newErr(ErrType, "unsupported value type")
		}
	}
	return codec.Marshal(out)
}

// UnmarshalCBOR replaces the contents of m with the decoded map.  On
// failure m is left unchanged.
func (m *KeyedMap[V]) UnmarshalCBOR(data []byte) error {
	m.init()
	entries, err := decodeCBORMap[V](data, m.opts.Limits)
	if err != nil {
		m.opts.logger().Warn("rejected keyed map CBOR",
			slog.Int("bytes", len(data)), slog.Any("error", err))
		return err
	}
	m.entries = entries
	return nil
}

func decodeCBORMap[V Value](data []byte, limits Limits) (map[string]entry[V], error) {
	limits = limits.withDefaults()
	if len(data) > limits.MaxSnapshotBytes {
		return nil, newErr(ErrLimitSize, "CBOR input exceeds max_snapshot_bytes")
	}
	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		if codec.IsDuplicateKey(err) {
			return nil, newErr(ErrDupKey, err.Error())
		}
		return nil, newErr(ErrCanon, err.Error())
	}
	if len(raw) > limits.MaxEntries {
		return nil, newErr(ErrLimitSize, "map entry count exceeds limit")
	}

	entries := make(map[string]entry[V], len(raw))
	for k, rv := range raw {
		if strings.IndexByte(k, 0) >= 0 {
			return nil, newErr(ErrCanon, "zero byte in key")
		}
		v, err := valueFromCBOR(rv)
		if err != nil {
			return nil, err
		}
		val, err := asValue[V](v)
		if err != nil {
			return nil, err
		}
		entries[k] = entry[V]{key: FromString(k), val: val}
	}
	return entries, nil
}

func valueFromCBOR(rv any) (Value, error) {
	switch v := rv.(type) {
	case int64:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, newErr(ErrType, fmt.Sprintf("integer %d overflows int64", v))
		}
		return Int(int64(v)), nil
	case []byte:
		if bytes.IndexByte(v, 0) >= 0 {
			return nil, newErr(ErrCanon, "zero byte in string value")
		}
		return Create(v), nil
	case string:
		if strings.IndexByte(v, 0) >= 0 {
			return nil, newErr(ErrCanon, "zero byte in string value")
		}
		return FromString(v), nil
	default:
		return nil, newErr(ErrType, fmt.Sprintf("CBOR %T has no map value form", rv))
	}
}

// MarshalCBOR encodes s as a CBOR byte string.
func (s StringValue) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(s.Bytes())
}

// UnmarshalCBOR accepts a CBOR byte or text string.
func (s *StringValue) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return newErr(ErrCanon, err.Error())
	}
	switch v := raw.(type) {
	case []byte, string:
		sv, err := valueFromCBOR(v)
		if err != nil {
			return err
		}
		*s = sv.(StringValue)
		return nil
	default:
		return newErr(ErrType, fmt.Sprintf("CBOR %T is not a string", raw))
	}
}
