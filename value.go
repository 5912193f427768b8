// Package rtshim implements value-semantic strings and string-keyed
// heterogeneous maps for code translated from a garbage-collected
// source language.
//
// The model has two pieces:
//
//   - StringValue: an immutable byte string that owns its buffer.  It
//     never contains a zero byte, and every operation that produces a
//     string allocates a fresh one.
//   - KeyedMap: an associative container keyed by StringValue.  Integer
//     keys are rendered to their minimal decimal form first, so integer
//     and string keys share one namespace.
//
// Map values are one of three variants (Int, StringValue, Ref) behind
// the sealed Value interface.  Ref is a non-owning handle: the map
// stores it but never manages the referent.
//
// Maps can be captured as deterministic snapshot bytes, digested, and
// exchanged as CBOR.
package rtshim

import (
	"fmt"
	"reflect"
)

// Value is a map value.  Concrete types:
//
//   - Int          signed 64-bit integer, copied
//   - StringValue  byte string, owned copy
//   - Ref          opaque handle, never owned
type Value interface {
	shimValue() // sealed: only types in this package implement Value
}

// Int is an integer map value.
type Int int64

// Ref is an opaque reference to caller-owned data.  The map holds the
// handle only; the caller stays responsible for the referent's
// lifetime.
type Ref struct {
	target any
}

// NewRef wraps target as an opaque handle.
func NewRef(target any) Ref {
	return Ref{target: target}
}

// Target returns the referenced object.
func (r Ref) Target() any { return r.target }

// IsNil reports whether the handle refers to nothing.
func (r Ref) IsNil() bool { return r.target == nil }

func (Int) shimValue()         {}
func (StringValue) shimValue() {}
func (Ref) shimValue()         {}

// Kind identifies a Value variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindString
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KindOf returns the variant of v, or KindInvalid for nil.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Int:
		return KindInt
	case StringValue:
		return KindString
	case Ref:
		return KindRef
	default:
		return KindInvalid
	}
}

// ownedCopy returns the copy a map stores for v.  Strings are cloned so
// the stored value never shares a buffer with the caller's; integers
// and refs are copied by assignment.
func ownedCopy[V Value](v V) V {
	if s, ok := any(v).(StringValue); ok {
		return any(s.Clone()).(V)
	}
	return v
}

// asValue converts a decoded value into the map's value type, failing
// with ERR_TYPE when the variant does not fit.
func asValue[V Value](v Value) (V, error) {
	out, ok := v.(V)
	if !ok {
		var zero V
		return zero, newErr(ErrType, fmt.Sprintf("%s value does not fit %s", KindOf(v), reflect.TypeFor[V]()))
	}
	return out, nil
}
