package rtshim

import (
	"context"
	"iter"
	"log/slog"
	"slices"
)

// KeyedMap maps canonical StringValue keys to values of type V.
//
// Integer keys are rendered by CanonicalKey before use, so SetInt(m, 5, v)
// and Set(m, FromString("5"), v) touch the same entry.  The map owns its
// key copies and any StringValue values; Ref values are stored as
// handles only.
//
// A KeyedMap is not safe for concurrent use.
type KeyedMap[V Value] struct {
	entries map[string]entry[V]
	opts    Options
}

type entry[V Value] struct {
	key StringValue
	val V
}

// Entry is one key/value pair for Literal.
type Entry[V Value] struct {
	Key   StringValue
	Value V
}

// Instantiations matching the three value kinds, plus the
// heterogeneous form.
type (
	IntMap    = KeyedMap[Int]
	StringMap = KeyedMap[StringValue]
	ObjectMap = KeyedMap[Ref]
	AnyMap    = KeyedMap[Value]
)

// New returns an empty map with default options.
func New[V Value]() *KeyedMap[V] {
	return NewWithOptions[V](Options{})
}

// NewWithOptions returns an empty map.
func NewWithOptions[V Value](opts Options) *KeyedMap[V] {
	opts.Limits = opts.Limits.withDefaults()
	return &KeyedMap[V]{
		entries: make(map[string]entry[V]),
		opts:    opts,
	}
}

// Literal builds a map from entries applied in order, so a repeated
// key keeps its last value.
func Literal[V Value](entries ...Entry[V]) *KeyedMap[V] {
	m := New[V]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// IntEntry builds an Entry whose key is the canonical form of k.
func IntEntry[V Value](k int64, v V) Entry[V] {
	return Entry[V]{Key: CanonicalKey(k), Value: v}
}

// Set stores v under key, replacing any existing value.
func (m *KeyedMap[V]) Set(key StringValue, v V) {
	m.init()
	k := string(key.b)
	if _, exists := m.entries[k]; exists {
		m.debug("keyed map overwrite", slog.String("key", k))
	}
	m.entries[k] = entry[V]{key: key.Clone(), val: ownedCopy(v)}
}

// SetString is Set with a Go string key.
func (m *KeyedMap[V]) SetString(key string, v V) {
	m.Set(FromString(key), v)
}

// SetInt stores v under the canonical form of key.
func (m *KeyedMap[V]) SetInt(key int64, v V) {
	m.Set(CanonicalKey(key), v)
}

// Get returns the value stored under key.  StringValue results are
// copies; mutating paths never reach the stored buffer.
func (m *KeyedMap[V]) Get(key StringValue) (V, bool) {
	e, ok := m.entries[string(key.b)]
	if !ok {
		var zero V
		return zero, false
	}
	return ownedCopy(e.val), true
}

// GetString is Get with a Go string key.
func (m *KeyedMap[V]) GetString(key string) (V, bool) {
	return m.Get(FromString(key))
}

// GetInt returns the value stored under the canonical form of key.
func (m *KeyedMap[V]) GetInt(key int64) (V, bool) {
	return m.Get(CanonicalKey(key))
}

// Has reports whether key is present.
func (m *KeyedMap[V]) Has(key StringValue) bool {
	_, ok := m.entries[string(key.b)]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *KeyedMap[V]) Delete(key StringValue) bool {
	k := string(key.b)
	if _, ok := m.entries[k]; !ok {
		return false
	}
	delete(m.entries, k)
	return true
}

// DeleteInt removes the canonical form of key.
func (m *KeyedMap[V]) DeleteInt(key int64) bool {
	return m.Delete(CanonicalKey(key))
}

// Len returns the number of entries.
func (m *KeyedMap[V]) Len() int { return len(m.entries) }

// Keys returns copies of all keys in unsigned-octet order.
func (m *KeyedMap[V]) Keys() []StringValue {
	keys := make([]StringValue, 0, len(m.entries))
	for _, e := range m.sorted() {
		keys = append(keys, e.key.Clone())
	}
	return keys
}

// All iterates the entries in key order.  Keys and StringValue values
// are yielded as copies.
func (m *KeyedMap[V]) All() iter.Seq2[StringValue, V] {
	return func(yield func(StringValue, V) bool) {
		for _, e := range m.sorted() {
			if !yield(e.key.Clone(), ownedCopy(e.val)) {
				return
			}
		}
	}
}

// Release drops every owned key and value copy.  Ref referents are
// left alone; they belong to the caller.  The map is empty afterwards
// and may be reused.
func (m *KeyedMap[V]) Release() {
	m.debug("keyed map release", slog.Int("entries", len(m.entries)))
	clear(m.entries)
}

// Clone returns an independent copy of m sharing only Ref handles.
func (m *KeyedMap[V]) Clone() *KeyedMap[V] {
	out := NewWithOptions[V](m.opts)
	for k, e := range m.entries {
		out.entries[k] = entry[V]{key: e.key.Clone(), val: ownedCopy(e.val)}
	}
	return out
}

// sorted returns the entries ordered by key bytes.
func (m *KeyedMap[V]) sorted() []entry[V] {
	out := make([]entry[V], 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b entry[V]) int {
		return int(Compare(a.key, b.key))
	})
	return out
}

// init makes the zero KeyedMap usable.
func (m *KeyedMap[V]) init() {
	if m.entries == nil {
		m.entries = make(map[string]entry[V])
		m.opts.Limits = m.opts.Limits.withDefaults()
	}
}

func (m *KeyedMap[V]) debug(msg string, attrs ...slog.Attr) {
	logger := m.opts.logger()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
