package rtshim

// Project returns a new map holding only the selected keys of m.
//
// Rules:
//
//	(a) Duplicate selector keys are rejected (ERR_SCHEMA)
//	(b) No selectors → full copy
//	(c) No selector matches → empty map
//	(d) Some selectors match and some don't → ERR_SCHEMA (fail closed)
//
// The result owns its keys and StringValue values; Ref handles are
// shared with m.
func Project[V Value](m *KeyedMap[V], keys ...StringValue) (*KeyedMap[V], error) {
	// Rule (b).
	if len(keys) == 0 {
		return m.Clone(), nil
	}

	// Rule (a).
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		s := string(k.b)
		if seen[s] {
			return nil, newErr(ErrSchema, "duplicate selector key "+s)
		}
		seen[s] = true
	}

	anyMatch := false
	anyUnmatched := false
	for _, k := range keys {
		if m.Has(k) {
			anyMatch = true
		} else {
			anyUnmatched = true
		}
	}

	out := NewWithOptions[V](m.opts)
	// Rule (c).
	if !anyMatch {
		return out, nil
	}
	// Rule (d).
	if anyUnmatched {
		return nil, newErr(ErrSchema, "unmatched selector key in set")
	}

	for _, k := range keys {
		e := m.entries[string(k.b)]
		out.entries[string(k.b)] = entry[V]{key: e.key.Clone(), val: ownedCopy(e.val)}
	}
	return out, nil
}

// ProjectInts is Project with integer selectors.
func ProjectInts[V Value](m *KeyedMap[V], keys ...int64) (*KeyedMap[V], error) {
	sel := make([]StringValue, len(keys))
	for i, k := range keys {
		sel[i] = CanonicalKey(k)
	}
	return Project(m, sel...)
}
