// Package codec provides the shared CBOR encoding configuration for
// keyed map interchange.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.  The
// same map contents always produce identical bytes.
//
// The decoder accepts text strings that are not valid UTF-8, because
// map keys are opaque bytes, and rejects duplicate map keys so a
// decoded map never silently drops an entry.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
package codec
