package rtshim

import (
	"bytes"
	"testing"

	"github.com/map-protocol/rtshim/internal/codec"
)

func TestKeyedMapCBORRoundtrip(t *testing.T) {
	src := New[Value]()
	src.SetInt(-1, Int(-100))
	src.SetString("name", FromString("shim"))
	src.SetString("raw", Create([]byte{0xff, 0xfe}))
	src.SetString("empty", StringValue{})

	data, err := codec.Marshal(src)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got := New[Value]()
	if err := codec.Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Len() != src.Len() {
		t.Fatalf("Len = %d, want %d", got.Len(), src.Len())
	}
	for k, want := range src.All() {
		v, ok := got.Get(k)
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		switch w := want.(type) {
		case Int:
			if v != Value(w) {
				t.Errorf("%q: got %v, want %v", k, v, w)
			}
		case StringValue:
			if s, ok := v.(StringValue); !ok || !Equal(s, w) {
				t.Errorf("%q: got %v, want %q", k, v, w)
			}
		}
	}
}

func TestKeyedMapCBORDeterministic(t *testing.T) {
	a := New[Int]()
	b := New[Int]()
	for i := int64(0); i < 20; i++ {
		a.SetInt(i, Int(i))
		b.SetInt(19-i, Int(19-i))
	}
	ea, err := codec.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	eb, err := codec.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ea, eb) {
		t.Errorf("deterministic encoding violated: %x != %x", ea, eb)
	}
}

func TestKeyedMapCBORRejectsRefs(t *testing.T) {
	m := New[Ref]()
	m.SetInt(1, NewRef(t))
	if _, err := m.MarshalCBOR(); !HasCode(err, ErrType) {
		t.Errorf("error = %v, want %s", err, ErrType)
	}
}

func TestKeyedMapCBORDecodeErrors(t *testing.T) {
	encode := func(v any) []byte {
		t.Helper()
		data, err := codec.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		return data
	}

	tests := []struct {
		name string
		data []byte
		code string
	}{
		{"float_value", encode(map[string]any{"f": 1.5}), ErrType},
		{"bool_value", encode(map[string]any{"b": true}), ErrType},
		{"nested_value", encode(map[string]any{"n": map[string]any{}}), ErrType},
		{"uint_overflow", encode(map[string]any{"u": uint64(1) << 63}), ErrType},
		{"zero_in_value", encode(map[string]any{"z": []byte{'a', 0}}), ErrCanon},
		{"zero_in_key", encode(map[string]any{"a\x00": int64(1)}), ErrCanon},
		{"not_cbor", []byte{0xFF, 0xFE, 0xFD}, ErrCanon},
		// {"a": 1, "a": 2} written by hand; the encoder refuses duplicates.
		{"duplicate_key", []byte{0xA2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}, ErrDupKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New[Value]()
			m.SetString("keep", Int(1))
			err := m.UnmarshalCBOR(tt.data)
			if !HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if _, ok := m.GetString("keep"); !ok || m.Len() != 1 {
				t.Error("failed decode modified the map")
			}
		})
	}
}

func TestKeyedMapCBORTypedDecode(t *testing.T) {
	data, err := codec.Marshal(map[string]any{"1": "text", "2": []byte("bytes")})
	if err != nil {
		t.Fatal(err)
	}
	m := New[StringValue]()
	if err := m.UnmarshalCBOR(data); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if v, _ := m.GetInt(1); v.String() != "text" {
		t.Errorf("GetInt(1) = %q", v)
	}
	if v, _ := m.GetInt(2); v.String() != "bytes" {
		t.Errorf("GetInt(2) = %q", v)
	}

	ints := New[Int]()
	if err := ints.UnmarshalCBOR(data); !HasCode(err, ErrType) {
		t.Errorf("string into IntMap error = %v, want %s", err, ErrType)
	}
}

func TestStringValueCBOR(t *testing.T) {
	s := FromString("abc")
	data, err := codec.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	// Major type 2 (byte string), length 3.
	if data[0] != 0x43 {
		t.Errorf("encoded header 0x%02x, want byte string", data[0])
	}

	var got StringValue
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !Equal(got, s) {
		t.Errorf("got %q, want %q", got, s)
	}

	text, _ := codec.Marshal("xyz")
	if err := codec.Unmarshal(text, &got); err != nil || got.String() != "xyz" {
		t.Errorf("text string decode: %q, %v", got, err)
	}

	num, _ := codec.Marshal(5)
	if err := got.UnmarshalCBOR(num); !HasCode(err, ErrType) {
		t.Errorf("integer decode error = %v, want %s", err, ErrType)
	}
}
