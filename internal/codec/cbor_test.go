package codec

import (
	"bytes"
	"testing"
)

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(map[string]any{"b": int64(2), "a": []byte("x"), "c": int64(-1)})
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(map[string]any{"c": int64(-1), "a": []byte("x"), "b": int64(2)})
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestUnmarshalAnyMapType(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": int64(1)}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested map decoded as %T", outer["outer"])
	}
}

func TestUnmarshalDuplicateKey(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xA2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	var decoded map[string]any
	err := Unmarshal(data, &decoded)
	if err == nil {
		t.Fatal("Unmarshal should reject duplicate keys")
	}
	if !IsDuplicateKey(err) {
		t.Errorf("IsDuplicateKey(%v) = false", err)
	}
}

func TestUnmarshalInvalidUTF8Text(t *testing.T) {
	// Text string of length 2 holding bytes that are not UTF-8.
	data := []byte{0x62, 0xFF, 0xFE}
	var s string
	if err := Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s != "\xff\xfe" {
		t.Errorf("decoded %q", s)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var decoded any
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &decoded); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
	if IsDuplicateKey(nil) {
		t.Error("nil is not a duplicate-key error")
	}
}
