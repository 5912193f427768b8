package rtshim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// DecodeJSONObject builds a heterogeneous map from a flat JSON object,
// the textual form of a map literal in translated code.
//
// Member values must be strings (→ StringValue) or integral numbers in
// int64 range (→ Int).  Violations found while scanning are collected
// and the highest-precedence one is reported, so a syntax error later
// in the input wins over an earlier duplicate member name.
func DecodeJSONObject(raw []byte, opts Options) (*AnyMap, error) {
	m, err := jsonStrictParse(raw, opts)
	if err != nil {
		opts.logger().Warn("rejected JSON map literal",
			slog.Int("bytes", len(raw)), slog.Any("error", err))
		return nil, err
	}
	return m, nil
}

// jsonViolations records deferred failures during a scan.
type jsonViolations struct {
	codes []string
	first map[string]string // code → first message
}

func (v *jsonViolations) add(code, msg string) {
	if v.first == nil {
		v.first = make(map[string]string)
	}
	if _, ok := v.first[code]; !ok {
		v.first[code] = msg
	}
	v.codes = append(v.codes, code)
}

func (v *jsonViolations) err() error {
	if len(v.codes) == 0 {
		return nil
	}
	code := ChooseReportedError(v.codes)
	return newErr(code, v.first[code])
}

func jsonStrictParse(raw []byte, opts Options) (*AnyMap, error) {
	limits := opts.Limits.withDefaults()
	if len(raw) > limits.MaxSnapshotBytes {
		return nil, newErr(ErrLimitSize, "input exceeds max_snapshot_bytes")
	}

	// BOM rejection: check after skipping JSON whitespace.
	idx := 0
	for idx < len(raw) {
		b := raw[idx]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			idx++
			continue
		}
		break
	}
	if idx+3 <= len(raw) && raw[idx] == 0xEF && raw[idx+1] == 0xBB && raw[idx+2] == 0xBF {
		return nil, newErr(ErrSchema, "UTF-8 BOM rejected")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, newErr(ErrCanon, "JSON parse error")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, newErr(ErrSchema, "map literal must be a JSON object")
	}

	m := NewWithOptions[Value](opts)
	var violations jsonViolations
	if err := decodeJSONMembers(dec, m, &violations); err != nil {
		return nil, err
	}

	// Exactly one root object.
	if _, err := dec.Token(); err != io.EOF {
		return nil, newErr(ErrCanon, "trailing JSON content")
	}
	if err := violations.err(); err != nil {
		return nil, err
	}
	if m.Len() > limits.MaxEntries {
		return nil, newErr(ErrLimitSize, "map entry count exceeds limit")
	}
	return m, nil
}

// decodeJSONMembers reads members up to and including the closing '}'.
// Syntax errors return immediately; content errors are deferred.
func decodeJSONMembers(dec *json.Decoder, m *AnyMap, violations *jsonViolations) error {
	seen := make(map[string]bool, 8)
	for dec.More() {
		kTok, err := dec.Token()
		if err != nil {
			return newErr(ErrCanon, "JSON parse error reading key")
		}
		key, ok := kTok.(string)
		if !ok {
			return newErr(ErrCanon, "JSON key is not a string")
		}

		// Duplicate detection after escape resolution.
		skip := seen[key]
		if skip {
			violations.add(ErrDupKey, "duplicate member "+strconv.Quote(key))
		}
		seen[key] = true
		if strings.IndexByte(key, 0) >= 0 {
			violations.add(ErrCanon, "zero byte in member name")
			skip = true
		}

		val, ok, err := decodeJSONScalar(dec, violations)
		if err != nil {
			return err
		}
		if ok && !skip {
			m.SetString(key, val)
		}
	}

	tok, err := dec.Token()
	if err != nil {
		return newErr(ErrCanon, "JSON parse error: missing '}'")
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return newErr(ErrCanon, "expected '}'")
	}
	return nil
}

// decodeJSONScalar reads one member value.  ok is false when the value
// was rejected and recorded as a violation.
func decodeJSONScalar(dec *json.Decoder, violations *jsonViolations) (Value, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, false, newErr(ErrCanon, "JSON parse error")
	}

	switch v := tok.(type) {

	case string:
		if strings.IndexByte(v, 0) >= 0 {
			violations.add(ErrCanon, "zero byte in string value")
			return nil, false, nil
		}
		return FromString(v), true, nil

	case json.Number:
		n, err := convertJSONNumber(v)
		if err != nil {
			violations.add(ErrType, err.Msg)
			return nil, false, nil
		}
		return n, true, nil

	case json.Delim:
		violations.add(ErrType, fmt.Sprintf("nested JSON %q not allowed", v.String()))
		if err := skipJSONContainer(dec); err != nil {
			return nil, false, err
		}
		return nil, false, nil

	case nil:
		violations.add(ErrType, "JSON null not allowed")
		return nil, false, nil

	default:
		violations.add(ErrType, fmt.Sprintf("JSON %T not allowed", tok))
		return nil, false, nil
	}
}

// skipJSONContainer consumes tokens until the container whose opening
// delimiter was just read is closed.
func skipJSONContainer(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return newErr(ErrCanon, "JSON parse error in nested value")
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// convertJSONNumber inspects the raw number token to tell integers from
// floats.  "1.0" is rejected even though its value is integral.
func convertJSONNumber(n json.Number) (Int, *Error) {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return 0, newErr(ErrType, "JSON float not allowed: "+s)
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, newErr(ErrType, "integer out of int64 range: "+s)
	}
	return Int(val), nil
}
