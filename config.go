package rtshim

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Limits bounds what the snapshot, CBOR and JSON decoders accept.
// Zero fields mean "use the default".
type Limits struct {
	// MaxEntries caps the number of entries in a decoded map.
	MaxEntries int `yaml:"max_entries"`

	// MaxSnapshotBytes caps the size of snapshot or CBOR input.
	MaxSnapshotBytes int `yaml:"max_snapshot_bytes"`
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxEntries:       DefaultMaxEntries,
		MaxSnapshotBytes: DefaultMaxSnapshotBytes,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxEntries == 0 {
		l.MaxEntries = d.MaxEntries
	}
	if l.MaxSnapshotBytes == 0 {
		l.MaxSnapshotBytes = d.MaxSnapshotBytes
	}
	return l
}

// Options configures a KeyedMap and the decoders that build one.
type Options struct {
	// Logger receives debug records for overwrites and releases, and a
	// warning when decoded input is rejected.  If nil, slog.Default()
	// is used.
	Logger *slog.Logger `yaml:"-"`

	// Limits bounds decoded input.
	Limits Limits `yaml:"limits"`
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ParseConfig reads Options from YAML.  Unknown fields are rejected so
// a misspelled limit does not silently fall back to its default.
//
//	limits:
//	  max_entries: 1024
//	  max_snapshot_bytes: 65536
func ParseConfig(data []byte) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("parsing rtshim config: %w", err)
	}
	if err := opts.Limits.validate(); err != nil {
		return Options{}, err
	}
	opts.Limits = opts.Limits.withDefaults()
	return opts, nil
}

func (l Limits) validate() error {
	if l.MaxEntries < 0 {
		return newErr(ErrSchema, fmt.Sprintf("limits.max_entries must not be negative, got %d", l.MaxEntries))
	}
	if l.MaxSnapshotBytes < 0 {
		return newErr(ErrSchema, fmt.Sprintf("limits.max_snapshot_bytes must not be negative, got %d", l.MaxSnapshotBytes))
	}
	return nil
}
