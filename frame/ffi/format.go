package ffi

import (
	"errors"
	"strings"

	"golang.org/x/xerrors"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// ErrUnsupported marks a format description the frame engine has no
// representation for. Small-offset string/binary/list encodings fall in
// this class: the engine carries only the 64-bit-offset variants and
// never re-encodes silently.
var ErrUnsupported = errors.New("unsupported type encoding")

var simpleFormats = map[string]func() frame.DataType{
	"b":   frame.Bool,
	"c":   frame.Int8,
	"s":   frame.Int16,
	"i":   frame.Int32,
	"l":   frame.Int64,
	"C":   frame.Uint8,
	"S":   frame.Uint16,
	"I":   frame.Uint32,
	"L":   frame.Uint64,
	"f":   frame.Float32,
	"g":   frame.Float64,
	"U":   frame.String,
	"Z":   frame.Binary,
	"tdD": frame.Date32,
}

func encodeTimeUnit(u frame.TimeUnit) string {
	switch u {
	case frame.Second:
		return "s"
	case frame.Millisecond:
		return "m"
	case frame.Microsecond:
		return "u"
	default:
		return "n"
	}
}

func decodeTimeUnit(c byte) (frame.TimeUnit, bool) {
	switch c {
	case 's':
		return frame.Second, true
	case 'm':
		return frame.Millisecond, true
	case 'u':
		return frame.Microsecond, true
	case 'n':
		return frame.Nanosecond, true
	}
	return 0, false
}

// encodeFormat renders the C interface format string for a frame type.
// Nested types encode only their own tag; children travel as child
// descriptors.
func encodeFormat(dt frame.DataType) (string, error) {
	switch t := dt.(type) {
	case *frame.BoolType:
		return "b", nil
	case *frame.Int8Type:
		return "c", nil
	case *frame.Int16Type:
		return "s", nil
	case *frame.Int32Type:
		return "i", nil
	case *frame.Int64Type:
		return "l", nil
	case *frame.Uint8Type:
		return "C", nil
	case *frame.Uint16Type:
		return "S", nil
	case *frame.Uint32Type:
		return "I", nil
	case *frame.Uint64Type:
		return "L", nil
	case *frame.Float32Type:
		return "f", nil
	case *frame.Float64Type:
		return "g", nil
	case *frame.StringType:
		return "U", nil
	case *frame.BinaryType:
		return "Z", nil
	case *frame.Date32Type:
		return "tdD", nil
	case *frame.TimestampType:
		return "ts" + encodeTimeUnit(t.Unit) + ":" + t.Zone, nil
	case *frame.DurationType:
		return "tD" + encodeTimeUnit(t.Unit), nil
	case *frame.ListType:
		return "+L", nil
	case *frame.StructType:
		return "+s", nil
	default:
		return "", xerrors.Errorf("frame type %s: %w", dt.Name(), ErrUnsupported)
	}
}

// decodeFormat parses a format string into a frame type. Child fields
// must already be decoded for nested tags.
func decodeFormat(f string, children []frame.Field) (frame.DataType, error) {
	if mk, ok := simpleFormats[f]; ok {
		return mk(), nil
	}

	switch {
	case strings.HasPrefix(f, "ts") && len(f) >= 4 && f[3] == ':':
		unit, ok := decodeTimeUnit(f[2])
		if !ok {
			return nil, xerrors.Errorf("timestamp %q: %w", f, ErrUnsupported)
		}
		return frame.Timestamp(unit, f[4:]), nil
	case strings.HasPrefix(f, "tD") && len(f) == 3:
		unit, ok := decodeTimeUnit(f[2])
		if !ok {
			return nil, xerrors.Errorf("duration %q: %w", f, ErrUnsupported)
		}
		return frame.Duration(unit), nil
	case f == "+L":
		if len(children) != 1 {
			return nil, xerrors.Errorf("list has %d children, want 1", len(children))
		}
		return frame.ListOf(children[0].Type), nil
	case f == "+s":
		return frame.StructOf(children...), nil
	case f == "u" || f == "z" || f == "+l":
		// Small-offset variants: the engine keeps a single fixed
		// representation per logical kind and does not re-encode.
		return nil, xerrors.Errorf("small-offset encoding %q: %w", f, ErrUnsupported)
	default:
		return nil, xerrors.Errorf("format %q: %w", f, ErrUnsupported)
	}
}
