package cabi

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

var formatTypes = map[string]arrow.DataType{
	"b":   arrow.FixedWidthTypes.Boolean,
	"c":   arrow.PrimitiveTypes.Int8,
	"s":   arrow.PrimitiveTypes.Int16,
	"i":   arrow.PrimitiveTypes.Int32,
	"l":   arrow.PrimitiveTypes.Int64,
	"C":   arrow.PrimitiveTypes.Uint8,
	"S":   arrow.PrimitiveTypes.Uint16,
	"I":   arrow.PrimitiveTypes.Uint32,
	"L":   arrow.PrimitiveTypes.Uint64,
	"f":   arrow.PrimitiveTypes.Float32,
	"g":   arrow.PrimitiveTypes.Float64,
	"u":   arrow.BinaryTypes.String,
	"U":   arrow.BinaryTypes.LargeString,
	"z":   arrow.BinaryTypes.Binary,
	"Z":   arrow.BinaryTypes.LargeBinary,
	"tdD": arrow.FixedWidthTypes.Date32,
}

func timeUnitFormat(u arrow.TimeUnit) byte {
	switch u {
	case arrow.Second:
		return 's'
	case arrow.Millisecond:
		return 'm'
	case arrow.Microsecond:
		return 'u'
	default:
		return 'n'
	}
}

func parseTimeUnit(c byte) (arrow.TimeUnit, error) {
	switch c {
	case 's':
		return arrow.Second, nil
	case 'm':
		return arrow.Millisecond, nil
	case 'u':
		return arrow.Microsecond, nil
	case 'n':
		return arrow.Nanosecond, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", c)
}

// formatFor renders the C interface format string for an arrow type.
func formatFor(dt arrow.DataType) (string, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return "b", nil
	case arrow.INT8:
		return "c", nil
	case arrow.INT16:
		return "s", nil
	case arrow.INT32:
		return "i", nil
	case arrow.INT64:
		return "l", nil
	case arrow.UINT8:
		return "C", nil
	case arrow.UINT16:
		return "S", nil
	case arrow.UINT32:
		return "I", nil
	case arrow.UINT64:
		return "L", nil
	case arrow.FLOAT32:
		return "f", nil
	case arrow.FLOAT64:
		return "g", nil
	case arrow.STRING:
		return "u", nil
	case arrow.LARGE_STRING:
		return "U", nil
	case arrow.BINARY:
		return "z", nil
	case arrow.LARGE_BINARY:
		return "Z", nil
	case arrow.DATE32:
		return "tdD", nil
	case arrow.TIMESTAMP:
		t := dt.(*arrow.TimestampType)
		return "ts" + string(timeUnitFormat(t.Unit)) + ":" + t.TimeZone, nil
	case arrow.DURATION:
		t := dt.(*arrow.DurationType)
		return "tD" + string(timeUnitFormat(t.Unit)), nil
	case arrow.LIST:
		return "+l", nil
	case arrow.LARGE_LIST:
		return "+L", nil
	case arrow.STRUCT:
		return "+s", nil
	default:
		return "", fmt.Errorf("no format mapping for arrow type %s", dt)
	}
}

// typeFor parses a format string into an arrow type, using the already
// imported child fields for nested tags.
func typeFor(format string, children []arrow.Field) (arrow.DataType, error) {
	if dt, ok := formatTypes[format]; ok {
		return dt, nil
	}

	switch {
	case strings.HasPrefix(format, "ts") && len(format) >= 4 && format[3] == ':':
		unit, err := parseTimeUnit(format[2])
		if err != nil {
			return nil, err
		}
		return &arrow.TimestampType{Unit: unit, TimeZone: format[4:]}, nil
	case strings.HasPrefix(format, "tD") && len(format) == 3:
		unit, err := parseTimeUnit(format[2])
		if err != nil {
			return nil, err
		}
		return &arrow.DurationType{Unit: unit}, nil
	case format == "+l":
		if len(children) != 1 {
			return nil, fmt.Errorf("list schema has %d children, want 1", len(children))
		}
		return arrow.ListOfField(children[0]), nil
	case format == "+L":
		if len(children) != 1 {
			return nil, fmt.Errorf("large list schema has %d children, want 1", len(children))
		}
		return arrow.LargeListOfField(children[0]), nil
	case format == "+s":
		return arrow.StructOf(children...), nil
	default:
		return nil, fmt.Errorf("unknown format string %q", format)
	}
}
