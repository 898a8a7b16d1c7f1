package bridge

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// ToFrameType maps an arrow type to its frame equivalent. The mapping
// goes through the C interface format encoding rather than a direct
// type-to-type table, so only the destination's own decoder decides
// what is representable.
func ToFrameType(dt arrow.DataType) (frame.DataType, error) {
	f, err := FieldToFrame(arrow.Field{Type: dt, Nullable: true})
	if err != nil {
		return nil, err
	}
	return f.Type, nil
}

// ToArrowType maps a frame type to its arrow equivalent.
func ToArrowType(dt frame.DataType) (arrow.DataType, error) {
	f, err := FieldToArrow(frame.NewField("", dt, true))
	if err != nil {
		return nil, err
	}
	return f.Type, nil
}
