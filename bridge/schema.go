package bridge

import (
	"errors"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/isesword/arrow-frame-bridge/cabi"
	"github.com/isesword/arrow-frame-bridge/frame"
	"github.com/isesword/arrow-frame-bridge/frame/ffi"
)

func schemaCode(err error) ErrorCode {
	if errors.Is(err, ffi.ErrUnsupported) {
		return ErrUnsupportedType
	}
	return ErrSchemaConversion
}

// FieldToFrame converts an arrow field by exporting its schema
// description and letting the frame engine parse it.
func FieldToFrame(f arrow.Field) (frame.Field, error) {
	const op = "field to frame"
	s, err := cabi.ExportField(f)
	if err != nil {
		return frame.Field{}, convErr(ErrUnsupportedType, op, err)
	}
	out, err := ffi.ImportField(asFrameSchema(s))
	if err != nil {
		return frame.Field{}, convErr(schemaCode(err), op, err)
	}
	return out, nil
}

// FieldToArrow converts a frame field by exporting its schema
// description and letting arrow-go parse it.
func FieldToArrow(f frame.Field) (arrow.Field, error) {
	const op = "field to arrow"
	s, err := ffi.ExportField(f)
	if err != nil {
		return arrow.Field{}, convErr(ErrUnsupportedType, op, err)
	}
	out, err := cabi.ImportField(asArrowSchema(s))
	if err != nil {
		return arrow.Field{}, convErr(schemaCode(err), op, err)
	}
	return out, nil
}

// SchemaToFrame converts a full arrow schema field by field. Field order
// and names are preserved exactly.
func SchemaToFrame(s *arrow.Schema) (*frame.Schema, error) {
	fields := make([]frame.Field, s.NumFields())
	for i, f := range s.Fields() {
		out, err := FieldToFrame(f)
		if err != nil {
			return nil, err
		}
		fields[i] = out
	}
	return frame.NewSchema(fields...), nil
}

// SchemaToArrow converts a full frame schema field by field.
func SchemaToArrow(s *frame.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, s.NumFields())
	for i, f := range s.Fields() {
		out, err := FieldToArrow(f)
		if err != nil {
			return nil, err
		}
		fields[i] = out
	}
	return arrow.NewSchema(fields, nil), nil
}
