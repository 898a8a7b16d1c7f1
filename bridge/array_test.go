package bridge

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isesword/arrow-frame-bridge/frame"
)

// crossAndBack pushes an array to the frame side and brings it back.
func crossAndBack(t *testing.T, src arrow.Array) arrow.Array {
	t.Helper()
	ft, err := ToFrameType(src.DataType())
	require.NoError(t, err)

	chunk, err := ArrowToFrame(src, ft)
	require.NoError(t, err)

	out, err := FrameToArrow(chunk, src.DataType())
	require.NoError(t, err)
	return out
}

func TestArrayRoundTripLaw(t *testing.T) {
	mem := memory.NewGoAllocator()

	cases := []struct {
		name  string
		build func() arrow.Array
	}{
		{"int32 with nulls", func() arrow.Array {
			b := array.NewInt32Builder(mem)
			defer b.Release()
			b.AppendValues([]int32{1, 2, 3, 4}, []bool{true, false, true, true})
			return b.NewArray()
		}},
		{"float64", func() arrow.Array {
			b := array.NewFloat64Builder(mem)
			defer b.Release()
			b.AppendValues([]float64{1.5, -2.25, 0}, nil)
			return b.NewArray()
		}},
		{"bool with nulls", func() arrow.Array {
			b := array.NewBooleanBuilder(mem)
			defer b.Release()
			b.AppendValues([]bool{true, false, true}, []bool{true, true, false})
			return b.NewArray()
		}},
		{"large string", func() arrow.Array {
			b := array.NewLargeStringBuilder(mem)
			defer b.Release()
			b.AppendValues([]string{"ab", "", "hello world"}, []bool{true, false, true})
			return b.NewArray()
		}},
		{"large binary", func() arrow.Array {
			b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.LargeBinary)
			defer b.Release()
			b.AppendValues([][]byte{{1, 2}, nil, {3}}, []bool{true, false, true})
			return b.NewArray()
		}},
		{"date32", func() arrow.Array {
			b := array.NewDate32Builder(mem)
			defer b.Release()
			b.AppendValues([]arrow.Date32{19000, 19001}, nil)
			return b.NewArray()
		}},
		{"timestamp", func() arrow.Array {
			b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"})
			defer b.Release()
			b.AppendValues([]arrow.Timestamp{1700000000000000, 1700000001000000}, nil)
			return b.NewArray()
		}},
		{"large list with null entry", func() arrow.Array {
			b := array.NewLargeListBuilder(mem, arrow.PrimitiveTypes.Int64)
			defer b.Release()
			vb := b.ValueBuilder().(*array.Int64Builder)
			b.Append(true)
			vb.AppendValues([]int64{1, 2}, nil)
			b.AppendNull()
			b.Append(true)
			vb.Append(3)
			return b.NewArray()
		}},
		{"struct with null child values", func() arrow.Array {
			dt := arrow.StructOf(
				arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
				arrow.Field{Name: "y", Type: arrow.BinaryTypes.LargeString, Nullable: true},
			)
			b := array.NewStructBuilder(mem, dt)
			defer b.Release()
			xb := b.FieldBuilder(0).(*array.Int32Builder)
			yb := b.FieldBuilder(1).(*array.LargeStringBuilder)
			b.Append(true)
			xb.Append(7)
			yb.AppendNull()
			b.Append(true)
			xb.AppendNull()
			yb.Append("q")
			return b.NewArray()
		}},
		{"zero length", func() arrow.Array {
			b := array.NewLargeStringBuilder(mem)
			defer b.Release()
			return b.NewArray()
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.build()
			defer src.Release()

			got := crossAndBack(t, src)
			defer got.Release()

			assert.True(t, array.Equal(src, got), "round trip changed data:\nsrc: %v\ngot: %v", src, got)
		})
	}
}

func TestNullPropagation(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{1, 2, 3, 4, 5}, []bool{true, false, true, false, true})
	src := b.NewArray()
	defer src.Release()

	chunk, err := ArrowToFrame(src, frame.Int32())
	require.NoError(t, err)
	defer chunk.Release()

	assert.Equal(t, 5, chunk.Len())
	assert.Equal(t, 2, chunk.NullCount())
	for i, null := range []bool{false, true, false, true, false} {
		assert.Equal(t, null, chunk.IsNull(i), "row %d", i)
	}
}

// slackList builds a single-row large list whose values child extends
// past the final offset. The C interface permits the trailing rows; the
// importer accepts them and downstream merging must not read them.
func slackList(mem memory.Allocator, offsets []int64, values []int64) arrow.Array {
	vb := array.NewInt64Builder(mem)
	defer vb.Release()
	vb.AppendValues(values, nil)
	vals := vb.NewArray()
	defer vals.Release()

	offs := memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(offsets))
	data := array.NewData(arrow.LargeListOf(arrow.PrimitiveTypes.Int64), len(offsets)-1,
		[]*memory.Buffer{nil, offs}, []arrow.ArrayData{vals.Data()}, 0, 0)
	defer data.Release()
	return array.MakeFromData(data)
}

func TestImportedListSlackNotReadByRechunk(t *testing.T) {
	mem := memory.NewGoAllocator()
	a := slackList(mem, []int64{0, 1}, []int64{10, 99, 98})
	defer a.Release()
	b := slackList(mem, []int64{0, 1}, []int64{20})
	defer b.Release()

	ft := frame.ListOf(frame.Int64())
	ca, err := ArrowToFrame(a, ft)
	require.NoError(t, err)
	cb, err := ArrowToFrame(b, ft)
	require.NoError(t, err)

	s, err := frame.NewSeries("xs", ft, ca, cb)
	require.NoError(t, err)
	require.NoError(t, s.Rechunk())

	c := s.Chunk(0)
	assert.Equal(t, []int64{0, 1, 2}, c.Offsets())
	assert.Equal(t, []int64{10, 20}, c.Child(0).Int64s())
}

func TestFrameToArrowConsumesChunk(t *testing.T) {
	released := 0
	chunk := frame.NewInt32Chunk([]int32{1, 2, 3}, nil)
	chunk.SetRelease(func() { released++ })

	arr, err := FrameToArrow(chunk, arrow.PrimitiveTypes.Int32)
	require.NoError(t, err)

	// The data is still alive while the array is referenced.
	assert.Equal(t, 0, released)
	assert.Equal(t, int32(2), arr.(*array.Int32).Value(1))
	arr.Release()
}

func TestArrowToFrameFailureLeavesSource(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{1, 2}, nil)
	src := b.NewArray()
	defer src.Release()

	// Structural mismatch between descriptor and target type.
	_, err := ArrowToFrame(src, frame.StructOf(frame.NewField("x", frame.Int32(), true)))
	require.Error(t, err)
	assert.Equal(t, ErrArrayConversion, CodeOf(err))

	// The source array is still fully usable.
	assert.Equal(t, int32(1), src.(*array.Int32).Value(0))
}
