package frame

import "testing"

func TestSeriesAppendChunk(t *testing.T) {
	s, err := NewSeries("v", Int32(), NewInt32Chunk([]int32{1, 2}, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AppendChunk(NewInt32Chunk([]int32{3}, nil)); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 || s.NChunks() != 2 {
		t.Fatalf("len=%d chunks=%d, want 3 and 2", s.Len(), s.NChunks())
	}

	if err := s.AppendChunk(NewInt64Chunk([]int64{4}, nil)); err == nil {
		t.Fatal("appending mistyped chunk did not fail")
	}
}

func TestSeriesNullsAcrossChunks(t *testing.T) {
	s, _ := NewSeries("v", Int32(),
		NewInt32Chunk([]int32{1, 2}, []bool{true, false}),
		NewInt32Chunk([]int32{3}, []bool{false}),
	)
	if s.NullCount() != 2 {
		t.Fatalf("NullCount = %d, want 2", s.NullCount())
	}
	wantNull := []bool{false, true, true}
	for i, w := range wantNull {
		if s.IsNull(i) != w {
			t.Errorf("IsNull(%d) = %v, want %v", i, s.IsNull(i), w)
		}
	}
}

func TestRechunkPrimitive(t *testing.T) {
	s, _ := NewSeries("v", Int32(),
		NewInt32Chunk([]int32{1, 2}, []bool{true, false}),
		NewInt32Chunk([]int32{3, 4}, nil),
	)
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	if s.NChunks() != 1 || s.Len() != 4 {
		t.Fatalf("chunks=%d len=%d after rechunk", s.NChunks(), s.Len())
	}
	c := s.Chunk(0)
	vals := c.Int32s()
	if vals[0] != 1 || vals[2] != 3 || vals[3] != 4 {
		t.Errorf("values = %v", vals)
	}
	if !c.IsNull(1) || c.IsNull(2) {
		t.Error("nulls lost in rechunk")
	}
}

func TestRechunkString(t *testing.T) {
	s, _ := NewSeries("v", String(),
		NewStringChunk([]string{"ab", "c"}, nil),
		NewStringChunk([]string{"", "defg"}, []bool{false, true}),
	)
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	c := s.Chunk(0)
	want := []string{"ab", "c", "", "defg"}
	for i, w := range want {
		if got := c.StringAt(i); got != w {
			t.Errorf("StringAt(%d) = %q, want %q", i, got, w)
		}
	}
	if !c.IsNull(2) {
		t.Error("null lost in string rechunk")
	}
}

func TestRechunkBool(t *testing.T) {
	s, _ := NewSeries("v", Bool(),
		NewBoolChunk([]bool{true, false, true}, nil),
		NewBoolChunk([]bool{false, false, true, true, false, true, false, true, true}, nil),
	)
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	got := s.Chunk(0).Bools()
	want := []bool{true, false, true, false, false, true, true, false, true, false, true, true}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRechunkList(t *testing.T) {
	s, _ := NewSeries("v", ListOf(Int64()),
		NewListChunk(Int64(), []int64{0, 2}, NewInt64Chunk([]int64{1, 2}, nil), nil),
		NewListChunk(Int64(), []int64{0, 1, 3}, NewInt64Chunk([]int64{3, 4, 5}, nil), nil),
	)
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	c := s.Chunk(0)
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	off := c.Offsets()
	wantOff := []int64{0, 2, 3, 5}
	for i, w := range wantOff {
		if off[i] != w {
			t.Errorf("offset %d = %d, want %d", i, off[i], w)
		}
	}
	vals := c.Child(0).Int64s()
	for i, w := range []int64{1, 2, 3, 4, 5} {
		if vals[i] != w {
			t.Errorf("value %d = %d, want %d", i, vals[i], w)
		}
	}
}

func TestRechunkListTrimsValueSlack(t *testing.T) {
	// The C interface allows a values child longer than the final
	// offset. Merging must copy only the rows the offsets window.
	slack := NewChunk(ListOf(Int64()), 1,
		[]*Buffer{NewInt64Buffer([]int64{0, 1})},
		nil,
		[]*Chunk{NewInt64Chunk([]int64{10, 99, 98}, nil)},
	)
	s, _ := NewSeries("v", ListOf(Int64()),
		slack,
		NewListChunk(Int64(), []int64{0, 1}, NewInt64Chunk([]int64{20}, nil), nil),
	)
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	c := s.Chunk(0)
	off := c.Offsets()
	if off[0] != 0 || off[1] != 1 || off[2] != 2 {
		t.Errorf("offsets = %v, want [0 1 2]", off)
	}
	vals := c.Child(0).Int64s()
	if len(vals) != 2 || vals[0] != 10 || vals[1] != 20 {
		t.Errorf("values = %v, want [10 20]", vals)
	}
}

func TestRechunkStruct(t *testing.T) {
	fields := []Field{NewField("a", Int32(), true)}
	mk := func(vals []int32) *Chunk {
		return NewStructChunk(fields, len(vals), []*Chunk{NewInt32Chunk(vals, nil)}, nil)
	}
	s, _ := NewSeries("v", StructOf(fields...), mk([]int32{1}), mk([]int32{2, 3}))
	if err := s.Rechunk(); err != nil {
		t.Fatal(err)
	}
	c := s.Chunk(0)
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	vals := c.Child(0).Int32s()
	if vals[0] != 1 || vals[1] != 2 || vals[2] != 3 {
		t.Errorf("child values = %v", vals)
	}
}
