package frame

import "testing"

func TestBitmapSetClear(t *testing.T) {
	bm := NewBitmap(19)
	for i := 0; i < 19; i++ {
		if bm.IsSet(i) {
			t.Fatalf("fresh bitmap has bit %d set", i)
		}
	}

	bm.Set(0)
	bm.Set(7)
	bm.Set(8)
	bm.Set(18)
	if got := bm.CountSet(); got != 4 {
		t.Fatalf("CountSet = %d, want 4", got)
	}

	bm.Clear(8)
	if bm.IsSet(8) {
		t.Error("bit 8 still set after Clear")
	}
	if got := bm.CountSet(); got != 3 {
		t.Fatalf("CountSet = %d, want 3", got)
	}
}

func TestBitmapFromBools(t *testing.T) {
	vals := []bool{true, false, true, true, false, false, true, false, true}
	bm := NewBitmapFromBools(vals)
	if bm.Len() != len(vals) {
		t.Fatalf("Len = %d, want %d", bm.Len(), len(vals))
	}
	for i, v := range vals {
		if bm.IsSet(i) != v {
			t.Errorf("bit %d = %v, want %v", i, bm.IsSet(i), v)
		}
	}
}

func TestAppendBitmaps(t *testing.T) {
	a := NewBitmapFromBools([]bool{true, false, true})
	b := NewBitmapFromBools([]bool{false, true})

	out := AppendBitmaps(a, 3, b, 2)
	want := []bool{true, false, true, false, true}
	for i, v := range want {
		if out.IsSet(i) != v {
			t.Errorf("bit %d = %v, want %v", i, out.IsSet(i), v)
		}
	}

	// nil means all valid
	out = AppendBitmaps(nil, 2, b, 2)
	want = []bool{true, true, false, true}
	for i, v := range want {
		if out.IsSet(i) != v {
			t.Errorf("nil lhs: bit %d = %v, want %v", i, out.IsSet(i), v)
		}
	}
}
