package frame

import "math/bits"

// Bitmap is a compact representation of boolean values, used both for
// validity masks and for bit-packed bool columns. Bit i set means valid
// (or true) at index i, LSB-first within each byte per the Arrow layout.
type Bitmap struct {
	buf    []byte
	length int // number of bits
}

// NewBitmap creates a zeroed bitmap with the given number of bits.
func NewBitmap(length int) *Bitmap {
	return &Bitmap{buf: make([]byte, (length+7)/8), length: length}
}

// NewBitmapFromBytes wraps existing bytes without copying.
func NewBitmapFromBytes(data []byte, length int) *Bitmap {
	return &Bitmap{buf: data, length: length}
}

// NewBitmapFromBools creates a bitmap from a bool slice.
func NewBitmapFromBools(values []bool) *Bitmap {
	bm := NewBitmap(len(values))
	for i, v := range values {
		if v {
			bm.Set(i)
		}
	}
	return bm
}

// Len returns the number of bits.
func (b *Bitmap) Len() int { return b.length }

// Bytes returns the underlying byte buffer.
func (b *Bitmap) Bytes() []byte { return b.buf }

// Set sets the bit at index i to 1.
func (b *Bitmap) Set(i int) {
	if i < 0 || i >= b.length {
		panic("bitmap index out of range")
	}
	b.buf[i/8] |= 1 << (i % 8)
}

// Clear sets the bit at index i to 0.
func (b *Bitmap) Clear(i int) {
	if i < 0 || i >= b.length {
		panic("bitmap index out of range")
	}
	b.buf[i/8] &^= 1 << (i % 8)
}

// IsSet returns true if the bit at index i is 1.
func (b *Bitmap) IsSet(i int) bool {
	if i < 0 || i >= b.length {
		panic("bitmap index out of range")
	}
	return b.buf[i/8]&(1<<(i%8)) != 0
}

// CountSet returns the number of bits set to 1.
func (b *Bitmap) CountSet() int {
	count := 0
	full := b.length / 8
	for i := 0; i < full; i++ {
		count += bits.OnesCount8(b.buf[i])
	}
	if rem := b.length % 8; rem > 0 {
		mask := byte((1 << rem) - 1)
		count += bits.OnesCount8(b.buf[full] & mask)
	}
	return count
}

// AppendBitmaps returns a bitmap holding a's first alen bits followed by
// b's first blen bits. Either bitmap may be nil, meaning "all set" for
// the given length; two nils stay nil.
func AppendBitmaps(a *Bitmap, alen int, b *Bitmap, blen int) *Bitmap {
	if a == nil && b == nil {
		return nil
	}
	out := NewBitmap(alen + blen)
	for i := 0; i < alen; i++ {
		if a == nil || a.IsSet(i) {
			out.Set(i)
		}
	}
	for i := 0; i < blen; i++ {
		if b == nil || b.IsSet(i) {
			out.Set(alen + i)
		}
	}
	return out
}
