package chip

// Region is a grow-only bank of sample data. Reading outside the loaded data
// returns zero so that a voice pointing at missing data plays silence.
type Region[T ~uint8 | ~uint16] struct {
	data []T
}

// Grow makes sure the region holds at least n elements and returns its
// content. Existing data is preserved, new elements are zero.
func (r *Region[T]) Grow(n int) []T {
	if n > len(r.data) {
		if n <= cap(r.data) {
			r.data = r.data[:n]
		} else {
			data := make([]T, n)
			copy(data, r.data)
			r.data = data
		}
	}
	return r.data
}

// At returns the element at index i, or 0 if i is out of the loaded data.
func (r *Region[T]) At(i uint32) T {
	if uint64(i) >= uint64(len(r.data)) {
		return 0
	}
	return r.data[i]
}

func (r *Region[T]) Len() int { return len(r.data) }

// Release drops the region content.
func (r *Region[T]) Release() { r.data = nil }

// LoadBytes copies data at offset, growing the region as needed.
func LoadBytes(r *Region[uint8], offset uint32, data []byte) {
	end := int(offset) + len(data)
	copy(r.Grow(end)[offset:], data)
}
