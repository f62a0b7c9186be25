package es5506

// pole is a single low-pass pole: k * (in - prev) + prev, with k a 14-bit
// fraction.
func pole(k uint32, in, prev int32) int32 {
	return int32(int64(k>>2)*int64(in-prev)/16384) + prev
}

// highpass is the feedback stage used by the double-pole low-pass and the
// 3-pole variants.
func highpass(k uint32, in, prev2, hist int32) int32 {
	return in - prev2 + int32(int64(k>>2)*int64(hist)/32768) + hist/2
}

// filter runs s through the four-pole filter of v and updates its history.
func (v *voice) filter(s int32) int32 {
	s = pole(v.k1, s, v.o1n1)
	v.o1n1 = s

	s = pole(v.k1, s, v.o2n1)
	v.o2n2 = v.o2n1
	v.o2n1 = s

	switch v.filterMode() {
	case FilterLP2:
		s = highpass(v.k2, s, v.o2n2, v.o3n1)
		v.o3n2 = v.o3n1
		v.o3n1 = s

		s = highpass(v.k2, s, v.o3n2, v.o4n1)
		v.o4n1 = s

	case FilterLP3:
		s = pole(v.k1, s, v.o3n1)
		v.o3n2 = v.o3n1
		v.o3n1 = s

		s = highpass(v.k2, s, v.o3n2, v.o4n1)
		v.o4n1 = s

	case FilterLP4:
		s = pole(v.k2, s, v.o3n1)
		v.o3n2 = v.o3n1
		v.o3n1 = s

		s = pole(v.k2, s, v.o4n1)
		v.o4n1 = s

	case FilterLP34:
		s = pole(v.k1, s, v.o3n1)
		v.o3n2 = v.o3n1
		v.o3n1 = s

		s = pole(v.k2, s, v.o4n1)
		v.o4n1 = s
	}
	return s
}
