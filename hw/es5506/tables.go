package es5506

type tables struct {
	ulaw   [256]int16
	volume [4096]uint16
}

// Shared read-only lookup tables.
var lut = newTables()

func newTables() *tables {
	t := new(tables)

	// Compressed samples store an 8-bit sign/exponent/mantissa code: bit 7 is
	// the sign, bits 6..4 the exponent and bits 3..0 the mantissa.
	for i := range t.ulaw {
		exp := uint(i>>4) & 7
		mant := int32(i & 0x0F)

		var mag int32
		if exp == 0 {
			mag = mant<<4 + 4
		} else {
			mag = (0x100 | mant<<4 | 4) << (exp - 1)
		}
		if i&0x80 != 0 {
			mag = -mag
		}
		t.ulaw[i] = int16(mag)
	}

	// 12-bit volume codes: 4-bit exponent, 8-bit mantissa.
	for i := range t.volume {
		exp := uint(i >> 8)
		mant := uint32(i&0xFF) | 0x100
		t.volume[i] = uint16((mant << 11) >> (20 - exp))
	}
	return t
}
