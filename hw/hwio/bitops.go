package hwio

// 32-bit operations
func GetBit32(v uint32, n uint) bool {
	return v>>n&0x01 != 0
}

func SetBit32(v *uint32, n uint) {
	*v |= (1 << n)
}

// SignExtend32 interprets the low 'bits' bits of v as a two's complement
// number.
func SignExtend32(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Clamp16 saturates v to the unsigned 16-bit range.
func Clamp16(v int32) uint16 {
	switch {
	case v < 0:
		return 0
	case v > 0xFFFF:
		return 0xFFFF
	}
	return uint16(v)
}
