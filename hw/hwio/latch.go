package hwio

// Latch32 assembles a 32-bit register from four consecutive byte writes,
// most significant byte first. The byte lane is given by the two low bits of
// the register address: lane 0 holds bits 31..24, lane 3 holds bits 7..0.
//
// Nothing is visible to the register owner until the final lane is written:
// Write reports the assembled value only then, and clears the latch.
type Latch32 struct {
	value uint32
}

// LatchComplete reports whether a byte write to addr completes a 32-bit
// register.
func LatchComplete(addr uint32) bool {
	return addr&3 == 3
}

func laneShift(addr uint32) uint32 {
	return 24 - 8*(addr&3)
}

// Write merges val in the lane selected by addr. When the write completes the
// register, it returns the assembled value and true.
func (l *Latch32) Write(addr uint32, val uint8) (uint32, bool) {
	shift := laneShift(addr)
	l.value = l.value&^(0xFF<<shift) | uint32(val)<<shift
	if !LatchComplete(addr) {
		return 0, false
	}
	v := l.value
	l.value = 0
	return v, true
}

// Value returns the partially assembled value.
func (l *Latch32) Value() uint32 { return l.value }

// Restore sets the partially assembled value.
func (l *Latch32) Restore(v uint32) { l.value = v }

func (l *Latch32) Reset() { l.value = 0 }

// ReadLatch32 is the read-side counterpart of Latch32: a read of lane 0
// snapshots the register so that the following lanes return bytes of the
// same value, even if the register changes between byte reads.
type ReadLatch32 struct {
	value uint32
}

// Read returns the byte for the lane selected by addr. fetch is only called
// on lane 0.
func (l *ReadLatch32) Read(addr uint32, fetch func() uint32) uint8 {
	if addr&3 == 0 {
		l.value = fetch()
	}
	return uint8(l.value >> laneShift(addr))
}

// Value returns the last snapshot.
func (l *ReadLatch32) Value() uint32 { return l.value }

// Restore sets the snapshot.
func (l *ReadLatch32) Restore(v uint32) { l.value = v }

func (l *ReadLatch32) Reset() { l.value = 0 }
