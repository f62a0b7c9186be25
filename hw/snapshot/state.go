package snapshot

// Version is bumped whenever a state struct changes in an incompatible way.
const Version = 1

type ES5506 struct {
	Version    int
	Page       uint8
	WriteLatch uint32
	ReadLatch  uint32
	MuteMask   uint32
	Voices     [32]ES5506Voice
}

type ES5506Voice struct {
	Control   uint32
	FreqCount uint32
	Start     uint32
	End       uint32
	Accum     uint32
	AccumMask uint32

	LVol   uint32
	RVol   uint32
	LVRamp int8
	RVRamp int8
	ECount uint32

	K1     uint32
	K2     uint32
	K1Ramp int8
	K2Ramp int8

	O1N1 int32
	O2N1 int32
	O2N2 int32
	O3N1 int32
	O3N2 int32
	O4N1 int32

	FiltCount uint8
}

type MSM5205 struct {
	Version   int
	Signal    int32
	Step      int32
	Ring      [8]uint8
	ReadPos   uint8
	WritePos  uint8
	Pins      uint8
	Muted     bool
	Clock     uint32
	Overflows uint64
}

type K005289 struct {
	Version  int
	MuteMask uint32
	Voices   [2]K005289Voice
}

type K005289Voice struct {
	Pitch    uint16
	Freq     uint16
	Volume   uint8
	Waveform uint8
	Counter  uint16
	Addr     uint8
}
