package chip

import "errors"

// ErrAllocation is returned by chip constructors when the requested
// configuration cannot be satisfied. No instance is created in that case.
var ErrAllocation = errors.New("chip allocation failed")

// A Device is a sound chip driven through its register interface.
//
// A Device has no internal synchronization: register access and Generate
// must not be called concurrently for the same instance.
type Device interface {
	Name() string

	// Reset restores the hardware defaults, re-derives the output sample
	// rate and reports it to the rate change callback.
	Reset()

	// Stop releases the sample data. The device must not be used afterwards.
	Stop()

	Write(addr uint32, val uint8)
	Read(addr uint32) uint8

	// LoadData copies data into the given region, at the given byte offset.
	// Regions only grow. When expand8 is set, each byte goes into the high
	// 8 bits of one 16-bit word.
	LoadData(region int, offset uint32, data []byte, expand8 bool)

	// SetMuteMask silences voice i when bit i is set. Single voice chips
	// only look at bit 0.
	SetMuteMask(mask uint32)

	SetRateChangeFunc(fn RateChangeFunc)

	// SampleRate is the current output sample rate, in Hz.
	SampleRate() uint32

	// Channels is the number of output buffers Generate expects.
	Channels() int

	// Generate synthesizes n samples into out, which must hold Channels()
	// buffers of at least n samples. Splitting a call into smaller ones
	// totalling the same number of samples gives identical output.
	Generate(out [][]int32, n int)
}

// ClockSetter is implemented by devices whose master clock can be changed
// while running.
type ClockSetter interface {
	SetClock(clock uint32)
}

// Config holds the parameters shared by all chip constructors.
type Config struct {
	Clock    uint32 // master clock, in Hz
	Channels int    // output channels, 0 selects the chip default
	Flags    uint32 // chip specific
	ROM      []byte // optional, loaded in region 0
}

// RateChangeFunc is called with the new output sample rate.
type RateChangeFunc func(rate uint32)

// RateNotifier holds a rate change callback. The zero value is usable and
// reports nothing.
type RateNotifier struct {
	fn RateChangeFunc
}

func (n *RateNotifier) SetRateChangeFunc(fn RateChangeFunc) {
	n.fn = fn
}

func (n *RateNotifier) Notify(rate uint32) {
	if n.fn != nil {
		n.fn(rate)
	}
}
