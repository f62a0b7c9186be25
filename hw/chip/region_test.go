package chip

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegionGrowOnly(t *testing.T) {
	var r Region[uint16]

	if got := r.At(0); got != 0 {
		t.Errorf("empty region At(0) = %d, want 0", got)
	}

	copy(r.Grow(4), []uint16{1, 2, 3, 4})
	r.Grow(2)
	if r.Len() != 4 {
		t.Fatalf("Len() = %d after shrinking Grow, want 4", r.Len())
	}

	r.Grow(6)
	want := []uint16{1, 2, 3, 4, 0, 0}
	if diff := cmp.Diff(want, r.data); diff != "" {
		t.Errorf("region content mismatch (-want +got):\n%s", diff)
	}
	if got := r.At(6); got != 0 {
		t.Errorf("At(6) = %d, want 0", got)
	}
	if got := r.At(0xFFFFFFFF); got != 0 {
		t.Errorf("At(0xFFFFFFFF) = %d, want 0", got)
	}
}

func TestLoadBytes(t *testing.T) {
	var r Region[uint8]

	LoadBytes(&r, 2, []byte{0xAA, 0xBB})
	LoadBytes(&r, 0, []byte{0x11})

	want := []uint8{0x11, 0x00, 0xAA, 0xBB}
	if diff := cmp.Diff(want, r.data); diff != "" {
		t.Errorf("region content mismatch (-want +got):\n%s", diff)
	}

	r.Release()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Release, want 0", r.Len())
	}
}

func TestRateNotifier(t *testing.T) {
	var n RateNotifier
	n.Notify(1000) // no callback, no panic

	var got []uint32
	n.SetRateChangeFunc(func(rate uint32) { got = append(got, rate) })
	n.Notify(44100)
	n.Notify(8000)

	if diff := cmp.Diff([]uint32{44100, 8000}, got); diff != "" {
		t.Errorf("notified rates mismatch (-want +got):\n%s", diff)
	}
}
