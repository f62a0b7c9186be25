package msm5205

import "math"

const maxStep = 48

var indexShift = [8]int32{-1, -1, -1, -1, 2, 4, 6, 8}

// diffLookup maps (step, code) to a signed signal delta. Shared, read-only.
var diffLookup = computeDiffLookup()

func computeDiffLookup() *[(maxStep + 1) * 16]int32 {
	// sign, then weight of stepval, stepval/2 and stepval/4
	nbl2bit := [16][4]int32{
		{1, 0, 0, 0}, {1, 0, 0, 1}, {1, 0, 1, 0}, {1, 0, 1, 1},
		{1, 1, 0, 0}, {1, 1, 0, 1}, {1, 1, 1, 0}, {1, 1, 1, 1},
		{-1, 0, 0, 0}, {-1, 0, 0, 1}, {-1, 0, 1, 0}, {-1, 0, 1, 1},
		{-1, 1, 0, 0}, {-1, 1, 0, 1}, {-1, 1, 1, 0}, {-1, 1, 1, 1},
	}

	var t [(maxStep + 1) * 16]int32
	for step := range maxStep + 1 {
		stepval := int32(math.Floor(16.0 * math.Pow(11.0/10.0, float64(step))))
		for nib, bits := range nbl2bit {
			t[step*16+nib] = bits[0] *
				(stepval*bits[1] +
					stepval/2*bits[2] +
					stepval/4*bits[3] +
					stepval/8)
		}
	}
	return &t
}
