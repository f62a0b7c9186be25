package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// MarshalES5506 encodes an ES5506 state as JSON.
func MarshalES5506(s *ES5506) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("page", func(e *jx.Encoder) { e.UInt8(s.Page) })
		e.Field("write_latch", func(e *jx.Encoder) { e.UInt32(s.WriteLatch) })
		e.Field("read_latch", func(e *jx.Encoder) { e.UInt32(s.ReadLatch) })
		e.Field("mute_mask", func(e *jx.Encoder) { e.UInt32(s.MuteMask) })
		e.Field("voices", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range s.Voices {
					encodeES5506Voice(e, &s.Voices[i])
				}
			})
		})
	})
	return e.Bytes()
}

func encodeES5506Voice(e *jx.Encoder, v *ES5506Voice) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("control", func(e *jx.Encoder) { e.UInt32(v.Control) })
		e.Field("freqcount", func(e *jx.Encoder) { e.UInt32(v.FreqCount) })
		e.Field("start", func(e *jx.Encoder) { e.UInt32(v.Start) })
		e.Field("end", func(e *jx.Encoder) { e.UInt32(v.End) })
		e.Field("accum", func(e *jx.Encoder) { e.UInt32(v.Accum) })
		e.Field("accum_mask", func(e *jx.Encoder) { e.UInt32(v.AccumMask) })
		e.Field("lvol", func(e *jx.Encoder) { e.UInt32(v.LVol) })
		e.Field("rvol", func(e *jx.Encoder) { e.UInt32(v.RVol) })
		e.Field("lvramp", func(e *jx.Encoder) { e.Int8(v.LVRamp) })
		e.Field("rvramp", func(e *jx.Encoder) { e.Int8(v.RVRamp) })
		e.Field("ecount", func(e *jx.Encoder) { e.UInt32(v.ECount) })
		e.Field("k1", func(e *jx.Encoder) { e.UInt32(v.K1) })
		e.Field("k2", func(e *jx.Encoder) { e.UInt32(v.K2) })
		e.Field("k1ramp", func(e *jx.Encoder) { e.Int8(v.K1Ramp) })
		e.Field("k2ramp", func(e *jx.Encoder) { e.Int8(v.K2Ramp) })
		e.Field("o1n1", func(e *jx.Encoder) { e.Int32(v.O1N1) })
		e.Field("o2n1", func(e *jx.Encoder) { e.Int32(v.O2N1) })
		e.Field("o2n2", func(e *jx.Encoder) { e.Int32(v.O2N2) })
		e.Field("o3n1", func(e *jx.Encoder) { e.Int32(v.O3N1) })
		e.Field("o3n2", func(e *jx.Encoder) { e.Int32(v.O3N2) })
		e.Field("o4n1", func(e *jx.Encoder) { e.Int32(v.O4N1) })
		e.Field("filtcount", func(e *jx.Encoder) { e.UInt8(v.FiltCount) })
	})
}

// UnmarshalES5506 decodes a JSON state produced by MarshalES5506. Unknown
// fields are skipped.
func UnmarshalES5506(data []byte) (*ES5506, error) {
	var s ES5506
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "page":
			s.Page, err = d.UInt8()
		case "write_latch":
			s.WriteLatch, err = d.UInt32()
		case "read_latch":
			s.ReadLatch, err = d.UInt32()
		case "mute_mask":
			s.MuteMask, err = d.UInt32()
		case "voices":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(s.Voices) {
					return fmt.Errorf("too many voices")
				}
				err := decodeES5506Voice(d, &s.Voices[i])
				i++
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("es5506 state: %w", err)
	}
	return &s, nil
}

func decodeES5506Voice(d *jx.Decoder, v *ES5506Voice) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "control":
			v.Control, err = d.UInt32()
		case "freqcount":
			v.FreqCount, err = d.UInt32()
		case "start":
			v.Start, err = d.UInt32()
		case "end":
			v.End, err = d.UInt32()
		case "accum":
			v.Accum, err = d.UInt32()
		case "accum_mask":
			v.AccumMask, err = d.UInt32()
		case "lvol":
			v.LVol, err = d.UInt32()
		case "rvol":
			v.RVol, err = d.UInt32()
		case "lvramp":
			v.LVRamp, err = d.Int8()
		case "rvramp":
			v.RVRamp, err = d.Int8()
		case "ecount":
			v.ECount, err = d.UInt32()
		case "k1":
			v.K1, err = d.UInt32()
		case "k2":
			v.K2, err = d.UInt32()
		case "k1ramp":
			v.K1Ramp, err = d.Int8()
		case "k2ramp":
			v.K2Ramp, err = d.Int8()
		case "o1n1":
			v.O1N1, err = d.Int32()
		case "o2n1":
			v.O2N1, err = d.Int32()
		case "o2n2":
			v.O2N2, err = d.Int32()
		case "o3n1":
			v.O3N1, err = d.Int32()
		case "o3n2":
			v.O3N2, err = d.Int32()
		case "o4n1":
			v.O4N1, err = d.Int32()
		case "filtcount":
			v.FiltCount, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

// MarshalMSM5205 encodes an MSM5205 state as JSON.
func MarshalMSM5205(s *MSM5205) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("signal", func(e *jx.Encoder) { e.Int32(s.Signal) })
		e.Field("step", func(e *jx.Encoder) { e.Int32(s.Step) })
		e.Field("ring", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, b := range s.Ring {
					e.UInt8(b)
				}
			})
		})
		e.Field("read_pos", func(e *jx.Encoder) { e.UInt8(s.ReadPos) })
		e.Field("write_pos", func(e *jx.Encoder) { e.UInt8(s.WritePos) })
		e.Field("pins", func(e *jx.Encoder) { e.UInt8(s.Pins) })
		e.Field("muted", func(e *jx.Encoder) { e.Bool(s.Muted) })
		e.Field("clock", func(e *jx.Encoder) { e.UInt32(s.Clock) })
		e.Field("overflows", func(e *jx.Encoder) { e.UInt64(s.Overflows) })
	})
	return e.Bytes()
}

// UnmarshalMSM5205 decodes a JSON state produced by MarshalMSM5205.
func UnmarshalMSM5205(data []byte) (*MSM5205, error) {
	var s MSM5205
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "signal":
			s.Signal, err = d.Int32()
		case "step":
			s.Step, err = d.Int32()
		case "ring":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(s.Ring) {
					return fmt.Errorf("ring overflow")
				}
				var err error
				s.Ring[i], err = d.UInt8()
				i++
				return err
			})
		case "read_pos":
			s.ReadPos, err = d.UInt8()
		case "write_pos":
			s.WritePos, err = d.UInt8()
		case "pins":
			s.Pins, err = d.UInt8()
		case "muted":
			s.Muted, err = d.Bool()
		case "clock":
			s.Clock, err = d.UInt32()
		case "overflows":
			s.Overflows, err = d.UInt64()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("msm5205 state: %w", err)
	}
	return &s, nil
}

// MarshalK005289 encodes a K005289 state as JSON.
func MarshalK005289(s *K005289) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("mute_mask", func(e *jx.Encoder) { e.UInt32(s.MuteMask) })
		e.Field("voices", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range s.Voices {
					e.Obj(func(e *jx.Encoder) {
						e.Field("pitch", func(e *jx.Encoder) { e.UInt16(v.Pitch) })
						e.Field("freq", func(e *jx.Encoder) { e.UInt16(v.Freq) })
						e.Field("volume", func(e *jx.Encoder) { e.UInt8(v.Volume) })
						e.Field("waveform", func(e *jx.Encoder) { e.UInt8(v.Waveform) })
						e.Field("counter", func(e *jx.Encoder) { e.UInt16(v.Counter) })
						e.Field("addr", func(e *jx.Encoder) { e.UInt8(v.Addr) })
					})
				}
			})
		})
	})
	return e.Bytes()
}

// UnmarshalK005289 decodes a JSON state produced by MarshalK005289.
func UnmarshalK005289(data []byte) (*K005289, error) {
	var s K005289
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "mute_mask":
			s.MuteMask, err = d.UInt32()
		case "voices":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(s.Voices) {
					return fmt.Errorf("too many voices")
				}
				v := &s.Voices[i]
				i++
				return d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "pitch":
						v.Pitch, err = d.UInt16()
					case "freq":
						v.Freq, err = d.UInt16()
					case "volume":
						v.Volume, err = d.UInt8()
					case "waveform":
						v.Waveform, err = d.UInt8()
					case "counter":
						v.Counter, err = d.UInt16()
					case "addr":
						v.Addr, err = d.UInt8()
					default:
						err = d.Skip()
					}
					return err
				})
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("k005289 state: %w", err)
	}
	return &s, nil
}
