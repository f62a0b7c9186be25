// Package chips is the registry of every emulated sound chip.
package chips

import (
	"fmt"
	"slices"
	"strings"

	"vgmchips/emu/log"
	"vgmchips/hw/chip"
	"vgmchips/hw/es5506"
	"vgmchips/hw/k005289"
	"vgmchips/hw/msm5205"
	"vgmchips/hw/psg"
)

type ChipDesc struct {
	Name string
	New  func(chip.Config) (chip.Device, error)
}

var All = map[string]ChipDesc{
	"es5506":  ES5506,
	"msm5205": MSM5205,
	"k005289": K005289,
	"sn76489": SN76489,
}

var ES5506 = ChipDesc{
	Name: "Ensoniq ES5506",
	New: func(cfg chip.Config) (chip.Device, error) {
		c, err := es5506.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

var MSM5205 = ChipDesc{
	Name: "OKI MSM5205",
	New: func(cfg chip.Config) (chip.Device, error) {
		c, err := msm5205.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

var K005289 = ChipDesc{
	Name: "Konami 005289",
	New: func(cfg chip.Config) (chip.Device, error) {
		c, err := k005289.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

var SN76489 = ChipDesc{
	Name: "TI SN76489",
	New: func(cfg chip.Config) (chip.Device, error) {
		c, err := psg.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

// New creates a chip of the given type.
func New(typ string, cfg chip.Config) (chip.Device, error) {
	desc, ok := All[strings.ToLower(typ)]
	if !ok {
		return nil, fmt.Errorf("unsupported chip type %q (supported: %s)", typ, strings.Join(Types(), ", "))
	}
	dev, err := desc.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", desc.Name, err)
	}
	log.ModChip.InfoZ("chip started").
		String("type", typ).
		Uint32("clock", cfg.Clock).
		Uint32("rate", dev.SampleRate()).
		Int("channels", dev.Channels()).
		End()
	return dev, nil
}

// Types returns the sorted list of supported chip types.
func Types() []string {
	types := make([]string, 0, len(All))
	for typ := range All {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}
