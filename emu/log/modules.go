package log

import "slices"

type ModuleMask uint64
type Module uint

const (
	ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF
)

// Every chip core logs on its own module so that the --log flag can single
// out one engine.
const (
	ModEmu Module = iota + 1
	ModChip
	ModES5506
	ModMSM5205
	ModK005289
	ModPSG
	ModMixer
	ModScript
)

var modDebugMask ModuleMask = 0

var modNames = []string{
	"<error>", "emu", "chip", "es5506", "msm5205", "k005289", "psg", "mixer", "script",
}

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames {
		if idx != 0 && s == name {
			return Module(idx), true
		}
	}
	return Module(0xFFFFFFFF), false
}

// ModuleNames returns the sorted names of all registered modules.
func ModuleNames() []string {
	names := slices.Clone(modNames[1:])
	slices.Sort(names)
	return names
}

func EnableDebugModules(mask ModuleMask) {
	modDebugMask |= mask
}

func (mod Module) String() string {
	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return modNames[0]
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

// Enabled reports whether messages at the given level are emitted for mod.
// Warnings and errors always are (unless logging is disabled altogether),
// info and debug only for modules enabled with EnableDebugModules.
func (mod Module) Enabled(level Level) bool {
	if disabled {
		return false
	}
	return level <= WarnLevel || modDebugMask&mod.Mask() != 0
}

// Fast structured entries. A nil *EntryZ is returned when the level is
// disabled for the module, so a disabled call chain costs a nil check per
// field.

func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if mod.Enabled(lvl) {
		e := newEntryZ()
		e.lvl = lvl
		e.msg = msg
		e.mod = mod
		return e
	}
	return nil
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.logz(ErrorLevel, msg) }
