package emu

import (
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"vgmchips/emu/log"
)

// Run executes the session script then renders the rest of the fade-out.
// Rendering stops early, without error, once the fade-out or the length
// limit is over.
func (m *Machine) Run(ctx context.Context) error {
	if m.sess.Script != "" {
		if err := m.runScript(ctx, m.sess.Script, ""); err != nil {
			return err
		}
	}
	return m.Finish()
}

// RunString executes a script given as source text.
func (m *Machine) RunString(ctx context.Context, src string) error {
	return m.runScript(ctx, "", src)
}

func (m *Machine) runScript(ctx context.Context, path, src string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	s := &script{m: m}
	s.register(L)

	var err error
	if path != "" {
		err = L.DoFile(path)
	} else {
		err = L.DoString(src)
	}

	switch {
	case errors.Is(s.stop, errEnd):
		log.ModScript.InfoZ("Rendering ended before the script").
			Uint("samples", m.mixer.Position()).
			End()
		return nil
	case s.stop != nil:
		return s.stop
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

type script struct {
	m    *Machine
	stop error // set when rendering can't continue
}

func (s *script) register(L *lua.LState) {
	for name, fn := range map[string]lua.LGFunction{
		"write":   s.write,
		"read":    s.read,
		"mute":    s.mute,
		"reset":   s.reset,
		"clock":   s.clock,
		"load":    s.load,
		"wait":    s.wait,
		"seconds": s.seconds,
		"log":     s.log,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	L.SetGlobal("sample_rate", lua.LNumber(s.m.mixer.SampleRate()))
}

func raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}

// write(chip, addr, val)
func (s *script) write(L *lua.LState) int {
	name := L.CheckString(1)
	addr := uint32(L.CheckInt64(2))
	val := uint8(L.CheckInt(3))
	raise(L, s.m.Write(name, addr, val))
	return 0
}

// read(chip, addr) -> val
func (s *script) read(L *lua.LState) int {
	val, err := s.m.Read(L.CheckString(1), uint32(L.CheckInt64(2)))
	raise(L, err)
	L.Push(lua.LNumber(val))
	return 1
}

// mute(chip, mask)
func (s *script) mute(L *lua.LState) int {
	raise(L, s.m.Mute(L.CheckString(1), uint32(L.CheckInt64(2))))
	return 0
}

// reset(chip)
func (s *script) reset(L *lua.LState) int {
	raise(L, s.m.Reset(L.CheckString(1)))
	return 0
}

// clock(chip, hz)
func (s *script) clock(L *lua.LState) int {
	raise(L, s.m.SetClock(L.CheckString(1), uint32(L.CheckInt64(2))))
	return 0
}

// load(chip, region, offset, file [, expand8])
func (s *script) load(L *lua.LState) int {
	name := L.CheckString(1)
	region := L.CheckInt(2)
	offset := uint32(L.CheckInt64(3))
	file := L.CheckString(4)
	expand8 := L.OptBool(5, false)
	raise(L, s.m.Load(name, region, offset, file, expand8))
	return 0
}

// wait(samples) renders the given number of output samples.
func (s *script) wait(L *lua.LState) int {
	n := L.CheckInt64(1)
	if n < 0 {
		L.ArgError(1, "negative sample count")
	}
	if err := s.m.Render(uint64(n)); err != nil {
		s.stop = err
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// seconds(s) -> number of output samples
func (s *script) seconds(L *lua.LState) int {
	secs := float64(L.CheckNumber(1))
	L.Push(lua.LNumber(s.m.sess.Samples(secs)))
	return 1
}

// log(msg)
func (s *script) log(L *lua.LState) int {
	log.ModScript.InfoZ(L.CheckString(1)).
		Uint("sample", s.m.mixer.Position()).
		End()
	return 0
}
