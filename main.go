package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"vgmchips/emu"
)

func main() {
	cfg := parseArgs(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.mode {
	case renderMode:
		checkf(renderMain(ctx, cfg.Render), "render failed")
	case playMode:
		checkf(playMain(ctx, cfg.Play), "playback failed")
	case infoMode:
		checkf(infoMain(cfg.Info), "failed to read session")
	case newMode:
		checkf(emu.SaveSession(cfg.New.Path, emu.DefaultSession()), "failed to write session")
		fmt.Println("session written to", cfg.New.Path)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("vgmchips", version)
}
