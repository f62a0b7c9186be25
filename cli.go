package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"vgmchips/emu/log"
)

type mode byte

const (
	renderMode  mode = iota // Render sessions to files
	playMode                // Play a session on the audio device
	infoMode                // Show session infos
	newMode                 // Write a new session file
	versionMode             // Show version
)

type (
	CLI struct {
		Render  Render  `cmd:"" help:"Render sessions to WAV files."`
		Play    Play    `cmd:"" help:"Play a session on the audio device."`
		Info    Info    `cmd:"" help:"Show session chips and rates."`
		New     New     `cmd:"" help:"Write a new session file."`
		Version Version `cmd:"" help:"Show vgmchips version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Render struct {
		Sessions []string      `arg:"" name:"session" help:"${session_help}" type:"existingfile"`
		OutDir   string        `name:"outdir" short:"o" help:"Output directory." default:"." type:"existingdir"`
		Stdout   bool          `name:"stdout" help:"Write raw 16-bit stereo PCM to stdout (single session)."`
		Length   time.Duration `name:"length" short:"l" help:"Max rendered length (0: no limit)." default:"0s"`
		Jobs     int           `name:"jobs" short:"j" help:"Number of sessions rendered in parallel (0: number of CPUs)." default:"0"`
	}

	Play struct {
		Session string        `arg:"" name:"session" help:"${session_help}" type:"existingfile"`
		Length  time.Duration `name:"length" short:"l" help:"Max played length (0: no limit)." default:"0s"`
	}

	Info struct {
		Session string `arg:"" name:"session" help:"${session_help}" type:"existingfile"`
	}

	New struct {
		Path string `arg:"" name:"path" help:"Path of the session file to create." type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"session_help": "TOML session file.",
	"log_help":     "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("vgmchips"),
		kong.Description("Sound chip emulators and renderer."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "play <session>":
		cfg.mode = playMode
	case "info <session>":
		cfg.mode = infoMode
	case "new <path>":
		cfg.mode = newMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = renderMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
