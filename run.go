package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"vgmchips/emu"
	"vgmchips/emu/audio"
	"vgmchips/emu/log"
)

// renderMain renders every session concurrently, each one with its own
// machine confined to its goroutine.
func renderMain(ctx context.Context, args Render) error {
	if args.Stdout {
		if len(args.Sessions) != 1 {
			return errors.New("--stdout requires a single session")
		}
		sink, err := emu.NewStdoutSink()
		if err != nil {
			return err
		}
		return render(ctx, args.Sessions[0], sink, args.Length)
	}

	jobs := args.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, path := range args.Sessions {
		g.Go(func() error {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out := filepath.Join(args.OutDir, base+".wav")

			sess, err := emu.LoadSession(path)
			if err != nil {
				return err
			}
			sink, err := emu.CreateWAV(out, sess.SampleRate)
			if err != nil {
				return err
			}
			if err := renderSession(ctx, sess, sink, args.Length); err != nil {
				log.ModEmu.ErrorZ("Session failed").
					String("session", path).
					Error("err", err).
					End()
				return fmt.Errorf("%s: %w", path, err)
			}
			log.ModEmu.InfoZ("Session rendered").String("session", path).String("out", out).End()
			return nil
		})
	}

	return g.Wait()
}

func render(ctx context.Context, path string, sink emu.Sink, length time.Duration) error {
	sess, err := emu.LoadSession(path)
	if err != nil {
		sink.Close()
		return err
	}
	return renderSession(ctx, sess, sink, length)
}

// renderSession runs the session script, sending the output to sink which
// is closed afterwards.
func renderSession(ctx context.Context, sess *emu.Session, sink emu.Sink, length time.Duration) error {
	m, err := emu.NewMachine(sess)
	if err != nil {
		sink.Close()
		return err
	}
	defer m.Close()

	m.SetSink(sink)
	m.SetLimit(sess.Samples(length.Seconds()))

	err = m.Run(ctx)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return err
}

func playMain(ctx context.Context, args Play) error {
	sess, err := emu.LoadSession(args.Session)
	if err != nil {
		return err
	}
	player, err := audio.NewPlayer(sess.SampleRate)
	if err != nil {
		return err
	}

	err = renderSession(ctx, sess, player, args.Length)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func infoMain(args Info) error {
	sess, err := emu.LoadSession(args.Session)
	if err != nil {
		return err
	}
	m, err := emu.NewMachine(sess)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Printf("session:     %s\n", args.Session)
	fmt.Printf("sample rate: %d Hz\n", sess.SampleRate)
	if sess.Script != "" {
		fmt.Printf("script:      %s\n", sess.Script)
	}
	if sess.FadeLength > 0 {
		fmt.Printf("fade:        %gs at %gs\n", sess.FadeLength, sess.FadeStart)
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCHANNELS\tRATE")
	for _, c := range m.Chips() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d Hz\n", c.Name, c.Type, c.Channels, c.SampleRate)
	}
	return tw.Flush()
}
