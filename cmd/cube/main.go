// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command cube renders the spinning cube in a window, or headless into an
// offscreen surface with an optional capture of the last frame.
//
// Usage:
//
//	cube [-variant lit] [-width 800] [-height 600]
//	cube -headless [-backend noop] [-frames 120] [-capture out.png]
//	     [-scene scene.yaml] [-resize 1024x768@30,0x0@60]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/cube"
	host "github.com/gogpu/cube/host/gogpu"
	"github.com/gogpu/cube/internal/device"
)

// defaultHeadlessFrames is the frame count of a headless run without -frames.
const defaultHeadlessFrames = 120

type config struct {
	variant  string
	width    uint
	height   uint
	headless bool
	backend  string
	frames   uint64
	fps      float64
	capture  string
	scene    string
	resize   string
	verbose  bool
	progress bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("cube", flag.ContinueOnError)
	fs.SetOutput(stderr)

	c := &config{}
	fs.StringVar(&c.variant, "variant", "", "what to draw: clear, triangle, cube or lit (default lit)")
	fs.UintVar(&c.width, "width", 800, "window width")
	fs.UintVar(&c.height, "height", 600, "window height")
	fs.BoolVar(&c.headless, "headless", false, "render offscreen without a window")
	fs.StringVar(&c.backend, "backend", string(device.BackendVulkan), "headless backend: vulkan or noop")
	fs.Uint64Var(&c.frames, "frames", 0, "number of frames (0: until closed, headless default 120)")
	fs.Float64Var(&c.fps, "fps", 60, "simulated frame rate of headless runs")
	fs.StringVar(&c.capture, "capture", "", "headless: write the last frame to this .png, .bmp or .tiff file")
	fs.StringVar(&c.scene, "scene", "", "YAML scene file with camera, motion and lights")
	fs.StringVar(&c.resize, "resize", "", "headless: resize schedule, e.g. 1024x768@30,0x0@60")
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
	fs.BoolVar(&c.progress, "progress", true, "headless: show a progress bar")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if c.fps <= 0 {
		return nil, fmt.Errorf("-fps must be positive, got %v", c.fps)
	}
	if !c.headless && (c.capture != "" || c.resize != "") {
		return nil, errors.New("-capture and -resize need -headless")
	}
	return c, nil
}

// options collects renderer options from the scene file and flags.
// An explicit -variant wins over the scene's variant.
func (c *config) options() ([]cube.Option, error) {
	var opts []cube.Option
	if c.scene != "" {
		s, err := LoadScene(c.scene)
		if err != nil {
			return nil, err
		}
		sceneOpts, err := s.Options()
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", c.scene, err)
		}
		opts = append(opts, sceneOpts...)
	}
	if c.variant != "" {
		v, err := cube.ParseVariant(c.variant)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cube.WithVariant(v))
	}
	return opts, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "cube: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	c, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	cube.SetLogger(newLogger(os.Stderr, c.verbose))

	opts, err := c.options()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.headless {
		return runHeadless(ctx, c, opts)
	}
	err = host.Run(ctx, host.Config{
		Title:     "cube",
		Width:     int(c.width),  //nolint:gosec // flag values
		Height:    int(c.height), //nolint:gosec // flag values
		Options:   opts,
		MaxFrames: c.frames,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runHeadless(ctx context.Context, c *config, opts []cube.Option) error {
	backend, err := device.ParseBackend(c.backend)
	if err != nil {
		return err
	}
	schedule, err := parseResizes(c.resize)
	if err != nil {
		return err
	}
	frames := c.frames
	if frames == 0 {
		frames = defaultHeadlessFrames
	}

	dev, err := device.Open(backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	surf := cube.NewOffscreenSurface(dev.Device, dev.Queue, uint32(c.width), uint32(c.height)) //nolint:gosec // flag values
	defer surf.Destroy()

	// Headless time advances a fixed step per frame.
	tl := newTimeline(time.Now(), time.Duration(float64(time.Second)/c.fps), schedule)
	opts = append(opts, cube.WithClock(tl.now))

	r, err := cube.New(dev.Device, dev.Queue, surf, opts...)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if c.progress {
		bar = progressbar.Default(int64(frames), "rendering") //nolint:gosec // frame counts are small
	}

	events := cube.EventSourceFunc(func() []cube.Event {
		steps, advanced := tl.next()
		if advanced && bar != nil {
			_ = bar.Add(1)
		}
		var out []cube.Event
		for _, s := range steps {
			surf.Resize(s.Width, s.Height)
			out = append(out, cube.Event{Kind: cube.EventResize, Width: s.Width, Height: s.Height})
		}
		return out
	})

	runErr := r.Run(ctx, events, frames)
	if bar != nil {
		_ = bar.Finish()
	}
	closeErr := r.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		return err
	}

	printSummary(os.Stdout, r.Stats())

	if c.capture != "" {
		img, err := surf.Readback()
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		if err := saveImage(c.capture, img); err != nil {
			return err
		}
		cube.Logger().Info("frame captured", "path", c.capture)
	}
	return nil
}

// printSummary writes the headless run counters with grouped digits.
func printSummary(w io.Writer, st cube.Stats) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "%d frames: %d presented, %d skipped, %d dropped, %d rebuilds\n",
		st.Frames, st.Presented, st.Skipped, st.Dropped, st.Rebuilds)
}
