package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkaric/go-chirp8/chirp8"
	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/backend/headless"
	"github.com/mkaric/go-chirp8/chirp8/backend/terminal"
	"github.com/mkaric/go-chirp8/chirp8/backend/web"
	"github.com/mkaric/go-chirp8/chirp8/display"
	"github.com/mkaric/go-chirp8/chirp8/timing"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "chirp8"
	app.Description = "A CHIP-8 emulator"
	app.Usage = "chirp8 [options] <ROM file or directory>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (or a directory to scan for .ch8 files)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Output backend: terminal, sdl2, web or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "speed",
			Usage: "CPU steps per frame",
			Value: chirp8.DefaultSpeed,
		},
		cli.StringFlag{
			Name:  "palettes",
			Usage: "Custom palette list as \"#FG,#BG;#FG,#BG;...\"",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Start with sound muted",
		},
		cli.BoolFlag{
			Name:  "draw-on-step",
			Usage: "Repaint every frame instead of only on framebuffer changes",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address for the web backend",
			Value: ":9999",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	romPath, err := resolveROM(romPath)
	if err != nil {
		return err
	}

	config := chirp8.DefaultConfig()
	config.Speed = c.Int("speed")
	config.Mute = c.Bool("mute")
	if c.Bool("draw-on-step") {
		config.DrawStrategy = chirp8.DrawPerStep
	}
	if s := c.String("palettes"); s != "" {
		palettes, err := display.ParsePalettes(s)
		if err != nil {
			return err
		}
		config.Palettes = palettes
	}

	emu, err := chirp8.NewWithFile(romPath, config)
	if err != nil {
		return err
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	var b backend.Backend
	var limiter timing.Limiter = timing.NewTickerLimiter()

	switch name := c.String("backend"); name {
	case "terminal":
		b = terminal.New()
	case "sdl2":
		b = backend.NewSDL2Backend()
	case "web":
		b = web.New(c.String("addr"))
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"))
		if err != nil {
			return err
		}
		b = headless.New(frames, snapshots)
		limiter = timing.NewNoOpLimiter()

		// headless runs are batch jobs, log verbosely to stderr
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(handler))
	default:
		return fmt.Errorf("unknown backend %q", name)
	}

	if err := b.Init(emu.BackendConfig("chirp8 - "+romName, romName)); err != nil {
		return err
	}
	defer b.Cleanup()

	return emu.Run(b, limiter)
}

// resolveROM accepts either a ROM file or a directory; for directories
// it picks the first .ch8 file found.
func resolveROM(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".ch8") {
			return filepath.Join(path, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("no .ch8 files found in %s", path)
}
