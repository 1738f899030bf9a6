package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mkaric/go-chirp8/chirp8/backend"
	"github.com/mkaric/go-chirp8/chirp8/input/action"
	"github.com/mkaric/go-chirp8/chirp8/input/event"
	"github.com/mkaric/go-chirp8/chirp8/video"
)

// Backend implements the backend interface for automated testing and
// batch processing. It renders nothing, runs a fixed number of frames
// and optionally writes text snapshots of the display.
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	slog.Info("running headless",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts frames, saves snapshots and signals quit once the frame
// budget is spent.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			slog.Error("failed to save snapshot", "frame", h.frameCount, "error", err)
		}
	}

	if h.frameCount%60 == 0 {
		slog.Info("frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		slog.Info("headless execution completed", "frames", h.frameCount)
		return []backend.InputEvent{{Action: action.Quit, Type: event.Press}}, nil
	}

	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// CreateSnapshotConfig builds a snapshot configuration from CLI
// parameters, creating the target directory if needed.
func CreateSnapshotConfig(interval int, directory string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chirp8-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	return config, nil
}

// saveSnapshot writes the frame as a text grid, one rune per pixel.
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) error {
	name := fmt.Sprintf("%s_frame_%d.txt", h.config.ROMName, h.frameCount)
	path := filepath.Join(h.snapshotConfig.Directory, name)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# chirp8 frame snapshot\n")
	fmt.Fprintf(file, "# frame: %d, resolution: %dx%d\n",
		h.frameCount, video.FramebufferWidth, video.FramebufferHeight)

	pixels := frame.ToSlice()
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			if pixels[y*video.FramebufferWidth+x] {
				fmt.Fprint(file, "█")
			} else {
				fmt.Fprint(file, "·")
			}
		}
		fmt.Fprintln(file)
	}

	slog.Info("saved frame snapshot", "frame", h.frameCount, "path", path)
	return nil
}
