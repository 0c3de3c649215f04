package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"
)

// Source selects where a photo comes from.
type Source string

const (
	SourceCamera  Source = "camera"
	SourceGallery Source = "gallery"
)

var (
	// ErrCaptureCanceled models the user backing out of the picker; callers
	// return to the form silently, no state changed.
	ErrCaptureCanceled = errors.New("photo capture canceled")
	ErrNoCamera        = errors.New("no capture command configured")
)

// CaptureRequest describes one photo acquisition.
type CaptureRequest struct {
	Source Source
	// GalleryPath is the image file to import when Source is SourceGallery.
	GalleryPath string
}

// Camera acquires raw JPEG bytes from the chosen source.
type Camera interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// CommandCamera drives the configured capture command for the camera
// source and plain file import for the gallery source. The command receives
// the output path as its last argument and is expected to write a JPEG
// there; a non-zero exit after the user backs out maps to
// ErrCaptureCanceled.
type CommandCamera struct {
	command []string
	log     *slog.Logger
}

func NewCommandCamera(command []string, log *slog.Logger) *CommandCamera {
	return &CommandCamera{
		command: command,
		log:     log.With("component", "camera"),
	}
}

func (c *CommandCamera) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	switch req.Source {
	case SourceGallery:
		return c.importFile(req.GalleryPath)
	case SourceCamera:
		return c.shoot(ctx)
	default:
		return nil, fmt.Errorf("unknown photo source: %q", req.Source)
	}
}

func (c *CommandCamera) importFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrCaptureCanceled
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo file: %w", err)
	}
	return data, nil
}

func (c *CommandCamera) shoot(ctx context.Context) ([]byte, error) {
	if len(c.command) == 0 {
		return nil, ErrNoCamera
	}

	out := filepath.Join(os.TempDir(), fmt.Sprintf("deliverylog_capture_%d.jpg", os.Getpid()))
	defer os.Remove(out)

	args := append(append([]string{}, c.command[1:]...), out)
	cmd := exec.CommandContext(ctx, c.command[0], args...)
	cmd.Stdin = os.Stdin

	c.log.Debug("running capture command", "command", strings.Join(c.command, " "))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ErrCaptureCanceled
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The command ran and declined to produce a photo.
			return nil, ErrCaptureCanceled
		}
		return nil, fmt.Errorf("capture command: %w", err)
	}

	data, err := os.ReadFile(out)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCaptureCanceled
	}
	if err != nil {
		return nil, fmt.Errorf("read captured photo: %w", err)
	}
	return data, nil
}
