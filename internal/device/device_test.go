package device

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, PlatformNone, DetectPlatform("none"))
	assert.Equal(t, Platform("android"), DetectPlatform("android"))
	assert.NotEqual(t, Platform(""), DetectPlatform(""))
}

func TestGateNoPermissionModelAlwaysGrants(t *testing.T) {
	gate := NewGate(PlatformNone, nil, testLogger())
	ctx := context.Background()

	assert.True(t, gate.Check(ctx, PermissionCamera))
	assert.True(t, gate.Request(ctx, PermissionLocation))
}

func TestGateProbeFailureIsDenial(t *testing.T) {
	calls := 0
	gate := NewGate(PlatformLinux, map[Permission]Probe{
		PermissionCamera: func(context.Context) error {
			calls++
			return errors.New("device busy")
		},
	}, testLogger())
	ctx := context.Background()

	assert.False(t, gate.Check(ctx, PermissionCamera))
	assert.False(t, gate.Request(ctx, PermissionCamera))
	// No permission state is cached between calls.
	assert.Equal(t, 2, calls)

	// Unknown capability without a probe is denied, not an error.
	assert.False(t, gate.Check(ctx, PermissionLocation))
}

func TestGateProbeSuccessGrants(t *testing.T) {
	gate := NewGate(PlatformDarwin, map[Permission]Probe{
		PermissionLocation: func(context.Context) error { return nil },
	}, testLogger())

	assert.True(t, gate.Check(context.Background(), PermissionLocation))
}

func TestCameraGalleryImport(t *testing.T) {
	cam := NewCommandCamera(nil, testLogger())

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8}, 0o640))

	data, err := cam.Capture(context.Background(), CaptureRequest{Source: SourceGallery, GalleryPath: path})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, data)
}

func TestCameraGalleryEmptyPathIsCancel(t *testing.T) {
	cam := NewCommandCamera(nil, testLogger())

	_, err := cam.Capture(context.Background(), CaptureRequest{Source: SourceGallery})
	assert.ErrorIs(t, err, ErrCaptureCanceled)
}

func TestCameraWithoutCommand(t *testing.T) {
	cam := NewCommandCamera(nil, testLogger())

	_, err := cam.Capture(context.Background(), CaptureRequest{Source: SourceCamera})
	assert.ErrorIs(t, err, ErrNoCamera)
}

func TestCameraCommandWritesOutput(t *testing.T) {
	// A stand-in capture command: copies two bytes into the output path it
	// receives as its last argument.
	cam := NewCommandCamera([]string{"sh", "-c", `printf 'ab' > "$0"`}, testLogger())

	data, err := cam.Capture(context.Background(), CaptureRequest{Source: SourceCamera})
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), data)
}

func TestCameraCommandDecliningIsCancel(t *testing.T) {
	cam := NewCommandCamera([]string{"sh", "-c", "exit 1"}, testLogger())

	_, err := cam.Capture(context.Background(), CaptureRequest{Source: SourceCamera})
	assert.ErrorIs(t, err, ErrCaptureCanceled)
}

func TestCommandLocator(t *testing.T) {
	loc := NewCommandLocator([]string{"sh", "-c", `echo '{"latitude": 52.2297, "longitude": 21.0122}'`}, testLogger())

	pos, err := loc.Current(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 52.2297, pos.Latitude, 1e-9)
	assert.InDelta(t, 21.0122, pos.Longitude, 1e-9)
}

func TestCommandLocatorBadOutput(t *testing.T) {
	loc := NewCommandLocator([]string{"sh", "-c", "echo not-json"}, testLogger())

	_, err := loc.Current(context.Background())
	assert.Error(t, err)
}

func TestCommandLocatorBoundedWait(t *testing.T) {
	loc := NewCommandLocator([]string{"sleep", "5"}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := loc.Current(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCommandLocatorUnconfigured(t *testing.T) {
	loc := NewCommandLocator(nil, testLogger())

	_, err := loc.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoLocator)
}

func TestStaticLocator(t *testing.T) {
	loc := StaticLocator{Position: Position{Latitude: 1, Longitude: 2}}

	pos, err := loc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Latitude: 1, Longitude: 2}, pos)
}
