package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"deliverylog/internal/device"
	"deliverylog/internal/domain/delivery"
)

type fakeRepo struct {
	records map[string]*delivery.Delivery
	saveErr error
	saveCnt int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*delivery.Delivery{}}
}

func (r *fakeRepo) List(context.Context) ([]delivery.Delivery, error) {
	out := []delivery.Delivery{}
	for _, d := range r.records {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*delivery.Delivery, error) {
	d, ok := r.records[id]
	if !ok {
		return nil, delivery.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) Save(_ context.Context, d *delivery.Delivery) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCnt++
	cp := *d
	r.records[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.records, id)
	return nil
}

type fakePhotos struct {
	blobs   map[string][]byte
	next    int
	removed []string
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{blobs: map[string][]byte{}}
}

func (p *fakePhotos) WritePhoto(data []byte) (string, error) {
	p.next++
	rel := fmt.Sprintf("photos/delivery_%d.jpg", p.next)
	p.blobs[rel] = data
	return rel, nil
}

func (p *fakePhotos) ReadPhoto(rel string) (string, error) {
	if _, ok := p.blobs[rel]; !ok {
		return "", errors.New("photo not found")
	}
	return "data:image/jpeg;base64,aGVsbG8=", nil
}

func (p *fakePhotos) RemovePhoto(rel string) error {
	p.removed = append(p.removed, rel)
	delete(p.blobs, rel)
	return nil
}

type fakeCamera struct {
	data []byte
	err  error
}

func (c *fakeCamera) Capture(context.Context, device.CaptureRequest) ([]byte, error) {
	return c.data, c.err
}

type fakeLocator struct {
	pos   device.Position
	err   error
	calls int
}

func (l *fakeLocator) Current(ctx context.Context) (device.Position, error) {
	l.calls++
	if err := ctx.Err(); err != nil {
		return device.Position{}, err
	}
	return l.pos, l.err
}

type fakeGate struct {
	granted map[device.Permission]bool
}

func (g *fakeGate) Check(_ context.Context, p device.Permission) bool   { return g.granted[p] }
func (g *fakeGate) Request(_ context.Context, p device.Permission) bool { return g.granted[p] }

type harness struct {
	repo    *fakeRepo
	photos  *fakePhotos
	camera  *fakeCamera
	locator *fakeLocator
	gate    *fakeGate
	warns   []string
	sess    *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		repo:    newFakeRepo(),
		photos:  newFakePhotos(),
		camera:  &fakeCamera{data: []byte{0xFF, 0xD8}},
		locator: &fakeLocator{pos: device.Position{Latitude: 52.2297, Longitude: 21.0122}},
		gate:    &fakeGate{granted: map[device.Permission]bool{device.PermissionCamera: true, device.PermissionLocation: true}},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.sess = NewSession(context.Background(), Deps{
		Deliveries:      delivery.NewService(h.repo, h.photos, log),
		Photos:          h.photos,
		Camera:          h.camera,
		Locator:         h.locator,
		Permissions:     h.gate,
		Log:             log,
		LocationTimeout: time.Second,
		Warn:            func(msg string) { h.warns = append(h.warns, msg) },
	})
	t.Cleanup(h.sess.Close)
	return h
}

func TestSaveWithoutNameNeverHitsStore(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.SetName("   ")

	_, err := h.sess.Save()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a name", verr.Message)
	assert.Zero(t, h.repo.saveCnt)
}

func TestSaveWithoutPhotoNeverHitsStore(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.SetName("Dom Kasi")

	_, err := h.sess.Save()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please take a photo", verr.Message)
	assert.Zero(t, h.repo.saveCnt)
}

func TestNewRecordFlow(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.RefreshLocation()
	h.sess.SetName("  Dom Kasi  ")
	h.sess.SetDescription("prezent: lalka")

	require.NoError(t, h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera}))

	record, err := h.sess.Save()
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Dom Kasi", record.Name)
	assert.Equal(t, "prezent: lalka", record.Description)
	assert.Equal(t, "photos/delivery_1.jpg", record.PhotoPath)
	assert.InDelta(t, 52.2297, record.Latitude, 1e-9)
	assert.InDelta(t, 21.0122, record.Longitude, 1e-9)
	assert.False(t, record.Date.IsZero())

	stored, err := h.repo.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, stored)
}

func TestEditKeepsID(t *testing.T) {
	h := newHarness(t)
	existing := &delivery.Delivery{
		ID:        "id-1",
		Name:      "Dom Kasi",
		PhotoPath: "photos/delivery_0.jpg",
		Date:      time.Now(),
	}
	h.photos.blobs[existing.PhotoPath] = []byte("old")
	require.NoError(t, h.repo.Save(context.Background(), existing))
	h.repo.saveCnt = 0

	require.NoError(t, h.sess.StartEdit("id-1"))
	assert.Equal(t, "Dom Kasi", h.sess.Name())
	assert.NotEmpty(t, h.sess.PhotoPreview())

	h.sess.SetName("Dom Tomka")
	record, err := h.sess.Save()
	require.NoError(t, err)
	assert.Equal(t, "id-1", record.ID)
	assert.Equal(t, "Dom Tomka", record.Name)
	assert.Equal(t, 1, h.repo.saveCnt)
}

func TestEditPhotoPreviewFailureIsSilent(t *testing.T) {
	h := newHarness(t)
	existing := &delivery.Delivery{ID: "id-1", Name: "Dom Kasi", PhotoPath: "photos/gone.jpg", Date: time.Now()}
	require.NoError(t, h.repo.Save(context.Background(), existing))

	require.NoError(t, h.sess.StartEdit("id-1"))
	assert.Empty(t, h.sess.PhotoPreview())
	assert.Empty(t, h.warns)
}

func TestEditMissingRecord(t *testing.T) {
	h := newHarness(t)
	err := h.sess.StartEdit("no-such-id")
	assert.ErrorIs(t, err, delivery.ErrNotFound)
}

func TestRefreshLocationDenied(t *testing.T) {
	h := newHarness(t)
	h.gate.granted[device.PermissionLocation] = false
	h.sess.StartNew()

	h.sess.RefreshLocation()

	_, _, ok := h.sess.Position()
	assert.False(t, ok)
	assert.Equal(t, []string{"Location permission denied."}, h.warns)
	assert.Zero(t, h.locator.calls)
}

func TestRefreshLocationFetchFailure(t *testing.T) {
	h := newHarness(t)
	h.locator.err = errors.New("gps timeout")
	h.sess.StartNew()

	h.sess.RefreshLocation()

	_, _, ok := h.sess.Position()
	assert.False(t, ok)
	assert.Equal(t, []string{"Could not get location. Please enable location services."}, h.warns)
}

func TestRefreshLocationKeepsPriorCoordinateOnFailure(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.RefreshLocation()

	lat, lon, ok := h.sess.Position()
	require.True(t, ok)

	h.locator.err = errors.New("gps timeout")
	h.sess.RefreshLocation()

	lat2, lon2, ok := h.sess.Position()
	assert.True(t, ok)
	assert.Equal(t, lat, lat2)
	assert.Equal(t, lon, lon2)
}

func TestTakePhotoCameraPermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.gate.granted[device.PermissionCamera] = false
	h.sess.StartNew()

	err := h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera})
	assert.ErrorIs(t, err, ErrCameraPermission)
	assert.Empty(t, h.sess.PhotoPath())
}

func TestTakePhotoGalleryNeedsNoPermission(t *testing.T) {
	h := newHarness(t)
	h.gate.granted[device.PermissionCamera] = false
	h.sess.StartNew()

	err := h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceGallery, GalleryPath: "p.jpg"})
	require.NoError(t, err)
	assert.NotEmpty(t, h.sess.PhotoPath())
}

func TestTakePhotoCancelLeavesStateUntouched(t *testing.T) {
	h := newHarness(t)
	h.camera.err = device.ErrCaptureCanceled
	h.sess.StartNew()
	before := h.sess.Date()

	err := h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera})
	assert.ErrorIs(t, err, device.ErrCaptureCanceled)
	assert.Empty(t, h.sess.PhotoPath())
	assert.Equal(t, before, h.sess.Date())
}

func TestTakePhotoRestampsDateAndRefreshesLocation(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	before := h.sess.Date()
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera}))

	assert.True(t, h.sess.Date().After(before))
	assert.Equal(t, 1, h.locator.calls)
	_, _, ok := h.sess.Position()
	assert.True(t, ok)
}

func TestRetakeReclaimsUnsavedBlob(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()

	require.NoError(t, h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera}))
	first := h.sess.PhotoPath()
	require.NoError(t, h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera}))

	assert.Contains(t, h.photos.removed, first)
	assert.NotEqual(t, first, h.sess.PhotoPath())
}

func TestSavePersistenceFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.SetName("Dom Kasi")
	require.NoError(t, h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceCamera}))

	h.repo.saveErr = errors.New("disk full")
	_, err := h.sess.Save()
	require.Error(t, err)

	// Nothing lost: a retry after the failure succeeds.
	h.repo.saveErr = nil
	record, err := h.sess.Save()
	require.NoError(t, err)
	assert.Equal(t, "Dom Kasi", record.Name)
}

func TestClosedSessionRejectsDeviceWork(t *testing.T) {
	h := newHarness(t)
	h.sess.StartNew()
	h.sess.Close()

	err := h.sess.TakePhoto(device.CaptureRequest{Source: device.SourceGallery, GalleryPath: "p.jpg"})
	assert.ErrorIs(t, err, ErrSessionClosed)

	h.sess.RefreshLocation()
	_, _, ok := h.sess.Position()
	assert.False(t, ok)
	assert.Empty(t, h.warns)
}
