// Package capture implements the create/edit flow for a delivery record:
// field editing, photo acquisition through the permission gate, and
// coordinate acquisition with a bounded wait. One Session exists per flow
// invocation and owns a cancellable context, so tearing the session down
// cancels any device work still in flight instead of letting a late result
// mutate discarded state.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"deliverylog/internal/device"
	"deliverylog/internal/domain/delivery"
)

// ValidationError carries the user-facing message for an invalid save
// attempt. Validation failures never reach the persistence layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrNameRequired  = &ValidationError{Message: "Please enter a name"}
	ErrPhotoRequired = &ValidationError{Message: "Please take a photo"}

	ErrCameraPermission = errors.New("camera permission denied")
	ErrSessionClosed    = errors.New("capture session closed")
)

// User-facing warnings surfaced during location acquisition.
const (
	warnLocationDenied = "Location permission denied."
	warnLocationFailed = "Could not get location. Please enable location services."
)

// Deps are the collaborators a Session needs.
type Deps struct {
	Deliveries  *delivery.Service
	Photos      delivery.PhotoStore
	Camera      device.Camera
	Locator     device.Locator
	Permissions device.PermissionGate
	Log         *slog.Logger
	// LocationTimeout bounds a single position fetch.
	LocationTimeout time.Duration
	// Warn surfaces a non-fatal, user-visible warning.
	Warn func(msg string)
}

// Session is one record-editing flow, new or pre-filled from an existing
// record.
type Session struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	id          string
	name        string
	description string
	photoPath   string
	photoData   string
	date        time.Time
	latitude    float64
	longitude   float64
	located     bool

	// pendingPhoto is a blob written by this session but not yet owned by a
	// saved record; it is reclaimed when the user retakes the photo.
	pendingPhoto string
}

func NewSession(ctx context.Context, deps Deps) *Session {
	if deps.Warn == nil {
		deps.Warn = func(string) {}
	}
	if deps.LocationTimeout <= 0 {
		deps.LocationTimeout = 10 * time.Second
	}
	sctx, cancel := context.WithCancel(ctx)
	return &Session{
		deps:   deps,
		ctx:    sctx,
		cancel: cancel,
	}
}

// StartNew initializes the session for a new record: empty fields and the
// current time. The caller follows up with RefreshLocation, mirroring the
// form's entry behavior.
func (s *Session) StartNew() {
	s.id = ""
	s.name = ""
	s.description = ""
	s.photoPath = ""
	s.photoData = ""
	s.located = false
	s.latitude, s.longitude = 0, 0
	s.date = time.Now()
}

// StartEdit pre-fills the session from a stored record. A photo preview
// that fails to resolve stays silently empty; it is not an error state.
func (s *Session) StartEdit(id string) error {
	record, err := s.deps.Deliveries.Get(s.ctx, id)
	if err != nil {
		return err
	}

	s.id = record.ID
	s.name = record.Name
	s.description = record.Description
	s.photoPath = record.PhotoPath
	s.date = record.Date
	s.latitude = record.Latitude
	s.longitude = record.Longitude
	s.located = record.Latitude != 0 || record.Longitude != 0

	s.photoData = ""
	if record.PhotoPath != "" {
		if data, err := s.deps.Photos.ReadPhoto(record.PhotoPath); err == nil {
			s.photoData = data
		} else {
			s.deps.Log.Debug("photo preview unavailable", "id", id, "error", err)
		}
	}
	return nil
}

func (s *Session) SetName(name string)        { s.name = name }
func (s *Session) SetDescription(desc string) { s.description = desc }

// RefreshLocation asks for permission and fetches the current position with
// a bounded wait. Denial and fetch failure surface as warnings and leave
// the coordinate at its previous value.
func (s *Session) RefreshLocation() {
	if s.ctx.Err() != nil {
		return
	}

	if !s.deps.Permissions.Request(s.ctx, device.PermissionLocation) {
		s.deps.Warn(warnLocationDenied)
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.deps.LocationTimeout)
	defer cancel()

	pos, err := s.deps.Locator.Current(ctx)
	if err != nil {
		if s.ctx.Err() == nil {
			s.deps.Log.Debug("location fetch failed", "error", err)
			s.deps.Warn(warnLocationFailed)
		}
		return
	}
	if s.ctx.Err() != nil {
		// Session torn down while the fetch was in flight; drop the result.
		return
	}

	s.latitude = pos.Latitude
	s.longitude = pos.Longitude
	s.located = true
}

// TakePhoto acquires a photo from the chosen source, stores the blob,
// re-stamps the date and re-acquires the location. User cancellation is
// returned as device.ErrCaptureCanceled with no state changed.
func (s *Session) TakePhoto(req device.CaptureRequest) error {
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}

	if req.Source == device.SourceCamera {
		if !s.deps.Permissions.Request(s.ctx, device.PermissionCamera) {
			return ErrCameraPermission
		}
	}

	data, err := s.deps.Camera.Capture(s.ctx, req)
	if err != nil {
		if errors.Is(err, device.ErrCaptureCanceled) {
			return err
		}
		return fmt.Errorf("take photo: %w", err)
	}
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}

	rel, err := s.deps.Photos.WritePhoto(data)
	if err != nil {
		return fmt.Errorf("store photo: %w", err)
	}

	if s.pendingPhoto != "" && s.pendingPhoto != rel {
		if err := s.deps.Photos.RemovePhoto(s.pendingPhoto); err != nil {
			s.deps.Log.Warn("could not remove retaken photo", "path", s.pendingPhoto, "error", err)
		}
	}

	s.pendingPhoto = rel
	s.photoPath = rel
	s.photoData = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	s.date = time.Now()

	s.RefreshLocation()
	return nil
}

// Save validates the form and persists the record. Validation failures are
// *ValidationError and never touch the store; a persistence failure leaves
// the session state intact for a retry.
func (s *Session) Save() (*delivery.Delivery, error) {
	name := strings.TrimSpace(s.name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if s.photoPath == "" {
		return nil, ErrPhotoRequired
	}

	id := s.id
	if id == "" {
		id = delivery.NewID()
	}
	date := s.date
	if date.IsZero() {
		date = time.Now()
	}

	record := &delivery.Delivery{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(s.description),
		PhotoPath:   s.photoPath,
		Date:        date,
		Latitude:    s.latitude,
		Longitude:   s.longitude,
	}

	if err := s.deps.Deliveries.Save(s.ctx, record); err != nil {
		return nil, err
	}

	// The blob now belongs to the saved record.
	s.pendingPhoto = ""
	s.id = record.ID
	return record, nil
}

// Close tears the session down and cancels any device call still pending.
func (s *Session) Close() {
	s.cancel()
}

// Editing reports whether the session was started from an existing record.
func (s *Session) Editing() bool { return s.id != "" }

func (s *Session) Name() string        { return s.name }
func (s *Session) Description() string { return s.description }
func (s *Session) PhotoPath() string   { return s.photoPath }
func (s *Session) Date() time.Time     { return s.date }

// PhotoPreview returns the inline preview of the current photo, empty when
// no photo is set or the stored blob could not be resolved.
func (s *Session) PhotoPreview() string { return s.photoData }

// Position returns the current coordinate and whether one was acquired.
func (s *Session) Position() (lat, lon float64, ok bool) {
	return s.latitude, s.longitude, s.located
}
