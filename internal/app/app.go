// Package app wires configuration, storage, the file store and the device
// adapters into one application object the commands share.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/exp/slog"

	"deliverylog/internal/capture"
	"deliverylog/internal/config"
	"deliverylog/internal/device"
	"deliverylog/internal/domain/delivery"
	"deliverylog/internal/filestore"
	"deliverylog/internal/storage/sqlite"
)

type App struct {
	Config      *config.Config
	Log         *slog.Logger
	Photos      *filestore.Store
	Deliveries  *delivery.Service
	Camera      device.Camera
	Locator     device.Locator
	Permissions device.PermissionGate

	db *sql.DB
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sqlite.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	photos := filestore.New(cfg.DataDir, log)
	photos.EnsureDirectory()

	repo := sqlite.NewDeliveryRepository(db)
	service := delivery.NewService(repo, photos, log)

	var locator device.Locator
	if cfg.Location.Pinned && len(cfg.Location.Command) == 0 {
		locator = device.StaticLocator{Position: device.Position{
			Latitude:  cfg.Location.PinLat,
			Longitude: cfg.Location.PinLon,
		}}
	} else {
		locator = device.NewCommandLocator(cfg.Location.Command, log)
	}

	platform := device.DetectPlatform(cfg.Platform)
	gate := device.NewGate(platform, map[device.Permission]device.Probe{
		device.PermissionCamera:   commandProbe(cfg.Camera.Command),
		device.PermissionLocation: locationProbe(cfg.Location),
	}, log)

	log.Debug("application wired",
		"data_dir", cfg.DataDir,
		"platform", platform,
	)

	return &App{
		Config:      cfg,
		Log:         log,
		Photos:      photos,
		Deliveries:  service,
		Camera:      device.NewCommandCamera(cfg.Camera.Command, log),
		Locator:     locator,
		Permissions: gate,
		db:          db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// NewCaptureSession starts a record-editing session bound to ctx; warn
// receives the session's user-visible warnings.
func (a *App) NewCaptureSession(ctx context.Context, warn func(string)) *capture.Session {
	return capture.NewSession(ctx, capture.Deps{
		Deliveries:      a.Deliveries,
		Photos:          a.Photos,
		Camera:          a.Camera,
		Locator:         a.Locator,
		Permissions:     a.Permissions,
		Log:             a.Log,
		LocationTimeout: a.Config.Location.Timeout,
		Warn:            warn,
	})
}

// commandProbe grants a capability when its helper command is resolvable.
func commandProbe(command []string) device.Probe {
	return func(context.Context) error {
		if len(command) == 0 {
			return errors.New("no command configured")
		}
		_, err := exec.LookPath(command[0])
		return err
	}
}

func locationProbe(loc config.Location) device.Probe {
	if loc.Pinned && len(loc.Command) == 0 {
		return func(context.Context) error { return nil }
	}
	return commandProbe(loc.Command)
}
