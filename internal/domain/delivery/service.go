package delivery

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

// PhotoStore is the slice of the file store the delivery service needs: it
// owns the photo blob lifecycle alongside the records that reference them.
type PhotoStore interface {
	WritePhoto(data []byte) (string, error)
	ReadPhoto(rel string) (string, error)
	RemovePhoto(rel string) error
}

// Service implements the business logic around delivery records: CRUD via
// the repository plus photo blob reclamation. Unlike the store, the service
// reclaims a blob whenever its owning record is deleted or its photo is
// replaced, so disk usage follows the records.
type Service struct {
	repo   Repository
	photos PhotoStore
	log    *slog.Logger
}

func NewService(repo Repository, photos PhotoStore, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		log:    log.With("component", "delivery_service"),
	}
}

// List returns all records.
func (s *Service) List(ctx context.Context) ([]Delivery, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list deliveries", "error", err)
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return records, nil
}

// Get returns one record by id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Delivery, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to get delivery", "id", id, "error", err)
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return record, nil
}

// Save inserts or replaces the record by id. When a replace swaps the photo
// path, the previous blob is removed best-effort after the record is safely
// persisted.
func (s *Service) Save(ctx context.Context, d *Delivery) error {
	prevPhoto := ""
	prev, err := s.repo.Get(ctx, d.ID)
	switch {
	case err == nil:
		prevPhoto = prev.PhotoPath
	case errors.Is(err, ErrNotFound):
		// insert
	default:
		return fmt.Errorf("check existing delivery: %w", err)
	}

	if err := s.repo.Save(ctx, d); err != nil {
		s.log.Error("failed to save delivery", "id", d.ID, "error", err)
		return fmt.Errorf("save delivery: %w", err)
	}

	if prevPhoto != "" && prevPhoto != d.PhotoPath {
		if err := s.photos.RemovePhoto(prevPhoto); err != nil {
			s.log.Warn("could not remove replaced photo", "path", prevPhoto, "error", err)
		}
	}

	s.log.Info("delivery saved", "id", d.ID, "name", d.Name)
	return nil
}

// Delete removes the record and reclaims its photo blob. Deleting an absent
// id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get delivery for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete delivery", "id", id, "error", err)
		return fmt.Errorf("delete delivery: %w", err)
	}

	if record.PhotoPath != "" {
		if err := s.photos.RemovePhoto(record.PhotoPath); err != nil {
			s.log.Warn("could not remove photo of deleted delivery", "path", record.PhotoPath, "error", err)
		}
	}

	s.log.Info("delivery deleted", "id", id)
	return nil
}

// Photo resolves the record's photo to an inline data URI. A missing or
// unreadable blob is an error for the caller to degrade on, not to fail on.
func (s *Service) Photo(d *Delivery) (string, error) {
	if d.PhotoPath == "" {
		return "", fmt.Errorf("delivery %s has no photo", d.ID)
	}
	return s.photos.ReadPhoto(d.PhotoPath)
}
