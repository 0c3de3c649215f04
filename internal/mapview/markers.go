package mapview

import (
	"time"

	"golang.org/x/exp/slog"

	"deliverylog/internal/domain/delivery"
)

// Marker is one map pin. PhotoDataURI is empty when the record's photo
// could not be resolved; such markers render with the generic pin.
type Marker struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Date         time.Time `json:"date"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	PhotoDataURI string    `json:"photoDataUri,omitempty"`
}

// PhotoResolver resolves a record's photo path to an inline data URI.
type PhotoResolver interface {
	ReadPhoto(rel string) (string, error)
}

// BuildMarkers builds one marker per record. A photo that fails to resolve
// degrades that single marker to the generic pin; it never fails the whole
// build.
func BuildMarkers(records []delivery.Delivery, photos PhotoResolver, log *slog.Logger) []Marker {
	markers := make([]Marker, len(records))
	for i, r := range records {
		m := Marker{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Date:        r.Date,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		}
		if r.PhotoPath != "" {
			uri, err := photos.ReadPhoto(r.PhotoPath)
			if err != nil {
				log.Debug("marker photo unavailable", "id", r.ID, "error", err)
			} else {
				m.PhotoDataURI = uri
			}
		}
		markers[i] = m
	}
	return markers
}
