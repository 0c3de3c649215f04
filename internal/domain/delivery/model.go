package delivery

import (
	"time"

	"github.com/google/uuid"
)

// Delivery is a single recorded delivery: a named place with an optional
// description, the photo taken on the spot, and the moment and coordinate
// of the capture.
type Delivery struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoPath   string    `json:"photoPath"`
	Date        time.Time `json:"date"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
}

// NewID returns a fresh opaque record identifier.
func NewID() string {
	return uuid.New().String()
}

// Complete reports whether the record carries everything required for
// persistence. Enforced at the capture edge; the store itself does not care.
func (d *Delivery) Complete() bool {
	return d.Name != "" && d.PhotoPath != ""
}
