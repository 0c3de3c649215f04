// Package mapview computes the map framing for a set of delivery records
// and builds the marker data the map renders.
package mapview

import (
	"deliverylog/internal/domain/delivery"
)

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultCenter frames an empty map (Warsaw).
var DefaultCenter = Coordinate{Latitude: 52.2297, Longitude: 21.0122}

// Bounds is the minimal rectangle spanning a set of coordinates.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// Region describes how to frame the map: where to center, the bounding
// rectangle when there is one, and whether to zoom tightly on a single
// point instead of fitting a degenerate box.
type Region struct {
	Center    Coordinate `json:"center"`
	Bounds    *Bounds    `json:"bounds,omitempty"`
	TightZoom bool       `json:"tightZoom"`
}

// Center returns the arithmetic mean of all record coordinates, the
// record's own coordinate for a single record, and DefaultCenter for none.
func Center(records []delivery.Delivery) Coordinate {
	if len(records) == 0 {
		return DefaultCenter
	}

	var sumLat, sumLon float64
	for _, r := range records {
		sumLat += r.Latitude
		sumLon += r.Longitude
	}
	n := float64(len(records))
	return Coordinate{Latitude: sumLat / n, Longitude: sumLon / n}
}

// ComputeRegion frames the map for the given records.
func ComputeRegion(records []delivery.Delivery) Region {
	center := Center(records)

	switch len(records) {
	case 0:
		return Region{Center: center}
	case 1:
		return Region{Center: center, TightZoom: true}
	}

	b := Bounds{
		MinLat: records[0].Latitude,
		MaxLat: records[0].Latitude,
		MinLon: records[0].Longitude,
		MaxLon: records[0].Longitude,
	}
	for _, r := range records[1:] {
		if r.Latitude < b.MinLat {
			b.MinLat = r.Latitude
		}
		if r.Latitude > b.MaxLat {
			b.MaxLat = r.Latitude
		}
		if r.Longitude < b.MinLon {
			b.MinLon = r.Longitude
		}
		if r.Longitude > b.MaxLon {
			b.MaxLon = r.Longitude
		}
	}

	return Region{Center: center, Bounds: &b}
}
