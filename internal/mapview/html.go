package mapview

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// WriteHTML renders a self-contained Leaflet page over OpenStreetMap tiles:
// the same framing rules as the in-app map, photo thumbnails as custom
// round pins, generic pins where no photo resolved.
func WriteHTML(w io.Writer, region Region, markers []Marker) error {
	payload, err := json.Marshal(struct {
		Region  Region   `json:"region"`
		Markers []Marker `json:"markers"`
	}{Region: region, Markers: markers})
	if err != nil {
		return fmt.Errorf("encode map data: %w", err)
	}

	return mapTemplate.Execute(w, map[string]any{
		"Data": template.JS(payload),
	})
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Delivery Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .photo-pin {
    width: 40px; height: 40px; border-radius: 50%;
    border: 3px solid #c41e3a; overflow: hidden; background: #fff;
    box-shadow: 0 2px 4px rgba(0,0,0,.3);
  }
  .photo-pin img { width: 100%; height: 100%; object-fit: cover; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var data = {{.Data}};

var map = L.map('map');
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors'
}).addTo(map);

if (data.region.bounds) {
  var b = data.region.bounds;
  map.fitBounds([[b.minLat, b.minLon], [b.maxLat, b.maxLon]], {padding: [40, 40]});
} else if (data.region.tightZoom) {
  map.setView([data.region.center.latitude, data.region.center.longitude], 15);
} else {
  map.setView([data.region.center.latitude, data.region.center.longitude], 10);
}

data.markers.forEach(function (m) {
  var marker;
  if (m.photoDataUri) {
    marker = L.marker([m.latitude, m.longitude], {
      icon: L.divIcon({
        className: '',
        html: '<div class="photo-pin"><img src="' + m.photoDataUri + '" alt=""></div>',
        iconSize: [40, 40],
        iconAnchor: [20, 40],
        popupAnchor: [0, -40]
      })
    });
  } else {
    marker = L.marker([m.latitude, m.longitude]);
  }
  var popup = '<b>' + m.name + '</b>';
  if (m.description) { popup += '<br>' + m.description; }
  popup += '<br><small>' + new Date(m.date).toLocaleString() + '</small>';
  marker.bindPopup(popup).addTo(map);
});
</script>
</body>
</html>
`))
