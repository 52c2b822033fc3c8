// Package geo holds the great-circle distance helpers shared by the report
// aggregation and the map view.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether p is a finite, in-range coordinate.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// HaversineKm returns the great-circle distance between p1 and p2 in
// kilometers. Invalid points yield 0.
func HaversineKm(p1, p2 Point) float64 {
	if !p1.Valid() || !p2.Valid() {
		return 0
	}
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	dLat := toRadians(p2.Lat - p1.Lat)
	dLon := toRadians(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a a hair above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ParsePoint parses a "lat, lon" string.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, errors.Wrapf(ErrInvalidCoordinate, "expected \"lat, lon\", got %q", s)
	}
	lat, err := ParseDegrees(parts[0])
	if err != nil {
		return Point{}, err
	}
	lon, err := ParseDegrees(parts[1])
	if err != nil {
		return Point{}, err
	}
	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, errors.Wrapf(ErrInvalidCoordinate, "out of range: %q", s)
	}
	return p, nil
}

// ParseDegrees parses a single coordinate component.
func ParseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidCoordinate, "%q is not numeric", strings.TrimSpace(s))
	}
	return v, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
