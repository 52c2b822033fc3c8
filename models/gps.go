package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/techagentng/mopcdash/geo"
)

var (
	latitudeKeys  = []string{"lat", "latitude", "latitud"}
	longitudeKeys = []string{"lon", "lng", "longitude", "longitud"}
)

// GPSPoint is one captured coordinate. Field apps have stored it as a
// "lat, lon" string, as {lat, lon}, {lat, lng} and {latitude, longitude};
// all of them decode. A point that cannot be parsed decodes without error and
// reports !Valid().
type GPSPoint struct {
	geo.Point
	ok  bool
	raw string
}

func NewGPSPoint(lat, lon float64) *GPSPoint {
	p := &GPSPoint{Point: geo.Point{Lat: lat, Lon: lon}}
	p.ok = p.Point.Valid()
	return p
}

// Valid reports whether the point parsed to an in-range coordinate.
func (p *GPSPoint) Valid() bool {
	return p != nil && p.ok
}

func (p *GPSPoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = GPSPoint{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.raw = s
		if pt, err := geo.ParsePoint(s); err == nil {
			p.Point, p.ok = pt, true
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		lat, latOK := coordinateField(fields, latitudeKeys)
		lon, lonOK := coordinateField(fields, longitudeKeys)
		p.Point = geo.Point{Lat: lat, Lon: lon}
		p.ok = latOK && lonOK && p.Point.Valid()
	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) == 2 {
			lat, latOK := coordinateValue(pair[0])
			lon, lonOK := coordinateValue(pair[1])
			p.Point = geo.Point{Lat: lat, Lon: lon}
			p.ok = latOK && lonOK && p.Point.Valid()
		}
	}
	return nil
}

func (p GPSPoint) MarshalJSON() ([]byte, error) {
	if !p.ok {
		if p.raw != "" {
			return json.Marshal(p.raw)
		}
		return []byte("null"), nil
	}
	return json.Marshal(p.Point)
}

func coordinateField(fields map[string]json.RawMessage, keys []string) (float64, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok {
			return coordinateValue(raw)
		}
	}
	return 0, false
}

// coordinateValue accepts a JSON number or a numeric string. null is not a
// coordinate.
func coordinateValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := geo.ParseDegrees(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GPSData holds the start and end of a linear intervention.
type GPSData struct {
	Start *GPSPoint `json:"startPoint,omitempty"`
	End   *GPSPoint `json:"endPoint,omitempty"`
}

func (g *GPSData) UnmarshalJSON(data []byte) error {
	var wire struct {
		Start       *GPSPoint `json:"startPoint"`
		End         *GPSPoint `json:"endPoint"`
		PuntoInicio *GPSPoint `json:"punto_inicial"`
		PuntoFinal  *GPSPoint `json:"punto_alcanzado"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.Start = firstPoint(wire.Start, wire.PuntoInicio)
	g.End = firstPoint(wire.End, wire.PuntoFinal)
	return nil
}

// Complete reports whether both endpoints are present and valid.
func (g *GPSData) Complete() bool {
	return g != nil && g.Start.Valid() && g.End.Valid()
}

// Position is the first usable point, start before end.
func (g *GPSData) Position() (geo.Point, bool) {
	if g == nil {
		return geo.Point{}, false
	}
	if g.Start.Valid() {
		return g.Start.Point, true
	}
	if g.End.Valid() {
		return g.End.Point, true
	}
	return geo.Point{}, false
}

func firstPoint(points ...*GPSPoint) *GPSPoint {
	for _, p := range points {
		if p != nil {
			return p
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
