package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPSPointDecoding(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		valid   bool
		lat     float64
		lon     float64
		wantErr bool
	}{
		{name: "string", input: `"18.4861, -69.9312"`, valid: true, lat: 18.4861, lon: -69.9312},
		{name: "lat lon", input: `{"lat": 18.4861, "lon": -69.9312}`, valid: true, lat: 18.4861, lon: -69.9312},
		{name: "lat lng", input: `{"lat": 19.45, "lng": -70.69}`, valid: true, lat: 19.45, lon: -70.69},
		{name: "latitude longitude", input: `{"latitude": 19.45, "longitude": -70.69}`, valid: true, lat: 19.45, lon: -70.69},
		{name: "numeric strings", input: `{"lat": "19.45", "lng": " -70.69 "}`, valid: true, lat: 19.45, lon: -70.69},
		{name: "pair", input: `[18.5, -69.9]`, valid: true, lat: 18.5, lon: -69.9},
		{name: "garbage string", input: `"abc, def"`},
		{name: "missing longitude", input: `{"lat": 18.5}`},
		{name: "out of range", input: `{"lat": 120, "lon": 10}`},
		{name: "null", input: `null`},
		{name: "short pair", input: `[18.5]`},
		{name: "null object", input: `{"lat": null, "lon": null}`},
		{name: "null latitude", input: `{"lat": null, "lng": -69.9312}`},
		{name: "null longitude", input: `{"latitude": 18.4861, "longitude": null}`},
		{name: "null pair", input: `[null, null]`},
		{name: "half null pair", input: `[18.4861, null]`},
		{name: "broken json", input: `{"lat": }`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p GPSPoint
			err := json.Unmarshal([]byte(tc.input), &p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.valid, p.Valid())
			if tc.valid {
				assert.InDelta(t, tc.lat, p.Lat, 1e-9)
				assert.InDelta(t, tc.lon, p.Lon, 1e-9)
			}
		})
	}
}

func TestGPSPointEncoding(t *testing.T) {
	b, err := json.Marshal(NewGPSPoint(18.5, -69.9))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat": 18.5, "lon": -69.9}`, string(b))

	var bad GPSPoint
	require.NoError(t, json.Unmarshal([]byte(`"sin señal"`), &bad))
	b, err = json.Marshal(bad)
	require.NoError(t, err)
	assert.Equal(t, `"sin señal"`, string(b))
}

func TestGPSData(t *testing.T) {
	var g GPSData
	require.NoError(t, json.Unmarshal([]byte(`{"punto_inicial": "18.4, -69.9", "punto_alcanzado": {"lat": 18.5, "lng": -69.8}}`), &g))
	assert.True(t, g.Complete())

	p, ok := g.Position()
	assert.True(t, ok)
	assert.Equal(t, 18.4, p.Lat)

	only := GPSData{End: NewGPSPoint(18.9, -70.1)}
	assert.False(t, only.Complete())
	p, ok = only.Position()
	assert.True(t, ok)
	assert.Equal(t, 18.9, p.Lat)

	var none *GPSData
	assert.False(t, none.Complete())
	_, ok = none.Position()
	assert.False(t, ok)
}
