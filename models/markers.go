package models

import (
	"strings"

	"github.com/techagentng/mopcdash/geo"
)

// DefaultPosition is where a report lands on the map when nothing better is
// known: Santo Domingo.
var DefaultPosition = geo.Point{Lat: 18.4861, Lon: -69.9312}

// MunicipalityCoordinates are reference points for municipalities, used for
// reports without GPS data.
var MunicipalityCoordinates = map[string]geo.Point{
	"Santo Domingo":            {Lat: 18.4861, Lon: -69.9312},
	"Santiago":                 {Lat: 19.4517, Lon: -70.6970},
	"La Vega":                  {Lat: 19.2167, Lon: -70.5167},
	"Puerto Plata":             {Lat: 19.7833, Lon: -70.6833},
	"San Cristóbal":            {Lat: 18.4167, Lon: -70.1000},
	"La Romana":                {Lat: 18.4270, Lon: -68.9728},
	"San Pedro de Macorís":     {Lat: 18.4539, Lon: -69.3078},
	"Barahona":                 {Lat: 18.2086, Lon: -71.1010},
	"Azua":                     {Lat: 18.4531, Lon: -70.7347},
	"Baní":                     {Lat: 18.2794, Lon: -70.3314},
	"Moca":                     {Lat: 19.3944, Lon: -70.5256},
	"San Francisco de Macorís": {Lat: 19.3011, Lon: -70.2525},
	"Cotuí":                    {Lat: 19.0531, Lon: -70.1492},
	"Bonao":                    {Lat: 18.9369, Lon: -70.4089},
	"Monte Plata":              {Lat: 18.8072, Lon: -69.7844},
	"Nagua":                    {Lat: 19.3831, Lon: -69.8478},
	"Samaná":                   {Lat: 19.2044, Lon: -69.3364},
	"El Seibo":                 {Lat: 18.7644, Lon: -69.0386},
	"San Juan de la Maguana":   {Lat: 18.8061, Lon: -71.2297},
	"Monte Cristi":             {Lat: 19.8419, Lon: -71.6454},
	"Mao":                      {Lat: 19.5531, Lon: -71.0781},
	"Dajabón":                  {Lat: 19.5486, Lon: -71.7083},
	"Neiba":                    {Lat: 18.4822, Lon: -71.4186},
	"Jimaní":                   {Lat: 18.5028, Lon: -71.8597},
	"Pedernales":               {Lat: 18.0167, Lon: -71.7333},
	"Comendador":               {Lat: 18.8833, Lon: -71.7000},
	"Hato Mayor del Rey":       {Lat: 18.7667, Lon: -69.2667},
	"Salcedo":                  {Lat: 19.3775, Lon: -70.4172},
	"San José de Ocoa":         {Lat: 18.5469, Lon: -70.5000},
}

const defaultMarkerColor = "#74B9FF"

var interventionColors = []struct {
	keyword string
	color   string
}{
	{"bacheo", "#FF6B6B"},
	{"asfaltado", "#4ECDC4"},
	{"canalización", "#45B7D1"},
	{"señalización", "#96CEB4"},
	{"construcción", "#FFEAA7"},
	{"reparación", "#DDA0DD"},
	{"mantenimiento", "#98D8C8"},
}

// MarkerColor picks the pin color for an intervention label.
func MarkerColor(label string) string {
	l := strings.ToLower(label)
	for _, c := range interventionColors {
		if strings.Contains(l, c.keyword) {
			return c.color
		}
	}
	return defaultMarkerColor
}

// PositionSource says where a marker's position came from.
type PositionSource string

const (
	PositionGPS          PositionSource = "gps"
	PositionMunicipality PositionSource = "municipality"
	PositionDefault      PositionSource = "default"
)

// Marker is one report pinned on the map.
type Marker struct {
	ReportID         string         `json:"reportId"`
	ReportNumber     string         `json:"reportNumber"`
	Position         geo.Point      `json:"position"`
	Source           PositionSource `json:"source"`
	Color            string         `json:"color"`
	InterventionType string         `json:"interventionType"`
	Region           string         `json:"region"`
	Province         string         `json:"province"`
	Municipality     string         `json:"municipality"`
	Status           Status         `json:"status"`
	Date             string         `json:"date"`
	Kilometers       float64        `json:"kilometers"`
}

// ReportFilter narrows a report list. Zero values match everything.
type ReportFilter struct {
	Query     string
	Types     []string
	CreatedBy string
}
