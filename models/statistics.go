package models

// RegionStatistics is the per-region summary shown on the dashboard cards.
type RegionStatistics struct {
	Total       int     `json:"total"`
	Completados int     `json:"completados"`
	Pendientes  int     `json:"pendientes"`
	EnProgreso  int     `json:"enProgreso"`
	TotalKm     float64 `json:"totalKm"`
}

type Statistics struct {
	Total     int                         `json:"total"`
	PorRegion map[string]RegionStatistics `json:"porRegion"`
}
