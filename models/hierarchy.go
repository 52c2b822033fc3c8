package models

// Fallback bucket names used when a grouping key is missing.
const (
	NoRegion   = "Sin región"
	NoProvince = "Sin provincia"
	NoDistrict = "Sin distrito"
	NoSector   = "Sin sector"
)

// DefaultRegions is the fixed list of regions the dashboard always shows,
// in display order.
var DefaultRegions = []string{
	"Región Ozama",
	"Distrito Nacional",
	"Región Cibao Norte",
	"Región Cibao Sur",
	"Región Cibao Nordeste",
	"Región Cibao Noroeste",
	"Región Valdesia",
	"Región Enriquillo",
	"Región El Valle",
	"Región Yuma",
	"Región Higuamo",
}

// Level identifies the depth of a HierarchyNode.
type Level string

const (
	LevelRegion   Level = "region"
	LevelProvince Level = "province"
	LevelDistrict Level = "district"
	LevelSector   Level = "sector"
)

// DisplayMode selects the value a progress bar is scaled by.
type DisplayMode string

const (
	ByCount      DisplayMode = "count"
	ByKilometers DisplayMode = "km"
)

// ParseDisplayMode defaults to ByCount.
func ParseDisplayMode(s string) DisplayMode {
	if DisplayMode(s) == ByKilometers {
		return ByKilometers
	}
	return ByCount
}

// HierarchyNode is one level of the region rollup. Children keep the order in
// which their key was first seen; leaf nodes carry Reports instead.
type HierarchyNode struct {
	Name            string           `json:"name"`
	Level           Level            `json:"level"`
	ReportCount     int              `json:"reportCount"`
	TotalKilometers float64          `json:"totalKilometers"`
	Children        []*HierarchyNode `json:"children"`
	Reports         []Report         `json:"reports,omitempty"`
}

// NodeView is a node prepared for a ranked list with its progress-bar width.
type NodeView struct {
	Name            string  `json:"name"`
	ReportCount     int     `json:"reportCount"`
	TotalKilometers float64 `json:"totalKilometers"`
	Percent         float64 `json:"percent"`
	Empty           bool    `json:"empty"`
}

// LevelView is the payload of one drill-down screen.
type LevelView struct {
	Level           Level       `json:"level"`
	Path            []string    `json:"path"`
	Mode            DisplayMode `json:"mode"`
	Max             float64     `json:"max"`
	ReportCount     int         `json:"reportCount"`
	TotalKilometers float64     `json:"totalKilometers"`
	Nodes           []NodeView  `json:"nodes"`
	Reports         []Report    `json:"reports,omitempty"`
}
