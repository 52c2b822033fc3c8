// Package aggregator rolls a flat list of intervention reports up into the
// Region > Province > District tree shown on the dashboard. Everything here
// is a pure function of its input; refreshing is the caller's job.
package aggregator

import (
	"strings"
	"unicode"

	"github.com/techagentng/mopcdash/geo"
	"github.com/techagentng/mopcdash/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Aggregate groups reports by region, province and district. Every entry of
// regions gets a node, in that order, even when nothing was reported there.
// Reports whose region is missing or not in regions go to extra nodes
// appended after the fixed ones, so no report is ever dropped.
func Aggregate(reports []models.Report, regions []string) []*models.HierarchyNode {
	t := newTree(regions)
	for _, r := range reports {
		t.add(r)
	}
	return append(t.fixed, t.extra...)
}

type tree struct {
	fixed   []*models.HierarchyNode
	extra   []*models.HierarchyNode
	regions map[string]*models.HierarchyNode
	nodes   map[childKey]*models.HierarchyNode
}

type childKey struct {
	parent *models.HierarchyNode
	name   string
}

func newTree(regions []string) *tree {
	t := &tree{
		fixed:   make([]*models.HierarchyNode, 0, len(regions)),
		regions: make(map[string]*models.HierarchyNode, len(regions)),
		nodes:   make(map[childKey]*models.HierarchyNode),
	}
	for _, name := range regions {
		key := RegionKey(name)
		if _, dup := t.regions[key]; dup {
			continue
		}
		n := newNode(name, models.LevelRegion)
		t.regions[key] = n
		t.fixed = append(t.fixed, n)
	}
	return t
}

func (t *tree) add(r models.Report) {
	km := ReportKilometers(r)

	region := t.region(orDefault(r.Region, models.NoRegion))
	province := t.child(region, orDefault(r.Province, models.NoProvince), models.LevelProvince)
	district := t.child(province, orDefault(r.DistrictOrMunicipality(), models.NoDistrict), models.LevelDistrict)
	district.Reports = append(district.Reports, r)

	for _, n := range []*models.HierarchyNode{region, province, district} {
		n.ReportCount++
		n.TotalKilometers += km
	}
}

func (t *tree) region(name string) *models.HierarchyNode {
	key := RegionKey(name)
	if n, ok := t.regions[key]; ok {
		return n
	}
	n := newNode(name, models.LevelRegion)
	t.regions[key] = n
	t.extra = append(t.extra, n)
	return n
}

func (t *tree) child(parent *models.HierarchyNode, name string, level models.Level) *models.HierarchyNode {
	key := childKey{parent: parent, name: name}
	if n, ok := t.nodes[key]; ok {
		return n
	}
	n := newNode(name, level)
	parent.Children = append(parent.Children, n)
	t.nodes[key] = n
	return n
}

func newNode(name string, level models.Level) *models.HierarchyNode {
	return &models.HierarchyNode{Name: name, Level: level, Children: []*models.HierarchyNode{}}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

// RegionKey folds a region name for matching: accents and case are ignored
// and a leading "Región" is dropped, so "cibao norte" and "Región Cibao
// Norte" are the same region.
func RegionKey(name string) string {
	k := Fold(name)
	for _, prefix := range []string{"region de ", "region del ", "region "} {
		if strings.HasPrefix(k, prefix) {
			k = strings.TrimSpace(strings.TrimPrefix(k, prefix))
			break
		}
	}
	return k
}

// Fold lower-cases s, strips diacritics and collapses inner whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// ReportKilometers is the worked length of a report. A direct length
// measurement wins; otherwise the straight-line distance between the GPS
// start and end points is used. Anything else counts as 0.
func ReportKilometers(r models.Report) float64 {
	if r.Metrics != nil {
		if m, ok := r.Metrics.LengthMeters(); ok {
			return m / 1000
		}
	}
	if r.GPS.Complete() {
		return geo.HaversineKm(r.GPS.Start.Point, r.GPS.End.Point)
	}
	return 0
}
