package aggregator

import (
	"sort"
	"time"

	"github.com/techagentng/mopcdash/models"
)

// Sectors breaks a district down by sector, ranked by kilometers. Reports
// inside each sector are newest first.
func Sectors(district *models.HierarchyNode) []*models.HierarchyNode {
	if district == nil {
		return []*models.HierarchyNode{}
	}
	var sectors []*models.HierarchyNode
	byName := make(map[string]*models.HierarchyNode)
	for _, r := range district.Reports {
		name := orDefault(r.Sector, models.NoSector)
		s, ok := byName[name]
		if !ok {
			s = newNode(name, models.LevelSector)
			byName[name] = s
			sectors = append(sectors, s)
		}
		s.ReportCount++
		s.TotalKilometers += ReportKilometers(r)
		s.Reports = append(s.Reports, r)
	}
	for _, s := range sectors {
		s.Reports = ReportsNewestFirst(s.Reports)
	}
	return Ranked(sectors)
}

// ReportsNewestFirst returns a copy of reports sorted by date, most recent
// first. Undated reports go last in their original order.
func ReportsNewestFirst(reports []models.Report) []models.Report {
	type dated struct {
		r  models.Report
		at time.Time
		ok bool
	}
	ds := make([]dated, len(reports))
	for i, r := range reports {
		at, ok := r.ParsedDate()
		ds[i] = dated{r: r, at: at, ok: ok}
	}
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].ok != ds[j].ok {
			return ds[i].ok
		}
		return ds[i].at.After(ds[j].at)
	})
	out := make([]models.Report, len(ds))
	for i, d := range ds {
		out[i] = d.r
	}
	return out
}
