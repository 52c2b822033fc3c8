package aggregator

import "github.com/techagentng/mopcdash/models"

// Statistics summarizes reports per region with status counts. Regions are
// matched the same way Aggregate matches them, and every entry of regions is
// present in the result.
func Statistics(reports []models.Report, regions []string) *models.Statistics {
	stats := &models.Statistics{PorRegion: make(map[string]models.RegionStatistics, len(regions))}
	names := make(map[string]string, len(regions))
	for _, name := range regions {
		names[RegionKey(name)] = name
		stats.PorRegion[name] = models.RegionStatistics{}
	}

	for _, r := range reports {
		region := orDefault(r.Region, models.NoRegion)
		if name, ok := names[RegionKey(region)]; ok {
			region = name
		} else {
			names[RegionKey(region)] = region
		}

		rs := stats.PorRegion[region]
		rs.Total++
		rs.TotalKm += ReportKilometers(r)
		switch r.Status {
		case models.StatusPending:
			rs.Pendientes++
		case models.StatusInProgress:
			rs.EnProgreso++
		default:
			rs.Completados++
		}
		stats.PorRegion[region] = rs
		stats.Total++
	}
	return stats
}
