package aggregator

import (
	"strings"

	"github.com/techagentng/mopcdash/geo"
	"github.com/techagentng/mopcdash/models"
)

// FilterReports keeps the reports matching f. The query is matched accent
// and case insensitively against the report number, municipality, province,
// sector and intervention type.
func FilterReports(reports []models.Report, f models.ReportFilter) []models.Report {
	query := Fold(f.Query)
	types := make(map[string]bool, len(f.Types))
	for _, t := range f.Types {
		if t = Fold(t); t != "" {
			types[t] = true
		}
	}

	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if f.CreatedBy != "" && r.CreatedBy != f.CreatedBy {
			continue
		}
		if len(types) > 0 && !types[Fold(r.InterventionLabel)] && !types[string(r.InterventionType)] {
			continue
		}
		if query != "" && !matches(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r models.Report, query string) bool {
	for _, field := range []string{r.ReportNumber, r.Municipality, r.Province, r.Sector, r.InterventionLabel} {
		if strings.Contains(Fold(field), query) {
			return true
		}
	}
	return false
}

// Markers pins every report on the map. The GPS start point is preferred,
// then the end point, then the municipality's reference coordinate and
// finally Santo Domingo.
func Markers(reports []models.Report) []models.Marker {
	out := make([]models.Marker, 0, len(reports))
	for _, r := range reports {
		pos, source := markerPosition(r)
		out = append(out, models.Marker{
			ReportID:         r.ID,
			ReportNumber:     r.ReportNumber,
			Position:         pos,
			Source:           source,
			Color:            models.MarkerColor(r.InterventionLabel),
			InterventionType: r.InterventionLabel,
			Region:           r.Region,
			Province:         r.Province,
			Municipality:     r.Municipality,
			Status:           r.Status,
			Date:             r.Date,
			Kilometers:       ReportKilometers(r),
		})
	}
	return out
}

func markerPosition(r models.Report) (geo.Point, models.PositionSource) {
	if p, ok := r.GPS.Position(); ok {
		return p, models.PositionGPS
	}
	if p, ok := models.MunicipalityCoordinates[r.Municipality]; ok {
		return p, models.PositionMunicipality
	}
	want := Fold(r.Municipality)
	for name, p := range models.MunicipalityCoordinates {
		if want != "" && Fold(name) == want {
			return p, models.PositionMunicipality
		}
	}
	return models.DefaultPosition, models.PositionDefault
}
