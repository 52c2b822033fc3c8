package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techagentng/mopcdash/models"
)

func TestSectors(t *testing.T) {
	district := &models.HierarchyNode{Reports: []models.Report{
		{ID: "1", Sector: "Los Jardines", Date: "2024-01-10", Metrics: models.RoadMetrics{LengthM: 500}},
		{ID: "2", Sector: "", Date: "2024-03-01", Metrics: models.RoadMetrics{LengthM: 2000}},
		{ID: "3", Sector: "Los Jardines", Date: "2024-02-10", Metrics: models.RoadMetrics{LengthM: 500}},
		{ID: "4", Sector: "Los Jardines"},
	}}

	sectors := Sectors(district)

	require.Len(t, sectors, 2)
	assert.Equal(t, models.NoSector, sectors[0].Name)
	assert.Equal(t, models.LevelSector, sectors[0].Level)

	jardines := sectors[1]
	assert.Equal(t, 3, jardines.ReportCount)
	assert.InDelta(t, 1.0, jardines.TotalKilometers, 1e-9)
	ids := []string{}
	for _, r := range jardines.Reports {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"3", "1", "4"}, ids)

	assert.Empty(t, Sectors(nil))
}
