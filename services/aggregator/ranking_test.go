package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techagentng/mopcdash/models"
)

func nodes(kms ...float64) []*models.HierarchyNode {
	out := make([]*models.HierarchyNode, len(kms))
	for i, km := range kms {
		out[i] = &models.HierarchyNode{Name: string(rune('a' + i)), TotalKilometers: km, ReportCount: i}
	}
	return out
}

func names(ns []*models.HierarchyNode) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Name
	}
	return out
}

func TestRanked_StableOnTies(t *testing.T) {
	in := nodes(1, 5, 3, 5, 0)

	out := Ranked(in)

	assert.Equal(t, []string{"b", "d", "c", "a", "e"}, names(out))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(in), "input must not be reordered")
}

func TestScaleMaxAndPercent(t *testing.T) {
	ns := nodes(2, 8, 4)

	max := ScaleMax(ns, models.ByKilometers)
	assert.Equal(t, 8.0, max)
	assert.InDelta(t, 25, Percent(ns[0], max, models.ByKilometers), 1e-9)
	assert.InDelta(t, 100, Percent(ns[1], max, models.ByKilometers), 1e-9)

	assert.Equal(t, 2.0, ScaleMax(ns, models.ByCount))
	assert.Equal(t, 1.0, ScaleMax(nodes(0, 0), models.ByKilometers))

	assert.Zero(t, Percent(ns[0], 0, models.ByKilometers))
	assert.Zero(t, Percent(nil, 1, models.ByCount))
	assert.Equal(t, 100.0, Percent(ns[1], 4, models.ByKilometers))
}

func TestView(t *testing.T) {
	tree := Aggregate([]models.Report{
		canal("Región Cibao Norte", "Santiago", "Tamboril", 1000),
		canal("Región Cibao Norte", "Puerto Plata", "Sosúa", 3000),
		canal("Región Cibao Norte", "Puerto Plata", "Sosúa", 1000),
	}, models.DefaultRegions)

	root := View(models.LevelRegion, nil, tree, models.ByCount)
	require.Len(t, root.Nodes, len(models.DefaultRegions))
	assert.Equal(t, models.DefaultRegions[0], root.Nodes[0].Name)
	assert.True(t, root.Nodes[0].Empty)
	assert.Equal(t, 3.0, root.Max)
	assert.Equal(t, 3, root.ReportCount)
	assert.Equal(t, []string{}, root.Path)

	norte := Find(tree, "cibao norte")
	require.NotNil(t, norte)
	provinces := View(models.LevelProvince, []string{norte.Name}, norte.Children, models.ByKilometers)
	require.Len(t, provinces.Nodes, 2)
	assert.Equal(t, "Puerto Plata", provinces.Nodes[0].Name)
	assert.InDelta(t, 100, provinces.Nodes[0].Percent, 1e-9)
	assert.InDelta(t, 25, provinces.Nodes[1].Percent, 1e-9)
}

func TestFind(t *testing.T) {
	tree := Aggregate([]models.Report{canal("Región El Valle", "San Juan", "Las Matas de Farfán", 10)}, models.DefaultRegions)

	assert.NotNil(t, Find(tree, "Región El Valle", "San Juan", "Las Matas de Farfán"))
	assert.NotNil(t, Find(tree, "el valle", "SAN JUAN", "las matas de farfan"))
	assert.Nil(t, Find(tree, "Región El Valle", "Azua"))
	assert.Nil(t, Find(nil, "x"))
}
