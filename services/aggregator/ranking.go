package aggregator

import (
	"math"
	"sort"

	"github.com/techagentng/mopcdash/models"
)

// Ranked returns a copy of nodes sorted by kilometers, largest first. Nodes
// with equal kilometers keep their relative order.
func Ranked(nodes []*models.HierarchyNode) []*models.HierarchyNode {
	out := make([]*models.HierarchyNode, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalKilometers > out[j].TotalKilometers
	})
	return out
}

// Value is the quantity a node is measured by in mode.
func Value(n *models.HierarchyNode, mode models.DisplayMode) float64 {
	if n == nil {
		return 0
	}
	if mode == models.ByKilometers {
		return n.TotalKilometers
	}
	return float64(n.ReportCount)
}

// ScaleMax is the largest value among siblings, used as the 100% mark of the
// progress bars. It is 1 when there is nothing to scale.
func ScaleMax(nodes []*models.HierarchyNode, mode models.DisplayMode) float64 {
	max := 0.0
	for _, n := range nodes {
		if v := Value(n, mode); v > max && !math.IsInf(v, 1) {
			max = v
		}
	}
	if max <= 0 {
		return 1
	}
	return max
}

// Percent is the width of a node's progress bar, between 0 and 100.
func Percent(n *models.HierarchyNode, max float64, mode models.DisplayMode) float64 {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return 0
	}
	p := Value(n, mode) / max * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 100)
}

// Find walks nodes by name, one path element per level. Names match exactly
// first and then accent and case insensitively.
func Find(nodes []*models.HierarchyNode, path ...string) *models.HierarchyNode {
	var found *models.HierarchyNode
	for i, name := range path {
		found = lookup(nodes, name, i == 0)
		if found == nil {
			return nil
		}
		nodes = found.Children
	}
	return found
}

func lookup(nodes []*models.HierarchyNode, name string, region bool) *models.HierarchyNode {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	key := Fold(name)
	if region {
		key = RegionKey(name)
	}
	for _, n := range nodes {
		k := Fold(n.Name)
		if region {
			k = RegionKey(n.Name)
		}
		if k == key {
			return n
		}
	}
	return nil
}

// View prepares one drill-down screen. Root listings keep the given order;
// deeper levels are ranked by kilometers.
func View(level models.Level, path []string, nodes []*models.HierarchyNode, mode models.DisplayMode) models.LevelView {
	if level != models.LevelRegion {
		nodes = Ranked(nodes)
	}
	max := ScaleMax(nodes, mode)
	v := models.LevelView{
		Level: level,
		Path:  path,
		Mode:  mode,
		Max:   max,
		Nodes: make([]models.NodeView, 0, len(nodes)),
	}
	for _, n := range nodes {
		v.ReportCount += n.ReportCount
		v.TotalKilometers += n.TotalKilometers
		v.Nodes = append(v.Nodes, models.NodeView{
			Name:            n.Name,
			ReportCount:     n.ReportCount,
			TotalKilometers: n.TotalKilometers,
			Percent:         Percent(n, max, mode),
			Empty:           n.ReportCount == 0,
		})
	}
	if v.Path == nil {
		v.Path = []string{}
	}
	return v
}
