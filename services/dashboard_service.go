package services

import (
	"context"

	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/services/aggregator"
)

// DistrictView is the deepest drill-down: the district's sectors and its
// reports, newest first.
type DistrictView struct {
	models.LevelView
	Sectors []*models.HierarchyNode `json:"sectors"`
}

// DashboardService serves the region rollup. Every call aggregates a fresh
// snapshot of the reports the user may see.
type DashboardService interface {
	Tree(ctx context.Context, user *models.User) ([]*models.HierarchyNode, error)
	Regions(ctx context.Context, user *models.User, mode models.DisplayMode) (*models.LevelView, error)
	Provinces(ctx context.Context, user *models.User, region string, mode models.DisplayMode) (*models.LevelView, error)
	Districts(ctx context.Context, user *models.User, region, province string, mode models.DisplayMode) (*models.LevelView, error)
	District(ctx context.Context, user *models.User, region, province, district string, mode models.DisplayMode) (*DistrictView, error)
	Markers(ctx context.Context, user *models.User, filter models.ReportFilter) ([]models.Marker, error)
}

type dashboardService struct {
	reports ReportService
	regions []string
}

func NewDashboardService(reports ReportService) DashboardService {
	return &dashboardService{reports: reports, regions: models.DefaultRegions}
}

func (d *dashboardService) Tree(ctx context.Context, user *models.User) ([]*models.HierarchyNode, error) {
	reports, err := d.reports.VisibleReports(ctx, user)
	if err != nil {
		return nil, err
	}
	return aggregator.Aggregate(reports, d.regions), nil
}

func (d *dashboardService) Regions(ctx context.Context, user *models.User, mode models.DisplayMode) (*models.LevelView, error) {
	tree, err := d.Tree(ctx, user)
	if err != nil {
		return nil, err
	}
	view := aggregator.View(models.LevelRegion, nil, tree, mode)
	return &view, nil
}

func (d *dashboardService) Provinces(ctx context.Context, user *models.User, region string, mode models.DisplayMode) (*models.LevelView, error) {
	node, err := d.find(ctx, user, region)
	if err != nil {
		return nil, err
	}
	view := aggregator.View(models.LevelProvince, []string{node.Name}, node.Children, mode)
	return &view, nil
}

func (d *dashboardService) Districts(ctx context.Context, user *models.User, region, province string, mode models.DisplayMode) (*models.LevelView, error) {
	tree, err := d.Tree(ctx, user)
	if err != nil {
		return nil, err
	}
	regionNode := aggregator.Find(tree, region)
	node := aggregator.Find(tree, region, province)
	if node == nil {
		return nil, errs.ErrNotFound
	}
	view := aggregator.View(models.LevelDistrict, []string{regionNode.Name, node.Name}, node.Children, mode)
	return &view, nil
}

func (d *dashboardService) District(ctx context.Context, user *models.User, region, province, district string, mode models.DisplayMode) (*DistrictView, error) {
	tree, err := d.Tree(ctx, user)
	if err != nil {
		return nil, err
	}
	node := aggregator.Find(tree, region, province, district)
	if node == nil {
		return nil, errs.ErrNotFound
	}
	path := []string{aggregator.Find(tree, region).Name, aggregator.Find(tree, region, province).Name, node.Name}

	sectors := aggregator.Sectors(node)
	view := aggregator.View(models.LevelSector, path, sectors, mode)
	view.Reports = aggregator.ReportsNewestFirst(node.Reports)
	return &DistrictView{LevelView: view, Sectors: sectors}, nil
}

func (d *dashboardService) Markers(ctx context.Context, user *models.User, filter models.ReportFilter) ([]models.Marker, error) {
	reports, err := d.reports.VisibleReports(ctx, user)
	if err != nil {
		return nil, err
	}
	return aggregator.Markers(aggregator.FilterReports(reports, filter)), nil
}

func (d *dashboardService) find(ctx context.Context, user *models.User, path ...string) (*models.HierarchyNode, error) {
	tree, err := d.Tree(ctx, user)
	if err != nil {
		return nil, err
	}
	node := aggregator.Find(tree, path...)
	if node == nil {
		return nil, errs.ErrNotFound
	}
	return node, nil
}
