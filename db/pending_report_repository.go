package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/techagentng/mopcdash/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingReportRepository keeps the drafts technicians have not submitted.
type PendingReportRepository interface {
	SavePendingReport(ctx context.Context, report *models.PendingReport) (*models.PendingReport, error)
	GetAllPendingReports(ctx context.Context) ([]models.PendingReport, error)
	GetUserPendingReports(ctx context.Context, username string) ([]models.PendingReport, error)
	GetPendingCount(ctx context.Context) (int64, error)
	CountPendingByUser(ctx context.Context) (map[string]int, error)
	GetPendingReport(ctx context.Context, id string) (*models.PendingReport, error)
	DeletePendingReport(ctx context.Context, id string) error
}

type pendingReportRepo struct {
	DB *gorm.DB
}

func NewPendingReportRepo(db *GormDB) PendingReportRepository {
	return &pendingReportRepo{db.DB}
}

// SavePendingReport inserts the draft or overwrites the one with the same id.
func (p *pendingReportRepo) SavePendingReport(ctx context.Context, report *models.PendingReport) (*models.PendingReport, error) {
	err := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"region", "province", "municipality", "intervention_type", "progress", "form_data", "status", "updated_at"}),
	}).Create(report).Error
	if err != nil {
		return nil, errors.Wrap(err, "saving pending report")
	}
	return report, nil
}

func (p *pendingReportRepo) GetAllPendingReports(ctx context.Context) ([]models.PendingReport, error) {
	var reports []models.PendingReport
	if err := p.DB.WithContext(ctx).Order("updated_at desc").Find(&reports).Error; err != nil {
		return nil, errors.Wrap(err, "loading pending reports")
	}
	return reports, nil
}

func (p *pendingReportRepo) GetUserPendingReports(ctx context.Context, username string) ([]models.PendingReport, error) {
	var reports []models.PendingReport
	err := p.DB.WithContext(ctx).Where("username = ?", username).Order("updated_at desc").Find(&reports).Error
	if err != nil {
		return nil, errors.Wrapf(err, "loading pending reports of %s", username)
	}
	return reports, nil
}

func (p *pendingReportRepo) GetPendingCount(ctx context.Context) (int64, error) {
	var count int64
	if err := p.DB.WithContext(ctx).Model(&models.PendingReport{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting pending reports")
	}
	return count, nil
}

// CountPendingByUser returns the number of drafts per username.
func (p *pendingReportRepo) CountPendingByUser(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Username string
		Count    int
	}
	err := p.DB.WithContext(ctx).Model(&models.PendingReport{}).
		Select("username, count(*) as count").
		Group("username").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting pending reports per user")
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Username] = row.Count
	}
	return counts, nil
}

func (p *pendingReportRepo) GetPendingReport(ctx context.Context, id string) (*models.PendingReport, error) {
	report := &models.PendingReport{}
	if err := p.DB.WithContext(ctx).Where("id = ?", id).First(report).Error; err != nil {
		return nil, errors.Wrapf(err, "could not find pending report %s", id)
	}
	return report, nil
}

func (p *pendingReportRepo) DeletePendingReport(ctx context.Context, id string) error {
	result := p.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.PendingReport{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting pending report")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
