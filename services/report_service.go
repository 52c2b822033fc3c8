package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/db"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/services/aggregator"
	"gorm.io/gorm"
)

type ReportService interface {
	SaveReport(ctx context.Context, user *models.User, report *models.Report) (*models.Report, error)
	GetReports(ctx context.Context, user *models.User, filter models.ReportFilter) ([]models.Report, error)
	GetReportByID(ctx context.Context, user *models.User, id string) (*models.Report, error)
	DeleteReport(ctx context.Context, user *models.User, id string) error
	AddImages(ctx context.Context, user *models.User, id string, urls ...string) (*models.Report, error)
	// VisibleReports is every report the user may see on the dashboard.
	VisibleReports(ctx context.Context, user *models.User) ([]models.Report, error)
	GetStatistics(ctx context.Context, user *models.User) (*models.Statistics, error)
}

type reportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository
	now        func() time.Time
}

// NewReportService instantiates a ReportService
func NewReportService(reportRepo db.ReportRepository, conf *config.Config) ReportService {
	return &reportService{
		Config:     conf,
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// SaveReport stores a new report for user. The role's daily quota applies and
// the id, report number, author and status are filled in when missing.
func (s *reportService) SaveReport(ctx context.Context, user *models.User, report *models.Report) (*models.Report, error) {
	if !models.HasPermission(user.Role, models.CanCreateReports) {
		return nil, errs.ErrForbidden
	}
	if err := s.checkDailyLimit(ctx, user); err != nil {
		return nil, err
	}

	now := s.now()
	if report.ID == "" {
		report.ID = fmt.Sprintf("%s%d", models.StorageKeyPrefix, now.UnixNano())
	}
	if report.ReportNumber == "" {
		report.ReportNumber = models.FormatReportNumber(report.ID, now)
	}
	if report.Date == "" {
		report.Date = now.Format("2006-01-02")
	}
	if report.Status == "" {
		report.Status = models.StatusCompleted
	}
	if report.InterventionType == "" {
		report.InterventionType = models.ParseInterventionType(report.InterventionLabel)
	}
	report.CreatedBy = user.Username
	report.CreatedAt = now.UTC()

	saved, err := s.reportRepo.SaveReport(ctx, report)
	if err != nil {
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return saved, nil
}

func (s *reportService) checkDailyLimit(ctx context.Context, user *models.User) error {
	limit := models.RoleConfigs[user.Role].Limits.MaxReportsPerDay
	if limit == models.Unlimited {
		return nil
	}
	startOfDay := s.now().UTC().Truncate(24 * time.Hour)
	count, err := s.reportRepo.CountReportsByUserSince(ctx, user.Username, startOfDay)
	if err != nil {
		return errs.New(err.Error(), http.StatusInternalServerError)
	}
	if count >= int64(limit) {
		return errs.ErrDailyLimitReached
	}
	return nil
}

func (s *reportService) GetReports(ctx context.Context, user *models.User, filter models.ReportFilter) ([]models.Report, error) {
	reports, err := s.VisibleReports(ctx, user)
	if err != nil {
		return nil, err
	}
	return aggregator.ReportsNewestFirst(aggregator.FilterReports(reports, filter)), nil
}

func (s *reportService) VisibleReports(ctx context.Context, user *models.User) ([]models.Report, error) {
	var (
		reports []models.Report
		err     error
	)
	if models.HasPermission(user.Role, models.CanViewAllReports) {
		reports, err = s.reportRepo.GetAllReports(ctx)
	} else {
		reports, err = s.reportRepo.GetReportsByUser(ctx, user.Username)
	}
	if err != nil {
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return reports, nil
}

func (s *reportService) GetReportByID(ctx context.Context, user *models.User, id string) (*models.Report, error) {
	report, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.CreatedBy != user.Username && !models.HasPermission(user.Role, models.CanViewAllReports) {
		return nil, errs.ErrForbidden
	}
	return report, nil
}

func (s *reportService) DeleteReport(ctx context.Context, user *models.User, id string) error {
	if !models.HasPermission(user.Role, models.CanDeleteReports) {
		return errs.ErrForbidden
	}
	if err := s.reportRepo.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return errs.New(err.Error(), http.StatusInternalServerError)
	}
	return nil
}

// AddImages appends image URLs to a report. Technicians may only touch their
// own reports.
func (s *reportService) AddImages(ctx context.Context, user *models.User, id string, urls ...string) (*models.Report, error) {
	report, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	own := models.ActionContext{IsOwnReport: report.CreatedBy == user.Username}
	if !models.CanPerformAction(user.Role, models.CanEditReports, own) {
		return nil, errs.ErrForbidden
	}
	updated, err := s.reportRepo.AppendImages(ctx, id, urls...)
	if err != nil {
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return updated, nil
}

func (s *reportService) GetStatistics(ctx context.Context, user *models.User) (*models.Statistics, error) {
	reports, err := s.VisibleReports(ctx, user)
	if err != nil {
		return nil, err
	}
	return aggregator.Statistics(reports, models.DefaultRegions), nil
}

func (s *reportService) find(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reportRepo.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return report, nil
}
