package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/mopcdash/db"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PendingReportService interface {
	SavePendingReport(ctx context.Context, user *models.User, req *models.SavePendingReportRequest) (*models.PendingReport, error)
	GetPendingReports(ctx context.Context, user *models.User) ([]models.PendingReport, error)
	GetPendingCount(ctx context.Context, user *models.User) (int64, error)
	DeletePendingReport(ctx context.Context, user *models.User, id string) error
	// ContinuePendingReport submits a draft as a report and removes the draft.
	ContinuePendingReport(ctx context.Context, user *models.User, id string) (*models.Report, error)
}

type pendingReportService struct {
	pendingRepo db.PendingReportRepository
	reports     ReportService
	log         *zap.Logger
	now         func() time.Time
}

func NewPendingReportService(pendingRepo db.PendingReportRepository, reports ReportService, log *zap.Logger) PendingReportService {
	return &pendingReportService{
		pendingRepo: pendingRepo,
		reports:     reports,
		log:         log,
		now:         time.Now,
	}
}

func (p *pendingReportService) SavePendingReport(ctx context.Context, user *models.User, req *models.SavePendingReportRequest) (*models.PendingReport, error) {
	now := p.now()
	id := req.ID
	if id == "" {
		id = fmt.Sprintf("pending_%d", now.UnixNano())
	} else if existing, err := p.pendingRepo.GetPendingReport(ctx, id); err == nil && existing.Username != user.Username {
		return nil, errs.ErrForbidden
	}

	formData, err := json.Marshal(req.FormData)
	if err != nil {
		return nil, errs.New("invalid form data", http.StatusBadRequest)
	}

	pending := &models.PendingReport{
		ID:               id,
		ReportNumber:     models.FormatReportNumber(id, now),
		Username:         user.Username,
		Region:           req.Region,
		Province:         req.Province,
		Municipality:     req.Municipality,
		InterventionType: req.InterventionType,
		Status:           models.StatusPending,
		Progress:         req.Progress,
		FormData:         string(formData),
	}
	saved, err := p.pendingRepo.SavePendingReport(ctx, pending)
	if err != nil {
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return saved, nil
}

func (p *pendingReportService) GetPendingReports(ctx context.Context, user *models.User) ([]models.PendingReport, error) {
	var (
		reports []models.PendingReport
		err     error
	)
	if models.HasPermission(user.Role, models.CanViewAllReports) {
		reports, err = p.pendingRepo.GetAllPendingReports(ctx)
	} else {
		reports, err = p.pendingRepo.GetUserPendingReports(ctx, user.Username)
	}
	if err != nil {
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	return reports, nil
}

func (p *pendingReportService) GetPendingCount(ctx context.Context, user *models.User) (int64, error) {
	if models.HasPermission(user.Role, models.CanViewAllReports) {
		count, err := p.pendingRepo.GetPendingCount(ctx)
		if err != nil {
			return 0, errs.New(err.Error(), http.StatusInternalServerError)
		}
		return count, nil
	}
	reports, err := p.GetPendingReports(ctx, user)
	if err != nil {
		return 0, err
	}
	return int64(len(reports)), nil
}

func (p *pendingReportService) DeletePendingReport(ctx context.Context, user *models.User, id string) error {
	if _, err := p.ownedDraft(ctx, user, id); err != nil {
		return err
	}
	if err := p.pendingRepo.DeletePendingReport(ctx, id); err != nil {
		return errs.New(err.Error(), http.StatusInternalServerError)
	}
	return nil
}

func (p *pendingReportService) ContinuePendingReport(ctx context.Context, user *models.User, id string) (*models.Report, error) {
	draft, err := p.ownedDraft(ctx, user, id)
	if err != nil {
		return nil, err
	}

	var report models.Report
	if draft.FormData != "" && draft.FormData != "null" {
		if err := json.Unmarshal([]byte(draft.FormData), &report); err != nil {
			return nil, errs.New("draft form data is not a valid report", http.StatusUnprocessableEntity)
		}
	}
	report.ID = ""
	report.ReportNumber = draft.ReportNumber
	report.Region = coalesce(report.Region, draft.Region)
	report.Province = coalesce(report.Province, draft.Province)
	report.Municipality = coalesce(report.Municipality, draft.Municipality)
	if report.InterventionLabel == "" {
		report.InterventionLabel = draft.InterventionType
		report.InterventionType = models.ParseInterventionType(draft.InterventionType)
		if report.Metrics != nil {
			report.Metrics = models.ParseMetrics(report.InterventionType, report.Metrics.Values())
		}
	}
	report.Status = models.StatusCompleted

	saved, err := p.reports.SaveReport(ctx, user, &report)
	if err != nil {
		return nil, err
	}
	if err := p.pendingRepo.DeletePendingReport(ctx, id); err != nil {
		p.log.Warn("submitted draft could not be removed", zap.String("id", id), zap.Error(err))
	}
	return saved, nil
}

// ownedDraft loads a draft the user may act on: their own, or any draft when
// the role can delete reports.
func (p *pendingReportService) ownedDraft(ctx context.Context, user *models.User, id string) (*models.PendingReport, error) {
	draft, err := p.pendingRepo.GetPendingReport(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.New(err.Error(), http.StatusInternalServerError)
	}
	if draft.Username != user.Username && !models.HasPermission(user.Role, models.CanDeleteReports) {
		return nil, errs.ErrForbidden
	}
	return draft, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
