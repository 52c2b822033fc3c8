package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository stores submitted reports as JSON documents, one per
// intervention key.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *models.Report) (*models.Report, error)
	GetAllReports(ctx context.Context) ([]models.Report, error)
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	GetReportsByUser(ctx context.Context, username string) ([]models.Report, error)
	CountReportsByUserSince(ctx context.Context, username string, since time.Time) (int64, error)
	DeleteReport(ctx context.Context, id string) error
	AppendImages(ctx context.Context, id string, urls ...string) (*models.Report, error)
}

type reportRepo struct {
	DB  *gorm.DB
	log *zap.Logger
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{DB: db.DB, log: db.Log}
}

// SaveReport assigns an id, storage key and creation time when missing and
// stores the report.
func (r *reportRepo) SaveReport(ctx context.Context, report *models.Report) (*models.Report, error) {
	record := &models.ReportRecord{ID: uuid.New()}
	if report.ID == "" {
		report.ID = models.StorageKeyPrefix + record.ID.String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, "encoding report")
	}
	record.StorageKey = report.ID
	record.CreatedBy = report.CreatedBy
	record.Region = report.Region
	record.Payload = string(payload)
	record.CreatedAt = report.CreatedAt

	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return nil, errors.Wrap(err, "saving report")
	}
	return report, nil
}

// GetAllReports decodes every stored report. Records that cannot be decoded
// are logged and skipped.
func (r *reportRepo) GetAllReports(ctx context.Context) ([]models.Report, error) {
	var records []models.ReportRecord
	if err := r.DB.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "loading reports")
	}
	return r.decodeAll(records), nil
}

func (r *reportRepo) GetReportsByUser(ctx context.Context, username string) ([]models.Report, error) {
	var records []models.ReportRecord
	err := r.DB.WithContext(ctx).Where("created_by = ?", username).Order("created_at asc").Find(&records).Error
	if err != nil {
		return nil, errors.Wrapf(err, "loading reports of %s", username)
	}
	return r.decodeAll(records), nil
}

func (r *reportRepo) CountReportsByUserSince(ctx context.Context, username string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.ReportRecord{}).
		Where("created_by = ? AND created_at >= ?", username, since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting reports")
	}
	return count, nil
}

func (r *reportRepo) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	record, err := r.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	report, err := decodeRecord(record)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) DeleteReport(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("storage_key = ?", id).Delete(&models.ReportRecord{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting report")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendImages adds image URLs to a report. Images are the only part of a
// report that changes after submission. The row is locked while the list is
// rewritten so concurrent uploads do not drop each other's URLs.
func (r *reportRepo) AppendImages(ctx context.Context, id string, urls ...string) (*models.Report, error) {
	var report *models.Report
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.ReportRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("storage_key = ?", id).First(&record).Error; err != nil {
			return err
		}
		decoded, err := decodeRecord(&record)
		if err != nil {
			return err
		}
		decoded.Images = append(decoded.Images, urls...)
		payload, err := json.Marshal(decoded)
		if err != nil {
			return errors.Wrap(err, "encoding report")
		}
		report = decoded
		return tx.Model(&record).Update("payload", string(payload)).Error
	})
	if err != nil {
		return nil, errors.Wrapf(err, "updating images of %s", id)
	}
	return report, nil
}

func (r *reportRepo) findRecord(ctx context.Context, id string) (*models.ReportRecord, error) {
	record := &models.ReportRecord{}
	if err := r.DB.WithContext(ctx).Where("storage_key = ?", id).First(record).Error; err != nil {
		return nil, errors.Wrapf(err, "could not find report %s", id)
	}
	return record, nil
}

func (r *reportRepo) decodeAll(records []models.ReportRecord) []models.Report {
	reports := make([]models.Report, 0, len(records))
	skipped := 0
	for i := range records {
		report, err := decodeRecord(&records[i])
		if err != nil {
			skipped++
			r.log.Warn("skipping stored report", zap.String("key", records[i].StorageKey), zap.Error(err))
			continue
		}
		reports = append(reports, *report)
	}
	if skipped > 0 {
		r.log.Warn("some stored reports could not be read", zap.Int("skipped", skipped), zap.Int("loaded", len(reports)))
	}
	return reports
}

func decodeRecord(record *models.ReportRecord) (*models.Report, error) {
	var report models.Report
	if err := json.Unmarshal([]byte(record.Payload), &report); err != nil {
		return nil, errors.Wrapf(errs.ErrMalformedRecord, "%s: %v", record.StorageKey, err)
	}
	if report.ID == "" {
		report.ID = record.StorageKey
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = record.CreatedAt
	}
	if report.CreatedBy == "" {
		report.CreatedBy = record.CreatedBy
	}
	return &report, nil
}
