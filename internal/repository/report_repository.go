package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"report-service/internal/model"
)

var ErrReportNotFound = errors.New("report not found")

// ReportRepository persists report artifacts and their download log.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("generated_on DESC").
		Find(&reports).Error
	return reports, err
}

// UpdatePrimaryFile persists a (re)generated primary file's path, size and
// page count. Concurrent regenerations race here; last writer wins.
func (r *ReportRepository) UpdatePrimaryFile(ctx context.Context, id uuid.UUID, path string, size int64, pages int) error {
	return r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"file_path": path,
			"file_size": size,
			"pages":     pages,
		}).Error
}

func (r *ReportRepository) RecordDownload(ctx context.Context, reportID, userID uuid.UUID, format model.ReportFormat, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		download := model.ReportDownload{
			ID:           uuid.New(),
			ReportID:     reportID,
			UserID:       userID,
			Format:       format,
			DownloadedAt: at,
		}
		if err := tx.Create(&download).Error; err != nil {
			return err
		}
		return tx.Model(&model.Report{}).
			Where("id = ?", reportID).
			UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
	})
}
