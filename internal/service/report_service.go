package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"report-service/internal/aggregate"
	"report-service/internal/model"
	"report-service/internal/render"
	"report-service/internal/repository"
)

var (
	ErrInvalidRange   = errors.New("invalid date range")
	ErrInvalidRequest = errors.New("invalid request")
	ErrScopeViolation = errors.New("location or zone not owned by team")
	ErrNotFound       = errors.New("not found")
	ErrRenderFailure  = errors.New("render failed")
)

// RecordSource yields compliance detections for a scoped filter.
type RecordSource interface {
	Fetch(ctx context.Context, filter model.ReportFilter) ([]model.ComplianceRecord, error)
}

// ReportStore persists report artifacts and downloads.
type ReportStore interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]model.Report, error)
	UpdatePrimaryFile(ctx context.Context, id uuid.UUID, path string, size int64, pages int) error
	RecordDownload(ctx context.Context, reportID, userID uuid.UUID, format model.ReportFormat, at time.Time) error
}

// ScopeChecker validates that filter dimensions belong to the caller's team.
type ScopeChecker interface {
	LocationBelongsToTeam(ctx context.Context, locationID, teamID uuid.UUID) (bool, error)
	ZoneBelongsToTeam(ctx context.Context, zoneID, teamID uuid.UUID) (bool, error)
}

type ReportService struct {
	records     RecordSource
	reports     ReportStore
	scopes      ScopeChecker
	renderers   *render.Registry
	reportsDir  string
	defaultDays int
	maxDays     int
	log         zerolog.Logger
}

// NewReportService creates the reports directory once, idempotently, instead
// of checking it on every write.
func NewReportService(records RecordSource, reports ReportStore, scopes ScopeChecker, renderers *render.Registry, reportsDir string, defaultDays, maxDays int, log zerolog.Logger) (*ReportService, error) {
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &ReportService{
		records:     records,
		reports:     reports,
		scopes:      scopes,
		renderers:   renderers,
		reportsDir:  reportsDir,
		defaultDays: defaultDays,
		maxDays:     maxDays,
		log:         log,
	}, nil
}

type GenerateInput struct {
	Title       string
	Description string
	Type        model.ReportType
	Formats     []model.ReportFormat
	StartDate   time.Time
	EndDate     time.Time
	LocationID  *uuid.UUID
	ZoneID      *uuid.UUID
}

// Generate runs the aggregation, renders the primary format synchronously,
// persists the artifact and kicks off best-effort renders for the remaining
// formats. Scope is validated before any detection data is read.
func (s *ReportService) Generate(ctx context.Context, principal model.Principal, input GenerateInput) (*model.Report, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown report type %q", ErrInvalidRequest, input.Type)
	}
	formats, err := normalizeFormats(input.Formats)
	if err != nil {
		return nil, err
	}

	if !input.StartDate.IsZero() && !input.EndDate.IsZero() && input.StartDate.After(input.EndDate) {
		return nil, fmt.Errorf("%w: start date after end date", ErrInvalidRange)
	}

	filter := model.ReportFilter{
		TeamID:     principal.TeamID,
		Range:      model.DateRange{From: input.StartDate, To: input.EndDate},
		LocationID: input.LocationID,
		ZoneID:     input.ZoneID,
	}.ClampRange(s.defaultDays, s.maxDays)

	if err := s.checkScope(ctx, principal.TeamID, filter); err != nil {
		return nil, err
	}

	records, err := s.records.Fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	result, err := aggregate.Build(input.Type, records, filter.Range)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	report := &model.Report{
		ID:          uuid.New(),
		TeamID:      principal.TeamID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Formats:     formats,
		Parameters: model.ReportParameters{
			StartDate:  filter.Range.From,
			EndDate:    filter.Range.To,
			LocationID: input.LocationID,
			ZoneID:     input.ZoneID,
		},
		GeneratedOn: time.Now().UTC(),
	}

	primary := formats.Primary()
	rendered, err := s.renderers.Render(primary, input.Type, result)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailure, primary, err)
	}
	path := s.filePath(report.ID, primary)
	if err := os.WriteFile(path, rendered.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("write report file: %w", err)
	}
	report.FilePath = path
	report.FileSize = int64(len(rendered.Bytes))
	report.Pages = rendered.Pages

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	// Secondary formats are fire-and-forget: uncoordinated, never retried,
	// and never cancelled by the request ending. Failures only log.
	for _, format := range formats[1:] {
		go s.renderSecondary(report.ID, format, input.Type, result)
	}

	return report, nil
}

func (s *ReportService) renderSecondary(reportID uuid.UUID, format model.ReportFormat, reportType model.ReportType, result *model.AggregateResult) {
	rendered, err := s.renderers.Render(format, reportType, result)
	if err != nil {
		s.log.Error().Err(err).
			Str("report_id", reportID.String()).
			Str("format", string(format)).
			Msg("secondary render failed")
		return
	}
	path := s.filePath(reportID, format)
	if err := os.WriteFile(path, rendered.Bytes, 0o644); err != nil {
		s.log.Error().Err(err).
			Str("report_id", reportID.String()).
			Str("format", string(format)).
			Msg("secondary write failed")
	}
}

// Download is one served file: bytes plus transport metadata.
type Download struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Download serves an on-disk file verbatim when the requested format already
// exists. Otherwise it regenerates from current live data using the stored
// filter, which can drift from the originally generated file.
func (s *ReportService) Download(ctx context.Context, principal model.Principal, reportID uuid.UUID, format model.ReportFormat) (*Download, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if report.TeamID != principal.TeamID {
		return nil, ErrNotFound
	}

	if format == "" {
		format = report.Formats.Primary()
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, format)
	}

	path := s.filePath(report.ID, format)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = s.regenerate(ctx, report, format, path)
	}
	if err != nil {
		return nil, err
	}

	if err := s.reports.RecordDownload(ctx, report.ID, principal.UserID, format, time.Now().UTC()); err != nil {
		s.log.Error().Err(err).Str("report_id", report.ID.String()).Msg("record download failed")
	}

	return &Download{
		Data:        data,
		Filename:    downloadFilename(report.Title, format),
		ContentType: format.ContentType(),
	}, nil
}

func (s *ReportService) regenerate(ctx context.Context, report *model.Report, format model.ReportFormat, path string) ([]byte, error) {
	filter := model.ReportFilter{
		TeamID:     report.TeamID,
		Range:      model.DateRange{From: report.Parameters.StartDate, To: report.Parameters.EndDate},
		LocationID: report.Parameters.LocationID,
		ZoneID:     report.Parameters.ZoneID,
	}

	records, err := s.records.Fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	result, err := aggregate.Build(report.Type, records, filter.Range)
	if err != nil {
		return nil, err
	}
	rendered, err := s.renderers.Render(format, report.Type, result)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailure, format, err)
	}
	if err := os.WriteFile(path, rendered.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("write report file: %w", err)
	}

	// Persist the new path only for a missing primary file; a secondary
	// regeneration never touches the artifact's primary metadata.
	if format == report.Formats.Primary() && !fileExists(report.FilePath) {
		if err := s.reports.UpdatePrimaryFile(ctx, report.ID, path, int64(len(rendered.Bytes)), rendered.Pages); err != nil {
			s.log.Error().Err(err).Str("report_id", report.ID.String()).Msg("update primary file failed")
		}
	}

	return rendered.Bytes, nil
}

func (s *ReportService) GetReport(ctx context.Context, principal model.Principal, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if report.TeamID != principal.TeamID {
		return nil, ErrNotFound
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, principal model.Principal) ([]model.Report, error) {
	return s.reports.ListByTeam(ctx, principal.TeamID)
}

func (s *ReportService) checkScope(ctx context.Context, teamID uuid.UUID, filter model.ReportFilter) error {
	if filter.LocationID != nil {
		owned, err := s.scopes.LocationBelongsToTeam(ctx, *filter.LocationID, teamID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrScopeViolation
		}
	}
	if filter.ZoneID != nil {
		owned, err := s.scopes.ZoneBelongsToTeam(ctx, *filter.ZoneID, teamID)
		if err != nil {
			return err
		}
		if !owned {
			return ErrScopeViolation
		}
	}
	return nil
}

func (s *ReportService) filePath(reportID uuid.UUID, format model.ReportFormat) string {
	name := fmt.Sprintf("%s_%s.%s", reportID, strings.ToLower(string(format)), format.FileExtension())
	return filepath.Join(s.reportsDir, name)
}

func normalizeFormats(formats []model.ReportFormat) (model.FormatList, error) {
	if len(formats) == 0 {
		return model.FormatList{model.FormatPDF}, nil
	}
	out := make(model.FormatList, 0, len(formats))
	for _, f := range formats {
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, f)
		}
		if !out.Contains(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

var filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func downloadFilename(title string, format model.ReportFormat) string {
	sanitized := filenameUnsafe.ReplaceAllString(title, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "report"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, time.Now().UTC().Format("2006-01-02"), format.FileExtension())
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
