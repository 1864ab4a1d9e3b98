package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportComplianceSummary ReportType = "COMPLIANCE_SUMMARY"
	ReportViolationTrend    ReportType = "VIOLATION_TREND"
	ReportRepeatOffenders   ReportType = "REPEAT_OFFENDERS"
	ReportZoneAnalysis      ReportType = "ZONE_ANALYSIS"
)

func (t ReportType) IsValid() bool {
	switch t {
	case ReportComplianceSummary, ReportViolationTrend, ReportRepeatOffenders, ReportZoneAnalysis:
		return true
	}
	return false
}

// Title returns the human heading used by all three renderers.
func (t ReportType) Title() string {
	switch t {
	case ReportComplianceSummary:
		return "PPE Compliance Summary"
	case ReportViolationTrend:
		return "Violation Trend Analysis"
	case ReportRepeatOffenders:
		return "Repeat Offenders"
	case ReportZoneAnalysis:
		return "Zone & Location Analysis"
	default:
		return string(t)
	}
}

type ReportFormat string

const (
	FormatPDF   ReportFormat = "PDF"
	FormatExcel ReportFormat = "EXCEL"
	FormatCSV   ReportFormat = "CSV"
)

func (f ReportFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatExcel, FormatCSV:
		return true
	}
	return false
}

func (f ReportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func (f ReportFormat) FileExtension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatExcel:
		return "xlsx"
	case FormatCSV:
		return "csv"
	default:
		return "bin"
	}
}

// FormatList is the ordered set of requested formats, stored as a
// comma-separated text column. The first entry is the primary format.
type FormatList []ReportFormat

func (l FormatList) Primary() ReportFormat {
	if len(l) == 0 {
		return FormatPDF
	}
	return l[0]
}

func (l FormatList) Contains(f ReportFormat) bool {
	for _, have := range l {
		if have == f {
			return true
		}
	}
	return false
}

func (l FormatList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, f := range l {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ","), nil
}

func (l *FormatList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported format list type %T", src)
	}
	if raw == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(FormatList, 0, len(parts))
	for _, p := range parts {
		out = append(out, ReportFormat(strings.TrimSpace(p)))
	}
	*l = out
	return nil
}

// ReportParameters is the filter a report was generated with, persisted as
// jsonb so a later download can regenerate a missing format.
type ReportParameters struct {
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	LocationID *uuid.UUID `json:"location_id,omitempty"`
	ZoneID     *uuid.UUID `json:"zone_id,omitempty"`
}

func (p ReportParameters) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ReportParameters) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = ReportParameters{}
		return nil
	default:
		return fmt.Errorf("unsupported parameters type %T", src)
	}
}

// Report is the persisted artifact for one generate request. Only the primary
// format's file is guaranteed on disk; secondary formats are best effort.
type Report struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeamID        uuid.UUID        `gorm:"column:team_id;type:uuid;index" json:"team_id"`
	Title         string           `gorm:"column:title" json:"title"`
	Description   string           `gorm:"column:description" json:"description,omitempty"`
	Type          ReportType       `gorm:"column:type" json:"type"`
	Formats       FormatList       `gorm:"column:formats;type:text" json:"formats"`
	FilePath      string           `gorm:"column:file_path" json:"file_path,omitempty"`
	FileSize      int64            `gorm:"column:file_size" json:"file_size"`
	Pages         int              `gorm:"column:pages" json:"pages"`
	Parameters    ReportParameters `gorm:"column:parameters;type:jsonb" json:"parameters"`
	DownloadCount int64            `gorm:"column:download_count" json:"download_count"`
	GeneratedOn   time.Time        `gorm:"column:generated_on" json:"generated_on"`
}

func (Report) TableName() string { return "reports" }

// ReportDownload logs one served download.
type ReportDownload struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportID     uuid.UUID    `gorm:"column:report_id;type:uuid;index"`
	UserID       uuid.UUID    `gorm:"column:user_id;type:uuid"`
	Format       ReportFormat `gorm:"column:format"`
	DownloadedAt time.Time    `gorm:"column:downloaded_at"`
}

func (ReportDownload) TableName() string { return "report_downloads" }
