package model

import (
	"time"

	"github.com/google/uuid"
)

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AggregateResult is the renderer-agnostic statistical view computed for one
// report type. Exactly one variant pointer is set, matching Type.
type AggregateResult struct {
	Type              ReportType         `json:"type"`
	ComplianceSummary *ComplianceSummary `json:"compliance_summary,omitempty"`
	ViolationTrend    *ViolationTrend    `json:"violation_trend,omitempty"`
	RepeatOffenders   *RepeatOffenders   `json:"repeat_offenders,omitempty"`
	ZoneAnalysis      *ZoneAnalysis      `json:"zone_analysis,omitempty"`
}

type ComplianceSummary struct {
	Summary           ComplianceTotals  `json:"summary"`
	DailyCompliance   []DailyCompliance `json:"daily_compliance"`
	PerItemCompliance []ItemCompliance  `json:"per_item_compliance"`
	HourlyCompliance  []HourlyRate      `json:"hourly_compliance"`
}

type ComplianceTotals struct {
	TotalDetections int64     `json:"total_detections"`
	ComplianceRate  float64   `json:"compliance_rate"`
	TotalViolations int64     `json:"total_violations"`
	DateRange       DateRange `json:"date_range"`
}

type DailyCompliance struct {
	Date       string `json:"date"`
	Total      int64  `json:"total"`
	Compliant  int64  `json:"compliant"`
	Violations int64  `json:"violations"`
}

type ItemCompliance struct {
	Name           string  `json:"name"`
	Total          int64   `json:"total"`
	Compliant      int64   `json:"compliant"`
	ComplianceRate float64 `json:"compliance_rate"`
}

type HourlyRate struct {
	Hour           int     `json:"hour"`
	Total          int64   `json:"total"`
	Compliant      int64   `json:"compliant"`
	ComplianceRate float64 `json:"compliance_rate"`
}

type ViolationTrend struct {
	Summary          ViolationTotals   `json:"summary"`
	DailyViolations  []DailyCompliance `json:"daily_violations"`
	ViolationsByItem []ItemViolations  `json:"violations_by_item"`
	HourlyViolations []HourlyViolation `json:"hourly_violations"`
	HighRiskZones    []ZoneViolations  `json:"high_risk_zones"`
}

type ViolationTotals struct {
	TotalViolations int64     `json:"total_violations"`
	ViolationRate   float64   `json:"violation_rate"`
	DateRange       DateRange `json:"date_range"`
}

type ItemViolations struct {
	Name       string `json:"name"`
	Violations int64  `json:"violations"`
}

type HourlyViolation struct {
	Hour          int     `json:"hour"`
	Total         int64   `json:"total"`
	Violations    int64   `json:"violations"`
	ViolationRate float64 `json:"violation_rate"`
}

type ZoneViolations struct {
	Zone          string  `json:"zone"`
	Location      string  `json:"location"`
	Total         int64   `json:"total"`
	Violations    int64   `json:"violations"`
	ViolationRate float64 `json:"violation_rate"`
}

type RepeatOffenders struct {
	Summary   OffenderTotals `json:"summary"`
	Offenders []Offender     `json:"offenders"`
}

type OffenderTotals struct {
	TotalOffenders int64     `json:"total_offenders"`
	TotalIncidents int64     `json:"total_incidents"`
	DateRange      DateRange `json:"date_range"`
}

// Offender is one ranked worker. ViolationsByType and ViolationsByLocation are
// only populated for the ten worst offenders.
type Offender struct {
	WorkerID             string               `json:"worker_id"`
	TotalDetections      int64                `json:"total_detections"`
	Violations           int64                `json:"violations"`
	ViolationRate        float64              `json:"violation_rate"`
	Rank                 int                  `json:"rank"`
	ViolationsByType     []ItemViolations     `json:"violations_by_type,omitempty"`
	ViolationsByLocation []LocationViolations `json:"violations_by_location,omitempty"`
}

type LocationViolations struct {
	Location   string `json:"location"`
	Zone       string `json:"zone"`
	Violations int64  `json:"violations"`
}

type ZoneAnalysis struct {
	Summary ZoneAnalysisTotals `json:"summary"`
	Zones   []ZoneReport       `json:"zones"`
}

type ZoneAnalysisTotals struct {
	TotalZones            int       `json:"total_zones"`
	AverageComplianceRate float64   `json:"average_compliance_rate"`
	BestZone              string    `json:"best_zone"`
	WorstZone             string    `json:"worst_zone"`
	DateRange             DateRange `json:"date_range"`
}

type ZoneReport struct {
	ZoneID            uuid.UUID        `json:"zone_id"`
	ZoneName          string           `json:"zone_name"`
	LocationID        uuid.UUID        `json:"location_id"`
	LocationName      string           `json:"location_name"`
	TotalDetections   int64            `json:"total_detections"`
	Compliant         int64            `json:"compliant"`
	Violations        int64            `json:"violations"`
	ComplianceRate    float64          `json:"compliance_rate"`
	PerItemCompliance []ItemCompliance `json:"per_item_compliance"`
	TimeSeries        []ZoneDay        `json:"time_series"`
}

type ZoneDay struct {
	Date            string  `json:"date"`
	TotalDetections int64   `json:"total_detections"`
	Compliant       int64   `json:"compliant"`
	ComplianceRate  float64 `json:"compliance_rate"`
}
