// Package aggregate computes the four statistical report views from raw
// compliance records. All functions are total: an empty record set yields a
// structurally valid result with zero counts and zero rates.
//
// Day keys and hour buckets are taken in UTC so the same record set always
// aggregates identically regardless of server timezone.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"report-service/internal/model"
)

const dayKeyLayout = "2006-01-02"

// Build dispatches to the aggregation for the given report type.
func Build(reportType model.ReportType, records []model.ComplianceRecord, rng model.DateRange) (*model.AggregateResult, error) {
	switch reportType {
	case model.ReportComplianceSummary:
		return &model.AggregateResult{
			Type:              reportType,
			ComplianceSummary: BuildComplianceSummary(records, rng),
		}, nil
	case model.ReportViolationTrend:
		return &model.AggregateResult{
			Type:           reportType,
			ViolationTrend: BuildViolationTrend(records, rng),
		}, nil
	case model.ReportRepeatOffenders:
		return &model.AggregateResult{
			Type:            reportType,
			RepeatOffenders: BuildRepeatOffenders(records, rng),
		}, nil
	case model.ReportZoneAnalysis:
		return &model.AggregateResult{
			Type:         reportType,
			ZoneAnalysis: BuildZoneAnalysis(records, rng),
		}, nil
	default:
		return nil, fmt.Errorf("unknown report type %q", reportType)
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

func hourOf(t time.Time) int {
	return t.UTC().Hour()
}

// rate returns part/total*100 rounded to one decimal, 0 when total is 0.
func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func sortedDays(keys map[string]struct{}) []string {
	days := make([]string, 0, len(keys))
	for d := range keys {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
