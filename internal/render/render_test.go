package render

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"report-service/internal/model"
)

var fixtureRange = model.DateRange{
	From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
}

func summaryFixture() *model.AggregateResult {
	return &model.AggregateResult{
		Type: model.ReportComplianceSummary,
		ComplianceSummary: &model.ComplianceSummary{
			Summary: model.ComplianceTotals{
				TotalDetections: 3,
				ComplianceRate:  66.7,
				TotalViolations: 1,
				DateRange:       fixtureRange,
			},
			DailyCompliance: []model.DailyCompliance{
				{Date: "2025-06-01", Total: 2, Compliant: 1, Violations: 1},
				{Date: "2025-06-02", Total: 1, Compliant: 1},
			},
			PerItemCompliance: []model.ItemCompliance{
				{Name: "Vest", Total: 3, Compliant: 2, ComplianceRate: 66.7},
			},
			HourlyCompliance: []model.HourlyRate{
				{Hour: 0}, {Hour: 9, Total: 2, Compliant: 1, ComplianceRate: 50},
			},
		},
	}
}

func trendFixture() *model.AggregateResult {
	return &model.AggregateResult{
		Type: model.ReportViolationTrend,
		ViolationTrend: &model.ViolationTrend{
			Summary: model.ViolationTotals{TotalViolations: 2, ViolationRate: 66.7, DateRange: fixtureRange},
			DailyViolations: []model.DailyCompliance{
				{Date: "2025-06-01", Total: 2, Violations: 2},
			},
			ViolationsByItem: []model.ItemViolations{{Name: "Vest", Violations: 2}},
			HourlyViolations: []model.HourlyViolation{{Hour: 9, Total: 2, Violations: 1, ViolationRate: 50}},
			HighRiskZones: []model.ZoneViolations{
				{Zone: "Assembly", Location: "Site 1", Total: 2, Violations: 2, ViolationRate: 100},
			},
		},
	}
}

func offendersFixture() *model.AggregateResult {
	return &model.AggregateResult{
		Type: model.ReportRepeatOffenders,
		RepeatOffenders: &model.RepeatOffenders{
			Summary: model.OffenderTotals{TotalOffenders: 1, TotalIncidents: 3, DateRange: fixtureRange},
			Offenders: []model.Offender{
				{
					WorkerID:        "W1",
					TotalDetections: 4,
					Violations:      3,
					ViolationRate:   75,
					Rank:            1,
					ViolationsByType: []model.ItemViolations{
						{Name: "Vest", Violations: 3},
					},
					ViolationsByLocation: []model.LocationViolations{
						{Location: "Site 1", Zone: "Assembly", Violations: 3},
					},
				},
			},
		},
	}
}

func zonesFixture() *model.AggregateResult {
	return &model.AggregateResult{
		Type: model.ReportZoneAnalysis,
		ZoneAnalysis: &model.ZoneAnalysis{
			Summary: model.ZoneAnalysisTotals{
				TotalZones:            2,
				AverageComplianceRate: 75,
				BestZone:              "Warehouse",
				WorstZone:             "Assembly",
				DateRange:             fixtureRange,
			},
			Zones: []model.ZoneReport{
				{
					ZoneID:          uuid.New(),
					ZoneName:        "Assembly",
					LocationID:      uuid.New(),
					LocationName:    "Site 1",
					TotalDetections: 2,
					Compliant:       1,
					Violations:      1,
					ComplianceRate:  50,
					PerItemCompliance: []model.ItemCompliance{
						{Name: "Vest", Total: 2, Compliant: 1, ComplianceRate: 50},
					},
					TimeSeries: []model.ZoneDay{
						{Date: "2025-06-01", TotalDetections: 2, Compliant: 1, ComplianceRate: 50},
					},
				},
				{
					ZoneID:          uuid.New(),
					ZoneName:        "Warehouse",
					LocationID:      uuid.New(),
					LocationName:    "Site 2",
					TotalDetections: 1,
					Compliant:       1,
					ComplianceRate:  100,
				},
			},
		},
	}
}

func allFixtures() map[model.ReportType]*model.AggregateResult {
	return map[model.ReportType]*model.AggregateResult{
		model.ReportComplianceSummary: summaryFixture(),
		model.ReportViolationTrend:    trendFixture(),
		model.ReportRepeatOffenders:   offendersFixture(),
		model.ReportZoneAnalysis:      zonesFixture(),
	}
}

func TestCSVRenderer_RoundTrip(t *testing.T) {
	res, err := NewCSVRenderer().Render(model.ReportComplianceSummary, summaryFixture())
	require.NoError(t, err)
	require.NotEmpty(t, res.Bytes)
	assert.GreaterOrEqual(t, res.Pages, 1)

	reader := csv.NewReader(bytes.NewReader(res.Bytes))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"PPE Compliance Summary"}, records[0])

	values := make(map[string]string)
	for _, rec := range records {
		if len(rec) == 2 {
			values[rec[0]] = rec[1]
		}
	}
	assert.Equal(t, "3", values["Total Detections"])
	assert.Equal(t, "66.7%", values["Compliance Rate"])
	assert.Equal(t, "1", values["Total Violations"])
	assert.Equal(t, "2025-06-01 to 2025-06-07", values["Date Range"])

	sections := make(map[string]bool)
	for _, rec := range records {
		if len(rec) == 1 {
			sections[rec[0]] = true
		}
	}
	for _, name := range []string{"Summary", "PPE Compliance", "Daily Compliance", "Hourly Compliance"} {
		assert.True(t, sections[name], "missing section %s", name)
	}
}

func TestCSVRenderer_AllTypes(t *testing.T) {
	r := NewCSVRenderer()
	for reportType, data := range allFixtures() {
		res, err := r.Render(reportType, data)
		require.NoError(t, err, reportType)
		assert.Contains(t, string(res.Bytes), reportType.Title())
	}
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	for reportType, data := range allFixtures() {
		res, err := r.Render(reportType, data)
		require.NoError(t, err, reportType)
		assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")), "%s output is not a PDF", reportType)
		assert.GreaterOrEqual(t, res.Pages, 1)
	}
}

func TestExcelRenderer(t *testing.T) {
	res, err := NewExcelRenderer().Render(model.ReportViolationTrend, trendFixture())
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(res.Bytes))
	require.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	assert.NotContains(t, sheets, "Sheet1")
	for _, name := range []string{"Summary", "Daily Violations", "Violations by PPE Item", "Hourly Violations", "High-Risk Zones"} {
		assert.Contains(t, sheets, name)
	}

	cell, err := file.GetCellValue("High-Risk Zones", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Assembly", cell)
}

func TestRegistry_GenericFallback(t *testing.T) {
	registry := DefaultRegistry()

	res, err := registry.Render(model.FormatCSV, "WEEKLY_DIGEST", nil)
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), genericNotice)

	res, err = registry.Render(model.FormatPDF, "WEEKLY_DIGEST", nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF")))

	res, err = registry.Render(model.FormatExcel, "WEEKLY_DIGEST", nil)
	require.NoError(t, err)
	_, err = excelize.OpenReader(bytes.NewReader(res.Bytes))
	assert.NoError(t, err)
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := DefaultRegistry().Render("DOCX", model.ReportComplianceSummary, summaryFixture())
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0.0%", percent(0))
	assert.Equal(t, "66.7%", percent(66.7))
	assert.Equal(t, "100.0%", percent(100))
}
