package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"report-service/internal/model"
)

type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (r *CSVRenderer) Format() model.ReportFormat { return model.FormatCSV }

func (r *CSVRenderer) Supports(reportType model.ReportType) bool {
	return supportedType(reportType)
}

func (r *CSVRenderer) Render(reportType model.ReportType, data *model.AggregateResult) (Result, error) {
	doc := newCSVDoc(reportType.Title())

	switch reportType {
	case model.ReportComplianceSummary:
		doc.complianceSummary(data.ComplianceSummary)
	case model.ReportViolationTrend:
		doc.violationTrend(data.ViolationTrend)
	case model.ReportRepeatOffenders:
		doc.repeatOffenders(data.RepeatOffenders)
	case model.ReportZoneAnalysis:
		doc.zoneAnalysis(data.ZoneAnalysis)
	}

	return doc.result()
}

func (r *CSVRenderer) RenderGeneric(reportType model.ReportType) (Result, error) {
	doc := newCSVDoc(reportType.Title())
	doc.write([]string{genericNotice})
	return doc.result()
}

// csvDoc emits blank-line separated sections: a section title row, a column
// header row, then data rows.
type csvDoc struct {
	buf    bytes.Buffer
	writer *csv.Writer
	rows   int
}

func newCSVDoc(title string) *csvDoc {
	doc := &csvDoc{}
	doc.writer = csv.NewWriter(&doc.buf)
	doc.write([]string{title})
	return doc
}

func (d *csvDoc) write(row []string) {
	_ = d.writer.Write(row)
	d.rows++
}

func (d *csvDoc) section(name string, headers []string, rows [][]string) {
	d.write(nil)
	d.write([]string{name})
	d.write(headers)
	for _, row := range rows {
		d.write(row)
	}
}

func (d *csvDoc) result() (Result, error) {
	d.writer.Flush()
	if err := d.writer.Error(); err != nil {
		return Result{}, fmt.Errorf("write csv: %w", err)
	}
	return Result{Bytes: d.buf.Bytes(), Pages: d.rows/rowsPerPage + 1}, nil
}

func (d *csvDoc) complianceSummary(data *model.ComplianceSummary) {
	d.section("Summary", []string{"Metric", "Value"}, [][]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Detections", strconv.FormatInt(data.Summary.TotalDetections, 10)},
		{"Compliance Rate", percent(data.Summary.ComplianceRate)},
		{"Total Violations", strconv.FormatInt(data.Summary.TotalViolations, 10)},
	})

	rows := make([][]string, 0, len(data.PerItemCompliance))
	for _, item := range data.PerItemCompliance {
		rows = append(rows, []string{item.Name, strconv.FormatInt(item.Total, 10), strconv.FormatInt(item.Compliant, 10), percent(item.ComplianceRate)})
	}
	d.section("PPE Compliance", []string{"Item", "Detections", "Compliant", "Rate"}, rows)

	rows = rows[:0]
	for _, day := range data.DailyCompliance {
		rows = append(rows, []string{day.Date, strconv.FormatInt(day.Total, 10), strconv.FormatInt(day.Compliant, 10), strconv.FormatInt(day.Violations, 10)})
	}
	d.section("Daily Compliance", []string{"Date", "Total", "Compliant", "Violations"}, rows)

	rows = rows[:0]
	for _, hour := range data.HourlyCompliance {
		rows = append(rows, []string{fmt.Sprintf("%02d:00", hour.Hour), strconv.FormatInt(hour.Total, 10), strconv.FormatInt(hour.Compliant, 10), percent(hour.ComplianceRate)})
	}
	d.section("Hourly Compliance", []string{"Hour", "Total", "Compliant", "Rate"}, rows)
}

func (d *csvDoc) violationTrend(data *model.ViolationTrend) {
	d.section("Summary", []string{"Metric", "Value"}, [][]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Violations", strconv.FormatInt(data.Summary.TotalViolations, 10)},
		{"Violation Rate", percent(data.Summary.ViolationRate)},
	})

	rows := make([][]string, 0, len(data.DailyViolations))
	for _, day := range data.DailyViolations {
		rows = append(rows, []string{day.Date, strconv.FormatInt(day.Total, 10), strconv.FormatInt(day.Violations, 10)})
	}
	d.section("Daily Violations", []string{"Date", "Total", "Violations"}, rows)

	rows = rows[:0]
	for _, item := range data.ViolationsByItem {
		rows = append(rows, []string{item.Name, strconv.FormatInt(item.Violations, 10)})
	}
	d.section("Violations by PPE Item", []string{"Item", "Violations"}, rows)

	rows = rows[:0]
	for _, hour := range data.HourlyViolations {
		rows = append(rows, []string{fmt.Sprintf("%02d:00", hour.Hour), strconv.FormatInt(hour.Total, 10), strconv.FormatInt(hour.Violations, 10), percent(hour.ViolationRate)})
	}
	d.section("Hourly Violations", []string{"Hour", "Total", "Violations", "Rate"}, rows)

	rows = rows[:0]
	for _, zone := range data.HighRiskZones {
		rows = append(rows, []string{zone.Zone, zone.Location, strconv.FormatInt(zone.Total, 10), strconv.FormatInt(zone.Violations, 10), percent(zone.ViolationRate)})
	}
	d.section("High-Risk Zones", []string{"Zone", "Location", "Total", "Violations", "Rate"}, rows)
}

func (d *csvDoc) repeatOffenders(data *model.RepeatOffenders) {
	d.section("Summary", []string{"Metric", "Value"}, [][]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Offenders", strconv.FormatInt(data.Summary.TotalOffenders, 10)},
		{"Total Incidents", strconv.FormatInt(data.Summary.TotalIncidents, 10)},
	})

	rows := make([][]string, 0, len(data.Offenders))
	for _, off := range data.Offenders {
		rows = append(rows, []string{strconv.Itoa(off.Rank), off.WorkerID, strconv.FormatInt(off.TotalDetections, 10), strconv.FormatInt(off.Violations, 10), percent(off.ViolationRate)})
	}
	d.section("Offenders", []string{"Rank", "Worker", "Detections", "Violations", "Rate"}, rows)

	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, item := range off.ViolationsByType {
			rows = append(rows, []string{off.WorkerID, item.Name, strconv.FormatInt(item.Violations, 10)})
		}
	}
	d.section("Violation Breakdown", []string{"Worker", "Item", "Violations"}, rows)

	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, loc := range off.ViolationsByLocation {
			rows = append(rows, []string{off.WorkerID, loc.Location, loc.Zone, strconv.FormatInt(loc.Violations, 10)})
		}
	}
	d.section("Location Breakdown", []string{"Worker", "Location", "Zone", "Violations"}, rows)
}

func (d *csvDoc) zoneAnalysis(data *model.ZoneAnalysis) {
	d.section("Summary", []string{"Metric", "Value"}, [][]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Zones", strconv.Itoa(data.Summary.TotalZones)},
		{"Average Compliance", percent(data.Summary.AverageComplianceRate)},
		{"Best Zone", data.Summary.BestZone},
		{"Worst Zone", data.Summary.WorstZone},
	})

	rows := make([][]string, 0, len(data.Zones))
	for _, zone := range data.Zones {
		rows = append(rows, []string{zone.ZoneName, zone.LocationName, strconv.FormatInt(zone.TotalDetections, 10), strconv.FormatInt(zone.Compliant, 10), strconv.FormatInt(zone.Violations, 10), percent(zone.ComplianceRate)})
	}
	d.section("Zones", []string{"Zone", "Location", "Total", "Compliant", "Violations", "Rate"}, rows)

	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, item := range zone.PerItemCompliance {
			rows = append(rows, []string{zone.ZoneName, item.Name, strconv.FormatInt(item.Total, 10), strconv.FormatInt(item.Compliant, 10), percent(item.ComplianceRate)})
		}
	}
	d.section("Zone PPE Compliance", []string{"Zone", "Item", "Total", "Compliant", "Rate"}, rows)

	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, day := range zone.TimeSeries {
			rows = append(rows, []string{zone.ZoneName, day.Date, strconv.FormatInt(day.TotalDetections, 10), strconv.FormatInt(day.Compliant, 10), percent(day.ComplianceRate)})
		}
	}
	d.section("Zone Daily Trend", []string{"Zone", "Date", "Total", "Compliant", "Rate"}, rows)
}
