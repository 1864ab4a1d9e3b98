package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"report-service/internal/model"
)

// A4 portrait, millimetre units. A row landing past breakAt forces a page
// break; a new section starting past sectionBreakAt moves to a fresh page so
// its heading is not orphaned at the bottom.
const (
	pageBreakAt    = 270.0
	sectionBreakAt = 250.0
	rowHeight      = 7.0
)

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Format() model.ReportFormat { return model.FormatPDF }

func (r *PDFRenderer) Supports(reportType model.ReportType) bool {
	return supportedType(reportType)
}

func (r *PDFRenderer) Render(reportType model.ReportType, data *model.AggregateResult) (Result, error) {
	doc := newPDFDoc(reportType.Title())

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

func (r *PDFRenderer) RenderGeneric(reportType model.ReportType) (Result, error) {
	doc := newPDFDoc(reportType.Title())
	doc.pdf.SetFont("Helvetica", "", 11)
	doc.pdf.MultiCell(0, rowHeight, genericNotice, "", "L", false)
	return doc.result()
}

type pdfDoc struct {
	pdf *gofpdf.Fpdf
}

func newPDFDoc(title string) *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	return &pdfDoc{pdf: pdf}
}

func (d *pdfDoc) result() (Result, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return Result{}, fmt.Errorf("pdf output: %w", err)
	}
	return Result{Bytes: buf.Bytes(), Pages: d.pdf.PageCount()}, nil
}

func (d *pdfDoc) section(name string) {
	if d.pdf.GetY() > sectionBreakAt {
		d.pdf.AddPage()
	}
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(0, 8, name, "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

func (d *pdfDoc) keyValues(rows [][2]string) {
	for _, row := range rows {
		if d.pdf.GetY() > pageBreakAt {
			d.pdf.AddPage()
		}
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(60, rowHeight, row[0], "", 0, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.CellFormat(0, rowHeight, row[1], "", 1, "L", false, 0, "")
	}
}

func (d *pdfDoc) tableHeader(headers []string, widths []float64) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetFillColor(230, 240, 250)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", 10)
}

// table writes a bordered table, breaking pages as needed and repeating the
// column headers after every break.
func (d *pdfDoc) table(headers []string, widths []float64, rows [][]string) {
	d.tableHeader(headers, widths)
	for _, row := range rows {
		if d.pdf.GetY() > pageBreakAt {
			d.pdf.AddPage()
			d.tableHeader(headers, widths)
		}
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *pdfDoc) complianceSummary(data *model.ComplianceSummary) {
	d.section("Summary")
	d.keyValues([][2]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Detections", strconv.FormatInt(data.Summary.TotalDetections, 10)},
		{"Compliance Rate", percent(data.Summary.ComplianceRate)},
		{"Total Violations", strconv.FormatInt(data.Summary.TotalViolations, 10)},
	})

	d.section("PPE Compliance")
	rows := make([][]string, 0, len(data.PerItemCompliance))
	for _, item := range data.PerItemCompliance {
		rows = append(rows, []string{
			item.Name,
			strconv.FormatInt(item.Total, 10),
			strconv.FormatInt(item.Compliant, 10),
			percent(item.ComplianceRate),
		})
	}
	d.table([]string{"Item", "Detections", "Compliant", "Rate"}, []float64{70, 40, 40, 40}, rows)

	d.section("Daily Compliance")
	rows = rows[:0]
	for _, day := range data.DailyCompliance {
		rows = append(rows, []string{
			day.Date,
			strconv.FormatInt(day.Total, 10),
			strconv.FormatInt(day.Compliant, 10),
			strconv.FormatInt(day.Violations, 10),
		})
	}
	d.table([]string{"Date", "Total", "Compliant", "Violations"}, []float64{50, 46, 47, 47}, rows)

	d.section("Hourly Compliance")
	rows = rows[:0]
	for _, hour := range data.HourlyCompliance {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", hour.Hour),
			strconv.FormatInt(hour.Total, 10),
			strconv.FormatInt(hour.Compliant, 10),
			percent(hour.ComplianceRate),
		})
	}
	d.table([]string{"Hour", "Total", "Compliant", "Rate"}, []float64{50, 46, 47, 47}, rows)
}

func (d *pdfDoc) violationTrend(data *model.ViolationTrend) {
	d.section("Summary")
	d.keyValues([][2]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Violations", strconv.FormatInt(data.Summary.TotalViolations, 10)},
		{"Violation Rate", percent(data.Summary.ViolationRate)},
	})

	d.section("Daily Violations")
	rows := make([][]string, 0, len(data.DailyViolations))
	for _, day := range data.DailyViolations {
		rows = append(rows, []string{
			day.Date,
			strconv.FormatInt(day.Total, 10),
			strconv.FormatInt(day.Violations, 10),
		})
	}
	d.table([]string{"Date", "Total", "Violations"}, []float64{70, 60, 60}, rows)

	d.section("Violations by PPE Item")
	rows = rows[:0]
	for _, item := range data.ViolationsByItem {
		rows = append(rows, []string{item.Name, strconv.FormatInt(item.Violations, 10)})
	}
	d.table([]string{"Item", "Violations"}, []float64{110, 80}, rows)

	d.section("Hourly Violations")
	rows = rows[:0]
	for _, hour := range data.HourlyViolations {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", hour.Hour),
			strconv.FormatInt(hour.Total, 10),
			strconv.FormatInt(hour.Violations, 10),
			percent(hour.ViolationRate),
		})
	}
	d.table([]string{"Hour", "Total", "Violations", "Rate"}, []float64{50, 46, 47, 47}, rows)

	d.section("High-Risk Zones")
	rows = rows[:0]
	for _, zone := range data.HighRiskZones {
		rows = append(rows, []string{
			zone.Zone,
			zone.Location,
			strconv.FormatInt(zone.Total, 10),
			strconv.FormatInt(zone.Violations, 10),
			percent(zone.ViolationRate),
		})
	}
	d.table([]string{"Zone", "Location", "Total", "Violations", "Rate"}, []float64{50, 50, 30, 30, 30}, rows)
}

func (d *pdfDoc) repeatOffenders(data *model.RepeatOffenders) {
	d.section("Summary")
	d.keyValues([][2]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Offenders", strconv.FormatInt(data.Summary.TotalOffenders, 10)},
		{"Total Incidents", strconv.FormatInt(data.Summary.TotalIncidents, 10)},
	})

	d.section("Offenders")
	rows := make([][]string, 0, len(data.Offenders))
	for _, off := range data.Offenders {
		rows = append(rows, []string{
			strconv.Itoa(off.Rank),
			off.WorkerID,
			strconv.FormatInt(off.TotalDetections, 10),
			strconv.FormatInt(off.Violations, 10),
			percent(off.ViolationRate),
		})
	}
	d.table([]string{"Rank", "Worker", "Detections", "Violations", "Rate"}, []float64{20, 60, 40, 35, 35}, rows)

	d.section("Violation Breakdown")
	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, item := range off.ViolationsByType {
			rows = append(rows, []string{off.WorkerID, item.Name, strconv.FormatInt(item.Violations, 10)})
		}
	}
	d.table([]string{"Worker", "Item", "Violations"}, []float64{70, 70, 50}, rows)

	d.section("Location Breakdown")
	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, loc := range off.ViolationsByLocation {
			rows = append(rows, []string{off.WorkerID, loc.Location, loc.Zone, strconv.FormatInt(loc.Violations, 10)})
		}
	}
	d.table([]string{"Worker", "Location", "Zone", "Violations"}, []float64{50, 50, 50, 40}, rows)
}

func (d *pdfDoc) zoneAnalysis(data *model.ZoneAnalysis) {
	d.section("Summary")
	d.keyValues([][2]string{
		{"Date Range", formatRange(data.Summary.DateRange)},
		{"Total Zones", strconv.Itoa(data.Summary.TotalZones)},
		{"Average Compliance", percent(data.Summary.AverageComplianceRate)},
		{"Best Zone", data.Summary.BestZone},
		{"Worst Zone", data.Summary.WorstZone},
	})

	d.section("Zones")
	rows := make([][]string, 0, len(data.Zones))
	for _, zone := range data.Zones {
		rows = append(rows, []string{
			zone.ZoneName,
			zone.LocationName,
			strconv.FormatInt(zone.TotalDetections, 10),
			strconv.FormatInt(zone.Compliant, 10),
			strconv.FormatInt(zone.Violations, 10),
			percent(zone.ComplianceRate),
		})
	}
	d.table([]string{"Zone", "Location", "Total", "Compliant", "Violations", "Rate"}, []float64{40, 40, 28, 28, 28, 26}, rows)

	d.section("Zone PPE Compliance")
	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, item := range zone.PerItemCompliance {
			rows = append(rows, []string{
				zone.ZoneName,
				item.Name,
				strconv.FormatInt(item.Total, 10),
				strconv.FormatInt(item.Compliant, 10),
				percent(item.ComplianceRate),
			})
		}
	}
	d.table([]string{"Zone", "Item", "Total", "Compliant", "Rate"}, []float64{45, 55, 30, 30, 30}, rows)

	d.section("Zone Daily Trend")
	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, day := range zone.TimeSeries {
			rows = append(rows, []string{
				zone.ZoneName,
				day.Date,
				strconv.FormatInt(day.TotalDetections, 10),
				strconv.FormatInt(day.Compliant, 10),
				percent(day.ComplianceRate),
			})
		}
	}
	d.table([]string{"Zone", "Date", "Total", "Compliant", "Rate"}, []float64{45, 55, 30, 30, 30}, rows)
}
