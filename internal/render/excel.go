package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"report-service/internal/model"
)

// Heuristic page estimate for non-paginated formats: rows per printed page.
const rowsPerPage = 40

type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

func (r *ExcelRenderer) Format() model.ReportFormat { return model.FormatExcel }

func (r *ExcelRenderer) Supports(reportType model.ReportType) bool {
	return supportedType(reportType)
}

func (r *ExcelRenderer) Render(reportType model.ReportType, data *model.AggregateResult) (Result, error) {
	wb := newWorkbook()

	var err error
	switch reportType {
	case model.ReportComplianceSummary:
		err = wb.complianceSummary(data.ComplianceSummary)
	case model.ReportViolationTrend:
		err = wb.violationTrend(data.ViolationTrend)
	case model.ReportRepeatOffenders:
		err = wb.repeatOffenders(data.RepeatOffenders)
	case model.ReportZoneAnalysis:
		err = wb.zoneAnalysis(data.ZoneAnalysis)
	}
	if err != nil {
		wb.file.Close()
		return Result{}, err
	}

	return wb.result()
}

func (r *ExcelRenderer) RenderGeneric(reportType model.ReportType) (Result, error) {
	wb := newWorkbook()
	if err := wb.sheet(reportType.Title(), []string{"Notice"}, []float64{90}, [][]interface{}{{genericNotice}}); err != nil {
		wb.file.Close()
		return Result{}, err
	}
	return wb.result()
}

type workbook struct {
	file     *excelize.File
	dataRows int
}

func newWorkbook() *workbook {
	return &workbook{file: excelize.NewFile()}
}

// sheet appends one worksheet with a styled header row, fixed column widths
// and a frozen header pane.
func (w *workbook) sheet(name string, headers []string, widths []float64, rows [][]interface{}) error {
	index, err := w.file.NewSheet(name)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.file.SetActiveSheet(index)

	headerStyle, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := w.file.SetCellValue(name, cell, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := w.file.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("convert column number: %w", err)
		}
		width := 18.0
		if col < len(widths) && widths[col] > 0 {
			width = widths[col]
		}
		if err := w.file.SetColWidth(name, colName, colName, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("convert coordinates: %w", err)
			}
			if err := w.file.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	w.dataRows += len(rows)

	return w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *workbook) result() (Result, error) {
	w.file.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if _, err := w.file.WriteTo(&buf); err != nil {
		w.file.Close()
		return Result{}, fmt.Errorf("write workbook: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return Result{}, fmt.Errorf("close workbook: %w", err)
	}
	return Result{Bytes: buf.Bytes(), Pages: w.dataRows/rowsPerPage + 1}, nil
}

func (w *workbook) complianceSummary(data *model.ComplianceSummary) error {
	if err := w.sheet("Summary",
		[]string{"Metric", "Value"}, []float64{28, 28},
		[][]interface{}{
			{"Date Range", formatRange(data.Summary.DateRange)},
			{"Total Detections", data.Summary.TotalDetections},
			{"Compliance Rate", percent(data.Summary.ComplianceRate)},
			{"Total Violations", data.Summary.TotalViolations},
		}); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(data.PerItemCompliance))
	for _, item := range data.PerItemCompliance {
		rows = append(rows, []interface{}{item.Name, item.Total, item.Compliant, percent(item.ComplianceRate)})
	}
	if err := w.sheet("PPE Compliance",
		[]string{"Item", "Detections", "Compliant", "Rate"}, []float64{24, 14, 14, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, day := range data.DailyCompliance {
		rows = append(rows, []interface{}{day.Date, day.Total, day.Compliant, day.Violations})
	}
	if err := w.sheet("Daily Compliance",
		[]string{"Date", "Total", "Compliant", "Violations"}, []float64{14, 12, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, hour := range data.HourlyCompliance {
		rows = append(rows, []interface{}{fmt.Sprintf("%02d:00", hour.Hour), hour.Total, hour.Compliant, percent(hour.ComplianceRate)})
	}
	return w.sheet("Hourly Compliance",
		[]string{"Hour", "Total", "Compliant", "Rate"}, []float64{10, 12, 12, 12}, rows)
}

func (w *workbook) violationTrend(data *model.ViolationTrend) error {
	if err := w.sheet("Summary",
		[]string{"Metric", "Value"}, []float64{28, 28},
		[][]interface{}{
			{"Date Range", formatRange(data.Summary.DateRange)},
			{"Total Violations", data.Summary.TotalViolations},
			{"Violation Rate", percent(data.Summary.ViolationRate)},
		}); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(data.DailyViolations))
	for _, day := range data.DailyViolations {
		rows = append(rows, []interface{}{day.Date, day.Total, day.Violations})
	}
	if err := w.sheet("Daily Violations",
		[]string{"Date", "Total", "Violations"}, []float64{14, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, item := range data.ViolationsByItem {
		rows = append(rows, []interface{}{item.Name, item.Violations})
	}
	if err := w.sheet("Violations by PPE Item",
		[]string{"Item", "Violations"}, []float64{24, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, hour := range data.HourlyViolations {
		rows = append(rows, []interface{}{fmt.Sprintf("%02d:00", hour.Hour), hour.Total, hour.Violations, percent(hour.ViolationRate)})
	}
	if err := w.sheet("Hourly Violations",
		[]string{"Hour", "Total", "Violations", "Rate"}, []float64{10, 12, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, zone := range data.HighRiskZones {
		rows = append(rows, []interface{}{zone.Zone, zone.Location, zone.Total, zone.Violations, percent(zone.ViolationRate)})
	}
	return w.sheet("High-Risk Zones",
		[]string{"Zone", "Location", "Total", "Violations", "Rate"}, []float64{20, 20, 12, 12, 12}, rows)
}

func (w *workbook) repeatOffenders(data *model.RepeatOffenders) error {
	if err := w.sheet("Summary",
		[]string{"Metric", "Value"}, []float64{28, 28},
		[][]interface{}{
			{"Date Range", formatRange(data.Summary.DateRange)},
			{"Total Offenders", data.Summary.TotalOffenders},
			{"Total Incidents", data.Summary.TotalIncidents},
		}); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(data.Offenders))
	for _, off := range data.Offenders {
		rows = append(rows, []interface{}{off.Rank, off.WorkerID, off.TotalDetections, off.Violations, percent(off.ViolationRate)})
	}
	if err := w.sheet("Offenders",
		[]string{"Rank", "Worker", "Detections", "Violations", "Rate"}, []float64{8, 24, 12, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, item := range off.ViolationsByType {
			rows = append(rows, []interface{}{off.WorkerID, item.Name, item.Violations})
		}
	}
	if err := w.sheet("Violation Breakdown",
		[]string{"Worker", "Item", "Violations"}, []float64{24, 24, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, off := range data.Offenders {
		for _, loc := range off.ViolationsByLocation {
			rows = append(rows, []interface{}{off.WorkerID, loc.Location, loc.Zone, loc.Violations})
		}
	}
	return w.sheet("Location Breakdown",
		[]string{"Worker", "Location", "Zone", "Violations"}, []float64{24, 20, 20, 12}, rows)
}

func (w *workbook) zoneAnalysis(data *model.ZoneAnalysis) error {
	if err := w.sheet("Summary",
		[]string{"Metric", "Value"}, []float64{28, 28},
		[][]interface{}{
			{"Date Range", formatRange(data.Summary.DateRange)},
			{"Total Zones", data.Summary.TotalZones},
			{"Average Compliance", percent(data.Summary.AverageComplianceRate)},
			{"Best Zone", data.Summary.BestZone},
			{"Worst Zone", data.Summary.WorstZone},
		}); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(data.Zones))
	for _, zone := range data.Zones {
		rows = append(rows, []interface{}{zone.ZoneName, zone.LocationName, zone.TotalDetections, zone.Compliant, zone.Violations, percent(zone.ComplianceRate)})
	}
	if err := w.sheet("Zones",
		[]string{"Zone", "Location", "Total", "Compliant", "Violations", "Rate"}, []float64{20, 20, 12, 12, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, item := range zone.PerItemCompliance {
			rows = append(rows, []interface{}{zone.ZoneName, item.Name, item.Total, item.Compliant, percent(item.ComplianceRate)})
		}
	}
	if err := w.sheet("Zone PPE Compliance",
		[]string{"Zone", "Item", "Total", "Compliant", "Rate"}, []float64{20, 24, 12, 12, 12}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, zone := range data.Zones {
		for _, day := range zone.TimeSeries {
			rows = append(rows, []interface{}{zone.ZoneName, day.Date, day.TotalDetections, day.Compliant, percent(day.ComplianceRate)})
		}
	}
	return w.sheet("Zone Daily Trend",
		[]string{"Zone", "Date", "Total", "Compliant", "Rate"}, []float64{20, 14, 12, 12, 12}, rows)
}
