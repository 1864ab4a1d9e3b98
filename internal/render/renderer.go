// Package render turns an AggregateResult into report file bytes. Each format
// backend is an independent, hand-written mapping from the same result shape;
// the three must keep the same section structure per report type.
package render

import (
	"fmt"

	"report-service/internal/model"
)

// Result is one rendered report file. Pages is a heuristic for spreadsheet
// and text output and the real page count for paginated output.
type Result struct {
	Bytes []byte
	Pages int
}

type Renderer interface {
	Format() model.ReportFormat
	Supports(reportType model.ReportType) bool
	Render(reportType model.ReportType, data *model.AggregateResult) (Result, error)
	// RenderGeneric produces a minimal title-and-notice file for report types
	// the backend has no template for.
	RenderGeneric(reportType model.ReportType) (Result, error)
}

// Registry looks renderers up by format. A renderer that does not support the
// requested report type falls back to its generic rendering instead of
// failing the request.
type Registry struct {
	renderers map[model.ReportFormat]Renderer
}

func NewRegistry(renderers ...Renderer) *Registry {
	byFormat := make(map[model.ReportFormat]Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &Registry{renderers: byFormat}
}

// DefaultRegistry wires the three production backends.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPDFRenderer(), NewExcelRenderer(), NewCSVRenderer())
}

func (r *Registry) Render(format model.ReportFormat, reportType model.ReportType, data *model.AggregateResult) (Result, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return Result{}, fmt.Errorf("no renderer registered for format %q", format)
	}
	if !renderer.Supports(reportType) {
		return renderer.RenderGeneric(reportType)
	}
	return renderer.Render(reportType, data)
}

const genericNotice = "No template is available for this report type. Contact support if you expected full content."

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatRange(rng model.DateRange) string {
	return rng.From.UTC().Format("2006-01-02") + " to " + rng.To.UTC().Format("2006-01-02")
}

func supportedType(t model.ReportType) bool {
	switch t {
	case model.ReportComplianceSummary, model.ReportViolationTrend,
		model.ReportRepeatOffenders, model.ReportZoneAnalysis:
		return true
	}
	return false
}
