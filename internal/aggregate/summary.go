package aggregate

import (
	"sort"

	"report-service/internal/model"
)

// BuildComplianceSummary partitions detections by ISO day and hour of day and
// computes per-equipped-item compliance.
func BuildComplianceSummary(records []model.ComplianceRecord, rng model.DateRange) *model.ComplianceSummary {
	var totalViolations int64

	daily := make(map[string]*model.DailyCompliance)
	days := make(map[string]struct{})
	hourly := make([]model.HourlyRate, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}

	type itemTally struct {
		total     int64
		compliant int64
	}
	items := make(map[string]*itemTally)

	for _, rec := range records {
		compliant := IsCompliant(rec.Compliance)
		if !compliant {
			totalViolations++
		}

		day := dayKey(rec.Timestamp)
		days[day] = struct{}{}
		bucket := daily[day]
		if bucket == nil {
			bucket = &model.DailyCompliance{Date: day}
			daily[day] = bucket
		}
		bucket.Total++
		if compliant {
			bucket.Compliant++
		} else {
			bucket.Violations++
		}

		hour := hourOf(rec.Timestamp)
		hourly[hour].Total++
		if compliant {
			hourly[hour].Compliant++
		}

		for _, item := range rec.EquippedItems {
			tally := items[item]
			if tally == nil {
				tally = &itemTally{}
				items[item] = tally
			}
			tally.total++
			if rec.Compliance[item] == model.ComplianceYes {
				tally.compliant++
			}
		}
	}

	dailyOut := make([]model.DailyCompliance, 0, len(daily))
	for _, day := range sortedDays(days) {
		dailyOut = append(dailyOut, *daily[day])
	}

	itemNames := make([]string, 0, len(items))
	for name := range items {
		itemNames = append(itemNames, name)
	}
	sort.Strings(itemNames)
	itemsOut := make([]model.ItemCompliance, 0, len(items))
	for _, name := range itemNames {
		tally := items[name]
		itemsOut = append(itemsOut, model.ItemCompliance{
			Name:           name,
			Total:          tally.total,
			Compliant:      tally.compliant,
			ComplianceRate: rate(tally.compliant, tally.total),
		})
	}

	for h := range hourly {
		hourly[h].ComplianceRate = rate(hourly[h].Compliant, hourly[h].Total)
	}

	total := int64(len(records))
	return &model.ComplianceSummary{
		Summary: model.ComplianceTotals{
			TotalDetections: total,
			ComplianceRate:  rate(total-totalViolations, total),
			TotalViolations: totalViolations,
			DateRange:       rng,
		},
		DailyCompliance:   dailyOut,
		PerItemCompliance: itemsOut,
		HourlyCompliance:  hourly,
	}
}
