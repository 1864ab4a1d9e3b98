package aggregate

import (
	"sort"

	"report-service/internal/model"
)

// BuildZoneAnalysis aggregates per-zone compliance with item breakdowns and a
// daily time series. Zones the records never touch are omitted. The zone list
// is sorted ascending by compliance rate: index 0 is the worst zone, the last
// index the best.
func BuildZoneAnalysis(records []model.ComplianceRecord, rng model.DateRange) *model.ZoneAnalysis {
	type itemTally struct {
		total     int64
		compliant int64
	}
	type dayTally struct {
		total     int64
		compliant int64
	}
	type zoneTally struct {
		report    model.ZoneReport
		items     map[string]*itemTally
		days      map[string]*dayTally
		firstSeen int
	}
	zones := make(map[string]*zoneTally)

	for i, rec := range records {
		key := rec.ZoneID.String()
		zone := zones[key]
		if zone == nil {
			zone = &zoneTally{
				report: model.ZoneReport{
					ZoneID:       rec.ZoneID,
					ZoneName:     rec.ZoneName,
					LocationID:   rec.LocationID,
					LocationName: rec.LocationName,
				},
				items:     make(map[string]*itemTally),
				days:      make(map[string]*dayTally),
				firstSeen: i,
			}
			zones[key] = zone
		}

		compliant := IsCompliant(rec.Compliance)
		zone.report.TotalDetections++
		if compliant {
			zone.report.Compliant++
		} else {
			zone.report.Violations++
		}

		for _, item := range rec.EquippedItems {
			tally := zone.items[item]
			if tally == nil {
				tally = &itemTally{}
				zone.items[item] = tally
			}
			tally.total++
			if rec.Compliance[item] == model.ComplianceYes {
				tally.compliant++
			}
		}

		day := dayKey(rec.Timestamp)
		dt := zone.days[day]
		if dt == nil {
			dt = &dayTally{}
			zone.days[day] = dt
		}
		dt.total++
		if compliant {
			dt.compliant++
		}
	}

	ranked := make([]*zoneTally, 0, len(zones))
	for _, z := range zones {
		z.report.ComplianceRate = rate(z.report.Compliant, z.report.TotalDetections)

		itemNames := make([]string, 0, len(z.items))
		for name := range z.items {
			itemNames = append(itemNames, name)
		}
		sort.Strings(itemNames)
		for _, name := range itemNames {
			tally := z.items[name]
			z.report.PerItemCompliance = append(z.report.PerItemCompliance, model.ItemCompliance{
				Name:           name,
				Total:          tally.total,
				Compliant:      tally.compliant,
				ComplianceRate: rate(tally.compliant, tally.total),
			})
		}

		dayKeys := make(map[string]struct{}, len(z.days))
		for d := range z.days {
			dayKeys[d] = struct{}{}
		}
		for _, day := range sortedDays(dayKeys) {
			dt := z.days[day]
			z.report.TimeSeries = append(z.report.TimeSeries, model.ZoneDay{
				Date:            day,
				TotalDetections: dt.total,
				Compliant:       dt.compliant,
				ComplianceRate:  rate(dt.compliant, dt.total),
			})
		}

		ranked = append(ranked, z)
	}

	// Worst first; ties keep encounter order.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].report.ComplianceRate != ranked[j].report.ComplianceRate {
			return ranked[i].report.ComplianceRate < ranked[j].report.ComplianceRate
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	out := make([]model.ZoneReport, 0, len(ranked))
	var rateSum float64
	for _, z := range ranked {
		out = append(out, z.report)
		rateSum += z.report.ComplianceRate
	}

	summary := model.ZoneAnalysisTotals{
		TotalZones: len(out),
		DateRange:  rng,
	}
	if len(out) > 0 {
		summary.AverageComplianceRate = round1(rateSum / float64(len(out)))
		summary.WorstZone = out[0].ZoneName
		summary.BestZone = out[len(out)-1].ZoneName
	}

	return &model.ZoneAnalysis{Summary: summary, Zones: out}
}
