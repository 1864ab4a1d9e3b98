package aggregate

import (
	"sort"

	"report-service/internal/model"
)

const highRiskZoneLimit = 10

// BuildViolationTrend computes per-day, per-item, per-hour violation counts
// and the ten zones with the most violations. Per-item tallies count only
// explicit "No" readings, so an unmeasured item never counts as a violation.
func BuildViolationTrend(records []model.ComplianceRecord, rng model.DateRange) *model.ViolationTrend {
	var totalViolations int64

	daily := make(map[string]*model.DailyCompliance)
	days := make(map[string]struct{})
	hourly := make([]model.HourlyViolation, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}
	itemViolations := make(map[string]int64)

	type zoneTally struct {
		zone       string
		location   string
		total      int64
		violations int64
		firstSeen  int
	}
	zones := make(map[string]*zoneTally)

	for i, rec := range records {
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
		if !compliant {
			hourly[hour].Violations++
		}

		for _, item := range rec.EquippedItems {
			if rec.Compliance[item] == model.ComplianceNo {
				itemViolations[item]++
			}
		}

		key := rec.ZoneID.String()
		zone := zones[key]
		if zone == nil {
			zone = &zoneTally{zone: rec.ZoneName, location: rec.LocationName, firstSeen: i}
			zones[key] = zone
		}
		zone.total++
		if !compliant {
			zone.violations++
		}
	}

	dailyOut := make([]model.DailyCompliance, 0, len(daily))
	for _, day := range sortedDays(days) {
		dailyOut = append(dailyOut, *daily[day])
	}

	itemNames := make([]string, 0, len(itemViolations))
	for name := range itemViolations {
		itemNames = append(itemNames, name)
	}
	sort.Strings(itemNames)
	itemsOut := make([]model.ItemViolations, 0, len(itemNames))
	for _, name := range itemNames {
		itemsOut = append(itemsOut, model.ItemViolations{Name: name, Violations: itemViolations[name]})
	}
	sort.SliceStable(itemsOut, func(i, j int) bool {
		return itemsOut[i].Violations > itemsOut[j].Violations
	})

	for h := range hourly {
		hourly[h].ViolationRate = rate(hourly[h].Violations, hourly[h].Total)
	}

	// Rank by raw violation count; ties keep encounter order.
	ranked := make([]*zoneTally, 0, len(zones))
	for _, z := range zones {
		ranked = append(ranked, z)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].violations != ranked[j].violations {
			return ranked[i].violations > ranked[j].violations
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})
	if len(ranked) > highRiskZoneLimit {
		ranked = ranked[:highRiskZoneLimit]
	}
	zonesOut := make([]model.ZoneViolations, 0, len(ranked))
	for _, z := range ranked {
		zonesOut = append(zonesOut, model.ZoneViolations{
			Zone:          z.zone,
			Location:      z.location,
			Total:         z.total,
			Violations:    z.violations,
			ViolationRate: rate(z.violations, z.total),
		})
	}

	return &model.ViolationTrend{
		Summary: model.ViolationTotals{
			TotalViolations: totalViolations,
			ViolationRate:   rate(totalViolations, int64(len(records))),
			DateRange:       rng,
		},
		DailyViolations:  dailyOut,
		ViolationsByItem: itemsOut,
		HourlyViolations: hourly,
		HighRiskZones:    zonesOut,
	}
}
