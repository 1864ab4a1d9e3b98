package aggregate

import (
	"sort"

	"report-service/internal/model"
)

const (
	offenderListLimit   = 20
	offenderDetailLimit = 10
)

// BuildRepeatOffenders ranks workers by violating detections. Records without
// a worker ID are dropped; only workers with more than one violation qualify.
// Nested type and location breakdowns are computed for the ten worst only.
func BuildRepeatOffenders(records []model.ComplianceRecord, rng model.DateRange) *model.RepeatOffenders {
	type workerTally struct {
		workerID   string
		total      int64
		violations int64
		firstSeen  int
		records    []int
	}
	workers := make(map[string]*workerTally)

	for i, rec := range records {
		if rec.WorkerID == nil || *rec.WorkerID == "" {
			continue
		}
		tally := workers[*rec.WorkerID]
		if tally == nil {
			tally = &workerTally{workerID: *rec.WorkerID, firstSeen: i}
			workers[*rec.WorkerID] = tally
		}
		tally.total++
		if !IsCompliant(rec.Compliance) {
			tally.violations++
			tally.records = append(tally.records, i)
		}
	}

	ranked := make([]*workerTally, 0, len(workers))
	for _, w := range workers {
		if w.violations > 1 {
			ranked = append(ranked, w)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].violations != ranked[j].violations {
			return ranked[i].violations > ranked[j].violations
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	var totalIncidents int64
	for _, w := range ranked {
		totalIncidents += w.violations
	}
	totalOffenders := int64(len(ranked))

	if len(ranked) > offenderListLimit {
		ranked = ranked[:offenderListLimit]
	}

	offenders := make([]model.Offender, 0, len(ranked))
	for i, w := range ranked {
		offender := model.Offender{
			WorkerID:        w.workerID,
			TotalDetections: w.total,
			Violations:      w.violations,
			ViolationRate:   rate(w.violations, w.total),
			Rank:            i + 1,
		}
		if i < offenderDetailLimit {
			offender.ViolationsByType = violationsByType(records, w.records)
			offender.ViolationsByLocation = violationsByLocation(records, w.records)
		}
		offenders = append(offenders, offender)
	}

	return &model.RepeatOffenders{
		Summary: model.OffenderTotals{
			TotalOffenders: totalOffenders,
			TotalIncidents: totalIncidents,
			DateRange:      rng,
		},
		Offenders: offenders,
	}
}

func violationsByType(records []model.ComplianceRecord, indexes []int) []model.ItemViolations {
	counts := make(map[string]int64)
	for _, i := range indexes {
		rec := records[i]
		for _, item := range rec.EquippedItems {
			if rec.Compliance[item] == model.ComplianceNo {
				counts[item]++
			}
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]model.ItemViolations, 0, len(names))
	for _, name := range names {
		out = append(out, model.ItemViolations{Name: name, Violations: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Violations > out[j].Violations
	})
	return out
}

func violationsByLocation(records []model.ComplianceRecord, indexes []int) []model.LocationViolations {
	type pair struct {
		location string
		zone     string
	}
	counts := make(map[pair]int64)
	order := make([]pair, 0)
	for _, i := range indexes {
		rec := records[i]
		p := pair{location: rec.LocationName, zone: rec.ZoneName}
		if _, seen := counts[p]; !seen {
			order = append(order, p)
		}
		counts[p]++
	}
	out := make([]model.LocationViolations, 0, len(order))
	for _, p := range order {
		out = append(out, model.LocationViolations{
			Location:   p.location,
			Zone:       p.zone,
			Violations: counts[p],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Violations > out[j].Violations
	})
	return out
}
