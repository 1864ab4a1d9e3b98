package aggregate

import "report-service/internal/model"

// IsCompliant is the single definition of "violation" shared by every
// aggregation: a detection violates iff any reading is exactly "No". Items
// with no reading count as compliant here and are skipped by per-item
// violation tallies; both choices deliberately match, so a dropped reading is
// never reported as a violation.
func IsCompliant(compliance map[string]string) bool {
	for _, v := range compliance {
		if v == model.ComplianceNo {
			return false
		}
	}
	return true
}
