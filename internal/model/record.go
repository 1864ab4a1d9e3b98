package model

import (
	"time"

	"github.com/google/uuid"
)

// Compliance map values as reported by detection devices.
const (
	ComplianceYes = "Yes"
	ComplianceNo  = "No"
)

// ComplianceRecord is one timestamped observation of whether the worker at a
// device wore each required protective item. An equipped item missing from
// Compliance means the device reported no reading for it.
type ComplianceRecord struct {
	Timestamp     time.Time
	WorkerID      *string
	DeviceID      uuid.UUID
	ZoneID        uuid.UUID
	ZoneName      string
	LocationID    uuid.UUID
	LocationName  string
	EquippedItems []string
	Compliance    map[string]string
}
