package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"report-service/internal/model"
)

// RecordRepository reads compliance detections joined with their device, zone
// and location. Team scoping is enforced in SQL: every query filters on the
// location's team, so even a caller that skipped its own scope check cannot
// read another team's detections.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Fetch(ctx context.Context, filter model.ReportFilter) ([]model.ComplianceRecord, error) {
	type row struct {
		Timestamp     time.Time
		WorkerID      *string
		DeviceID      uuid.UUID
		ZoneID        uuid.UUID
		ZoneName      string
		LocationID    uuid.UUID
		LocationName  string
		EquippedItems *string
		Compliance    []byte
	}
	var rows []row

	query := r.db.WithContext(ctx).
		Table("detections d").
		Select(`d.detected_at AS timestamp,
			d.worker_id,
			d.device_id,
			z.id AS zone_id,
			z.name AS zone_name,
			l.id AS location_id,
			l.name AS location_name,
			(SELECT string_agg(di.item_name, ',' ORDER BY di.item_name)
			 FROM device_items di WHERE di.device_id = d.device_id) AS equipped_items,
			d.compliance`).
		Joins("JOIN devices dev ON dev.id = d.device_id").
		Joins("JOIN zones z ON z.id = dev.zone_id").
		Joins("JOIN locations l ON l.id = z.location_id").
		Where("l.team_id = ?", filter.TeamID).
		Where("d.detected_at BETWEEN ? AND ?", filter.Range.From, filter.Range.To).
		Order("d.detected_at")

	if filter.LocationID != nil {
		query = query.Where("l.id = ?", *filter.LocationID)
	}
	if filter.ZoneID != nil {
		query = query.Where("z.id = ?", *filter.ZoneID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch detections: %w", err)
	}

	records := make([]model.ComplianceRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.ComplianceRecord{
			Timestamp:    row.Timestamp,
			WorkerID:     row.WorkerID,
			DeviceID:     row.DeviceID,
			ZoneID:       row.ZoneID,
			ZoneName:     row.ZoneName,
			LocationID:   row.LocationID,
			LocationName: row.LocationName,
		}
		if row.EquippedItems != nil && *row.EquippedItems != "" {
			rec.EquippedItems = strings.Split(*row.EquippedItems, ",")
		}
		if len(row.Compliance) > 0 {
			if err := json.Unmarshal(row.Compliance, &rec.Compliance); err != nil {
				return nil, fmt.Errorf("decode compliance for device %s: %w", row.DeviceID, err)
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
