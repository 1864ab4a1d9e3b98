package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopeRepository answers ownership questions used to validate report filters
// before any detection data is read.
type ScopeRepository struct {
	db *gorm.DB
}

func NewScopeRepository(db *gorm.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (r *ScopeRepository) LocationBelongsToTeam(ctx context.Context, locationID, teamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("locations l").
		Where("l.id = ? AND l.team_id = ?", locationID, teamID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ScopeRepository) ZoneBelongsToTeam(ctx context.Context, zoneID, teamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("zones z").
		Joins("JOIN locations l ON l.id = z.location_id").
		Where("z.id = ? AND l.team_id = ?", zoneID, teamID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
