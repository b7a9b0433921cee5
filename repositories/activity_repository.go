package repositories

import (
	"context"

	"planora.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByEventID(ctx context.Context, eventID uint) ([]models.Activity, error)
	FindRecent(ctx context.Context, limit int) ([]models.Activity, error)
	CountByEventAndAction(ctx context.Context, eventID uint, action string) (int64, error)
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type ActivityRepository struct {
	baseRepository
}

func NewActivityRepository(db *gorm.DB) IActivityRepository {
	return &ActivityRepository{baseRepository{db: db}}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.getDB(ctx).Omit(clause.Associations).Create(activity).Error
}

func (r *ActivityRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.getDB(ctx).Preload("Actor").
		Where("event_id = ?", eventID).
		Order("created_at desc").Order("id desc").
		Find(&activities).Error
	return activities, err
}

// FindRecent returns the newest activity entries across the tenant.
func (r *ActivityRepository) FindRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	var activities []models.Activity
	err := r.getDB(ctx).Preload("Actor").
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) CountByEventAndAction(ctx context.Context, eventID uint, action string) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Activity{}).
		Where("event_id = ? AND action = ?", eventID, action).
		Count(&count).Error
	return count, err
}

func (r *ActivityRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	return r.getDB(ctx).Where("event_id = ?", eventID).Delete(&models.Activity{}).Error
}

var _ IActivityRepository = (*ActivityRepository)(nil)
