package repositories

import (
	"context"
	"time"

	"planora.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IRsvpRepository interface {
	// Upsert inserts or overwrites the (user, event) row; last write wins.
	Upsert(ctx context.Context, rsvp *models.Rsvp) error
	// CreateIfMissing inserts a row only when none exists for (user, event).
	CreateIfMissing(ctx context.Context, rsvp *models.Rsvp) error
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Rsvp, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Rsvp, error)
	CountByEventAndStatus(ctx context.Context, eventID uint, status models.RsvpStatus, excludeUserID uint) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status models.RsvpStatus) (int64, error)
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type RsvpRepository struct {
	baseRepository
}

func NewRsvpRepository(db *gorm.DB) IRsvpRepository {
	return &RsvpRepository{baseRepository{db: db}}
}

func (r *RsvpRepository) Upsert(ctx context.Context, rsvp *models.Rsvp) error {
	now := time.Now().UTC()
	rsvp.UpdatedAt = now
	if rsvp.CreatedAt.IsZero() {
		rsvp.CreatedAt = now
	}
	err := r.getDB(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "note", "updated_at"}),
	}).Create(rsvp).Error
	if err != nil {
		return err
	}
	// On conflict the returned id may belong to the insert attempt; reload the stored row.
	stored, err := r.FindByUserAndEvent(ctx, rsvp.UserID, rsvp.EventID)
	if err != nil {
		return err
	}
	*rsvp = *stored
	return nil
}

func (r *RsvpRepository) CreateIfMissing(ctx context.Context, rsvp *models.Rsvp) error {
	return r.getDB(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(rsvp).Error
}

func (r *RsvpRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Rsvp, error) {
	var rsvp models.Rsvp
	err := r.getDB(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&rsvp).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &rsvp, nil
}

func (r *RsvpRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Rsvp, error) {
	var rsvps []models.Rsvp
	err := r.getDB(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Order("updated_at asc").Order("id").
		Find(&rsvps).Error
	return rsvps, err
}

func (r *RsvpRepository) CountByEventAndStatus(ctx context.Context, eventID uint, status models.RsvpStatus, excludeUserID uint) (int64, error) {
	var count int64
	query := r.getDB(ctx).Model(&models.Rsvp{}).Where("event_id = ? AND status = ?", eventID, status)
	if excludeUserID != 0 {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *RsvpRepository) CountByUserAndStatus(ctx context.Context, userID uint, status models.RsvpStatus) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Rsvp{}).
		Joins("JOIN events ON events.id = rsvps.event_id").
		Where("rsvps.user_id = ? AND rsvps.status = ? AND events.status <> ?", userID, status, models.EventStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *RsvpRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	return r.getDB(ctx).Where("event_id = ?", eventID).Delete(&models.Rsvp{}).Error
}

var _ IRsvpRepository = (*RsvpRepository)(nil)
