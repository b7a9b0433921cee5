package repositories

import (
	"context"
	"strings"
	"time"

	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/pkg/textsearch"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventFilter narrows event listings beyond ListParams.
type EventFilter struct {
	OwnerID         uint
	IncludeCanceled bool
}

type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	// FindByIDForUpdate takes a row lock where the dialect supports it.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Event, error)
	Save(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error
	Delete(ctx context.Context, id uint) error
	FindAllPaginated(ctx context.Context, params queryparams.ListParams, filter EventFilter) ([]models.Event, int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Event, error)
	FindOverlappingForUser(ctx context.Context, userID uint, start, end time.Time, excludeID uint) ([]models.Event, error)
	CountUpcoming(ctx context.Context, now time.Time) (int64, error)
}

type EventRepository struct {
	baseRepository
}

func NewEventRepository(db *gorm.DB) IEventRepository {
	return &EventRepository{baseRepository{db: db}}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.getDB(ctx).Omit(clause.Associations).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	if err := r.getDB(ctx).First(&event, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &event, nil
}

// Save writes the editable columns of an existing event.
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return ErrInvalidID
	}
	return r.getDB(ctx).Model(event).
		Select("Title", "Description", "Location", "StartsAt", "EndsAt", "AllDay",
			"Recurrence", "Color", "MaxAttendees", "SearchTitle").
		Updates(event).Error
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error {
	res := r.getDB(ctx).Model(&models.Event{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	res := r.getDB(ctx).Delete(&models.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) applyEventFilters(query *gorm.DB, params queryparams.ListParams, filter EventFilter) *gorm.DB {
	if params.Name != "" {
		query = query.Where(`search_title LIKE ? ESCAPE '\'`, textsearch.LikePattern(params.Name))
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	switch models.EventStatus(strings.ToUpper(params.Status)) {
	case models.EventStatusCancelled:
		query = query.Where("status = ?", models.EventStatusCancelled)
	case models.EventStatusUpcoming:
		query = query.Where("status <> ? AND starts_at > ?", models.EventStatusCancelled, time.Now().UTC())
	case models.EventStatusPast:
		query = query.Where("status <> ? AND ends_at < ?", models.EventStatusCancelled, time.Now().UTC())
	case models.EventStatusOngoing:
		now := time.Now().UTC()
		query = query.Where("status <> ? AND starts_at <= ? AND ends_at >= ?", models.EventStatusCancelled, now, now)
	default:
		if !filter.IncludeCanceled {
			query = query.Where("status <> ?", models.EventStatusCancelled)
		}
	}
	return query
}

func (r *EventRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams, filter EventFilter) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	query := r.applyEventFilters(r.getDB(ctx).Model(&models.Event{}), params, filter)
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("EventRepository.FindAllPaginated: count failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return events, 0, nil
	}

	allowedSortColumns := map[string]string{
		"id":         "id",
		"title":      "search_title",
		"starts_at":  "starts_at",
		"created_at": "created_at",
	}
	orderColumn, ok := allowedSortColumns[params.SortBy]
	if !ok {
		orderColumn = "starts_at"
	}
	err := query.Order(orderColumn + " " + params.OrderBy).Order("id").
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAllPaginated: find failed", zap.Error(err))
		return nil, total, err
	}
	return events, total, nil
}

// FindInRange returns every event intersecting [from, to), cancelled ones included.
func (r *EventRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.getDB(ctx).
		Where("starts_at < ? AND ends_at > ?", to, from).
		Order("starts_at asc").Order("id").
		Find(&events).Error
	return events, err
}

// FindOverlappingForUser returns non-cancelled events the user owns or has
// said they attend that intersect [start, end).
func (r *EventRepository) FindOverlappingForUser(ctx context.Context, userID uint, start, end time.Time, excludeID uint) ([]models.Event, error) {
	var events []models.Event
	attending := r.getDB(ctx).Model(&models.Rsvp{}).Select("event_id").
		Where("user_id = ? AND status = ?", userID, models.RsvpStatusAttending)
	query := r.getDB(ctx).
		Where("status <> ?", models.EventStatusCancelled).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Where(r.getDB(ctx).Where("owner_id = ?", userID).Or("id IN (?)", attending))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Order("starts_at asc").Find(&events).Error
	return events, err
}

func (r *EventRepository) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).
		Where("status <> ? AND starts_at > ?", models.EventStatusCancelled, now).
		Count(&count).Error
	return count, err
}

var _ IEventRepository = (*EventRepository)(nil)
