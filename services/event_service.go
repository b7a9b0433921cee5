package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 255
	maxCalendarRangeDays = 366
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// EventInput carries the user-editable fields of an event.
type EventInput struct {
	Title        string         `json:"title" form:"title"`
	Description  string         `json:"description" form:"description"`
	Location     string         `json:"location" form:"location"`
	StartsAt     time.Time      `json:"starts_at" form:"starts_at"`
	EndsAt       time.Time      `json:"ends_at" form:"ends_at"`
	AllDay       bool           `json:"all_day" form:"all_day"`
	Recurrence   models.JSONMap `json:"recurrence,omitempty" form:"-"`
	Color        string         `json:"color" form:"color"`
	MaxAttendees *int           `json:"max_attendees,omitempty" form:"max_attendees"`

	// GenerateDescription asks the enrichment service for a description when none is given.
	GenerateDescription bool `json:"generate_description" form:"generate_description"`
}

// EventDetail is an event with its derived status and what the caller may do with it.
type EventDetail struct {
	Event          *models.Event           `json:"event"`
	Status         models.EventStatus      `json:"status"`
	Capabilities   authz.EventCapabilities `json:"capabilities"`
	AttendingCount int64                   `json:"attending_count"`
	MyRsvp         *models.Rsvp            `json:"my_rsvp,omitempty"`
	Conflicts      []models.Event          `json:"conflicts,omitempty"`
}

type IEventService interface {
	CreateEvent(ctx context.Context, p authz.Principal, in EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, p authz.Principal, eventID uint, in EventInput) (*models.Event, error)
	GetEvent(ctx context.Context, p authz.Principal, eventID uint) (*models.Event, error)
	GetEventDetail(ctx context.Context, p authz.Principal, eventID uint) (*EventDetail, error)
	ListEvents(ctx context.Context, p authz.Principal, params queryparams.ListParams, filter repositories.EventFilter) (*queryparams.PaginatedResult, error)
	ListCalendar(ctx context.Context, p authz.Principal, from, to time.Time) ([]models.Event, error)
	CancelEvent(ctx context.Context, p authz.Principal, eventID uint) (*models.Event, error)
	DeleteEvent(ctx context.Context, p authz.Principal, eventID uint) error
}

type EventService struct {
	db         *gorm.DB
	enrichment IEnrichmentService
	now        func() time.Time
}

func NewEventService(db *gorm.DB, enrichment IEnrichmentService) IEventService {
	return &EventService{db: db, enrichment: enrichment, now: time.Now}
}

func (in *EventInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Color = strings.TrimSpace(in.Color)

	if in.Title == "" {
		return Validation("title is required")
	}
	if len(in.Title) > maxTitleLength {
		return Validation("title must be at most %d characters", maxTitleLength)
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return Validation("start and end time are required")
	}
	in.StartsAt = in.StartsAt.UTC()
	in.EndsAt = in.EndsAt.UTC()
	if in.AllDay {
		in.StartsAt = startOfDay(in.StartsAt)
		in.EndsAt = startOfDay(in.EndsAt).Add(24*time.Hour - time.Second)
	}
	if in.EndsAt.Before(in.StartsAt) {
		return Validation("end time must not be before start time")
	}
	if in.Color == "" {
		in.Color = models.DefaultEventColor
	}
	if !colorPattern.MatchString(in.Color) {
		return Validation("color must be a hex value like #3b82f6")
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 1 {
		return Validation("max attendees must be positive")
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *EventService) loadEvent(ctx context.Context, repo repositories.IEventRepository, eventID uint, forUpdate bool) (*models.Event, error) {
	var (
		event *models.Event
		err   error
	)
	if forUpdate {
		event, err = repo.FindByIDForUpdate(ctx, eventID)
	} else {
		event, err = repo.FindByID(ctx, eventID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *EventService) CreateEvent(ctx context.Context, p authz.Principal, in EventInput) (*models.Event, error) {
	if !p.Can(authz.EventsCreate) {
		return nil, ErrPermissionDenied
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Description == "" && in.GenerateDescription && s.enrichment != nil {
		in.Description = s.enrichment.DescribeEvent(ctx, EventDraft{
			Title: in.Title, Location: in.Location, StartsAt: &in.StartsAt, AllDay: in.AllDay,
		})
	}

	event := &models.Event{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
		AllDay:       in.AllDay,
		Status:       models.EventStatusUpcoming,
		Recurrence:   in.Recurrence,
		Color:        in.Color,
		MaxAttendees: in.MaxAttendees,
		OwnerID:      p.UserID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewEventRepository(tx).Create(ctx, event); err != nil {
			return err
		}
		return recordActivity(ctx, tx, p.UserID, &event.ID, fmt.Sprintf(ActionEventCreated, event.Title), nil)
	})
	if err != nil {
		configslog.Log.Error("Event could not be created", zap.Uint("owner_id", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("creating event: %w", err)
	}
	configslog.SLog.Infof("Event created: ID %d by user %d", event.ID, p.UserID)
	return event, nil
}

// UpdateEvent rewrites the editable fields. Cancelled events are read-only.
func (s *EventService) UpdateEvent(ctx context.Context, p authz.Principal, eventID uint, in EventInput) (*models.Event, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var event *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewEventRepository(tx)
		var err error
		event, err = s.loadEvent(ctx, repo, eventID, true)
		if err != nil {
			return err
		}
		if !authz.CanEdit(p, event) {
			return ErrPermissionDenied
		}
		if event.IsCancelled() {
			return ErrEventCancelled
		}
		event.Title = in.Title
		event.Description = in.Description
		event.Location = in.Location
		event.StartsAt = in.StartsAt
		event.EndsAt = in.EndsAt
		event.AllDay = in.AllDay
		event.Recurrence = in.Recurrence
		event.Color = in.Color
		event.MaxAttendees = in.MaxAttendees
		if err := repo.Save(ctx, event); err != nil {
			return err
		}
		return recordActivity(ctx, tx, p.UserID, &event.ID, fmt.Sprintf(ActionEventUpdated, event.Title), nil)
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Event could not be updated", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, fmt.Errorf("updating event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, p authz.Principal, eventID uint) (*models.Event, error) {
	if !p.Can(authz.EventsRead) {
		return nil, ErrPermissionDenied
	}
	return s.loadEvent(ctx, repositories.NewEventRepository(s.db), eventID, false)
}

func (s *EventService) GetEventDetail(ctx context.Context, p authz.Principal, eventID uint) (*EventDetail, error) {
	event, err := s.GetEvent(ctx, p, eventID)
	if err != nil {
		return nil, err
	}
	rsvps := repositories.NewRsvpRepository(s.db)
	attending, err := rsvps.CountByEventAndStatus(ctx, event.ID, models.RsvpStatusAttending, 0)
	if err != nil {
		return nil, fmt.Errorf("counting attendees of event %d: %w", event.ID, err)
	}
	detail := &EventDetail{
		Event:          event,
		Status:         event.EffectiveStatus(s.now()),
		Capabilities:   authz.CapabilitiesFor(p, event),
		AttendingCount: attending,
	}
	mine, err := rsvps.FindByUserAndEvent(ctx, p.UserID, event.ID)
	switch {
	case err == nil:
		detail.MyRsvp = mine
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("loading rsvp for event %d: %w", event.ID, err)
	}
	if s.enrichment != nil && !event.IsCancelled() && (event.OwnerID == p.UserID || detail.attending()) {
		detail.Conflicts = s.enrichment.DetectConflicts(ctx, p, event.StartsAt, event.EndsAt, event.ID)
	}
	return detail, nil
}

func (d *EventDetail) attending() bool {
	return d.MyRsvp != nil && d.MyRsvp.Status == models.RsvpStatusAttending
}

func (s *EventService) ListEvents(ctx context.Context, p authz.Principal, params queryparams.ListParams, filter repositories.EventFilter) (*queryparams.PaginatedResult, error) {
	if !p.Can(authz.EventsRead) {
		return nil, ErrPermissionDenied
	}
	params.Validate()
	events, total, err := repositories.NewEventRepository(s.db).FindAllPaginated(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return queryparams.NewPaginatedResult(events, params, total), nil
}

// ListCalendar returns events intersecting [from, to), cancelled ones included
// so the calendar can show them struck through.
func (s *EventService) ListCalendar(ctx context.Context, p authz.Principal, from, to time.Time) ([]models.Event, error) {
	if !p.Can(authz.CalendarRead) {
		return nil, ErrPermissionDenied
	}
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, Validation("calendar range requires from < to")
	}
	if to.Sub(from) > maxCalendarRangeDays*24*time.Hour {
		return nil, Validation("calendar range must not exceed %d days", maxCalendarRangeDays)
	}
	events, err := repositories.NewEventRepository(s.db).FindInRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("listing calendar: %w", err)
	}
	return events, nil
}

// CancelEvent moves the event to CANCELLED. Cancelling an already cancelled
// event succeeds without writing anything.
func (s *EventService) CancelEvent(ctx context.Context, p authz.Principal, eventID uint) (*models.Event, error) {
	var event *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewEventRepository(tx)
		var err error
		event, err = s.loadEvent(ctx, repo, eventID, true)
		if err != nil {
			return err
		}
		if !authz.CanEdit(p, event) {
			return ErrPermissionDenied
		}
		if event.IsCancelled() {
			return nil
		}
		if err := repo.UpdateStatus(ctx, event.ID, models.EventStatusCancelled); err != nil {
			return err
		}
		event.Status = models.EventStatusCancelled
		return recordActivity(ctx, tx, p.UserID, &event.ID, fmt.Sprintf(ActionEventCancelled, event.Title), nil)
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Event could not be cancelled", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, fmt.Errorf("cancelling event %d: %w", eventID, err)
	}
	return event, nil
}

// DeleteEvent removes the event and every row that references it in one
// transaction. Any failure leaves all rows in place.
func (s *EventService) DeleteEvent(ctx context.Context, p authz.Principal, eventID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewEventRepository(tx)
		event, err := s.loadEvent(ctx, repo, eventID, true)
		if err != nil {
			return err
		}
		if !authz.CanDelete(p, event) {
			return ErrPermissionDenied
		}
		if err := repositories.NewRsvpRepository(tx).DeleteByEventID(ctx, event.ID); err != nil {
			return fmt.Errorf("deleting rsvps: %w", err)
		}
		if err := repositories.NewInvitationRepository(tx).DeleteByEventID(ctx, event.ID); err != nil {
			return fmt.Errorf("deleting invitations: %w", err)
		}
		if err := repositories.NewActivityRepository(tx).DeleteByEventID(ctx, event.ID); err != nil {
			return fmt.Errorf("deleting activity: %w", err)
		}
		if err := repositories.NewLinkRepository(tx).DeleteByEventID(ctx, event.ID); err != nil {
			return fmt.Errorf("deleting links: %w", err)
		}
		if err := repo.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsDomainError(err) {
			return err
		}
		configslog.Log.Error("Event could not be deleted", zap.Uint("event_id", eventID), zap.Error(err))
		return fmt.Errorf("deleting event %d: %w", eventID, err)
	}
	configslog.SLog.Infof("Event %d deleted by user %d", eventID, p.UserID)
	return nil
}

var _ IEventService = (*EventService)(nil)
