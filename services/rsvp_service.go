package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNoteLength = 1000

type IRsvpService interface {
	// UpdateRsvp records the principal's response to an event; last write wins.
	UpdateRsvp(ctx context.Context, p authz.Principal, eventID uint, status models.RsvpStatus, note string) (*models.Rsvp, error)
	ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Rsvp, error)
}

type RsvpService struct {
	db *gorm.DB
}

func NewRsvpService(db *gorm.DB) IRsvpService {
	return &RsvpService{db: db}
}

func (s *RsvpService) UpdateRsvp(ctx context.Context, p authz.Principal, eventID uint, status models.RsvpStatus, note string) (*models.Rsvp, error) {
	if !p.IsAuthenticated() {
		return nil, ErrPermissionDenied
	}
	status = models.RsvpStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Settable() {
		return nil, Validation("rsvp status must be ATTENDING, MAYBE or DECLINED")
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, Validation("note must be at most %d characters", maxNoteLength)
	}

	rsvp := &models.Rsvp{Status: status, Note: note, UserID: p.UserID, EventID: eventID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := repositories.NewEventRepository(tx).FindByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if event.IsCancelled() {
			return ErrRsvpEventCancelled
		}

		rsvps := repositories.NewRsvpRepository(tx)
		if status == models.RsvpStatusAttending && event.MaxAttendees != nil {
			others, err := rsvps.CountByEventAndStatus(ctx, event.ID, models.RsvpStatusAttending, p.UserID)
			if err != nil {
				return err
			}
			if others >= int64(*event.MaxAttendees) {
				return ErrEventFull
			}
		}
		if err := rsvps.Upsert(ctx, rsvp); err != nil {
			return err
		}
		return recordActivity(ctx, tx, p.UserID, &event.ID,
			fmt.Sprintf(ActionRsvp, status, event.Title), models.JSONMap{"status": status})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("RSVP could not be saved",
			zap.Uint("event_id", eventID), zap.Uint("user_id", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("saving rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *RsvpService) ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Rsvp, error) {
	if !p.Can(authz.EventsRead) {
		return nil, ErrPermissionDenied
	}
	if _, err := repositories.NewEventRepository(s.db).FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	rsvps, err := repositories.NewRsvpRepository(s.db).FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing rsvps for event %d: %w", eventID, err)
	}
	return rsvps, nil
}

// ensurePendingRsvp gives an invitee a PENDING rsvp without touching an existing one.
func ensurePendingRsvp(ctx context.Context, db *gorm.DB, userID, eventID uint) error {
	return repositories.NewRsvpRepository(db).CreateIfMissing(ctx, &models.Rsvp{
		Status:  models.RsvpStatusPending,
		UserID:  userID,
		EventID: eventID,
	})
}

var _ IRsvpService = (*RsvpService)(nil)
