package services

import (
	"context"
	"errors"
	"fmt"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Activity action texts. They are stored verbatim and shown in feeds.
const (
	ActionEventCreated        = "created event %s"
	ActionEventUpdated        = "updated event %s"
	ActionEventCancelled      = "cancelled event %s"
	ActionRsvp                = "RSVP'd %s to %s"
	ActionInvitationSent      = "invited %s to %s"
	ActionInvitationResponded = "responded %s to the invitation for %s"
	ActionInvitationCancelled = "cancelled the invitation of %s to %s"
	ActionLinkCreated         = "shared %s"
	ActionRoleChanged         = "changed the role of %s to %s"
)

// recordActivity appends an audit entry on db, which is normally the caller's transaction.
func recordActivity(ctx context.Context, db *gorm.DB, actorID uint, eventID *uint, action string, details models.JSONMap) error {
	activity := &models.Activity{
		Action:  action,
		Details: details,
		ActorID: actorID,
		EventID: eventID,
	}
	if err := repositories.NewActivityRepository(db).Create(ctx, activity); err != nil {
		configslog.Log.Error("Activity could not be recorded",
			zap.Uint("actor_id", actorID), zap.String("action", action), zap.Error(err))
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

type IActivityService interface {
	ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Activity, error)
	ListRecent(ctx context.Context, p authz.Principal, limit int) ([]models.Activity, error)
}

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) IActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Activity, error) {
	if !p.Can(authz.ActivityRead) {
		return nil, ErrPermissionDenied
	}
	if _, err := repositories.NewEventRepository(s.db).FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	activities, err := repositories.NewActivityRepository(s.db).FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing activity for event %d: %w", eventID, err)
	}
	return activities, nil
}

func (s *ActivityService) ListRecent(ctx context.Context, p authz.Principal, limit int) ([]models.Activity, error) {
	if !p.Can(authz.ActivityRead) {
		return nil, ErrPermissionDenied
	}
	activities, err := repositories.NewActivityRepository(s.db).FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent activity: %w", err)
	}
	return activities, nil
}

var _ IActivityService = (*ActivityService)(nil)
