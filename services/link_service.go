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

// maxKeyAttempts bounds retries when a generated key collides.
const maxKeyAttempts = 3

type ILinkService interface {
	CreateLink(ctx context.Context, p authz.Principal, eventID uint) (*models.Link, error)
	ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Link, error)
	// ResolvePublic returns the event behind a share key. Cancelled events are not shared.
	ResolvePublic(ctx context.Context, key string) (*models.Event, error)
	DeleteLink(ctx context.Context, p authz.Principal, eventID, linkID uint) error
}

type LinkService struct {
	db *gorm.DB
}

func NewLinkService(db *gorm.DB) ILinkService {
	return &LinkService{db: db}
}

func (s *LinkService) editableEvent(ctx context.Context, db *gorm.DB, p authz.Principal, eventID uint) (*models.Event, error) {
	event, err := repositories.NewEventRepository(db).FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	if !authz.CanEdit(p, event) {
		return nil, ErrPermissionDenied
	}
	return event, nil
}

func (s *LinkService) CreateLink(ctx context.Context, p authz.Principal, eventID uint) (*models.Link, error) {
	var link *models.Link
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.editableEvent(ctx, tx, p, eventID)
		if err != nil {
			return err
		}
		if event.IsCancelled() {
			return ErrEventCancelled
		}

		links := repositories.NewLinkRepository(tx)
		for attempt := 1; ; attempt++ {
			key, err := models.NewLinkKey()
			if err != nil {
				return err
			}
			exists, err := links.KeyExists(ctx, key)
			if err != nil {
				return err
			}
			if !exists {
				link = &models.Link{Key: key, EventID: event.ID, CreatorUserID: p.UserID}
				break
			}
			if attempt == maxKeyAttempts {
				return errors.New("no unique link key after retries")
			}
		}
		if err := links.Create(ctx, link); err != nil {
			return err
		}
		return recordActivity(ctx, tx, p.UserID, &event.ID, fmt.Sprintf(ActionLinkCreated, event.Title),
			models.JSONMap{"key": link.Key})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Share link could not be created", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, fmt.Errorf("creating link: %w", err)
	}
	configslog.SLog.Infof("Share link created: %s for event %d", link.Key, eventID)
	return link, nil
}

func (s *LinkService) ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Link, error) {
	if _, err := s.editableEvent(ctx, s.db, p, eventID); err != nil {
		return nil, err
	}
	links, err := repositories.NewLinkRepository(s.db).FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing links for event %d: %w", eventID, err)
	}
	return links, nil
}

func (s *LinkService) ResolvePublic(ctx context.Context, key string) (*models.Event, error) {
	if !models.ValidLinkKey(key) {
		return nil, ErrLinkNotFound
	}
	link, err := repositories.NewLinkRepository(s.db).FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("resolving link: %w", err)
	}
	if link.Event == nil || link.Event.IsCancelled() {
		return nil, ErrLinkNotFound
	}
	return link.Event, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, p authz.Principal, eventID, linkID uint) error {
	if _, err := s.editableEvent(ctx, s.db, p, eventID); err != nil {
		return err
	}
	links, err := repositories.NewLinkRepository(s.db).FindByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("listing links for event %d: %w", eventID, err)
	}
	for _, l := range links {
		if l.ID == linkID {
			if err := repositories.NewLinkRepository(s.db).Delete(ctx, linkID); err != nil {
				return fmt.Errorf("deleting link %d: %w", linkID, err)
			}
			return nil
		}
	}
	return ErrLinkNotFound
}

var _ ILinkService = (*LinkService)(nil)
