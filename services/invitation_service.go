package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxInvitationMessage = 2000

type IInvitationService interface {
	SendInvitation(ctx context.Context, p authz.Principal, eventID uint, recipientEmail, message string) (*models.Invitation, error)
	RespondInvitation(ctx context.Context, p authz.Principal, invitationID uint, status models.InvitationStatus) (*models.Invitation, error)
	CancelInvitation(ctx context.Context, p authz.Principal, invitationID uint) (*models.Invitation, error)
	// ListReceived lists the principal's invitations; an empty status lists all.
	ListReceived(ctx context.Context, p authz.Principal, status models.InvitationStatus) ([]models.Invitation, error)
	ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Invitation, error)
}

type InvitationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInvitationService(db *gorm.DB) IInvitationService {
	return &InvitationService{db: db, now: time.Now}
}

// SendInvitation invites an existing user to an event. There is exactly one
// invitation per (recipient, event): a second one is a Conflict whatever the
// state of the first.
func (s *InvitationService) SendInvitation(ctx context.Context, p authz.Principal, eventID uint, recipientEmail, message string) (*models.Invitation, error) {
	if !p.Can(authz.InvitationsSend) {
		return nil, ErrPermissionDenied
	}
	recipientEmail = strings.ToLower(strings.TrimSpace(recipientEmail))
	if recipientEmail == "" {
		return nil, Validation("recipient email is required")
	}
	message = strings.TrimSpace(message)
	if len(message) > maxInvitationMessage {
		return nil, Validation("message must be at most %d characters", maxInvitationMessage)
	}

	var invitation *models.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := repositories.NewEventRepository(tx).FindByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if event.IsCancelled() {
			return ErrEventCancelled
		}
		if !authz.CanInvite(p, event) {
			return ErrPermissionDenied
		}

		recipient, err := repositories.NewUserRepository(tx).FindByEmail(ctx, recipientEmail)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRecipientNotFound
			}
			return err
		}

		invitations := repositories.NewInvitationRepository(tx)
		if _, err := invitations.FindByRecipientAndEvent(ctx, recipient.ID, event.ID); err == nil {
			return ErrInvitationExists
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		invitation = &models.Invitation{
			Status:      models.InvitationStatusPending,
			Message:     message,
			SenderID:    p.UserID,
			RecipientID: recipient.ID,
			EventID:     event.ID,
		}
		if err := invitations.Create(ctx, invitation); err != nil {
			if errors.Is(err, repositories.ErrDuplicateInvitation) {
				return ErrInvitationExists
			}
			return err
		}
		invitation.Event = event
		if err := ensurePendingRsvp(ctx, tx, recipient.ID, event.ID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, p.UserID, &event.ID,
			fmt.Sprintf(ActionInvitationSent, recipient.Email, event.Title),
			models.JSONMap{"invitation_id": invitation.ID, "recipient_id": recipient.ID})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Invitation could not be sent",
			zap.Uint("event_id", eventID), zap.String("recipient", recipientEmail), zap.Error(err))
		return nil, fmt.Errorf("sending invitation: %w", err)
	}
	return invitation, nil
}

// RespondInvitation lets the recipient answer. MAYBE may be revised later;
// ACCEPTED and DECLINED are final.
func (s *InvitationService) RespondInvitation(ctx context.Context, p authz.Principal, invitationID uint, status models.InvitationStatus) (*models.Invitation, error) {
	if !p.IsAuthenticated() {
		return nil, ErrPermissionDenied
	}
	status = models.InvitationStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Respondable() {
		return nil, Validation("response must be ACCEPTED, DECLINED or MAYBE")
	}

	var invitation *models.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitations := repositories.NewInvitationRepository(tx)
		var err error
		invitation, err = s.loadForUpdate(ctx, invitations, invitationID)
		if err != nil {
			return err
		}
		if invitation.RecipientID != p.UserID {
			return ErrPermissionDenied
		}
		if invitation.Status.Terminal() {
			return ErrInvitationFinal
		}
		event, err := repositories.NewEventRepository(tx).FindByID(ctx, invitation.EventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if event.IsCancelled() {
			return ErrEventCancelled
		}

		if err := syncInviteeRsvp(ctx, tx, event, p.UserID, status.RsvpStatus()); err != nil {
			return err
		}

		now := s.now().UTC()
		if err := invitations.UpdateStatus(ctx, invitation.ID, status, &now); err != nil {
			return err
		}
		invitation.Status = status
		invitation.RespondedAt = &now
		invitation.Event = event
		return recordActivity(ctx, tx, p.UserID, &event.ID,
			fmt.Sprintf(ActionInvitationResponded, status, event.Title),
			models.JSONMap{"invitation_id": invitation.ID, "status": status})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Invitation response could not be saved", zap.Uint("invitation_id", invitationID), zap.Error(err))
		return nil, fmt.Errorf("responding to invitation %d: %w", invitationID, err)
	}
	return invitation, nil
}

// syncInviteeRsvp moves the recipient's rsvp to match the answer, keeping any note.
// Accepting counts against the attendee limit like a direct RSVP does.
func syncInviteeRsvp(ctx context.Context, tx *gorm.DB, event *models.Event, userID uint, status models.RsvpStatus) error {
	rsvps := repositories.NewRsvpRepository(tx)
	if status == models.RsvpStatusAttending && event.MaxAttendees != nil {
		others, err := rsvps.CountByEventAndStatus(ctx, event.ID, models.RsvpStatusAttending, userID)
		if err != nil {
			return err
		}
		if others >= int64(*event.MaxAttendees) {
			return ErrEventFull
		}
	}
	rsvp := &models.Rsvp{Status: status, UserID: userID, EventID: event.ID}
	existing, err := rsvps.FindByUserAndEvent(ctx, userID, event.ID)
	switch {
	case err == nil:
		rsvp.Note = existing.Note
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}
	return rsvps.Upsert(ctx, rsvp)
}

// CancelInvitation withdraws a PENDING invitation.
func (s *InvitationService) CancelInvitation(ctx context.Context, p authz.Principal, invitationID uint) (*models.Invitation, error) {
	if !p.IsAuthenticated() {
		return nil, ErrPermissionDenied
	}
	var invitation *models.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitations := repositories.NewInvitationRepository(tx)
		var err error
		invitation, err = s.loadForUpdate(ctx, invitations, invitationID)
		if err != nil {
			return err
		}
		event, err := repositories.NewEventRepository(tx).FindByID(ctx, invitation.EventID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if !authz.CanCancelInvitation(p, invitation, event) {
			return ErrPermissionDenied
		}
		if invitation.Status != models.InvitationStatusPending {
			return ErrInvitationNotPending
		}
		if err := invitations.UpdateStatus(ctx, invitation.ID, models.InvitationStatusCancelled, nil); err != nil {
			return err
		}
		invitation.Status = models.InvitationStatusCancelled
		invitation.Event = event

		recipient := fmt.Sprintf("user %d", invitation.RecipientID)
		if u, err := repositories.NewUserRepository(tx).FindByID(ctx, invitation.RecipientID); err == nil {
			recipient = u.Email
		}
		title := ""
		if event != nil {
			title = event.Title
		}
		return recordActivity(ctx, tx, p.UserID, &invitation.EventID,
			fmt.Sprintf(ActionInvitationCancelled, recipient, title),
			models.JSONMap{"invitation_id": invitation.ID})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		configslog.Log.Error("Invitation could not be cancelled", zap.Uint("invitation_id", invitationID), zap.Error(err))
		return nil, fmt.Errorf("cancelling invitation %d: %w", invitationID, err)
	}
	return invitation, nil
}

func (s *InvitationService) loadForUpdate(ctx context.Context, repo repositories.IInvitationRepository, id uint) (*models.Invitation, error) {
	invitation, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return invitation, nil
}

func (s *InvitationService) ListReceived(ctx context.Context, p authz.Principal, status models.InvitationStatus) ([]models.Invitation, error) {
	if !p.IsAuthenticated() {
		return nil, ErrPermissionDenied
	}
	status = models.InvitationStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	invitations, err := repositories.NewInvitationRepository(s.db).FindByRecipientID(ctx, p.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("listing received invitations: %w", err)
	}
	return invitations, nil
}

// ListForEvent is limited to people who could manage invitations for the event.
func (s *InvitationService) ListForEvent(ctx context.Context, p authz.Principal, eventID uint) ([]models.Invitation, error) {
	event, err := repositories.NewEventRepository(s.db).FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	if !p.Can(authz.InvitationsSend) && !authz.CanEdit(p, event) {
		return nil, ErrPermissionDenied
	}
	invitations, err := repositories.NewInvitationRepository(s.db).FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing invitations for event %d: %w", eventID, err)
	}
	return invitations, nil
}

var _ IInvitationService = (*InvitationService)(nil)
