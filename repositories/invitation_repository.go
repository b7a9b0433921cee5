package repositories

import (
	"context"
	"errors"
	"time"

	"planora.app/configs/configslog"
	"planora.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateInvitation is returned when (recipient, event) already has an invitation.
var ErrDuplicateInvitation = errors.New("invitation already exists for recipient and event")

type IInvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, id uint) (*models.Invitation, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Invitation, error)
	FindByRecipientAndEvent(ctx context.Context, recipientID, eventID uint) (*models.Invitation, error)
	FindByRecipientID(ctx context.Context, recipientID uint, status models.InvitationStatus) ([]models.Invitation, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Invitation, error)
	UpdateStatus(ctx context.Context, id uint, status models.InvitationStatus, respondedAt *time.Time) error
	CountByRecipientAndStatus(ctx context.Context, recipientID uint, status models.InvitationStatus) (int64, error)
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type InvitationRepository struct {
	baseRepository
}

func NewInvitationRepository(db *gorm.DB) IInvitationRepository {
	return &InvitationRepository{baseRepository{db: db}}
}

// Create relies on the unique (recipient_id, event_id) index; a violation is
// reported as ErrDuplicateInvitation.
func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.EventID == 0 || invitation.RecipientID == 0 {
		return errors.New("invitation without event or recipient cannot be created")
	}
	err := r.getDB(ctx).Omit(clause.Associations).Create(invitation).Error
	if IsDuplicateError(err) {
		return ErrDuplicateInvitation
	}
	return err
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var invitation models.Invitation
	if err := r.getDB(ctx).Preload("Event").First(&invitation, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("InvitationRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		}
		return nil, translateNotFound(err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var invitation models.Invitation
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&invitation, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) FindByRecipientAndEvent(ctx context.Context, recipientID, eventID uint) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.getDB(ctx).Where("recipient_id = ? AND event_id = ?", recipientID, eventID).First(&invitation).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &invitation, nil
}

// FindByRecipientID lists a user's invitations, newest first. An empty status lists all.
func (r *InvitationRepository) FindByRecipientID(ctx context.Context, recipientID uint, status models.InvitationStatus) ([]models.Invitation, error) {
	var invitations []models.Invitation
	query := r.getDB(ctx).Preload("Event").Where("recipient_id = ?", recipientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at desc").Order("id desc").Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.getDB(ctx).Preload("Recipient").
		Where("event_id = ?", eventID).
		Order("created_at asc").Order("id").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uint, status models.InvitationStatus, respondedAt *time.Time) error {
	updates := map[string]any{"status": status, "updated_at": time.Now().UTC()}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}
	res := r.getDB(ctx).Model(&models.Invitation{}).Where("id = ?", id).UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) CountByRecipientAndStatus(ctx context.Context, recipientID uint, status models.InvitationStatus) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Invitation{}).
		Where("recipient_id = ? AND status = ?", recipientID, status).
		Count(&count).Error
	return count, err
}

func (r *InvitationRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	return r.getDB(ctx).Where("event_id = ?", eventID).Delete(&models.Invitation{}).Error
}

var _ IInvitationRepository = (*InvitationRepository)(nil)
