package models

import "time"

// InvitationStatus tracks a sender-to-recipient request to join an event.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "PENDING"
	InvitationStatusAccepted  InvitationStatus = "ACCEPTED"
	InvitationStatusDeclined  InvitationStatus = "DECLINED"
	InvitationStatusMaybe     InvitationStatus = "MAYBE"
	InvitationStatusCancelled InvitationStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s InvitationStatus) Terminal() bool {
	switch s {
	case InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusCancelled:
		return true
	default:
		return false
	}
}

// Respondable reports whether a recipient may move an invitation into this status.
func (s InvitationStatus) Respondable() bool {
	switch s {
	case InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusMaybe:
		return true
	default:
		return false
	}
}

// RsvpStatus is the rsvp an answered invitation implies for its recipient.
func (s InvitationStatus) RsvpStatus() RsvpStatus {
	switch s {
	case InvitationStatusAccepted:
		return RsvpStatusAttending
	case InvitationStatusDeclined:
		return RsvpStatusDeclined
	case InvitationStatusMaybe:
		return RsvpStatusMaybe
	default:
		return RsvpStatusPending
	}
}

type Invitation struct {
	BaseModel
	Status      InvitationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Message     string           `gorm:"type:text" json:"message,omitempty"`
	SenderID    uint             `gorm:"not null;index" json:"sender_id"`
	RecipientID uint             `gorm:"not null;uniqueIndex:idx_invitation_recipient_event" json:"recipient_id"`
	EventID     uint             `gorm:"not null;uniqueIndex:idx_invitation_recipient_event;index" json:"event_id"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`

	Sender    *User  `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender,omitempty"`
	Recipient *User  `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipient,omitempty"`
	Event     *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"event,omitempty"`
}
