package models

// RsvpStatus is a user's response to an event.
type RsvpStatus string

const (
	RsvpStatusPending   RsvpStatus = "PENDING" // default only, never a settable target
	RsvpStatusAttending RsvpStatus = "ATTENDING"
	RsvpStatusMaybe     RsvpStatus = "MAYBE"
	RsvpStatusDeclined  RsvpStatus = "DECLINED"
)

// Settable reports whether a user may move an rsvp into this status.
func (s RsvpStatus) Settable() bool {
	switch s {
	case RsvpStatusAttending, RsvpStatusMaybe, RsvpStatusDeclined:
		return true
	default:
		return false
	}
}

type Rsvp struct {
	BaseModel
	Status  RsvpStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Note    string     `gorm:"type:text" json:"note,omitempty"`
	UserID  uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event" json:"user_id"`
	EventID uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event;index" json:"event_id"`

	User  *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
