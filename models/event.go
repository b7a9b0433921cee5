package models

import (
	"time"

	"planora.app/pkg/textsearch"

	"gorm.io/gorm"
)

// EventStatus is stored as UPCOMING or CANCELLED; ONGOING and PAST are
// derived from the wall clock by EffectiveStatus.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "UPCOMING"
	EventStatusOngoing   EventStatus = "ONGOING"
	EventStatusPast      EventStatus = "PAST"
	EventStatusCancelled EventStatus = "CANCELLED"
)

const DefaultEventColor = "#3b82f6"

type Event struct {
	BaseModel
	Title        string      `gorm:"type:varchar(255);not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	Location     string      `gorm:"type:varchar(255)" json:"location,omitempty"`
	StartsAt     time.Time   `gorm:"not null;index" json:"starts_at"`
	EndsAt       time.Time   `gorm:"not null;index" json:"ends_at"`
	AllDay       bool        `gorm:"not null;default:false" json:"all_day"`
	Status       EventStatus `gorm:"type:varchar(20);not null;default:'UPCOMING';index" json:"status"`
	Recurrence   JSONMap     `json:"recurrence,omitempty"`
	Color        string      `gorm:"type:varchar(20);not null;default:'#3b82f6'" json:"color"`
	MaxAttendees *int        `json:"max_attendees,omitempty"`
	OwnerID      uint        `gorm:"not null;index" json:"owner_id"`
	SearchTitle  string      `gorm:"type:varchar(255);index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// BeforeSave keeps the folded search column in step with Title.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	if e.Title == "" {
		return nil
	}
	e.SearchTitle = textsearch.Fold(e.Title)
	tx.Statement.SetColumn("SearchTitle", e.SearchTitle)
	return nil
}

// IsCancelled reports whether the event has been cancelled. Cancellation is terminal.
func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// EffectiveStatus buckets a non-cancelled event by comparing now with its time range.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	switch {
	case e.IsCancelled():
		return EventStatusCancelled
	case now.Before(e.StartsAt):
		return EventStatusUpcoming
	case now.After(e.EndsAt):
		return EventStatusPast
	default:
		return EventStatusOngoing
	}
}

// Overlaps reports whether the event intersects [start, end).
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.StartsAt.Before(end) && start.Before(e.EndsAt)
}
