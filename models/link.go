package models

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	linkKeyLength   = 11
	linkKeyAlphabet = "0123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
)

// Link binds a unique public key to an event so it can be shared without sign-in.
type Link struct {
	BaseModel
	Key           string `gorm:"type:varchar(11);uniqueIndex;not null" json:"key"`
	EventID       uint   `gorm:"not null;index" json:"event_id"`
	CreatorUserID uint   `gorm:"not null;index" json:"creator_user_id"`

	Event   *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"event,omitempty"`
	Creator User   `gorm:"foreignKey:CreatorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// BeforeCreate fills Key when the caller left it empty.
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.Key != "" {
		return nil
	}
	key, err := NewLinkKey()
	if err != nil {
		return err
	}
	l.Key = key
	return nil
}

// NewLinkKey returns a random key without easily confused characters.
func NewLinkKey() (string, error) {
	key, err := gonanoid.Generate(linkKeyAlphabet, linkKeyLength)
	if err != nil {
		return "", fmt.Errorf("link key could not be generated: %w", err)
	}
	return key, nil
}

// ValidLinkKey is a cheap format check before hitting the database.
func ValidLinkKey(key string) bool {
	if len(key) != linkKeyLength {
		return false
	}
	for _, r := range key {
		if !strings.ContainsRune(linkKeyAlphabet, r) {
			return false
		}
	}
	return true
}

