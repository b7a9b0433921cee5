package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category groups inventory items. The set is seeded and AI suggestions are
// only accepted when they match one of these slugs.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

const (
	CategoryNameAudioVisual = "Audio & Visual"
	CategoryNameFurniture   = "Furniture"
	CategoryNameCatering    = "Catering"
	CategoryNameDecoration  = "Decoration"
	CategoryNameStationery  = "Stationery"
	CategoryNameOther       = "Other"
)

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
