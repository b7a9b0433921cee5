package models

// Activity is an append-only audit record. EventID is nil for user-scoped entries.
type Activity struct {
	BaseModel
	Action  string  `gorm:"type:text;not null" json:"action"`
	Details JSONMap `json:"details,omitempty"`
	ActorID uint    `gorm:"not null;index" json:"actor_id"`
	EventID *uint   `gorm:"index" json:"event_id,omitempty"`

	Actor User `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
