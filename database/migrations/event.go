package migrations

import (
	"planora.app/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func eventsMigration() *gormigrate.Migration {
	return createTable("20250101-0010", &models.Event{})
}

// rsvpsMigration relies on the composite unique index on (user_id, event_id)
// declared on the model; RSVP writes upsert against it.
func rsvpsMigration() *gormigrate.Migration {
	m := createTable("20250101-0020", &models.Rsvp{})
	migrate := m.Migrate
	m.Migrate = func(tx *gorm.DB) error {
		if err := migrate(tx); err != nil {
			return err
		}
		if !tx.Migrator().HasIndex(&models.Rsvp{}, "idx_rsvp_user_event") {
			return tx.Migrator().CreateIndex(&models.Rsvp{}, "idx_rsvp_user_event")
		}
		return nil
	}
	return m
}
