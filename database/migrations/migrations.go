// Package migrations holds the ordered schema history. IDs are
// YYYYMMDD-HHMM timestamps and must sort ascending; applied IDs are
// recorded by gormigrate so each step runs once.
package migrations

import (
	"planora.app/configs/configslog"

	"github.com/go-gormigrate/gormigrate/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// All returns every migration in the order it must be applied.
// Tables come after the tables they reference.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		usersMigration(),
		categoriesMigration(),
		eventsMigration(),
		rsvpsMigration(),
		invitationsMigration(),
		activitiesMigration(),
		linksMigration(),
		inventoryItemsMigration(),
	}
}

// Run applies every pending migration.
func Run(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, All())
	if err := m.Migrate(); err != nil {
		configslog.Log.Error("Migrations failed", zap.Error(err))
		return err
	}
	return nil
}

// RollbackLast undoes the most recently applied migration.
func RollbackLast(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, All()).RollbackLast()
}

// createTable builds a migration that creates the tables for models and
// drops them, in reverse order, on rollback.
func createTable(id string, models ...any) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(tx *gorm.DB) error {
			for _, m := range models {
				if err := tx.AutoMigrate(m); err != nil {
					return err
				}
			}
			configslog.SLog.Infof("Migration %s applied", id)
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for i := len(models) - 1; i >= 0; i-- {
				if err := tx.Migrator().DropTable(models[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
