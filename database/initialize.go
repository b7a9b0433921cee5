package database

import (
	"context"
	"errors"

	"planora.app/configs/configslog"
	"planora.app/database/migrations"
	"planora.app/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects which setup steps Initialize runs.
type Options struct {
	Migrate bool
	Seed    bool
	// Owner is seeded with the OWNER role when its email is set.
	Owner seeders.OwnerIdentity
}

// Initialize runs migrations and seeders in a single transaction so a failed
// step leaves the database as it was.
func Initialize(ctx context.Context, db *gorm.DB, opts Options) error {
	if !opts.Migrate && !opts.Seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do")
		return nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Migrate {
			configslog.SLog.Info("Running migrations...")
			if err := migrations.Run(tx); err != nil {
				return err
			}
			configslog.SLog.Info("Migrations complete")
		}
		if opts.Seed {
			configslog.SLog.Info("Running seeders...")
			if err := RunSeeders(ctx, tx, opts.Owner); err != nil {
				return err
			}
			configslog.SLog.Info("Seeders complete")
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("Database initialization failed, rolled back", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Database initialization committed")
	return nil
}

// RunSeeders seeds reference data. Every seeder is idempotent.
func RunSeeders(ctx context.Context, db *gorm.DB, owner seeders.OwnerIdentity) error {
	if err := seeders.SeedCategories(ctx, db); err != nil {
		return err
	}
	if owner.Email != "" {
		if err := seeders.SeedOwner(ctx, db, owner); err != nil {
			return err
		}
	}
	return nil
}

// ErrNothingToDo is returned by callers that require at least one step.
var ErrNothingToDo = errors.New("none of -migrate, -seed or -rollback was given")
