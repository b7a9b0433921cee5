package main

import (
	"context"
	"flag"

	"planora.app/configs"
	"planora.app/configs/configslog"
	"planora.app/database"
	"planora.app/database/migrations"
	"planora.app/database/seeders"

	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "apply pending migrations")
	seedFlag := flag.Bool("seed", false, "seed reference data")
	rollbackFlag := flag.Bool("rollback", false, "undo the most recently applied migration and exit")
	ownerEmail := flag.String("owner-email", "", "email of an account to create or promote to OWNER while seeding")
	ownerID := flag.String("owner-id", "", "external auth id of that account (defaults to the email)")
	ownerName := flag.String("owner-name", "", "display name of that account")
	flag.Parse()

	if !*migrateFlag && !*seedFlag && !*rollbackFlag {
		configslog.Log.Fatal("Database setup aborted", zap.Error(database.ErrNothingToDo))
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		configslog.Log.Fatal("Configuration could not be loaded", zap.Error(err))
	}
	if err := configs.InitDB(cfg.DB, cfg.IsProduction()); err != nil {
		configslog.Log.Fatal("Database unavailable", zap.Error(err))
	}
	defer configs.CloseDB()

	if *rollbackFlag {
		if err := migrations.RollbackLast(configs.GetDB()); err != nil {
			configslog.Log.Fatal("Rollback failed", zap.Error(err))
		}
		configslog.SLog.Info("Last migration rolled back")
		return
	}

	opts := database.Options{
		Migrate: *migrateFlag,
		Seed:    *seedFlag,
		Owner:   seeders.OwnerIdentity{ExternalID: *ownerID, Email: *ownerEmail, Name: *ownerName},
	}
	if err := database.Initialize(context.Background(), configs.GetDB(), opts); err != nil {
		configslog.Log.Fatal("Database setup failed", zap.Error(err))
	}
}
