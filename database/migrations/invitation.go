package migrations

import (
	"planora.app/models"

	"github.com/go-gormigrate/gormigrate/v2"
)

// One invitation per (recipient, event), whatever its status.
func invitationsMigration() *gormigrate.Migration {
	return createTable("20250101-0030", &models.Invitation{})
}

func activitiesMigration() *gormigrate.Migration {
	return createTable("20250101-0040", &models.Activity{})
}
