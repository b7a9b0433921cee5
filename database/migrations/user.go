package migrations

import (
	"planora.app/models"

	"github.com/go-gormigrate/gormigrate/v2"
)

func usersMigration() *gormigrate.Migration {
	return createTable("20250101-0000", &models.User{})
}
