package migrations

import (
	"planora.app/models"

	"github.com/go-gormigrate/gormigrate/v2"
)

func linksMigration() *gormigrate.Migration {
	return createTable("20250101-0050", &models.Link{})
}
