package migrations

import (
	"planora.app/models"

	"github.com/go-gormigrate/gormigrate/v2"
)

func categoriesMigration() *gormigrate.Migration {
	return createTable("20250101-0005", &models.Category{})
}

func inventoryItemsMigration() *gormigrate.Migration {
	return createTable("20250101-0060", &models.InventoryItem{})
}
