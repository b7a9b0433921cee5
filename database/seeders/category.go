package seeders

import (
	"context"

	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCategories is the closed set category suggestions choose from.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: models.CategoryNameAudioVisual, Description: "Projectors, speakers, microphones and cabling"},
		{Name: models.CategoryNameFurniture, Description: "Chairs, tables, stages and tents"},
		{Name: models.CategoryNameCatering, Description: "Tableware and food service equipment"},
		{Name: models.CategoryNameDecoration, Description: "Banners, flowers and lighting decor"},
		{Name: models.CategoryNameStationery, Description: "Badges, signage and printed material"},
		{Name: models.CategoryNameOther, Description: "Everything else"},
	}
}

// SeedCategories inserts missing default categories. Existing rows are left untouched.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewCategoryRepository(db)
	for _, category := range DefaultCategories() {
		category := category
		if err := repo.EnsureByName(ctx, &category); err != nil {
			configslog.Log.Error("Category could not be seeded", zap.String("name", category.Name), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Infof("%d default categories ensured", len(DefaultCategories()))
	return nil
}
