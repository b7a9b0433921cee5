package repositories

import (
	"context"

	"planora.app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ICategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	// EnsureByName inserts the category unless one with the same name exists.
	EnsureByName(ctx context.Context, category *models.Category) error
}

type CategoryRepository struct {
	baseRepository
}

func NewCategoryRepository(db *gorm.DB) ICategoryRepository {
	return &CategoryRepository{baseRepository{db: db}}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.getDB(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var category models.Category
	if err := r.getDB(ctx).First(&category, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &category, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.getDB(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &category, nil
}

func (r *CategoryRepository) EnsureByName(ctx context.Context, category *models.Category) error {
	return r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(category).Error
}

var _ ICategoryRepository = (*CategoryRepository)(nil)
