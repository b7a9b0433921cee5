package repositories

import (
	"context"

	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/pkg/textsearch"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilter narrows inventory listings beyond ListParams.
type InventoryFilter struct {
	CategoryID   uint
	LowStockOnly bool
}

type IInventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	AdjustQuantity(ctx context.Context, id uint, delta int) error
	Delete(ctx context.Context, id uint) error
	FindAllPaginated(ctx context.Context, params queryparams.ListParams, filter InventoryFilter) ([]models.InventoryItem, int64, error)
	FindLowStock(ctx context.Context, limit int) ([]models.InventoryItem, error)
	CountLowStock(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type InventoryRepository struct {
	baseRepository
}

func NewInventoryRepository(db *gorm.DB) IInventoryRepository {
	return &InventoryRepository{baseRepository{db: db}}
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.getDB(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *InventoryRepository) FindByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var item models.InventoryItem
	if err := r.getDB(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	if item == nil || item.ID == 0 {
		return ErrInvalidID
	}
	res := r.getDB(ctx).Model(item).Omit(clause.Associations).
		Select("Name", "SKU", "Description", "Quantity", "LowStockThreshold",
			"UnitPrice", "Location", "CategoryID").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustQuantity applies delta atomically and refuses to go below zero.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id uint, delta int) error {
	res := r.getDB(ctx).Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.getDB(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InventoryRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams, filter InventoryFilter) ([]models.InventoryItem, int64, error) {
	var items []models.InventoryItem
	var total int64

	query := r.getDB(ctx).Model(&models.InventoryItem{})
	if params.Name != "" {
		pattern := textsearch.LikePattern(params.Name)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.LowStockOnly {
		query = query.Where("quantity <= low_stock_threshold")
	}

	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("InventoryRepository.FindAllPaginated: count failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return items, 0, nil
	}

	allowedSortColumns := map[string]string{
		"id":         "id",
		"name":       "name",
		"quantity":   "quantity",
		"unit_price": "unit_price",
		"created_at": "created_at",
	}
	orderColumn, ok := allowedSortColumns[params.SortBy]
	if !ok {
		orderColumn = "name"
	}
	err := query.Preload("Category").
		Order(orderColumn + " " + params.OrderBy).Order("id").
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&items).Error
	if err != nil {
		configslog.Log.Error("InventoryRepository.FindAllPaginated: find failed", zap.Error(err))
		return nil, total, err
	}
	return items, total, nil
}

func (r *InventoryRepository) FindLowStock(ctx context.Context, limit int) ([]models.InventoryItem, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []models.InventoryItem
	err := r.getDB(ctx).Preload("Category").
		Where("quantity <= low_stock_threshold").
		Order("quantity asc").Order("id").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *InventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.InventoryItem{}).Where("quantity <= low_stock_threshold").Count(&count).Error
	return count, err
}

func (r *InventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.InventoryItem{}).Count(&count).Error
	return count, err
}

var _ IInventoryRepository = (*InventoryRepository)(nil)
