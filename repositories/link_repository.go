package repositories

import (
	"context"
	"errors"

	"planora.app/configs/configslog"
	"planora.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ILinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	FindByKey(ctx context.Context, key string) (*models.Link, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Link, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, id uint) error
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type LinkRepository struct {
	baseRepository
}

func NewLinkRepository(db *gorm.DB) ILinkRepository {
	return &LinkRepository{baseRepository{db: db}}
}

// Create inserts the link; the key is generated by the model hook when empty.
func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	if link == nil || link.EventID == 0 {
		return errors.New("link without event cannot be created")
	}
	return r.getDB(ctx).Omit(clause.Associations).Create(link).Error
}

func (r *LinkRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var link models.Link
	err := r.getDB(ctx).Preload("Event").Where("key = ?", key).First(&link).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("LinkRepository.FindByKey: DB error", zap.String("key", key), zap.Error(err))
		}
		return nil, translateNotFound(err)
	}
	return &link, nil
}

func (r *LinkRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Link, error) {
	var links []models.Link
	err := r.getDB(ctx).Where("event_id = ?", eventID).Order("created_at asc").Order("id").Find(&links).Error
	return links, err
}

func (r *LinkRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Link{}).Where("key = ?", key).Count(&count).Error
	if err != nil {
		configslog.Log.Error("LinkRepository.KeyExists: DB error", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *LinkRepository) Delete(ctx context.Context, id uint) error {
	res := r.getDB(ctx).Delete(&models.Link{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LinkRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	return r.getDB(ctx).Where("event_id = ?", eventID).Delete(&models.Link{}).Error
}

var _ ILinkRepository = (*LinkRepository)(nil)
