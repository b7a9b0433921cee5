package repositories

import (
	"context"
	"strings"

	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByExternalAuthID(ctx context.Context, externalID string) (*models.User, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id uint, role models.Role) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type UserRepository struct {
	baseRepository
}

// NewUserRepository works on either the shared connection or a transaction.
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{baseRepository{db: db}}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.getDB(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	var user models.User
	if err := r.getDB(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrNotFound
	}
	var user models.User
	if err := r.getDB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByExternalAuthID(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, ErrNotFound
	}
	var user models.User
	if err := r.getDB(ctx).Where("external_auth_id = ?", externalID).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.getDB(ctx).Model(&models.User{})
	if params.Name != "" {
		like := "%" + strings.ToLower(params.Name) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR email LIKE ?)", like, like)
	}
	if role := models.Role(strings.ToUpper(params.Status)); role.Valid() {
		query = query.Where("role = ?", role)
	}
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("UserRepository.FindAllPaginated: count failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return users, 0, nil
	}

	orderColumn := map[string]string{"id": "id", "name": "name", "email": "email", "created_at": "created_at"}[params.SortBy]
	if orderColumn == "" {
		orderColumn = "created_at"
	}
	err := query.Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&users).Error
	if err != nil {
		configslog.Log.Error("UserRepository.FindAllPaginated: find failed", zap.Error(err))
		return nil, total, err
	}
	return users, total, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	res := r.getDB(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

var _ IUserRepository = (*UserRepository)(nil)
