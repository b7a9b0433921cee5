package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"planora.app/authz"
	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Identity is what the auth proxy tells us about the signed-in person.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

type IUserService interface {
	EnsureUser(ctx context.Context, id Identity) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ChangeRole(ctx context.Context, p authz.Principal, userID uint, role models.Role) (*models.User, error)
	List(ctx context.Context, p authz.Principal, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
}

type UserService struct {
	db          *gorm.DB
	defaultRole models.Role
}

func NewUserService(db *gorm.DB, defaultRole models.Role) IUserService {
	if !defaultRole.Valid() {
		defaultRole = models.RoleGuest
	}
	return &UserService{db: db, defaultRole: defaultRole}
}

// EnsureUser returns the user bound to id.ExternalID, creating it on first
// sign-in. The very first user of a tenant becomes OWNER.
func (s *UserService) EnsureUser(ctx context.Context, id Identity) (*models.User, error) {
	id.ExternalID = strings.TrimSpace(id.ExternalID)
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	id.Name = strings.TrimSpace(id.Name)
	if id.ExternalID == "" || id.Email == "" {
		return nil, Validation("sign-in identity requires an id and an email")
	}
	if id.Name == "" {
		id.Name = strings.SplitN(id.Email, "@", 2)[0]
	}

	repo := repositories.NewUserRepository(s.db)
	user, err := repo.FindByExternalAuthID(ctx, id.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("looking up user by external id: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repositories.NewUserRepository(tx)
		if existing, err := txRepo.FindByEmail(ctx, id.Email); err == nil && existing.ExternalAuthID != id.ExternalID {
			return Conflict("email %s is already registered to another account", id.Email)
		}
		count, err := txRepo.Count(ctx)
		if err != nil {
			return err
		}
		role := s.defaultRole
		if count == 0 {
			role = models.RoleOwner
		}
		user = &models.User{Email: id.Email, Name: id.Name, Role: role, ExternalAuthID: id.ExternalID}
		return txRepo.Create(ctx, user)
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		if repositories.IsDuplicateError(err) {
			// a concurrent first sign-in won the insert
			return repo.FindByExternalAuthID(ctx, id.ExternalID)
		}
		configslog.Log.Error("User could not be created on sign-in", zap.String("email", id.Email), zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}
	configslog.SLog.Infof("User created on first sign-in: %s (%s)", user.Email, user.Role)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := repositories.NewUserRepository(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) ChangeRole(ctx context.Context, p authz.Principal, userID uint, role models.Role) (*models.User, error) {
	if !p.Can(authz.UsersManage) {
		return nil, ErrPermissionDenied
	}
	if !role.Valid() {
		return nil, Validation("unknown role %q", role)
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewUserRepository(tx)
		var err error
		user, err = repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Role == role {
			return nil
		}
		if user.Role == models.RoleOwner {
			owners, err := repo.CountByRole(ctx, models.RoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}
		if err := repo.UpdateRole(ctx, user.ID, role); err != nil {
			return err
		}
		previous := user.Role
		user.Role = role
		return recordActivity(ctx, tx, p.UserID, nil, fmt.Sprintf(ActionRoleChanged, user.Email, role),
			models.JSONMap{"user_id": user.ID, "from": previous, "to": role})
	})
	if err != nil {
		if IsDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("changing role of user %d: %w", userID, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, p authz.Principal, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if !p.Can(authz.UsersManage) {
		return nil, ErrPermissionDenied
	}
	params.Validate()
	users, total, err := repositories.NewUserRepository(s.db).FindAllPaginated(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return queryparams.NewPaginatedResult(users, params, total), nil
}

var _ IUserService = (*UserService)(nil)
