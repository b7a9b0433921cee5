package seeders

import (
	"context"
	"errors"
	"strings"

	"planora.app/configs/configslog"
	"planora.app/models"
	"planora.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OwnerIdentity describes the account created by SeedOwner. ExternalID must
// match what the auth proxy will send for that person.
type OwnerIdentity struct {
	ExternalID string
	Email      string
	Name       string
}

// SeedOwner makes sure the given identity exists with the OWNER role.
// An existing account is promoted; nothing else about it changes.
func SeedOwner(ctx context.Context, db *gorm.DB, owner OwnerIdentity) error {
	owner.Email = strings.ToLower(strings.TrimSpace(owner.Email))
	if owner.Email == "" {
		return errors.New("owner email is required")
	}
	if owner.ExternalID == "" {
		owner.ExternalID = owner.Email
	}
	if owner.Name == "" {
		owner.Name = strings.SplitN(owner.Email, "@", 2)[0]
	}

	repo := repositories.NewUserRepository(db)
	existing, err := repo.FindByEmail(ctx, owner.Email)
	switch {
	case err == nil:
		if existing.Role == models.RoleOwner {
			configslog.SLog.Debugf("Owner %s already present", owner.Email)
			return nil
		}
		if err := repo.UpdateRole(ctx, existing.ID, models.RoleOwner); err != nil {
			configslog.Log.Error("Owner could not be promoted", zap.String("email", owner.Email), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Existing user %s promoted to OWNER", owner.Email)
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	user := &models.User{
		Email:          owner.Email,
		Name:           owner.Name,
		Role:           models.RoleOwner,
		ExternalAuthID: owner.ExternalID,
	}
	if err := repo.Create(ctx, user); err != nil {
		configslog.Log.Error("Owner could not be created", zap.String("email", owner.Email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Owner %s created", owner.Email)
	return nil
}
