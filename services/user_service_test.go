package services

import (
	"context"
	"fmt"
	"testing"

	"planora.app/models"
	"planora.app/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewUserService(db, models.RoleGuest)

	first, err := svc.EnsureUser(ctx, Identity{ExternalID: "idp|1", Email: " First@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, first.Role, "first user bootstraps the tenant")
	assert.Equal(t, "first@example.com", first.Email)
	assert.Equal(t, "first", first.Name)

	second, err := svc.EnsureUser(ctx, Identity{ExternalID: "idp|2", Email: "second@example.com", Name: "Second"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, second.Role)

	again, err := svc.EnsureUser(ctx, Identity{ExternalID: "idp|2", Email: "second@example.com"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, again.ID)

	_, err = svc.EnsureUser(ctx, Identity{ExternalID: "idp|3", Email: "second@example.com"})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = svc.EnsureUser(ctx, Identity{ExternalID: "idp|4"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestChangeRole(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewUserService(db, models.RoleGuest)
	owner := createUser(t, db, "owner@example.com", models.RoleOwner)
	member := createUser(t, db, "member@example.com", models.RoleMember)

	_, err := svc.ChangeRole(ctx, member, owner.UserID, models.RoleGuest)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ChangeRole(ctx, owner, owner.UserID, models.RoleMember)
	assert.ErrorIs(t, err, ErrLastOwner)

	_, err = svc.ChangeRole(ctx, owner, member.UserID, models.Role("ADMIN"))
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.ChangeRole(ctx, owner, 4242, models.RoleGuest)
	assert.ErrorIs(t, err, ErrUserNotFound)

	promoted, err := svc.ChangeRole(ctx, owner, member.UserID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, promoted.Role)
	assert.Equal(t, int64(1), countRows(t, db, &models.Activity{}, "action = ?",
		fmt.Sprintf(ActionRoleChanged, "member@example.com", models.RoleOwner)))

	// with a second owner the first may step down
	demoted, err := svc.ChangeRole(ctx, owner, owner.UserID, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, demoted.Role)

	stored, err := svc.GetByID(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, stored.Role)
}

func TestListUsers(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewUserService(db, models.RoleGuest)
	owner := createUser(t, db, "owner@example.com", models.RoleOwner)
	member := createUser(t, db, "member@example.com", models.RoleMember)

	params := queryparams.DefaultListParams("id")
	page, err := svc.List(ctx, owner, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.TotalItems)

	params.Name = "memb"
	page, err = svc.List(ctx, owner, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.TotalItems)

	_, err = svc.List(ctx, member, params)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
