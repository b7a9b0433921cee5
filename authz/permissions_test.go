package authz

import (
	"testing"

	"planora.app/models"

	"github.com/stretchr/testify/assert"
)

func TestHasPermissionTable(t *testing.T) {
	granted := map[models.Role][]Action{
		models.RoleOwner: AllActions(),
		models.RoleMember: {
			EventsRead, EventsCreate, InvitationsSend, SettingsRead, DashboardRead,
			CalendarRead, ActivityRead, InventoryRead, InventoryManage,
		},
		models.RoleGuest: {EventsRead, SettingsRead, DashboardRead, CalendarRead, InventoryRead},
	}

	for _, role := range AllRoles() {
		allowed := make(map[Action]bool)
		for _, a := range granted[role] {
			allowed[a] = true
		}
		for _, action := range AllActions() {
			assert.Equal(t, allowed[action], HasPermission(role, action), "%s / %s", role, action)
		}
	}
}

func TestHasPermissionDeniesUnknown(t *testing.T) {
	assert.False(t, HasPermission(models.Role("ADMIN"), EventsRead))
	assert.False(t, HasPermission(models.Role(""), EventsRead))
	for _, role := range AllRoles() {
		assert.False(t, HasPermission(role, Action("events:purge")), string(role))
	}
}

func TestGuestCannotWrite(t *testing.T) {
	for _, a := range []Action{EventsCreate, InvitationsSend, UsersManage, SettingsManage, InventoryManage} {
		assert.False(t, HasPermission(models.RoleGuest, a), string(a))
	}
}

func TestPermissionsMatchesTable(t *testing.T) {
	perms := Permissions(models.RoleMember)
	assert.True(t, perms[EventsCreate])
	assert.False(t, perms[UsersManage])
	assert.Len(t, Permissions(models.RoleOwner), len(AllActions()))
	assert.Empty(t, Permissions(models.Role("nobody")))
}
