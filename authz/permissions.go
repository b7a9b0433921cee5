// Package authz decides what a principal may do. Every function here is pure
// so the same checks can drive template rendering and server-side enforcement.
package authz

import "planora.app/models"

// Action is a named permission gated by role.
type Action string

const (
	EventsRead      Action = "events:read"
	EventsCreate    Action = "events:create"
	InvitationsSend Action = "invitations:send"
	UsersManage     Action = "users:manage"
	SettingsRead    Action = "settings:read"
	SettingsManage  Action = "settings:manage"
	DashboardRead   Action = "dashboard:read"
	CalendarRead    Action = "calendar:read"
	ActivityRead    Action = "activity:read"
	InventoryRead   Action = "inventory:read"
	InventoryManage Action = "inventory:manage"
)

// AllActions lists the closed set of actions known to the permission table.
func AllActions() []Action {
	return []Action{
		EventsRead, EventsCreate, InvitationsSend, UsersManage,
		SettingsRead, SettingsManage, DashboardRead, CalendarRead,
		ActivityRead, InventoryRead, InventoryManage,
	}
}

// HasPermission reports whether role may perform action.
// Unknown roles and unknown actions are denied.
func HasPermission(role models.Role, action Action) bool {
	switch role {
	case models.RoleOwner:
		return ownerCan(action)
	case models.RoleMember:
		return memberCan(action)
	case models.RoleGuest:
		return guestCan(action)
	default:
		return false
	}
}

func ownerCan(action Action) bool {
	switch action {
	case EventsRead, EventsCreate, InvitationsSend, UsersManage,
		SettingsRead, SettingsManage, DashboardRead, CalendarRead,
		ActivityRead, InventoryRead, InventoryManage:
		return true
	default:
		return false
	}
}

func memberCan(action Action) bool {
	switch action {
	case EventsRead, EventsCreate, InvitationsSend,
		SettingsRead, DashboardRead, CalendarRead,
		ActivityRead, InventoryRead, InventoryManage:
		return true
	case UsersManage, SettingsManage:
		return false
	default:
		return false
	}
}

func guestCan(action Action) bool {
	switch action {
	case EventsRead, SettingsRead, DashboardRead, CalendarRead, InventoryRead:
		return true
	case EventsCreate, InvitationsSend, UsersManage, SettingsManage,
		ActivityRead, InventoryManage:
		return false
	default:
		return false
	}
}

// Permissions returns the set of actions granted to a role.
// Templates use it to toggle navigation entries.
func Permissions(role models.Role) map[Action]bool {
	granted := make(map[Action]bool)
	for _, a := range AllActions() {
		if HasPermission(role, a) {
			granted[a] = true
		}
	}
	return granted
}

// AllRoles lists the closed set of roles the table decides for.
func AllRoles() []models.Role {
	return models.Roles()
}
