package authz

import "planora.app/models"

// Principal is the authenticated caller. Handlers build it from the session and
// pass it explicitly to every service call; the role is always reloaded from
// the database, never taken from the client.
type Principal struct {
	UserID uint
	Role   models.Role
}

// Can is shorthand for HasPermission on the principal's role.
func (p Principal) Can(action Action) bool {
	return HasPermission(p.Role, action)
}

// IsAuthenticated reports whether the principal refers to a real user.
func (p Principal) IsAuthenticated() bool {
	return p.UserID != 0 && p.Role.Valid()
}

// CanEdit: OWNER always; MEMBER only for events they own; GUEST never.
func CanEdit(p Principal, ev *models.Event) bool {
	if ev == nil || !p.IsAuthenticated() {
		return false
	}
	switch p.Role {
	case models.RoleOwner:
		return true
	case models.RoleMember:
		return ev.OwnerID == p.UserID
	default:
		return false
	}
}

// CanDelete is reserved to the tenant-wide OWNER role; ownership does not grant it.
func CanDelete(p Principal, ev *models.Event) bool {
	if ev == nil || !p.IsAuthenticated() {
		return false
	}
	return p.Role == models.RoleOwner
}

// CanInvite requires invitations:send and an event that is not cancelled.
func CanInvite(p Principal, ev *models.Event) bool {
	if ev == nil || !p.IsAuthenticated() {
		return false
	}
	return p.Can(InvitationsSend) && !ev.IsCancelled()
}

// CanCancelInvitation allows the sender, the event owner, or the OWNER role.
func CanCancelInvitation(p Principal, inv *models.Invitation, ev *models.Event) bool {
	if inv == nil || !p.IsAuthenticated() {
		return false
	}
	if p.Role == models.RoleOwner || inv.SenderID == p.UserID {
		return true
	}
	return ev != nil && ev.OwnerID == p.UserID
}

// EventCapabilities is the per-event view of the policy, handy for templates.
type EventCapabilities struct {
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
	Invite bool `json:"invite"`
	Rsvp   bool `json:"rsvp"`
}

func CapabilitiesFor(p Principal, ev *models.Event) EventCapabilities {
	return EventCapabilities{
		Edit:   CanEdit(p, ev) && !ev.IsCancelled(),
		Delete: CanDelete(p, ev),
		Invite: CanInvite(p, ev),
		Rsvp:   p.IsAuthenticated() && ev != nil && !ev.IsCancelled(),
	}
}
