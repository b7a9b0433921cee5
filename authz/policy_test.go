package authz

import (
	"testing"

	"planora.app/models"

	"github.com/stretchr/testify/assert"
)

func event(ownerID uint, status models.EventStatus) *models.Event {
	return &models.Event{OwnerID: ownerID, Status: status}
}

func TestCanEdit(t *testing.T) {
	owned := event(1, models.EventStatusUpcoming)
	tests := []struct {
		name string
		p    Principal
		want bool
	}{
		{"owner role edits anything", Principal{UserID: 9, Role: models.RoleOwner}, true},
		{"member edits own event", Principal{UserID: 1, Role: models.RoleMember}, true},
		{"member cannot edit others", Principal{UserID: 2, Role: models.RoleMember}, false},
		{"guest never edits", Principal{UserID: 1, Role: models.RoleGuest}, false},
		{"anonymous never edits", Principal{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.p, owned))
		})
	}
	assert.False(t, CanEdit(Principal{UserID: 1, Role: models.RoleOwner}, nil))
}

func TestCanDeleteRequiresOwnerRole(t *testing.T) {
	ev := event(1, models.EventStatusUpcoming)
	assert.True(t, CanDelete(Principal{UserID: 5, Role: models.RoleOwner}, ev))
	assert.False(t, CanDelete(Principal{UserID: 1, Role: models.RoleMember}, ev))
	assert.False(t, CanDelete(Principal{UserID: 1, Role: models.RoleGuest}, ev))
}

func TestCanInvite(t *testing.T) {
	member := Principal{UserID: 2, Role: models.RoleMember}
	assert.True(t, CanInvite(member, event(1, models.EventStatusUpcoming)))
	assert.False(t, CanInvite(member, event(1, models.EventStatusCancelled)))
	assert.False(t, CanInvite(Principal{UserID: 3, Role: models.RoleGuest}, event(3, models.EventStatusUpcoming)))
}

func TestCanCancelInvitation(t *testing.T) {
	ev := event(1, models.EventStatusUpcoming)
	inv := &models.Invitation{SenderID: 2, RecipientID: 3}

	assert.True(t, CanCancelInvitation(Principal{UserID: 2, Role: models.RoleMember}, inv, ev), "sender")
	assert.True(t, CanCancelInvitation(Principal{UserID: 1, Role: models.RoleMember}, inv, ev), "event owner")
	assert.True(t, CanCancelInvitation(Principal{UserID: 7, Role: models.RoleOwner}, inv, ev), "owner role")
	assert.False(t, CanCancelInvitation(Principal{UserID: 3, Role: models.RoleMember}, inv, ev), "recipient")
	assert.False(t, CanCancelInvitation(Principal{UserID: 1, Role: models.RoleMember}, inv, nil), "event gone")
}

func TestCapabilitiesForCancelledEvent(t *testing.T) {
	caps := CapabilitiesFor(Principal{UserID: 1, Role: models.RoleOwner}, event(1, models.EventStatusCancelled))
	assert.Equal(t, EventCapabilities{Delete: true}, caps)
}
