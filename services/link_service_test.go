package services

import (
	"context"
	"testing"

	"planora.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLinks(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewLinkService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)
	ev := createEvent(t, db, a, "Open House")

	_, err := svc.CreateLink(ctx, guest, ev.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	link, err := svc.CreateLink(ctx, a, ev.ID)
	require.NoError(t, err)
	assert.True(t, models.ValidLinkKey(link.Key))

	shared, err := svc.ResolvePublic(ctx, link.Key)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, shared.ID)

	_, err = svc.ResolvePublic(ctx, "not-a-key")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	links, err := svc.ListForEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	_, err = NewEventService(db, nil).CancelEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	_, err = svc.ResolvePublic(ctx, link.Key)
	assert.ErrorIs(t, err, ErrLinkNotFound, "cancelled events are no longer shared")
	_, err = svc.CreateLink(ctx, a, ev.ID)
	assert.ErrorIs(t, err, ErrEventCancelled)
}

func TestDeleteLink(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewLinkService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	first := createEvent(t, db, a, "First")
	second := createEvent(t, db, a, "Second")
	link, err := svc.CreateLink(ctx, a, first.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteLink(ctx, a, second.ID, link.ID), ErrLinkNotFound)
	require.NoError(t, svc.DeleteLink(ctx, a, first.ID, link.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.Link{}, "event_id = ?", first.ID))
}
