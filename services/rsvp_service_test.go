package services

import (
	"context"
	"testing"

	"planora.app/models"
	"planora.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRsvpLastWriteWins(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewRsvpService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)
	ev := createEvent(t, db, a, "Hack Night")

	_, err := svc.UpdateRsvp(ctx, guest, ev.ID, models.RsvpStatusAttending, "bringing snacks")
	require.NoError(t, err)
	rsvp, err := svc.UpdateRsvp(ctx, guest, ev.ID, "declined", "")
	require.NoError(t, err)
	assert.Equal(t, models.RsvpStatusDeclined, rsvp.Status)

	assert.Equal(t, int64(1), countRows(t, db, &models.Rsvp{}, "user_id = ? AND event_id = ?", guest.UserID, ev.ID))
	stored, err := repositories.NewRsvpRepository(db).FindByUserAndEvent(ctx, guest.UserID, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RsvpStatusDeclined, stored.Status)
	assert.Empty(t, stored.Note)
}

func TestUpdateRsvpRejectsPending(t *testing.T) {
	db := newDB(t)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	ev := createEvent(t, db, a, "Standup")

	_, err := NewRsvpService(db).UpdateRsvp(context.Background(), a, ev.ID, models.RsvpStatusPending, "")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, int64(0), countRows(t, db, &models.Rsvp{}, "event_id = ?", ev.ID))
}

func TestUpdateRsvpOnCancelledEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	a := createUser(t, db, "a@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)
	ev := createEvent(t, db, a, "Picnic")
	_, err := NewEventService(db, nil).CancelEvent(ctx, a, ev.ID)
	require.NoError(t, err)

	_, err = NewRsvpService(db).UpdateRsvp(ctx, guest, ev.ID, models.RsvpStatusAttending, "")
	assert.ErrorIs(t, err, ErrRsvpEventCancelled)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "cannot RSVP to a cancelled event", PublicMessage(err))
	assert.Equal(t, int64(0), countRows(t, db, &models.Rsvp{}, "event_id = ?", ev.ID))
}

func TestUpdateRsvpCapacity(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewRsvpService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	b := createUser(t, db, "b@example.com", models.RoleGuest)
	c := createUser(t, db, "c@example.com", models.RoleGuest)

	one := 1
	in := eventInput("Small Dinner")
	in.MaxAttendees = &one
	ev, err := NewEventService(db, nil).CreateEvent(ctx, a, in)
	require.NoError(t, err)

	_, err = svc.UpdateRsvp(ctx, b, ev.ID, models.RsvpStatusAttending, "")
	require.NoError(t, err)
	_, err = svc.UpdateRsvp(ctx, c, ev.ID, models.RsvpStatusAttending, "")
	assert.ErrorIs(t, err, ErrEventFull)

	// re-confirming your own seat does not count against you
	_, err = svc.UpdateRsvp(ctx, b, ev.ID, models.RsvpStatusAttending, "still coming")
	assert.NoError(t, err)
	// a full event still accepts other answers
	_, err = svc.UpdateRsvp(ctx, c, ev.ID, models.RsvpStatusMaybe, "")
	assert.NoError(t, err)
}

func TestUpdateRsvpErrors(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewRsvpService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)

	_, err := svc.UpdateRsvp(ctx, a, 404, models.RsvpStatusAttending, "")
	assert.ErrorIs(t, err, ErrEventNotFound)

	ev := createEvent(t, db, a, "Talk")
	_, err = svc.UpdateRsvp(ctx, a, ev.ID, "MAYBE-NOT", "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestListRsvpsForEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewRsvpService(db)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	ev := createEvent(t, db, a, "Workshop")
	_, err := svc.UpdateRsvp(ctx, a, ev.ID, models.RsvpStatusMaybe, "")
	require.NoError(t, err)

	rsvps, err := svc.ListForEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, models.RsvpStatusMaybe, rsvps[0].Status)

	_, err = svc.ListForEvent(ctx, a, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
