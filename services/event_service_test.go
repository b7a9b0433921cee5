package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"planora.app/authz"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	member := createUser(t, db, "member@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)

	ev, err := svc.CreateEvent(ctx, member, eventInput("  Team Lunch  "))
	require.NoError(t, err)
	assert.Equal(t, "Team Lunch", ev.Title)
	assert.Equal(t, models.EventStatusUpcoming, ev.Status)
	assert.Equal(t, member.UserID, ev.OwnerID)
	assert.Equal(t, models.DefaultEventColor, ev.Color)
	assert.Equal(t, int64(1), countRows(t, db, &models.Activity{}, "event_id = ? AND action = ?",
		ev.ID, fmt.Sprintf(ActionEventCreated, ev.Title)))

	_, err = svc.CreateEvent(ctx, guest, eventInput("Nope"))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCreateEventValidation(t *testing.T) {
	db := newDB(t)
	svc := NewEventService(db, nil)
	member := createUser(t, db, "member@example.com", models.RoleMember)

	badEnd := eventInput("Backwards")
	badEnd.EndsAt = badEnd.StartsAt.Add(-time.Hour)
	badColor := eventInput("Colorful")
	badColor.Color = "blue"
	zero := 0
	badMax := eventInput("Tiny")
	badMax.MaxAttendees = &zero

	for name, in := range map[string]EventInput{
		"empty title":  eventInput("   "),
		"end before":   badEnd,
		"bad color":    badColor,
		"max is zero":  badMax,
		"missing time": {Title: "No time"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), member, in)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
	assert.Equal(t, int64(0), countRows(t, db, &models.Event{}, "1 = 1"))
}

func TestCreateEventAllDayNormalizesRange(t *testing.T) {
	db := newDB(t)
	member := createUser(t, db, "member@example.com", models.RoleMember)
	in := eventInput("Offsite")
	in.AllDay = true

	ev, err := NewEventService(db, nil).CreateEvent(context.Background(), member, in)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.StartsAt.Hour())
	assert.Equal(t, 23, ev.EndsAt.Hour())
	assert.Equal(t, 59, ev.EndsAt.Minute())
}

// A MEMBER creates an event; a GUEST may not cancel it but its owner can,
// producing exactly one cancellation activity.
func TestCancelEventByOwnerOnly(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	b := createUser(t, db, "b@example.com", models.RoleGuest)

	ev := createEvent(t, db, a, "Board Games")
	require.Equal(t, models.EventStatusUpcoming, ev.Status)
	require.Equal(t, a.UserID, ev.OwnerID)

	_, err := svc.CancelEvent(ctx, b, ev.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	cancelled, err := svc.CancelEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, cancelled.Status)

	stored, err := repositories.NewEventRepository(db).FindByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, stored.Status)

	action := fmt.Sprintf(ActionEventCancelled, ev.Title)
	assert.Equal(t, int64(1), countRows(t, db, &models.Activity{}, "event_id = ? AND action = ? AND actor_id = ?", ev.ID, action, a.UserID))

	// cancelling again is a no-op
	_, err = svc.CancelEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &models.Activity{}, "event_id = ? AND action = ?", ev.ID, action))
}

func TestCancelEventPermissions(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	owner := createUser(t, db, "owner@example.com", models.RoleOwner)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	other := createUser(t, db, "other@example.com", models.RoleMember)
	ev := createEvent(t, db, a, "Retro")

	_, err := svc.CancelEvent(ctx, other, ev.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CancelEvent(ctx, owner, ev.ID)
	assert.NoError(t, err)

	_, err = svc.CancelEvent(ctx, owner, 9999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	other := createUser(t, db, "other@example.com", models.RoleMember)
	ev := createEvent(t, db, a, "Draft")

	in := eventInput("Final")
	in.Location = "Room 4"
	updated, err := svc.UpdateEvent(ctx, a, ev.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)

	stored, err := repositories.NewEventRepository(db).FindByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Room 4", stored.Location)
	assert.Equal(t, "final", stored.SearchTitle)

	_, err = svc.UpdateEvent(ctx, other, ev.ID, in)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CancelEvent(ctx, a, ev.ID)
	require.NoError(t, err)
	_, err = svc.UpdateEvent(ctx, a, ev.ID, in)
	assert.ErrorIs(t, err, ErrEventCancelled)
}

func seedEventGraph(t *testing.T, db *gorm.DB) (authz.Principal, *models.Event) {
	t.Helper()
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com", models.RoleOwner)
	member := createUser(t, db, "member@example.com", models.RoleMember)
	ev := createEvent(t, db, member, "Summer Party")

	_, err := NewRsvpService(db).UpdateRsvp(ctx, member, ev.ID, models.RsvpStatusAttending, "")
	require.NoError(t, err)
	_, err = NewInvitationService(db).SendInvitation(ctx, member, ev.ID, "owner@example.com", "join us")
	require.NoError(t, err)
	_, err = NewLinkService(db).CreateLink(ctx, member, ev.ID)
	require.NoError(t, err)
	return owner, ev
}

func TestDeleteEventRemovesDependents(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	owner, ev := seedEventGraph(t, db)
	member := authz.Principal{UserID: ev.OwnerID, Role: models.RoleMember}

	err := NewEventService(db, nil).DeleteEvent(ctx, member, ev.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, NewEventService(db, nil).DeleteEvent(ctx, owner, ev.ID))
	for name, model := range map[string]any{
		"rsvps":       &models.Rsvp{},
		"invitations": &models.Invitation{},
		"activities":  &models.Activity{},
		"links":       &models.Link{},
	} {
		assert.Equal(t, int64(0), countRows(t, db, model, "event_id = ?", ev.ID), name)
	}
	assert.Equal(t, int64(0), countRows(t, db, &models.Event{}, "id = ?", ev.ID))
}

func TestDeleteEventRollsBackOnFailure(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	owner, ev := seedEventGraph(t, db)

	injected := errors.New("injected failure")
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_event_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "events" {
			_ = tx.AddError(injected)
		}
	}))

	err := NewEventService(db, nil).DeleteEvent(ctx, owner, ev.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, injected)
	assert.Equal(t, KindInternal, KindOf(err))

	assert.Equal(t, int64(1), countRows(t, db, &models.Event{}, "id = ?", ev.ID))
	assert.Equal(t, int64(2), countRows(t, db, &models.Rsvp{}, "event_id = ?", ev.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Invitation{}, "event_id = ?", ev.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Link{}, "event_id = ?", ev.ID))
	assert.NotZero(t, countRows(t, db, &models.Activity{}, "event_id = ?", ev.ID))
}

func TestGetEventDetail(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)
	ev := createEvent(t, db, a, "Demo Day")

	_, err := NewRsvpService(db).UpdateRsvp(ctx, guest, ev.ID, models.RsvpStatusAttending, "")
	require.NoError(t, err)

	detail, err := svc.GetEventDetail(ctx, a, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusUpcoming, detail.Status)
	assert.Equal(t, int64(1), detail.AttendingCount)
	assert.Equal(t, authz.EventCapabilities{Edit: true, Invite: true, Rsvp: true}, detail.Capabilities)
	assert.Nil(t, detail.MyRsvp)

	detail, err = svc.GetEventDetail(ctx, guest, ev.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.MyRsvp)
	assert.Equal(t, models.RsvpStatusAttending, detail.MyRsvp.Status)
	assert.False(t, detail.Capabilities.Edit)
}

func TestListEvents(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	createEvent(t, db, a, "Café Meetup")
	cancelled := createEvent(t, db, a, "Cancelled Meetup")
	_, err := svc.CancelEvent(ctx, a, cancelled.ID)
	require.NoError(t, err)

	params := queryparams.DefaultListParams("starts_at")
	page, err := svc.ListEvents(ctx, a, params, repositories.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.TotalItems)

	params.Name = "cafe"
	page, err = svc.ListEvents(ctx, a, params, repositories.EventFilter{IncludeCanceled: true})
	require.NoError(t, err)
	events := page.Data.([]models.Event)
	require.Len(t, events, 1)
	assert.Equal(t, "Café Meetup", events[0].Title)

	params = queryparams.DefaultListParams("starts_at")
	params.Status = "cancelled"
	page, err = svc.ListEvents(ctx, a, params, repositories.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.TotalItems)
}

func TestListCalendar(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewEventService(db, nil)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	ev := createEvent(t, db, a, "Planning")

	events, err := svc.ListCalendar(ctx, a, tomorrowAt(0), tomorrowAt(23))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)

	_, err = svc.ListCalendar(ctx, a, tomorrowAt(12), tomorrowAt(10))
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.ListCalendar(ctx, a, tomorrowAt(0), tomorrowAt(0).AddDate(2, 0, 0))
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.ListCalendar(ctx, authz.Principal{}, tomorrowAt(0), tomorrowAt(23))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
