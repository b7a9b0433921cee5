package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"planora.app/database/seeders"
	"planora.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter answers every call with the configured text, JSON or error.
type fakeCompleter struct {
	disabled bool
	text     string
	json     string
	err      error
	panics   bool
	calls    int
}

func (f *fakeCompleter) Enabled() bool { return !f.disabled }

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	f.calls++
	if f.panics {
		panic("provider exploded")
	}
	return f.text, f.err
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, _ string, out any) error {
	f.calls++
	if f.panics {
		panic("provider exploded")
	}
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.json), out)
}

func TestParseEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	ai := &fakeCompleter{json: `{"title":" Team lunch ","location":"Cafe","starts_at":"2030-05-03T12:00:00Z","ends_at":"2030-05-03T11:00:00Z"}`}
	draft := NewEnrichmentService(db, ai).ParseEvent(ctx, "team lunch friday at noon")
	require.NotNil(t, draft)
	assert.Equal(t, "Team lunch", draft.Title)
	require.NotNil(t, draft.StartsAt)
	assert.Equal(t, time.Date(2030, 5, 3, 12, 0, 0, 0, time.UTC), draft.StartsAt.UTC())
	assert.Nil(t, draft.EndsAt, "an end before the start is dropped")

	for name, ai := range map[string]*fakeCompleter{
		"provider error": {err: errors.New("timeout")},
		"panic":          {panics: true},
		"no title":       {json: `{"location":"somewhere"}`},
		"bad time":       {json: `{"title":"x","starts_at":"tomorrow"}`},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, NewEnrichmentService(db, ai).ParseEvent(ctx, "something"))
		})
	}

	disabled := &fakeCompleter{disabled: true}
	assert.Nil(t, NewEnrichmentService(db, disabled).ParseEvent(ctx, "lunch"))
	assert.Zero(t, disabled.calls)
	assert.Nil(t, NewEnrichmentService(db, nil).ParseEvent(ctx, "lunch"))
}

func TestDescribeEvent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	draft := EventDraft{Title: "Hack Night"}

	got := NewEnrichmentService(db, &fakeCompleter{text: "  Bring a laptop.  "}).DescribeEvent(ctx, draft)
	assert.Equal(t, "Bring a laptop.", got)

	assert.Empty(t, NewEnrichmentService(db, &fakeCompleter{err: errors.New("down")}).DescribeEvent(ctx, draft))
	assert.Empty(t, NewEnrichmentService(db, &fakeCompleter{text: "x"}).DescribeEvent(ctx, EventDraft{}))
}

func TestDescribeEventTruncatesOnRuneBoundary(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	long := strings.Repeat("a", maxGeneratedDescription-1) + strings.Repeat("é", 10)

	got := NewEnrichmentService(db, &fakeCompleter{text: long}).DescribeEvent(ctx, EventDraft{Title: "Dinner"})
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxGeneratedDescription-1), got)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "héllo", truncateUTF8("héllo", 10))
	assert.Equal(t, "h", truncateUTF8("héllo", 2))
	assert.Equal(t, "hé", truncateUTF8("héllo", 3))
	assert.Equal(t, "", truncateUTF8("éé", 1))
}

func TestSuggestCategory(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	require.NoError(t, seeders.SeedCategories(ctx, db))

	got := NewEnrichmentService(db, &fakeCompleter{json: `{"slug":"furniture"}`}).SuggestCategory(ctx, "folding thing")
	require.NotNil(t, got)
	assert.Equal(t, models.CategoryNameFurniture, got.Name)

	// an unknown slug falls back to keyword matching
	got = NewEnrichmentService(db, &fakeCompleter{json: `{"slug":"spaceships"}`}).SuggestCategory(ctx, "Projector screen")
	require.NotNil(t, got)
	assert.Equal(t, models.CategoryNameAudioVisual, got.Name)

	got = NewEnrichmentService(db, nil).SuggestCategory(ctx, "Paper cups")
	require.NotNil(t, got)
	assert.Equal(t, models.CategoryNameCatering, got.Name)

	assert.Nil(t, NewEnrichmentService(db, nil).SuggestCategory(ctx, "mystery box"))
}

func TestDetectConflicts(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	a := createUser(t, db, "a@example.com", models.RoleMember)
	b := createUser(t, db, "b@example.com", models.RoleMember)
	mine := createEvent(t, db, a, "Mine")
	theirs := createEvent(t, db, b, "Theirs")
	svc := NewEnrichmentService(db, nil)

	conflicts := svc.DetectConflicts(ctx, a, tomorrowAt(11), tomorrowAt(13), 0)
	require.Len(t, conflicts, 1)
	assert.Equal(t, mine.ID, conflicts[0].ID)

	_, err := NewRsvpService(db).UpdateRsvp(ctx, a, theirs.ID, models.RsvpStatusAttending, "")
	require.NoError(t, err)
	assert.Len(t, svc.DetectConflicts(ctx, a, tomorrowAt(11), tomorrowAt(13), 0), 2)
	assert.Len(t, svc.DetectConflicts(ctx, a, tomorrowAt(11), tomorrowAt(13), mine.ID), 1)
	assert.Empty(t, svc.DetectConflicts(ctx, a, tomorrowAt(13), tomorrowAt(14), 0))
}

func TestCreateEventSurvivesEnrichmentFailure(t *testing.T) {
	db := newDB(t)
	a := createUser(t, db, "a@example.com", models.RoleMember)
	enrichment := NewEnrichmentService(db, &fakeCompleter{panics: true})

	in := eventInput("Quiet Launch")
	in.GenerateDescription = true
	ev, err := NewEventService(db, enrichment).CreateEvent(context.Background(), a, in)
	require.NoError(t, err)
	assert.Empty(t, ev.Description)

	ev, err = NewEventService(db, NewEnrichmentService(db, &fakeCompleter{text: "A quiet launch."})).
		CreateEvent(context.Background(), a, in)
	require.NoError(t, err)
	assert.Equal(t, "A quiet launch.", ev.Description)
}
