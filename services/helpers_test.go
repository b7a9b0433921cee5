package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"planora.app/authz"
	"planora.app/database/testdb"
	"planora.app/models"
	"planora.app/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) authz.Principal {
	t.Helper()
	u := &models.User{
		Email:          email,
		Name:           strings.SplitN(email, "@", 2)[0],
		Role:           role,
		ExternalAuthID: "ext|" + email,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), u))
	return authz.Principal{UserID: u.ID, Role: role}
}

func tomorrowAt(hour int) time.Time {
	d := time.Now().UTC().Add(24 * time.Hour)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func eventInput(title string) EventInput {
	return EventInput{Title: title, StartsAt: tomorrowAt(10), EndsAt: tomorrowAt(12)}
}

func createEvent(t *testing.T, db *gorm.DB, owner authz.Principal, title string) *models.Event {
	t.Helper()
	ev, err := NewEventService(db, nil).CreateEvent(context.Background(), owner, eventInput(title))
	require.NoError(t, err)
	return ev
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// newDB returns a fresh migrated database for one test.
func newDB(t *testing.T) *gorm.DB {
	return testdb.New(t)
}
