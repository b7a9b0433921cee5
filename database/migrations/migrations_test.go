package migrations_test

import (
	"testing"

	"planora.app/database/migrations"
	"planora.app/database/testdb"
	"planora.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIsRepeatable(t *testing.T) {
	db := testdb.New(t)

	require.NoError(t, migrations.Run(db))
	for _, table := range []any{&models.User{}, &models.Event{}, &models.Rsvp{}, &models.Invitation{},
		&models.Activity{}, &models.Link{}, &models.Category{}, &models.InventoryItem{}} {
		assert.True(t, db.Migrator().HasTable(table), "%T", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Rsvp{}, "idx_rsvp_user_event"))
}

func TestJSONColumnsAreCreated(t *testing.T) {
	db := testdb.New(t)

	require.True(t, db.Migrator().HasTable("events"))
	require.True(t, db.Migrator().HasTable("activities"))
	assert.True(t, db.Migrator().HasColumn(&models.Event{}, "Recurrence"))
	assert.True(t, db.Migrator().HasColumn(&models.Activity{}, "Details"))

	owner := &models.User{Email: "a@example.com", Name: "a", Role: models.RoleOwner, ExternalAuthID: "ext|a"}
	require.NoError(t, db.Create(owner).Error)
	ev := &models.Event{Title: "Standup", OwnerID: owner.ID, Recurrence: models.JSONMap{"freq": "weekly"}}
	require.NoError(t, db.Omit("Owner").Create(ev).Error)
	var stored models.Event
	require.NoError(t, db.First(&stored, ev.ID).Error)
	assert.Equal(t, "weekly", stored.Recurrence["freq"])
}

func TestRollbackLastDropsNewestTable(t *testing.T) {
	db := testdb.New(t)

	require.NoError(t, migrations.RollbackLast(db))
	assert.False(t, db.Migrator().HasTable(&models.InventoryItem{}))
	assert.True(t, db.Migrator().HasTable(&models.Link{}))

	require.NoError(t, migrations.Run(db))
	assert.True(t, db.Migrator().HasTable(&models.InventoryItem{}))
}
