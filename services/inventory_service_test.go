package services

import (
	"context"
	"testing"

	"planora.app/database/seeders"
	"planora.app/models"
	"planora.app/pkg/queryparams"
	"planora.app/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryLifecycle(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	require.NoError(t, seeders.SeedCategories(ctx, db))
	svc := NewInventoryService(db, NewEnrichmentService(db, nil))
	member := createUser(t, db, "member@example.com", models.RoleMember)
	guest := createUser(t, db, "guest@example.com", models.RoleGuest)

	_, err := svc.Create(ctx, guest, InventoryInput{Name: "Chair"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	item, err := svc.Create(ctx, member, InventoryInput{
		Name:              "Folding chairs",
		SKU:               " ch-01 ",
		Quantity:          10,
		LowStockThreshold: 3,
		UnitPrice:         decimal.RequireFromString("12.499"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CH-01", item.SKU)
	assert.True(t, decimal.RequireFromString("12.50").Equal(item.UnitPrice))
	require.NotNil(t, item.CategoryID, "category suggested from the name")

	fetched, err := svc.Get(ctx, guest, item.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Category)
	assert.Equal(t, models.CategoryNameFurniture, fetched.Category.Name)

	adjusted, err := svc.AdjustQuantity(ctx, member, item.ID, -8)
	require.NoError(t, err)
	assert.Equal(t, 2, adjusted.Quantity)
	assert.True(t, adjusted.LowStock())

	_, err = svc.AdjustQuantity(ctx, member, item.ID, -3)
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	_, err = svc.AdjustQuantity(ctx, member, item.ID, 0)
	assert.Equal(t, KindValidation, KindOf(err))

	summary, err := svc.Summary(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Items)
	assert.Equal(t, int64(1), summary.LowStock)

	page, err := svc.List(ctx, guest, queryparams.DefaultListParams("name"), repositories.InventoryFilter{LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.TotalItems)

	require.NoError(t, svc.Delete(ctx, member, item.ID))
	_, err = svc.Get(ctx, member, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestInventoryValidation(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewInventoryService(db, nil)
	member := createUser(t, db, "member@example.com", models.RoleMember)

	_, err := svc.Create(ctx, member, InventoryInput{Name: " "})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.Create(ctx, member, InventoryInput{Name: "Cable", Quantity: -1})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.Create(ctx, member, InventoryInput{Name: "Cable", UnitPrice: decimal.NewFromInt(-5)})
	assert.Equal(t, KindValidation, KindOf(err))

	missing := uint(99)
	_, err = svc.Create(ctx, member, InventoryInput{Name: "Cable", CategoryID: &missing})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
