package hub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hub-go/internal/hub"
	"hub-go/internal/testutil"
)

func newShopping(t *testing.T) (*hub.Shopping, testutil.TestDeps) {
	t.Helper()
	deps := testutil.NewTestDeps(testutil.NewTestStorage())
	return hub.NewShopping(deps.Deps), deps
}

func TestShopping_ListLifecycle(t *testing.T) {
	ctx := context.Background()
	shop, _ := newShopping(t)

	list, err := shop.CreateList(ctx, "Weekly")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	renamed, err := shop.RenameList(ctx, list.ID, "Weekly shop")
	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", renamed.Name)

	_, err = shop.CreateList(ctx, "  ")
	assert.ErrorIs(t, err, hub.ErrValidation)

	removed, err := shop.DeleteList(ctx, list.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	lists, err := shop.Lists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestShopping_Items(t *testing.T) {
	ctx := context.Background()
	shop, _ := newShopping(t)
	list, err := shop.CreateList(ctx, "Weekly")
	require.NoError(t, err)

	milk, err := shop.AddItem(ctx, list.ID, hub.ItemInput{Name: "Milk", Price: 1.2})
	require.NoError(t, err)
	assert.Equal(t, 1, milk.Quantity, "quantity defaults to one")

	bread, err := shop.AddItem(ctx, list.ID, hub.ItemInput{Name: "Bread", Quantity: 2, Price: 2.5})
	require.NoError(t, err)

	_, err = shop.ToggleItem(ctx, list.ID, milk.ID)
	require.NoError(t, err)

	updated, err := shop.UpdateItem(ctx, list.ID, bread.ID, hub.ItemInput{Name: "Rye bread", Quantity: 3, Price: 2.5})
	require.NoError(t, err)
	assert.Equal(t, "Rye bread", updated.Name)
	assert.Equal(t, 3, updated.Quantity)

	got, err := shop.List(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, hub.Totals{Items: 2, Purchased: 1, Total: 8.7, Remaining: 7.5}, hub.ListTotals(got))

	n, err := shop.ClearPurchased(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := shop.RemoveItem(ctx, list.ID, bread.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = shop.RemoveItem(ctx, list.ID, bread.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err = shop.List(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestShopping_ItemErrors(t *testing.T) {
	ctx := context.Background()
	shop, _ := newShopping(t)
	list, err := shop.CreateList(ctx, "Weekly")
	require.NoError(t, err)

	_, err = shop.AddItem(ctx, "missing", hub.ItemInput{Name: "Milk"})
	assert.ErrorIs(t, err, hub.ErrNotFound)

	_, err = shop.AddItem(ctx, list.ID, hub.ItemInput{Name: "Milk", Quantity: -1})
	assert.ErrorIs(t, err, hub.ErrValidation)

	_, err = shop.AddItem(ctx, list.ID, hub.ItemInput{Name: "Milk", Price: -0.5})
	assert.ErrorIs(t, err, hub.ErrValidation)

	_, err = shop.ToggleItem(ctx, list.ID, "missing")
	assert.ErrorIs(t, err, hub.ErrNotFound)

	_, err = shop.RemoveItem(ctx, "missing", "x")
	assert.ErrorIs(t, err, hub.ErrNotFound)
}

func TestShopping_TemplatesCopyItems(t *testing.T) {
	ctx := context.Background()
	shop, _ := newShopping(t)
	list, err := shop.CreateList(ctx, "Weekly")
	require.NoError(t, err)
	milk, err := shop.AddItem(ctx, list.ID, hub.ItemInput{Name: "Milk", Quantity: 2, Price: 1})
	require.NoError(t, err)
	_, err = shop.ToggleItem(ctx, list.ID, milk.ID)
	require.NoError(t, err)

	tmpl, err := shop.SaveTemplate(ctx, list.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Weekly", tmpl.Name)
	require.Len(t, tmpl.Items, 1)
	assert.NotEqual(t, milk.ID, tmpl.Items[0].ID)
	assert.False(t, tmpl.Items[0].Purchased)
	assert.Equal(t, 2, tmpl.Items[0].Quantity)

	// Editing the source list leaves the template alone.
	_, err = shop.UpdateItem(ctx, list.ID, milk.ID, hub.ItemInput{Name: "Oat milk", Quantity: 5})
	require.NoError(t, err)
	templates, err := shop.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Milk", templates[0].Items[0].Name)

	fresh, err := shop.CreateFromTemplate(ctx, tmpl.ID, "Next week")
	require.NoError(t, err)
	assert.Equal(t, "Next week", fresh.Name)
	require.Len(t, fresh.Items, 1)
	assert.NotEqual(t, tmpl.Items[0].ID, fresh.Items[0].ID)

	// Editing the new list leaves the template alone too.
	_, err = shop.ToggleItem(ctx, fresh.ID, fresh.Items[0].ID)
	require.NoError(t, err)
	templates, err = shop.Templates(ctx)
	require.NoError(t, err)
	assert.False(t, templates[0].Items[0].Purchased)

	removed, err := shop.DeleteTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = shop.CreateFromTemplate(ctx, tmpl.ID, "")
	assert.ErrorIs(t, err, hub.ErrNotFound)
}

func TestShopping_ListsAndTemplatesUseSeparateKeys(t *testing.T) {
	ctx := context.Background()
	shop, deps := newShopping(t)
	list, err := shop.CreateList(ctx, "Weekly")
	require.NoError(t, err)
	_, err = shop.SaveTemplate(ctx, list.ID, "Base")
	require.NoError(t, err)

	keys, err := deps.Storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{hub.ShoppingListsKey, hub.ShoppingTemplatesKey}, keys)
}
