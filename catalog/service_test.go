package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/auth"
	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
	"github.com/rpupo63/inventory-catalog/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = auth.Identity{UserID: "alice", Roles: []auth.Role{auth.RoleCreator}}
	bob   = auth.Identity{UserID: "bob", Roles: []auth.Role{auth.RoleUser}}
	admin = auth.Identity{UserID: "root", Roles: []auth.Role{auth.RoleAdmin}}
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*catalog.Service, database.Database) {
	t.Helper()
	db := testutil.NewDatabase(t)
	return catalog.NewService(db), db
}

func countRows(t *testing.T, db database.Database, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.GetDB().Table(table).Count(&n).Error)
	return n
}

func createInventory(t *testing.T, svc *catalog.Service, owner auth.Identity, fields ...string) *models.Inventory {
	t.Helper()
	in := catalog.CreateInventoryInput{Title: "Collection"}
	for _, name := range fields {
		in.Fields = append(in.Fields, catalog.FieldInput{Name: name, Type: models.FieldTypeNumber})
	}
	inventory, err := svc.CreateInventory(context.Background(), owner, in)
	require.NoError(t, err)
	return inventory
}

func fieldIDs(inventory *models.Inventory) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID, len(inventory.Fields))
	for _, f := range inventory.Fields {
		ids[f.Name] = f.ID
	}
	return ids
}

func TestCreateInventory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	hidden := false

	inventory, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{
		Title: "  Vinyl records ",
		Fields: []catalog.FieldInput{
			{Name: " Artist "},
			{Name: "Price", Type: models.FieldTypeNumber, Visible: &hidden},
		},
		Tags: []string{"Music", " music", "", "Vinyl"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Vinyl records", inventory.Title)
	assert.Equal(t, "alice", inventory.OwnerID)
	require.Len(t, inventory.Fields, 2)
	assert.Equal(t, "Artist", inventory.Fields[0].Name)
	assert.Equal(t, models.FieldTypeString, inventory.Fields[0].Type)
	assert.True(t, inventory.Fields[0].Visible)
	assert.Equal(t, "Price", inventory.Fields[1].Name)
	assert.False(t, inventory.Fields[1].Visible)
	assert.Equal(t, 1, inventory.Fields[1].Order)

	tags := inventory.Tags()
	require.Len(t, tags, 2)
	assert.Equal(t, "music", tags[0].Name)
	assert.Equal(t, "vinyl", tags[1].Name)
}

func TestCreateInventoryTagsAreShared(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{Title: "One", Tags: []string{" Blue "}})
	require.NoError(t, err)
	_, err = svc.CreateInventory(ctx, bob, catalog.CreateInventoryInput{Title: "Two", Tags: []string{"blue"}})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, "tags"))
	assert.Equal(t, int64(2), countRows(t, db, "inventory_tags"))
}

func TestCreateInventoryRejectsDuplicateFieldNames(t *testing.T) {
	svc, db := newService(t)

	_, err := svc.CreateInventory(context.Background(), alice, catalog.CreateInventoryInput{
		Title:  "Tools",
		Fields: []catalog.FieldInput{{Name: "Size"}, {Name: " Size"}},
		Tags:   []string{"garage"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	assert.Zero(t, countRows(t, db, "inventories"))
	assert.Zero(t, countRows(t, db, "inventory_fields"))
	assert.Zero(t, countRows(t, db, "tags"))
}

func TestCreateInventoryValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	unknownCategory := uuid.New()

	tests := []struct {
		name  string
		in    catalog.CreateInventoryInput
		field string
	}{
		{"blank title", catalog.CreateInventoryInput{Title: "   "}, "title"},
		{"long title", catalog.CreateInventoryInput{Title: strings.Repeat("t", models.MaxTitleLength+1)}, "title"},
		{"blank field name", catalog.CreateInventoryInput{Title: "ok", Fields: []catalog.FieldInput{{Name: "a"}, {Name: " "}}}, "fields[1].name"},
		{"long field name", catalog.CreateInventoryInput{Title: "ok", Fields: []catalog.FieldInput{{Name: strings.Repeat("f", models.MaxFieldNameLength+1)}}}, "fields[0].name"},
		{"unknown field type", catalog.CreateInventoryInput{Title: "ok", Fields: []catalog.FieldInput{{Name: "a", Type: "currency"}}}, "fields[0].type"},
		{"long tag", catalog.CreateInventoryInput{Title: "ok", Tags: []string{strings.Repeat("x", models.MaxTagNameLength+1)}}, "tags"},
		{"unknown category", catalog.CreateInventoryInput{Title: "ok", CategoryID: &unknownCategory}, "categoryId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInventory(ctx, alice, tt.in)
			require.Error(t, err)
			assert.True(t, errs.IsBadRequest(err))

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}
}

func TestCreateInventoryRequiresIdentity(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateInventory(context.Background(), auth.Identity{}, catalog.CreateInventoryInput{Title: "x"})
	assert.True(t, errs.IsUnauthorized(err))
}

func TestCreateInventoryWithCategory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedCategories(ctx, models.DefaultCategories))
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	inventory, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{Title: "x", CategoryID: &categories[0].ID})
	require.NoError(t, err)
	require.NotNil(t, inventory.Category)
	assert.Equal(t, categories[0].Name, inventory.Category.Name)
}

func TestAddField(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B")

	field, err := svc.AddField(ctx, alice, inventory.ID, catalog.FieldInput{Name: " C ", Type: models.FieldTypeDate})
	require.NoError(t, err)
	assert.Equal(t, "C", field.Name)
	assert.Equal(t, models.FieldTypeDate, field.Type)
	assert.Equal(t, 2, field.Order)

	field, err = svc.AddField(ctx, admin, inventory.ID, catalog.FieldInput{Name: "D"})
	require.NoError(t, err)
	assert.Equal(t, models.FieldTypeString, field.Type)
}

func TestAddFieldCollisionLeavesSchemaUntouched(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B")

	_, err := svc.AddField(ctx, alice, inventory.ID, catalog.FieldInput{Name: "B "})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	fields, err := db.FieldRepo().FindByInventory(ctx, inventory.ID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "A", fields[0].Name)
	assert.Equal(t, "B", fields[1].Name)
}

func TestAddFieldErrorPrecedence(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A")

	_, err := svc.AddField(ctx, bob, uuid.New(), catalog.FieldInput{Name: ""})
	assert.True(t, errs.IsBadRequest(err), "invalid argument comes first")

	_, err = svc.AddField(ctx, bob, uuid.New(), catalog.FieldInput{Name: "A"})
	assert.True(t, errs.IsNotFound(err), "missing inventory comes before ownership")

	_, err = svc.AddField(ctx, bob, inventory.ID, catalog.FieldInput{Name: "A"})
	assert.True(t, errs.IsForbidden(err), "ownership comes before conflicts")
}

func TestRenameField(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B")
	ids := fieldIDs(inventory)

	item, err := svc.CreateItem(ctx, bob, inventory.ID, catalog.ItemValues{ids["A"]: strPtr("42")})
	require.NoError(t, err)

	renamed, err := svc.RenameField(ctx, alice, ids["A"], "  Weight ")
	require.NoError(t, err)
	assert.Equal(t, "Weight", renamed.Name)

	stored, err := db.ItemRepo().FindByID(ctx, item.ID)
	require.NoError(t, err)
	value, ok := stored.ValueFor(ids["A"])
	require.True(t, ok)
	require.NotNil(t, value.Value)
	assert.Equal(t, "42", *value.Value)

	_, err = svc.RenameField(ctx, alice, ids["A"], "B")
	assert.True(t, errs.IsConflict(err))

	_, err = svc.RenameField(ctx, alice, ids["B"], "B")
	assert.NoError(t, err, "renaming a field to its own name is a no-op")

	_, err = svc.RenameField(ctx, bob, ids["B"], "C")
	assert.True(t, errs.IsForbidden(err))

	_, err = svc.RenameField(ctx, alice, uuid.New(), "C")
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.RenameField(ctx, alice, ids["B"], " ")
	assert.True(t, errs.IsBadRequest(err))
}

func TestUpdateInventory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx, []string{"Books"}))
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)

	inventory := createInventory(t, svc, alice, "A")

	updated, err := svc.UpdateInventory(ctx, alice, inventory.ID, catalog.UpdateInventoryInput{Title: "Library", CategoryID: &categories[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "Library", updated.Title)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, categories[0].ID, *updated.CategoryID)
	assert.Equal(t, "alice", updated.OwnerID)
	assert.Len(t, updated.Fields, 1)

	_, err = svc.UpdateInventory(ctx, bob, inventory.ID, catalog.UpdateInventoryInput{Title: "Mine now"})
	assert.True(t, errs.IsForbidden(err))

	_, err = svc.UpdateInventory(ctx, alice, uuid.New(), catalog.UpdateInventoryInput{Title: "x"})
	assert.True(t, errs.IsNotFound(err))

	cleared, err := svc.UpdateInventory(ctx, admin, inventory.ID, catalog.UpdateInventoryInput{Title: "Library"})
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)
}

func TestDeleteInventory(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	inventory, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{
		Title:  "Shelf",
		Fields: []catalog.FieldInput{{Name: "A"}, {Name: "B"}},
		Tags:   []string{"wood", "oak", "pine"},
	})
	require.NoError(t, err)
	ids := fieldIDs(inventory)
	for i := 0; i < 3; i++ {
		_, err := svc.CreateItem(ctx, bob, inventory.ID, catalog.ItemValues{ids["A"]: strPtr("1")})
		require.NoError(t, err)
	}
	keep := createInventory(t, svc, bob, "A")

	_, err = svc.DeleteInventory(ctx, bob, inventory.ID)
	assert.True(t, errs.IsForbidden(err))

	report, err := svc.DeleteInventory(ctx, alice, inventory.ID)
	require.NoError(t, err)
	// 1 inventory + N=2 fields + M=3 items + ΣV=6 values + K=3 tag links
	assert.Equal(t, int64(1+2+3+6+3), report.Total())
	assert.Equal(t, int64(6), report["item_fields"])

	assert.Equal(t, int64(3), countRows(t, db, "tags"))
	assert.Equal(t, int64(1), countRows(t, db, "inventories"))
	assert.Equal(t, int64(1), countRows(t, db, "inventory_fields"))
	assert.Zero(t, countRows(t, db, "items"))

	_, err = svc.GetInventory(ctx, alice, keep.ID)
	assert.NoError(t, err)

	_, err = svc.DeleteInventory(ctx, alice, inventory.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateItemWritesOneValuePerField(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B", "C")
	ids := fieldIDs(inventory)

	item, err := svc.CreateItem(ctx, bob, inventory.ID, catalog.ItemValues{
		ids["A"]:   strPtr("x"),
		uuid.New(): strPtr("ignored"),
	})
	require.NoError(t, err)
	require.Len(t, item.Values, 3)
	assert.Equal(t, int64(3), countRows(t, db, "item_fields"))

	a, ok := item.ValueFor(ids["A"])
	require.True(t, ok)
	assert.Equal(t, "x", *a.Value)
	b, ok := item.ValueFor(ids["B"])
	require.True(t, ok)
	assert.Nil(t, b.Value)

	_, err = svc.CreateItem(ctx, bob, uuid.New(), nil)
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.CreateItem(ctx, auth.Identity{}, inventory.ID, nil)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestUpdateItem(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B")
	ids := fieldIDs(inventory)

	item, err := svc.CreateItem(ctx, alice, inventory.ID, catalog.ItemValues{ids["A"]: strPtr("1"), ids["B"]: strPtr("2")})
	require.NoError(t, err)

	late, err := svc.AddField(ctx, alice, inventory.ID, catalog.FieldInput{Name: "Late"})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, bob, item.ID, catalog.ItemValues{
		ids["A"]: strPtr("10"),
		ids["B"]: nil,
		late.ID:  strPtr("not back-filled"),
	})
	require.NoError(t, err)
	require.Len(t, updated.Values, 2)

	details, err := svc.GetInventory(ctx, alice, inventory.ID)
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	require.Len(t, details.Items[0].Values, 2)
	a, _ := details.Items[0].ValueFor(ids["A"])
	assert.Equal(t, "10", *a.Value)
	b, _ := details.Items[0].ValueFor(ids["B"])
	assert.Nil(t, b.Value)

	_, err = svc.UpdateItem(ctx, bob, uuid.New(), nil)
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteItem(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	inventory := createInventory(t, svc, alice, "A", "B")

	item, err := svc.CreateItem(ctx, alice, inventory.ID, nil)
	require.NoError(t, err)

	report, err := svc.DeleteItem(ctx, bob, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report["items"])
	assert.Equal(t, int64(2), report["item_fields"])
	assert.Zero(t, countRows(t, db, "item_fields"))
	assert.Equal(t, int64(2), countRows(t, db, "inventory_fields"))

	_, err = svc.DeleteItem(ctx, bob, item.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestGetInventory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	inventory, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{
		Title: "Parts",
		Fields: []catalog.FieldInput{
			{Name: "Name"},
			{Name: "Weight", Type: models.FieldTypeNumber},
			{Name: "Count", Type: models.FieldTypeNumber},
		},
		Tags: []string{"zinc", "alloy"},
	})
	require.NoError(t, err)
	ids := fieldIDs(inventory)

	for _, raw := range []string{"10", "abc", "", "20"} {
		_, err := svc.CreateItem(ctx, bob, inventory.ID, catalog.ItemValues{
			ids["Name"]:   strPtr("bolt"),
			ids["Weight"]: strPtr(raw),
		})
		require.NoError(t, err)
	}

	details, err := svc.GetInventory(ctx, alice, inventory.ID)
	require.NoError(t, err)
	assert.True(t, details.CanEdit)
	require.Len(t, details.Items, 4)

	weight := details.Averages[ids["Weight"]]
	require.NotNil(t, weight)
	assert.InDelta(t, 15.0, *weight, 1e-9)

	count, ok := details.Averages[ids["Count"]]
	assert.True(t, ok)
	assert.Nil(t, count)
	_, ok = details.Averages[ids["Name"]]
	assert.False(t, ok)

	for _, item := range details.Items {
		require.Len(t, item.Values, 3)
		for i, v := range item.Values {
			require.NotNil(t, v.Field)
			assert.Equal(t, details.Fields[i].ID, v.FieldID)
		}
	}

	require.Len(t, details.Tags, 2)
	assert.Equal(t, "alloy", details.Tags[0].Name)

	anonymous, err := svc.GetInventory(ctx, auth.Identity{}, inventory.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.CanEdit)

	_, err = svc.GetInventory(ctx, bob, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestListAndBrowse(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx, models.DefaultCategories))

	_, err := svc.CreateInventory(ctx, alice, catalog.CreateInventoryInput{Title: "Board games", Tags: []string{"fun"}})
	require.NoError(t, err)
	_, err = svc.CreateInventory(ctx, bob, catalog.CreateInventoryInput{Title: "Tax records", Tags: []string{"paper"}})
	require.NoError(t, err)

	all, err := svc.ListInventories(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fun, err := svc.ListInventories(ctx, catalog.Filter{Tag: "fun"})
	require.NoError(t, err)
	require.Len(t, fun, 1)
	assert.Equal(t, "Board games", fun[0].Title)
	require.Len(t, fun[0].Tags, 1)

	result, err := svc.Browse(ctx, catalog.Filter{Query: "records"})
	require.NoError(t, err)
	require.Len(t, result.Inventories, 1)
	assert.Equal(t, "Tax records", result.Inventories[0].Title)
	assert.Len(t, result.Categories, len(models.DefaultCategories))
	require.Len(t, result.Tags, 2)
	assert.Equal(t, "fun", result.Tags[0].Name)
}
