package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
	"github.com/rpupo63/inventory-catalog/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func strPtr(s string) *string { return &s }

// seedInventory writes an inventory with the given field names, one item per entry of
// rows (each row holding a value for every field) and links to tags
func seedInventory(t *testing.T, db database.Database, owner string, fieldNames []string, rows int, tags ...string) *models.Inventory {
	t.Helper()
	ctx := context.Background()

	inventory := &models.Inventory{Title: "Inventory of " + owner, OwnerID: owner}
	require.NoError(t, db.InventoryRepo().Add(ctx, inventory))

	fields := make([]*models.Field, 0, len(fieldNames))
	for i, name := range fieldNames {
		fields = append(fields, &models.Field{
			InventoryID: inventory.ID,
			Name:        name,
			Type:        models.FieldTypeNumber,
			Visible:     true,
			Order:       i,
		})
	}
	require.NoError(t, db.FieldRepo().Add(ctx, fields...))

	for r := 0; r < rows; r++ {
		item := &models.Item{InventoryID: inventory.ID}
		for _, f := range fields {
			item.Values = append(item.Values, models.ItemValue{FieldID: f.ID, Value: strPtr("1")})
		}
		require.NoError(t, db.ItemRepo().Add(ctx, item))
	}

	if len(tags) > 0 {
		found, err := db.TagRepo().FindOrCreate(ctx, tags)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(found))
		for _, tag := range found {
			ids = append(ids, tag.ID)
		}
		require.NoError(t, db.InventoryRepo().LinkTags(ctx, inventory.ID, ids))
	}
	return inventory
}

func countRows(t *testing.T, db database.Database, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.GetDB().Table(table).Count(&n).Error)
	return n
}

func TestCatalogGraphOrder(t *testing.T) {
	order := database.CatalogGraph().Order()
	pos := make(map[string]int, len(order))
	for i, table := range order {
		pos[table] = i
	}
	require.Len(t, pos, 7)

	before := [][2]string{
		{"item_fields", "items"},
		{"item_fields", "inventory_fields"},
		{"items", "inventories"},
		{"inventory_fields", "inventories"},
		{"inventory_tags", "inventories"},
		{"inventory_tags", "tags"},
		{"inventories", "categories"},
	}
	for _, pair := range before {
		assert.Less(t, pos[pair[0]], pos[pair[1]], "%s must be deleted before %s", pair[0], pair[1])
	}
}

func TestNewDeletionGraphRejectsBadGraphs(t *testing.T) {
	keys := map[string]string{"a": "id", "b": "id", "link": ""}

	tests := []struct {
		name  string
		edges []database.Edge
	}{
		{"unknown parent", []database.Edge{{Parent: "x", Child: "a", Column: "x_id"}}},
		{"unknown child", []database.Edge{{Parent: "a", Child: "x", Column: "a_id"}}},
		{"keyless parent", []database.Edge{{Parent: "link", Child: "a", Column: "link_id"}}},
		{"missing column", []database.Edge{{Parent: "a", Child: "b"}}},
		{"cycle", []database.Edge{
			{Parent: "a", Child: "b", Column: "a_id"},
			{Parent: "b", Child: "a", Column: "b_id"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.NewDeletionGraph(keys, tt.edges...)
			assert.Error(t, err)
		})
	}
}

func TestDeleteInventoryRemovesExactlyItsRows(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	target := seedInventory(t, db, "alice", []string{"A", "B", "C"}, 4, "blue", "red")
	other := seedInventory(t, db, "bob", []string{"A"}, 2, "blue")

	_, err := db.CategoryRepo().EnsureDefaults(ctx, models.DefaultCategories)
	require.NoError(t, err)

	var report database.DeleteReport
	err = db.Transaction(ctx, func(tx database.Database) error {
		var err error
		report, err = tx.Delete(ctx, "inventories", target.ID)
		return err
	})
	require.NoError(t, err)

	// N fields + M items + ΣV values + K tag links + the inventory itself
	assert.Equal(t, int64(1), report["inventories"])
	assert.Equal(t, int64(3), report["inventory_fields"])
	assert.Equal(t, int64(4), report["items"])
	assert.Equal(t, int64(12), report["item_fields"])
	assert.Equal(t, int64(2), report["inventory_tags"])
	assert.Equal(t, int64(1+3+4+12+2), report.Total())
	assert.Zero(t, report["tags"])
	assert.Zero(t, report["categories"])

	assert.Equal(t, int64(2), countRows(t, db, "tags"))
	assert.Equal(t, int64(len(models.DefaultCategories)), countRows(t, db, "categories"))
	assert.Equal(t, int64(1), countRows(t, db, "inventories"))
	assert.Equal(t, int64(2), countRows(t, db, "items"))
	assert.Equal(t, int64(2), countRows(t, db, "item_fields"))
	assert.Equal(t, int64(1), countRows(t, db, "inventory_tags"))

	_, err = db.InventoryRepo().FindByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestDeleteInventoryWithManyValues(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	inventory := seedInventory(t, db, "alice", names, 0)
	fields, err := db.FieldRepo().FindByInventory(ctx, inventory.ID)
	require.NoError(t, err)

	// more value rows than sqlite accepts bound variables in one statement
	const itemCount = 3400
	items := make([]models.Item, 0, itemCount)
	values := make([]models.ItemValue, 0, itemCount*len(fields))
	for i := 0; i < itemCount; i++ {
		item := models.Item{ID: uuid.New(), InventoryID: inventory.ID}
		items = append(items, item)
		for _, f := range fields {
			values = append(values, models.ItemValue{ID: uuid.New(), ItemID: item.ID, FieldID: f.ID, Value: strPtr("1")})
		}
	}
	gdb := db.GetDB().WithContext(ctx)
	require.NoError(t, gdb.Omit(clause.Associations).CreateInBatches(items, 200).Error)
	require.NoError(t, gdb.Omit(clause.Associations).CreateInBatches(values, 200).Error)
	require.Equal(t, int64(34000), countRows(t, db, "item_fields"))

	var report database.DeleteReport
	err = db.Transaction(ctx, func(tx database.Database) error {
		var err error
		report, err = tx.Delete(ctx, "inventories", inventory.ID)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, int64(34000), report["item_fields"])
	assert.Equal(t, int64(itemCount), report["items"])
	assert.Equal(t, int64(len(names)), report["inventory_fields"])
	assert.Zero(t, countRows(t, db, "item_fields"))
	assert.Zero(t, countRows(t, db, "inventories"))
}

func TestDeleteFieldWithValuesIsRestricted(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	inventory := seedInventory(t, db, "alice", []string{"A"}, 1)
	fields, err := db.FieldRepo().FindByInventory(ctx, inventory.ID)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	_, err = db.Delete(ctx, "inventory_fields", fields[0].ID)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.True(t, errs.IsRestrictedDeleteError(err))

	assert.Equal(t, int64(1), countRows(t, db, "inventory_fields"))
	assert.Equal(t, int64(1), countRows(t, db, "item_fields"))
}

func TestDeleteFieldWithoutValues(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	inventory := seedInventory(t, db, "alice", []string{"A"}, 0)
	fields, err := db.FieldRepo().FindByInventory(ctx, inventory.ID)
	require.NoError(t, err)

	report, err := db.Delete(ctx, "inventory_fields", fields[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Total())
}

func TestDeleteCategoryInUseIsRestricted(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	_, err := db.CategoryRepo().EnsureDefaults(ctx, []string{"Books"})
	require.NoError(t, err)
	categories, err := db.CategoryRepo().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	inventory := seedInventory(t, db, "alice", nil, 0)
	require.NoError(t, db.InventoryRepo().UpdateDetails(ctx, inventory.ID, inventory.Title, &categories[0].ID))

	_, err = db.Delete(ctx, "categories", categories[0].ID)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, int64(1), countRows(t, db, "categories"))
}

func TestDeleteUnknownTable(t *testing.T) {
	db := testutil.NewDatabase(t)

	_, err := db.Delete(context.Background(), "inventory_tags", uuid.New())
	assert.Error(t, err)
}
