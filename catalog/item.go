package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/auth"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
)

// Item mutations are open to every authenticated identity; unlike inventories and
// fields they are not restricted to the owner.

// CreateItem adds an item holding exactly one value per field the inventory currently
// defines. Fields missing from values get a nil value; keys that are not fields of the
// inventory are ignored.
func (s *Service) CreateItem(ctx context.Context, identity auth.Identity, inventoryID uuid.UUID, values ItemValues) (*models.Item, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}

	var item *models.Item
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		inventory, err := tx.InventoryRepo().FindWithFields(ctx, inventoryID)
		if err != nil {
			return errs.NewDatabaseError("find", "inventory", err)
		}

		item = &models.Item{InventoryID: inventory.ID}
		for _, f := range inventory.Fields {
			item.Values = append(item.Values, models.ItemValue{FieldID: f.ID, Value: values[f.ID]})
		}
		if err := tx.ItemRepo().Add(ctx, item); err != nil {
			return errs.NewDatabaseError("create", "item", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("create item", err)
	}

	s.logger.Debug().
		Str("itemId", item.ID.String()).
		Str("inventoryId", inventoryID.String()).
		Int("values", len(item.Values)).
		Msg("item created")
	return item, nil
}

// UpdateItem rewrites the values the item already holds for the fields named in values.
// Fields added after the item was created are not back-filled.
func (s *Service) UpdateItem(ctx context.Context, identity auth.Identity, itemID uuid.UUID, values ItemValues) (*models.Item, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}

	var item *models.Item
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		item, err = tx.ItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return errs.NewDatabaseError("find", "item", err)
		}

		for i := range item.Values {
			raw, ok := values[item.Values[i].FieldID]
			if !ok {
				continue
			}
			if err := tx.ItemRepo().SetValue(ctx, item.Values[i].ID, raw); err != nil {
				return errs.NewDatabaseError("update", "item value", err)
			}
			item.Values[i].Value = raw
		}
		return nil
	})
	if err != nil {
		return nil, txError("update item", err)
	}
	return item, nil
}

// DeleteItem removes an item and its values
func (s *Service) DeleteItem(ctx context.Context, identity auth.Identity, itemID uuid.UUID) (database.DeleteReport, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}

	var report database.DeleteReport
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := tx.ItemRepo().FindByID(ctx, itemID); err != nil {
			return errs.NewDatabaseError("find", "item", err)
		}
		var err error
		report, err = tx.Delete(ctx, "items", itemID)
		return err
	})
	if err != nil {
		return nil, txError("delete item", err)
	}
	return report, nil
}
