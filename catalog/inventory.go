package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/auth"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
)

// CreateInventory writes a new inventory owned by identity with its initial fields and
// tags. Missing tags are created; existing ones are linked.
func (s *Service) CreateInventory(ctx context.Context, identity auth.Identity, in CreateInventoryInput) (*models.Inventory, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}
	tagNames, err := NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(in.Fields))
	for _, f := range in.Fields {
		if seen[f.Name] {
			return nil, errs.NewConflictError("field name " + strconv.Quote(f.Name) + " is used more than once")
		}
		seen[f.Name] = true
	}

	var created *models.Inventory
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := checkCategory(ctx, tx, in.CategoryID); err != nil {
			return err
		}

		tags, err := tx.TagRepo().FindOrCreate(ctx, tagNames)
		if err != nil {
			return errs.NewDatabaseError("create", "tags", err)
		}

		inventory := &models.Inventory{
			Title:      in.Title,
			CategoryID: in.CategoryID,
			OwnerID:    identity.UserID,
		}
		if err := tx.InventoryRepo().Add(ctx, inventory); err != nil {
			return errs.NewDatabaseError("create", "inventory", err)
		}

		fields := make([]*models.Field, 0, len(in.Fields))
		for i, f := range in.Fields {
			fields = append(fields, f.field(inventory.ID, i))
		}
		if err := tx.FieldRepo().Add(ctx, fields...); err != nil {
			return errs.NewDatabaseError("create", "field", err)
		}

		tagIDs := make([]uuid.UUID, 0, len(tags))
		for _, t := range tags {
			tagIDs = append(tagIDs, t.ID)
		}
		if err := tx.InventoryRepo().LinkTags(ctx, inventory.ID, tagIDs); err != nil {
			return errs.NewDatabaseError("link", "tags", err)
		}

		created, err = tx.InventoryRepo().FindDetails(ctx, inventory.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "inventory", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("create inventory", err)
	}

	s.logger.Info().
		Str("inventoryId", created.ID.String()).
		Str("ownerId", created.OwnerID).
		Int("fields", len(created.Fields)).
		Int("tags", len(tagNames)).
		Msg("inventory created")
	return created, nil
}

// UpdateInventory changes the title and category of an inventory
func (s *Service) UpdateInventory(ctx context.Context, identity auth.Identity, id uuid.UUID, in UpdateInventoryInput) (*models.Inventory, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}

	var updated *models.Inventory
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if err := checkCategory(ctx, tx, in.CategoryID); err != nil {
			return err
		}
		if _, err := s.mutableInventory(ctx, tx, identity, id); err != nil {
			return err
		}
		if err := tx.InventoryRepo().UpdateDetails(ctx, id, in.Title, in.CategoryID); err != nil {
			return errs.NewDatabaseError("update", "inventory", err)
		}

		var err error
		updated, err = tx.InventoryRepo().FindDetails(ctx, id)
		if err != nil {
			return errs.NewDatabaseError("find", "inventory", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("update inventory", err)
	}
	return updated, nil
}

// DeleteInventory removes an inventory with its fields, items, values and tag links.
// Tags and categories stay.
func (s *Service) DeleteInventory(ctx context.Context, identity auth.Identity, id uuid.UUID) (database.DeleteReport, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}

	var report database.DeleteReport
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := s.mutableInventory(ctx, tx, identity, id); err != nil {
			return err
		}
		var err error
		report, err = tx.Delete(ctx, "inventories", id)
		return err
	})
	if err != nil {
		return nil, txError("delete inventory", err)
	}

	s.logger.Info().
		Str("inventoryId", id.String()).
		Interface("deleted", report).
		Msg("inventory deleted")
	return report, nil
}

// AddField appends a field to an inventory's schema. Existing items get no value for it.
func (s *Service) AddField(ctx context.Context, identity auth.Identity, inventoryID uuid.UUID, in FieldInput) (*models.Field, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}

	var field *models.Field
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		inventory, err := s.mutableInventory(ctx, tx, identity, inventoryID)
		if err != nil {
			return err
		}
		if inventory.HasFieldNamed(in.Name, uuid.Nil) {
			return errs.NewConflictError("field name " + strconv.Quote(in.Name) + " already exists in this inventory")
		}

		next := 0
		for _, f := range inventory.Fields {
			if f.Order >= next {
				next = f.Order + 1
			}
		}
		field = in.field(inventory.ID, next)
		if err := tx.FieldRepo().Add(ctx, field); err != nil {
			return errs.NewDatabaseError("create", "field", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("add field", err)
	}
	return field, nil
}

// RenameField changes the name of a field. Values are keyed by field id and keep
// pointing at the renamed field.
func (s *Service) RenameField(ctx context.Context, identity auth.Identity, fieldID uuid.UUID, newName string) (*models.Field, error) {
	if err := requireAuthenticated(identity); err != nil {
		return nil, err
	}
	in := renameFieldInput{Name: strings.TrimSpace(newName)}
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}

	var field *models.Field
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		field, err = tx.FieldRepo().FindByID(ctx, fieldID)
		if err != nil {
			return errs.NewDatabaseError("find", "field", err)
		}
		inventory, err := s.mutableInventory(ctx, tx, identity, field.InventoryID)
		if err != nil {
			return err
		}
		if field.Name == in.Name {
			return nil
		}
		if inventory.HasFieldNamed(in.Name, field.ID) {
			return errs.NewConflictError("field name " + strconv.Quote(in.Name) + " already exists in this inventory")
		}
		if err := tx.FieldRepo().Rename(ctx, field.ID, in.Name); err != nil {
			return errs.NewDatabaseError("update", "field", err)
		}
		field.Name = in.Name
		return nil
	})
	if err != nil {
		return nil, txError("rename field", err)
	}
	return field, nil
}

// mutableInventory loads an inventory with its fields and checks identity may change it
func (s *Service) mutableInventory(ctx context.Context, tx database.Database, identity auth.Identity, id uuid.UUID) (*models.Inventory, error) {
	inventory, err := tx.InventoryRepo().FindWithFields(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "inventory", err)
	}
	if !auth.CanMutate(identity, inventory) {
		s.logger.Warn().
			Str("inventoryId", id.String()).
			Str("userId", identity.UserID).
			Msg("mutation refused")
		return nil, errs.NewNotOwnerError("inventory")
	}
	return inventory, nil
}
