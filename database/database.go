package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Database struct {
	db            *gorm.DB
	categoryRepo  *CategoryRepo
	tagRepo       *TagRepo
	inventoryRepo *InventoryRepo
	fieldRepo     *FieldRepo
	itemRepo      *ItemRepo
	deletion      *DeletionGraph
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return newDatabase(db, CatalogGraph())
}

func newDatabase(db *gorm.DB, deletion *DeletionGraph) Database {
	return Database{
		db:            db,
		categoryRepo:  NewCategoryRepo(db),
		tagRepo:       NewTagRepo(db),
		inventoryRepo: NewInventoryRepo(db),
		fieldRepo:     NewFieldRepo(db),
		itemRepo:      NewItemRepo(db),
		deletion:      deletion,
	}
}

// Accessor methods for each repository

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) InventoryRepo() *InventoryRepo {
	return d.inventoryRepo
}

func (d Database) FieldRepo() *FieldRepo {
	return d.fieldRepo
}

func (d Database) ItemRepo() *ItemRepo {
	return d.itemRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fn against repositories bound to a single transaction. Returning an
// error from fn rolls everything back.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newDatabase(tx, d.deletion))
	})
}

// Delete removes the rows of table identified by ids together with everything the
// catalogue deletion graph cascades to. Call it inside Transaction.
func (d Database) Delete(ctx context.Context, table string, ids ...uuid.UUID) (DeleteReport, error) {
	return d.deletion.Delete(ctx, d.db, table, ids)
}
