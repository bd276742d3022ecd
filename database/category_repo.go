package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns every category ordered by name
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// FindByID returns a category by its ID
func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// EnsureDefaults inserts any of names that does not exist yet and reports how many were
// created
func (r *CategoryRepo) EnsureDefaults(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&categories)
	return res.RowsAffected, res.Error
}
