package database

import (
	"context"

	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns every tag ordered by name
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindByNames returns the tags whose name is one of names
func (r *TagRepo) FindByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindOrCreate returns one tag per name, creating the missing ones first. Names must
// already be normalised. A concurrent writer creating the same name is absorbed by the
// ON CONFLICT clause and the row is read back.
func (r *TagRepo) FindOrCreate(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	existing, err := r.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Name] = true
	}

	var missing []models.Tag
	for _, name := range names {
		if !known[name] {
			missing = append(missing, models.Tag{Name: name})
		}
	}
	if len(missing) == 0 {
		return existing, nil
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&missing).Error
	if err != nil {
		return nil, err
	}

	return r.FindByNames(ctx, names)
}
