// Package catalog implements the inventory operations: schema definition, item values,
// listing and the read model with numeric averages. Every mutating operation runs in a
// single transaction and checks its arguments, then existence, then ownership, then
// conflicts, before writing anything.
package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/aggregate"
	"github.com/rpupo63/inventory-catalog/auth"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rpupo63/inventory-catalog/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	db        database.Database
	validator *inputValidator
	logger    zerolog.Logger
}

func NewService(db database.Database) *Service {
	return &Service{
		db:        db,
		validator: newInputValidator(),
		logger:    log.With().Str("component", "catalog").Logger(),
	}
}

// GetInventory loads the full read model of an inventory. identity only decides CanEdit
// and may be anonymous.
func (s *Service) GetInventory(ctx context.Context, identity auth.Identity, id uuid.UUID) (*InventoryDetails, error) {
	inventory, err := s.db.InventoryRepo().FindDetails(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "inventory", err)
	}

	position := make(map[uuid.UUID]int, len(inventory.Fields))
	for i, f := range inventory.Fields {
		position[f.ID] = i
	}
	for i := range inventory.Items {
		values := inventory.Items[i].Values
		sort.SliceStable(values, func(a, b int) bool {
			return position[values[a].FieldID] < position[values[b].FieldID]
		})
	}

	return &InventoryDetails{
		Inventory: *inventory,
		Tags:      inventory.Tags(),
		Averages:  aggregate.NumericAverages(inventory),
		CanEdit:   auth.CanMutate(identity, inventory),
	}, nil
}

// ListInventories returns the inventories matching filter, newest first
func (s *Service) ListInventories(ctx context.Context, filter Filter) ([]InventorySummary, error) {
	inventories, err := s.db.InventoryRepo().List(ctx, database.InventoryFilter{
		Query:      filter.Query,
		CategoryID: filter.CategoryID,
		Tag:        filter.Tag,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "inventories", err)
	}

	summaries := make([]InventorySummary, 0, len(inventories))
	for i := range inventories {
		summaries = append(summaries, InventorySummary{
			Inventory: inventories[i],
			Tags:      inventories[i].Tags(),
		})
	}
	return summaries, nil
}

// Browse loads a filtered listing together with every category and tag
func (s *Service) Browse(ctx context.Context, filter Filter) (*BrowseResult, error) {
	var result BrowseResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		inventories, err := s.ListInventories(gctx, filter)
		result.Inventories = inventories
		return err
	})
	g.Go(func() error {
		categories, err := s.ListCategories(gctx)
		result.Categories = categories
		return err
	})
	g.Go(func() error {
		tags, err := s.ListTags(gctx)
		result.Tags = tags
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.db.CategoryRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "categories", err)
	}
	return categories, nil
}

func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.db.TagRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	return tags, nil
}

// SeedCategories makes sure every named category exists
func (s *Service) SeedCategories(ctx context.Context, names []string) error {
	created, err := s.db.CategoryRepo().EnsureDefaults(ctx, names)
	if err != nil {
		return errs.NewDatabaseError("seed", "categories", err)
	}
	if created > 0 {
		s.logger.Info().Int64("created", created).Msg("seeded categories")
	}
	return nil
}

// txError leaves classified errors alone and reports anything else, such as a failed
// commit, as a transaction failure
func txError(operation string, err error) error {
	var apiErr *errs.ApiErr
	if err == nil || errors.As(err, &apiErr) {
		return err
	}
	return errs.NewTransactionFailedError(operation, err)
}

func requireAuthenticated(identity auth.Identity) error {
	if !identity.Authenticated() {
		return errs.NewMissingTokenError()
	}
	return nil
}

// checkCategory resolves an optional category reference; unknown ids are an argument
// error, not a missing resource
func checkCategory(ctx context.Context, tx database.Database, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := tx.CategoryRepo().FindByID(ctx, *id); err != nil {
		dbErr := errs.NewDatabaseError("find", "category", err)
		if errs.IsNotFound(dbErr) {
			return errs.NewInvalidFieldError("categoryId", "unknown category")
		}
		return dbErr
	}
	return nil
}
