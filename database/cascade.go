package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeletePolicy says what happens to referencing rows when a referenced row is deleted
type DeletePolicy int

const (
	// Cascade deletes the referencing rows as well
	Cascade DeletePolicy = iota
	// Restrict refuses the delete while referencing rows remain
	Restrict
)

func (p DeletePolicy) String() string {
	switch p {
	case Cascade:
		return "cascade"
	case Restrict:
		return "restrict"
	}
	return fmt.Sprintf("DeletePolicy(%d)", int(p))
}

// Edge is a foreign key from Child.Column to the key of Parent
type Edge struct {
	Parent string
	Child  string
	Column string
	Policy DeletePolicy
}

// DeleteReport counts the rows removed per table
type DeleteReport map[string]int64

func (r DeleteReport) Total() int64 {
	var total int64
	for _, n := range r {
		total += n
	}
	return total
}

const deleteChunkSize = 500

// DeletionGraph is the dependency graph between tables. Tables with an empty key
// column (join tables with composite keys) may only appear as children.
type DeletionGraph struct {
	keys     map[string]string
	children map[string][]Edge
	order    []string // children before parents
}

// NewDeletionGraph validates the edges and precomputes the deletion order
func NewDeletionGraph(keys map[string]string, edges ...Edge) (*DeletionGraph, error) {
	g := &DeletionGraph{
		keys:     keys,
		children: make(map[string][]Edge),
	}

	for _, e := range edges {
		parentKey, ok := keys[e.Parent]
		if !ok {
			return nil, fmt.Errorf("deletion graph: unknown table %q", e.Parent)
		}
		if _, ok := keys[e.Child]; !ok {
			return nil, fmt.Errorf("deletion graph: unknown table %q", e.Child)
		}
		if parentKey == "" {
			return nil, fmt.Errorf("deletion graph: table %q has no key and cannot be referenced", e.Parent)
		}
		if e.Column == "" {
			return nil, fmt.Errorf("deletion graph: edge %s -> %s has no column", e.Parent, e.Child)
		}
		g.children[e.Parent] = append(g.children[e.Parent], e)
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// CatalogGraph describes the catalogue schema: inventories own their fields, items and
// tag links; items own their values; values pin the field they hold data for.
func CatalogGraph() *DeletionGraph {
	g, err := NewDeletionGraph(
		map[string]string{
			"categories":       "id",
			"tags":             "id",
			"inventories":      "id",
			"inventory_tags":   "",
			"inventory_fields": "id",
			"items":            "id",
			"item_fields":      "id",
		},
		Edge{Parent: "categories", Child: "inventories", Column: "category_id", Policy: Restrict},
		Edge{Parent: "inventories", Child: "inventory_fields", Column: "inventory_id", Policy: Cascade},
		Edge{Parent: "inventories", Child: "items", Column: "inventory_id", Policy: Cascade},
		Edge{Parent: "inventories", Child: "inventory_tags", Column: "inventory_id", Policy: Cascade},
		Edge{Parent: "tags", Child: "inventory_tags", Column: "tag_id", Policy: Cascade},
		Edge{Parent: "items", Child: "item_fields", Column: "item_id", Policy: Cascade},
		Edge{Parent: "inventory_fields", Child: "item_fields", Column: "field_id", Policy: Restrict},
	)
	if err != nil {
		panic(err)
	}
	return g
}

// Order returns the tables in the order rows are deleted: every table comes before the
// tables it references.
func (g *DeletionGraph) Order() []string {
	return append([]string(nil), g.order...)
}

func (g *DeletionGraph) topologicalOrder() ([]string, error) {
	tables := make([]string, 0, len(g.keys))
	for t := range g.keys {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	emitted := make(map[string]bool, len(tables))
	order := make([]string, 0, len(tables))
	for len(order) < len(tables) {
		progressed := false
		for _, t := range tables {
			if emitted[t] {
				continue
			}
			ready := true
			for _, e := range g.children[t] {
				if !emitted[e.Child] {
					ready = false
					break
				}
			}
			if ready {
				emitted[t] = true
				order = append(order, t)
				progressed = true
			}
		}
		if !progressed {
			return nil, fmt.Errorf("deletion graph: cycle between tables")
		}
	}
	return order, nil
}

type keyedRows map[uuid.UUID]struct{}

func (k keyedRows) slice() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(k))
	for id := range k {
		ids = append(ids, id)
	}
	return ids
}

// keylessDelete removes join rows by the column pointing at already planned parents
type keylessDelete struct {
	column string
	ids    []uuid.UUID
}

// Delete removes ids from table and walks the graph: cascade edges pull referencing
// rows into the same delete, restrict edges abort the whole delete with a conflict when
// a referencing row would survive. Rows go children first. db should be a transaction.
func (g *DeletionGraph) Delete(ctx context.Context, db *gorm.DB, table string, ids []uuid.UUID) (DeleteReport, error) {
	key, ok := g.keys[table]
	if !ok || key == "" {
		return nil, fmt.Errorf("deletion graph: cannot delete from %q by key", table)
	}
	db = db.WithContext(ctx)

	plan := map[string]keyedRows{table: {}}
	for _, id := range ids {
		plan[table][id] = struct{}{}
	}
	keyless := make(map[string][]keylessDelete)

	type pending struct {
		table string
		ids   []uuid.UUID
	}
	queue := []pending{{table: table, ids: plan[table].slice()}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.children[current.table] {
			if e.Policy != Cascade {
				continue
			}
			childKey := g.keys[e.Child]
			if childKey == "" {
				keyless[e.Child] = append(keyless[e.Child], keylessDelete{column: e.Column, ids: current.ids})
				continue
			}

			childIDs, err := g.referencing(db, e, childKey, current.ids)
			if err != nil {
				return nil, err
			}
			if plan[e.Child] == nil {
				plan[e.Child] = keyedRows{}
			}
			var fresh []uuid.UUID
			for _, id := range childIDs {
				if _, seen := plan[e.Child][id]; !seen {
					plan[e.Child][id] = struct{}{}
					fresh = append(fresh, id)
				}
			}
			if len(fresh) > 0 {
				queue = append(queue, pending{table: e.Child, ids: fresh})
			}
		}
	}

	if err := g.checkRestrictions(db, plan); err != nil {
		return nil, err
	}

	report := DeleteReport{}
	for _, t := range g.order {
		for _, kd := range keyless[t] {
			n, err := deleteWhereIn(db, t, kd.column, kd.ids)
			if err != nil {
				return nil, errs.NewDatabaseError("delete", t, err)
			}
			report[t] += n
		}
		if rows := plan[t]; len(rows) > 0 {
			n, err := deleteWhereIn(db, t, g.keys[t], rows.slice())
			if err != nil {
				return nil, errs.NewDatabaseError("delete", t, err)
			}
			report[t] += n
		}
	}
	return report, nil
}

// referencing returns the keys of child rows whose edge column points at parentIDs
func (g *DeletionGraph) referencing(db *gorm.DB, e Edge, childKey string, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, chunk := range chunkIDs(parentIDs) {
		var ids []uuid.UUID
		err := db.Table(e.Child).
			Where("? IN ?", clause.Column{Name: e.Column}, chunk).
			Pluck(childKey, &ids).Error
		if err != nil {
			return nil, errs.NewDatabaseError("find", e.Child, err)
		}
		out = append(out, ids...)
	}
	return out, nil
}

// checkRestrictions looks up the rows referencing planned parents through restrict
// edges, one chunk of parents at a time, and fails if any of them is not planned too
func (g *DeletionGraph) checkRestrictions(db *gorm.DB, plan map[string]keyedRows) error {
	for parent, rows := range plan {
		if len(rows) == 0 {
			continue
		}
		for _, e := range g.children[parent] {
			if e.Policy != Restrict {
				continue
			}
			childKey := g.keys[e.Child]
			planned := plan[e.Child]

			for _, chunk := range chunkIDs(rows.slice()) {
				var count int64
				if childKey == "" {
					err := db.Table(e.Child).Where("? IN ?", clause.Column{Name: e.Column}, chunk).Count(&count).Error
					if err != nil {
						return errs.NewDatabaseError("count", e.Child, err)
					}
				} else {
					var ids []uuid.UUID
					err := db.Table(e.Child).Where("? IN ?", clause.Column{Name: e.Column}, chunk).Pluck(childKey, &ids).Error
					if err != nil {
						return errs.NewDatabaseError("find", e.Child, err)
					}
					for _, id := range ids {
						if _, ok := planned[id]; !ok {
							count++
						}
					}
				}
				if count > 0 {
					return errs.NewRestrictedDeleteError(parent, fmt.Sprintf("%d %s rows", count, e.Child), nil)
				}
			}
		}
	}
	return nil
}

func deleteWhereIn(db *gorm.DB, table, column string, ids []uuid.UUID) (int64, error) {
	var total int64
	for _, chunk := range chunkIDs(ids) {
		res := db.Exec("DELETE FROM ? WHERE ? IN ?", clause.Table{Name: table}, clause.Column{Name: column}, chunk)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}

func chunkIDs(ids []uuid.UUID) [][]uuid.UUID {
	var chunks [][]uuid.UUID
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
